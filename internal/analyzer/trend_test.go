package analyzer

import (
	"errors"
	"math"
	"testing"
	"time"

	"ExpoScreener/internal/model"
)

func seriesOf(prices ...float64) model.PriceSeries {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(model.PriceSeries, len(prices))
	for i, p := range prices {
		series[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Price: p}
	}
	return series
}

func TestAnalyze_ExactExponentialGrowth(t *testing.T) {
	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = 100 * math.Exp(0.01*float64(i))
	}
	res, err := Analyze(seriesOf(prices...), 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsExponential {
		t.Error("expected exponential classification for exact exponential series")
	}
	if math.Abs(res.R2-1.0) > 1e-9 {
		t.Errorf("expected R2 ~ 1.0, got %.12f", res.R2)
	}
	if math.Abs(res.Slope-0.01) > 1e-9 {
		t.Errorf("expected slope ~ 0.01, got %.12f", res.Slope)
	}
	if len(res.Predicted) != len(prices) {
		t.Fatalf("expected %d predicted points, got %d", len(prices), len(res.Predicted))
	}
	for i, p := range res.Predicted {
		if math.Abs(p.Price-prices[i])/prices[i] > 1e-9 {
			t.Fatalf("predicted[%d] = %.6f, want %.6f", i, p.Price, prices[i])
		}
	}
}

func TestAnalyze_ConstantSeries(t *testing.T) {
	res, err := Analyze(seriesOf(100, 100, 100, 100, 100, 100, 100, 100, 100, 100), 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsExponential {
		t.Error("constant series must not classify as exponential")
	}
	if res.R2 != 0 {
		t.Errorf("expected R2 = 0 for constant series, got %.6f", res.R2)
	}
	if res.Slope != 0 {
		t.Errorf("expected slope = 0 for constant series, got %.6f", res.Slope)
	}
	if res.Predicted != nil {
		t.Error("no predicted series expected for a negative classification")
	}
}

func TestAnalyze_DecayingExponential(t *testing.T) {
	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = 100 * math.Exp(-0.01*float64(i))
	}
	res, err := Analyze(seriesOf(prices...), 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsExponential {
		t.Error("decaying series must not classify as exponential growth")
	}
	if res.R2 < 0.99 {
		t.Errorf("decay still fits the log-linear model, expected high R2, got %.6f", res.R2)
	}
	if res.Slope >= 0 {
		t.Errorf("expected negative slope, got %.6f", res.Slope)
	}
	if res.Predicted != nil {
		t.Error("no predicted series expected for a negative classification")
	}
}

func TestAnalyze_MissingValuesDropped(t *testing.T) {
	series := seriesOf(100, math.NaN(), 110, math.Inf(1), 121)
	res, err := Analyze(series, 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsExponential {
		t.Error("expected classification to survive dropped missing values")
	}
}

func TestAnalyze_InsufficientData(t *testing.T) {
	cases := []model.PriceSeries{
		nil,
		seriesOf(100),
		seriesOf(100, math.NaN()),
	}
	for i, series := range cases {
		if _, err := Analyze(series, 0.8); !errors.Is(err, ErrInsufficientData) {
			t.Errorf("case %d: expected ErrInsufficientData, got %v", i, err)
		}
	}
}

func TestAnalyze_NonPositivePrice(t *testing.T) {
	if _, err := Analyze(seriesOf(100, -5, 110), 0.8); !errors.Is(err, ErrInvalidPriceData) {
		t.Errorf("expected ErrInvalidPriceData, got %v", err)
	}
	if _, err := Analyze(seriesOf(100, 0, 110), 0.8); !errors.Is(err, ErrInvalidPriceData) {
		t.Errorf("expected ErrInvalidPriceData for zero price, got %v", err)
	}
}

func TestCAGR_KnownGrowth(t *testing.T) {
	final := 100 * math.Pow(1.10, 5)
	cagr, err := CAGR(seriesOf(100, 105, 130, final), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(cagr-0.10) > 1e-9 {
		t.Errorf("expected CAGR = 0.10, got %.12f", cagr)
	}
}

func TestCAGR_Errors(t *testing.T) {
	if _, err := CAGR(seriesOf(100), 5); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := CAGR(seriesOf(0, 100), 5); !errors.Is(err, ErrDegenerateSeries) {
		t.Errorf("expected ErrDegenerateSeries, got %v", err)
	}
}
