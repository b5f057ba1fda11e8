package analyzer

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"ExpoScreener/internal/model"
)

var (
	// ErrInsufficientData means fewer than two usable observations remain.
	ErrInsufficientData = errors.New("insufficient data: need at least 2 price points")
	// ErrInvalidPriceData means a non-positive price blocks the log transform.
	ErrInvalidPriceData = errors.New("invalid price data: prices must be positive")
	// ErrDegenerateSeries means the CAGR base price is not positive.
	ErrDegenerateSeries = errors.New("degenerate series: initial price must be positive")
)

// Result holds the outcome of one trend classification pass.
type Result struct {
	IsExponential bool
	R2            float64
	Slope         float64
	Predicted     model.PriceSeries // only set when IsExponential
}

// Analyze fits log(price) against a 0..n-1 time index by ordinary
// least squares and classifies the series as exponential growth when
// R2 meets the threshold and the fitted slope is positive. A decaying
// or flat exponential (slope <= 0) is never classified as growth, and
// no predicted series is produced for a negative classification.
func Analyze(series model.PriceSeries, r2Threshold float64) (Result, error) {
	clean := dropMissing(series)
	if len(clean) < 2 {
		return Result{}, ErrInsufficientData
	}

	xs := make([]float64, len(clean))
	logs := make([]float64, len(clean))
	for i, p := range clean {
		if p.Price <= 0 {
			return Result{}, ErrInvalidPriceData
		}
		xs[i] = float64(i)
		logs[i] = math.Log(p.Price)
	}

	intercept, slope := stat.LinearRegression(xs, logs, nil, false)

	predictedLogs := make([]float64, len(xs))
	for i, x := range xs {
		predictedLogs[i] = intercept + slope*x
	}

	r2 := stat.RSquaredFrom(predictedLogs, logs, nil)
	if math.IsNaN(r2) {
		r2 = 0 // constant series: SS_tot is zero, R2 defined as 0
	}

	res := Result{R2: r2, Slope: slope}
	if r2 >= r2Threshold && slope > 0 {
		res.IsExponential = true
		predicted := make(model.PriceSeries, len(clean))
		for i, p := range clean {
			predicted[i] = model.PricePoint{
				Date:  p.Date,
				Price: math.Exp(predictedLogs[i]),
			}
		}
		res.Predicted = predicted
	}
	return res, nil
}

// CAGR returns the compounded annual growth rate implied by growing
// from the first to the last price of the series over the lookback
// window. years is the configured window, not the span of the series.
func CAGR(series model.PriceSeries, years float64) (float64, error) {
	if len(series) < 2 {
		return 0, ErrInsufficientData
	}
	initial := series[0].Price
	final := series[len(series)-1].Price
	if initial <= 0 {
		return 0, ErrDegenerateSeries
	}
	return math.Pow(final/initial, 1/years) - 1, nil
}

func dropMissing(series model.PriceSeries) model.PriceSeries {
	clean := make(model.PriceSeries, 0, len(series))
	for _, p := range series {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			continue
		}
		clean = append(clean, p)
	}
	return clean
}
