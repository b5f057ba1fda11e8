package collector

import (
	"time"

	"ExpoScreener/internal/model"
)

// Provider defines the market data operations the screener depends on.
type Provider interface {
	// LatestClose returns the closing price of the most recent trading
	// session, or an error when the symbol has no price observation.
	LatestClose(symbol string) (float64, error)
	// DailyHistory returns daily closes over [start, end], adjusted for
	// splits and dividends when the source supplies adjusted values.
	DailyHistory(symbol string, start, end time.Time) (model.PriceSeries, error)
	// CompanyProfile returns issuer metadata for a validated symbol.
	CompanyProfile(symbol string) (model.SymbolInfo, error)
	Name() string
}

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Price      float64
	History    model.PriceSeries
	Info       model.SymbolInfo
	LatestErr  error
	HistoryErr error
	ProfileErr error
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) LatestClose(_ string) (float64, error) {
	if m.LatestErr != nil {
		return 0, m.LatestErr
	}
	return m.Price, nil
}

func (m *MockProvider) DailyHistory(_ string, _, _ time.Time) (model.PriceSeries, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	if m.History != nil {
		return m.History, nil
	}
	return GenerateMockSeries(m.Price, 30), nil
}

func (m *MockProvider) CompanyProfile(symbol string) (model.SymbolInfo, error) {
	if m.ProfileErr != nil {
		return model.SymbolInfo{}, m.ProfileErr
	}
	info := m.Info
	if info.Ticker == "" {
		info.Ticker = symbol
	}
	return info, nil
}

// GenerateMockSeries produces a gently drifting daily series around a base price.
func GenerateMockSeries(basePrice float64, count int) model.PriceSeries {
	series := make(model.PriceSeries, count)
	for i := 0; i < count; i++ {
		series[i] = model.PricePoint{
			Date:  time.Now().AddDate(0, 0, -(count - i)),
			Price: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return series
}
