package model

import (
	"path/filepath"
	"time"
)

// CandidateSymbol is one entry from the symbol directory lookup.
// It is consumed once by the screener and never persisted.
type CandidateSymbol struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	Currency      string `json:"currency"`
}

// SymbolInfo holds issuer metadata collected at validation time.
// Fields other than Ticker may be empty when the provider does not
// supply them; the record is immutable after validation.
type SymbolInfo struct {
	Ticker      string
	Name        string
	MarketCap   float64
	Description string
	Address1    string
	Address2    string
	City        string
	State       string
	Zip         string
	Country     string
}

// PricePoint is a single (date, price) observation.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceSeries is an ordered sequence of observations, strictly
// increasing by date with no duplicates.
type PriceSeries []PricePoint

// ChartPath returns the conventional chart artifact path for a ticker,
// consumed by the downstream report renderer.
func ChartPath(chartsDir, ticker string) string {
	return filepath.Join(chartsDir, ticker+"_chart.png")
}
