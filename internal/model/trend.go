package model

// TrendResult is the output of the trend analyzer for one symbol.
// When classification fails or the series does not qualify, all fields
// stay at their zero values; IsExponential is the authoritative flag
// (an R2 or CAGR of 0 is not distinguishable from "unclassified").
type TrendResult struct {
	IsExponential bool
	R2            float64
	CAGR          float64
	Predicted     PriceSeries // only set when IsExponential
}

// SymbolRecord composes everything known about one screened symbol.
// Created during a single run, trend fields attached by the analyzer
// step, never mutated after caching.
type SymbolRecord struct {
	Info    SymbolInfo
	History PriceSeries
	Trend   TrendResult
}

// Batch is the ordered result of one screening run and the sole unit
// the cache store persists.
type Batch []SymbolRecord
