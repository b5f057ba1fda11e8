package screener

import (
	"fmt"
	"log"

	"ExpoScreener/internal/analyzer"
	"ExpoScreener/internal/cache"
	"ExpoScreener/internal/collector"
	"ExpoScreener/internal/directory"
	"ExpoScreener/internal/model"
)

// Screener drives a bounded scan over candidate symbols: validate,
// fetch history, classify, accumulate, persist. It is the only owner
// of the batch accumulator and the cache artifact during a run.
type Screener struct {
	Directory     directory.Directory
	Client        *collector.Client
	Cache         cache.Store
	LookbackYears int
	R2Threshold   float64
}

// New creates a Screener from its collaborators.
func New(dir directory.Directory, client *collector.Client, store cache.Store, lookbackYears int, r2Threshold float64) *Screener {
	return &Screener{
		Directory:     dir,
		Client:        client,
		Cache:         store,
		LookbackYears: lookbackYears,
		R2Threshold:   r2Threshold,
	}
}

// Run scans candidates in directory order until targetCount usable
// records are assembled or the candidates are exhausted, whichever
// comes first, then persists the batch. A single symbol's validation
// or fetch failure never aborts the scan; it is logged and the next
// candidate is tried.
func (s *Screener) Run(targetCount int) (model.Batch, error) {
	candidates, err := s.Directory.Symbols()
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	log.Printf("[INFO] scanning for %d usable symbols among %d candidates", targetCount, len(candidates))

	batch := make(model.Batch, 0, targetCount)
	for _, cand := range candidates {
		if len(batch) == targetCount {
			break
		}
		symbol := cand.DisplaySymbol
		if symbol == "" {
			symbol = cand.Symbol
		}

		info, ok := s.Client.Validate(symbol)
		if !ok {
			log.Printf("[INFO] %s: skipped, invalid or delisted", symbol)
			continue
		}

		history, ok := s.Client.FetchHistory(symbol, s.LookbackYears)
		if !ok {
			log.Printf("[INFO] %s: skipped, no historical data", symbol)
			continue
		}

		rec := model.SymbolRecord{Info: info, History: history}
		s.classify(&rec)
		batch = append(batch, rec)
	}

	if err := s.Cache.Save(batch); err != nil {
		return batch, fmt.Errorf("save batch: %w", err)
	}
	log.Printf("[INFO] scan complete: %d records cached", len(batch))
	return batch, nil
}

// classify attaches trend statistics to a record. Analysis failures
// (too few points, non-positive prices) leave the trend fields at
// their zero defaults; the record stays in the batch either way, and
// R2/CAGR are only attached for a positive classification.
func (s *Screener) classify(rec *model.SymbolRecord) {
	res, err := analyzer.Analyze(rec.History, s.R2Threshold)
	if err != nil {
		log.Printf("[WARN] %s: trend analysis skipped: %v", rec.Info.Ticker, err)
		return
	}
	if !res.IsExponential {
		return
	}

	cagr, err := analyzer.CAGR(rec.History, float64(s.LookbackYears))
	if err != nil {
		// Unreachable after Analyze's positive-price check, handled anyway.
		log.Printf("[WARN] %s: cagr computation failed: %v", rec.Info.Ticker, err)
		return
	}

	rec.Trend = model.TrendResult{
		IsExponential: true,
		R2:            res.R2,
		CAGR:          cagr,
		Predicted:     res.Predicted,
	}
}

// LoadCached returns the previously persisted batch. A missing or
// corrupt artifact is surfaced to the caller; there is no fallback to
// re-acquisition here.
func (s *Screener) LoadCached() (model.Batch, error) {
	return s.Cache.Load()
}
