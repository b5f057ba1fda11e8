package collector

import (
	"log"
	"time"

	"ExpoScreener/internal/model"
)

// Client wraps a market data Provider with the screener's rate-limit
// discipline and folds provider faults into non-fatal skip outcomes.
// Every provider call goes through the throttle; each symbol gets one
// validation attempt and one fetch attempt per run, no retries.
type Client struct {
	provider Provider
	throttle *Throttle
}

// NewClient creates a rate-limited client around a provider.
func NewClient(provider Provider, requestDelay time.Duration) *Client {
	return &Client{
		provider: provider,
		throttle: NewThrottle(requestDelay),
	}
}

// Validate checks that a ticker traded in the most recent session and
// collects issuer metadata. ok is false when the session has no price
// observation or any provider call fails; that outcome is logged and
// never escalated.
func (c *Client) Validate(symbol string) (model.SymbolInfo, bool) {
	c.throttle.Wait()
	price, err := c.provider.LatestClose(symbol)
	if err != nil {
		log.Printf("[WARN] %s: validation failed: %v", symbol, err)
		return model.SymbolInfo{}, false
	}
	if price <= 0 {
		log.Printf("[WARN] %s: no price in latest session, invalid or delisted", symbol)
		return model.SymbolInfo{}, false
	}

	c.throttle.Wait()
	info, err := c.provider.CompanyProfile(symbol)
	if err != nil {
		log.Printf("[WARN] %s: profile lookup failed: %v", symbol, err)
		return model.SymbolInfo{}, false
	}
	if info.Ticker == "" {
		info.Ticker = symbol
	}
	return info, true
}

// FetchHistory retrieves daily closes over the lookback window ending
// today. ok is false when the provider fails or has no data in range.
func (c *Client) FetchHistory(symbol string, lookbackYears int) (model.PriceSeries, bool) {
	end := time.Now()
	start := end.AddDate(-lookbackYears, 0, 0)

	c.throttle.Wait()
	series, err := c.provider.DailyHistory(symbol, start, end)
	if err != nil {
		log.Printf("[WARN] %s: history fetch failed: %v", symbol, err)
		return nil, false
	}
	if len(series) == 0 {
		log.Printf("[WARN] %s: no historical data in range", symbol)
		return nil, false
	}
	return series, true
}
