package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"ExpoScreener/internal/model"
)

// YahooProvider implements Provider using Yahoo Finance public APIs.
type YahooProvider struct {
	Client *http.Client
}

// NewYahooProvider creates a new Yahoo Finance provider.
func NewYahooProvider(proxyURL string) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooProvider{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSummary is the response structure from the quoteSummary API.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Address1            string `json:"address1"`
				Address2            string `json:"address2"`
				City                string `json:"city"`
				State               string `json:"state"`
				Zip                 string `json:"zip"`
				Country             string `json:"country"`
				LongBusinessSummary string `json:"longBusinessSummary"`
			} `json:"assetProfile"`
			Price struct {
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
				MarketCap struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (p *YahooProvider) fetchChart(symbol, query string) (model.PriceSeries, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?%s",
		url.PathEscape(symbol), query)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote indicators returned")
	}
	closes := result.Indicators.Quote[0].Close
	// Prefer the split/dividend-adjusted close when Yahoo supplies it.
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == len(closes) {
		closes = result.Indicators.AdjClose[0].AdjClose
	}

	series := make(model.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}
		c := toFloat(closes[i])
		if c == 0 {
			continue // skip null observations (holidays etc.)
		}
		series = append(series, model.PricePoint{
			Date:  time.Unix(ts, 0),
			Price: c,
		})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

func (p *YahooProvider) LatestClose(symbol string) (float64, error) {
	series, err := p.fetchChart(symbol, "interval=1d&range=1d")
	if err != nil {
		return 0, err
	}
	if len(series) == 0 {
		return 0, fmt.Errorf("yahoo: no price in latest session")
	}
	return series[len(series)-1].Price, nil
}

func (p *YahooProvider) DailyHistory(symbol string, start, end time.Time) (model.PriceSeries, error) {
	query := fmt.Sprintf("interval=1d&period1=%d&period2=%d&includeAdjustedClose=true",
		start.Unix(), end.Unix())
	return p.fetchChart(symbol, query)
}

func (p *YahooProvider) CompanyProfile(symbol string) (model.SymbolInfo, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=assetProfile%%2Cprice",
		url.PathEscape(symbol))

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return model.SymbolInfo{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return model.SymbolInfo{}, fmt.Errorf("yahoo profile fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.SymbolInfo{}, fmt.Errorf("yahoo profile read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.SymbolInfo{}, fmt.Errorf("yahoo profile: status %d, body: %s", resp.StatusCode, string(body))
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return model.SymbolInfo{}, fmt.Errorf("yahoo profile decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return model.SymbolInfo{}, fmt.Errorf("yahoo profile api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return model.SymbolInfo{}, fmt.Errorf("yahoo profile: no result for %s", symbol)
	}

	r := summary.QuoteSummary.Result[0]
	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}
	return model.SymbolInfo{
		Ticker:      symbol,
		Name:        name,
		MarketCap:   r.Price.MarketCap.Raw,
		Description: r.AssetProfile.LongBusinessSummary,
		Address1:    r.AssetProfile.Address1,
		Address2:    r.AssetProfile.Address2,
		City:        r.AssetProfile.City,
		State:       r.AssetProfile.State,
		Zip:         r.AssetProfile.Zip,
		Country:     r.AssetProfile.Country,
	}, nil
}
