package collector

import (
	"fmt"
	"sort"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"ExpoScreener/internal/model"
)

// AlpacaProvider implements Provider using the Alpaca trading and
// market data APIs.
type AlpacaProvider struct {
	trading *alpaca.Client
	market  *marketdata.Client
}

// NewAlpacaProvider creates Alpaca clients from API credentials.
func NewAlpacaProvider(apiKey, apiSecret string) *AlpacaProvider {
	return &AlpacaProvider{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   "https://paper-api.alpaca.markets",
		}),
		market: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (p *AlpacaProvider) Name() string { return "alpaca" }

func (p *AlpacaProvider) LatestClose(symbol string) (float64, error) {
	trade, err := p.market.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return 0, fmt.Errorf("alpaca latest trade: %w", err)
	}
	if trade == nil || trade.Price <= 0 {
		return 0, fmt.Errorf("alpaca: no trade price for %s", symbol)
	}
	return trade.Price, nil
}

func (p *AlpacaProvider) DailyHistory(symbol string, start, end time.Time) (model.PriceSeries, error) {
	bars, err := p.market.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      start,
		End:        end,
		Adjustment: marketdata.All,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars: %w", err)
	}
	if len(bars) == 0 {
		// Fall back to unadjusted bars for symbols without adjustment data.
		bars, err = p.market.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame:  marketdata.OneDay,
			Start:      start,
			End:        end,
			Adjustment: marketdata.Raw,
		})
		if err != nil {
			return nil, fmt.Errorf("alpaca raw bars: %w", err)
		}
	}

	series := make(model.PriceSeries, 0, len(bars))
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		series = append(series, model.PricePoint{
			Date:  b.Timestamp,
			Price: b.Close,
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

func (p *AlpacaProvider) CompanyProfile(symbol string) (model.SymbolInfo, error) {
	asset, err := p.trading.GetAsset(symbol)
	if err != nil {
		return model.SymbolInfo{}, fmt.Errorf("alpaca asset: %w", err)
	}
	if !asset.Tradable {
		return model.SymbolInfo{}, fmt.Errorf("alpaca: %s is not tradable", symbol)
	}
	// Alpaca assets carry no market cap or address data; those fields
	// stay empty and the record remains valid.
	return model.SymbolInfo{
		Ticker: symbol,
		Name:   asset.Name,
	}, nil
}
