package directory

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ExpoScreener/internal/model"
)

// FinnhubDirectory implements Directory using the Finnhub stock symbol API.
type FinnhubDirectory struct {
	BaseURL       string
	APIKey        string
	Exchange      string
	SecurityTypes []string
	Client        *http.Client
}

// NewFinnhubDirectory creates a new directory client with optional proxy support.
func NewFinnhubDirectory(baseURL, apiKey, exchange string, securityTypes []string, proxyURL string) *FinnhubDirectory {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FinnhubDirectory{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		Exchange:      exchange,
		SecurityTypes: securityTypes,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (d *FinnhubDirectory) Name() string { return "finnhub" }

// Symbols fetches the exchange listing and filters it to the configured
// security types (e.g. common stock and ADRs).
func (d *FinnhubDirectory) Symbols() ([]model.CandidateSymbol, error) {
	endpoint := fmt.Sprintf("%s/stock/symbol?exchange=%s&token=%s",
		d.BaseURL, url.QueryEscape(d.Exchange), url.QueryEscape(d.APIKey))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch symbols: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("finnhub: status %d, body: %s", resp.StatusCode, string(body))
	}

	var all []model.CandidateSymbol
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		return nil, fmt.Errorf("finnhub decode symbols: %w", err)
	}

	wanted := make(map[string]bool, len(d.SecurityTypes))
	for _, t := range d.SecurityTypes {
		wanted[t] = true
	}
	if len(wanted) == 0 {
		return all, nil
	}

	candidates := make([]model.CandidateSymbol, 0, len(all))
	for _, c := range all {
		if wanted[c.Type] {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}
