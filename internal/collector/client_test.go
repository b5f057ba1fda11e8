package collector

import (
	"errors"
	"testing"

	"ExpoScreener/internal/model"
)

func TestClientValidate(t *testing.T) {
	tests := []struct {
		name     string
		provider *MockProvider
		wantOK   bool
	}{
		{"tradable symbol", &MockProvider{Price: 123.45, Info: model.SymbolInfo{Name: "Acme Corp"}}, true},
		{"quote failure", &MockProvider{LatestErr: errors.New("quote unavailable")}, false},
		{"no price in session", &MockProvider{Price: 0}, false},
		{"profile failure", &MockProvider{Price: 10, ProfileErr: errors.New("not found")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.provider, 0)
			info, ok := client.Validate("ACME")
			if ok != tt.wantOK {
				t.Fatalf("Validate ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && info.Ticker != "ACME" {
				t.Errorf("expected ticker backfilled to ACME, got %q", info.Ticker)
			}
		})
	}
}

func TestClientFetchHistory(t *testing.T) {
	client := NewClient(&MockProvider{Price: 50}, 0)
	series, ok := client.FetchHistory("ACME", 5)
	if !ok {
		t.Fatal("expected history for a symbol with data")
	}
	if len(series) == 0 {
		t.Fatal("expected non-empty series")
	}

	client = NewClient(&MockProvider{HistoryErr: errors.New("range unavailable")}, 0)
	if _, ok := client.FetchHistory("ACME", 5); ok {
		t.Error("expected ok=false on provider failure")
	}

	client = NewClient(&MockProvider{History: model.PriceSeries{}}, 0)
	if _, ok := client.FetchHistory("ACME", 5); ok {
		t.Error("expected ok=false on empty history")
	}
}
