package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ExpoScreener/internal/model"
)

func testBatch() model.Batch {
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	mkSeries := func(prices ...float64) model.PriceSeries {
		s := make(model.PriceSeries, len(prices))
		for i, p := range prices {
			s[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Price: p}
		}
		return s
	}
	return model.Batch{
		{
			Info: model.SymbolInfo{
				Ticker: "GROW", Name: "Growth Inc", MarketCap: 1.2e9,
				Description: "compounds relentlessly", City: "Austin", State: "TX", Country: "US",
			},
			History: mkSeries(100, 110, 121, 133.1),
			Trend: model.TrendResult{
				IsExponential: true,
				R2:            0.97,
				CAGR:          0.25,
				Predicted:     mkSeries(101, 111, 122, 134),
			},
		},
		{
			Info:    model.SymbolInfo{Ticker: "FLAT", Name: "Flatline Ltd"},
			History: mkSeries(50, 50, 50),
		},
	}
}

func assertBatchEqual(t *testing.T, got, want model.Batch) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("batch length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Info != want[i].Info {
			t.Errorf("record %d info = %+v, want %+v", i, got[i].Info, want[i].Info)
		}
		if got[i].Trend.IsExponential != want[i].Trend.IsExponential ||
			got[i].Trend.R2 != want[i].Trend.R2 ||
			got[i].Trend.CAGR != want[i].Trend.CAGR {
			t.Errorf("record %d trend = %+v, want %+v", i, got[i].Trend, want[i].Trend)
		}
		assertSeriesEqual(t, i, "history", got[i].History, want[i].History)
		assertSeriesEqual(t, i, "predicted", got[i].Trend.Predicted, want[i].Trend.Predicted)
	}
}

func assertSeriesEqual(t *testing.T, rec int, label string, got, want model.PriceSeries) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("record %d %s length = %d, want %d", rec, label, len(got), len(want))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date) || got[i].Price != want[i].Price {
			t.Fatalf("record %d %s[%d] = %v, want %v", rec, label, i, got[i], want[i])
		}
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "screener.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	want := testBatch()
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertBatchEqual(t, got, want)
}

func TestSQLiteStore_SaveReplacesPriorBatch(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "screener.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.Save(testBatch()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	smaller := testBatch()[:1]
	if err := store.Save(smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertBatchEqual(t, got, smaller)
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screener.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrCacheMissing) {
		t.Fatalf("expected ErrCacheMissing on a never-saved artifact, got %v", err)
	}
	store.Close()

	// Reopening the file does not turn the artifact into a saved batch.
	store, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()
	if _, err := store.Load(); !errors.Is(err, ErrCacheMissing) {
		t.Fatalf("expected ErrCacheMissing after reopen, got %v", err)
	}
}

func TestSQLiteStore_SchemaVersionMismatch(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "screener.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.Save(testBatch()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.db.Exec(`UPDATE meta SET value = '999' WHERE key = 'schema_version'`); err != nil {
		t.Fatalf("tamper with version: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrCacheCorrupt) {
		t.Fatalf("expected ErrCacheCorrupt on version mismatch, got %v", err)
	}
}

func TestSQLiteStore_EmptyBatchRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "screener.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.Save(model.Batch{}); err != nil {
		t.Fatalf("save empty batch: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty batch, got %d records", len(got))
	}
}
