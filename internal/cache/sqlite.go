package cache

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ExpoScreener/internal/model"
)

// schemaVersion guards structural compatibility between runs. A batch
// written by a different schema loads as ErrCacheCorrupt, never as a
// silently misshapen object graph.
const schemaVersion = 1

// SQLiteStore persists the screening batch to a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite cache opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		// INSERT OR IGNORE keeps a prior run's version row so that an
		// incompatible artifact is detected on load instead of patched over.
		fmt.Sprintf(`INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', '%d')`, schemaVersion),

		`CREATE TABLE IF NOT EXISTS symbols (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			position       INTEGER NOT NULL,
			ticker         TEXT NOT NULL,
			name           TEXT,
			market_cap     REAL,
			description    TEXT,
			address1       TEXT,
			address2       TEXT,
			city           TEXT,
			state          TEXT,
			zip            TEXT,
			country        TEXT,
			is_exponential INTEGER NOT NULL,
			r2             REAL,
			cagr           REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_position ON symbols(position)`,

		`CREATE TABLE IF NOT EXISTS prices (
			symbol_id INTEGER NOT NULL,
			seq       INTEGER NOT NULL,
			date      INTEGER NOT NULL,
			price     REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_symbol ON prices(symbol_id, seq)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			symbol_id INTEGER NOT NULL,
			seq       INTEGER NOT NULL,
			date      INTEGER NOT NULL,
			price     REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_symbol ON predictions(symbol_id, seq)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Save replaces the entire cached batch in one transaction.
func (s *SQLiteStore) Save(batch model.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM predictions`,
		`DELETE FROM prices`,
		`DELETE FROM symbols`,
		fmt.Sprintf(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', '%d')`, schemaVersion),
		fmt.Sprintf(`INSERT OR REPLACE INTO meta (key, value) VALUES ('saved_at', '%d')`, time.Now().Unix()),
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}

	for pos, rec := range batch {
		res, err := tx.Exec(`INSERT INTO symbols
			(position, ticker, name, market_cap, description,
			 address1, address2, city, state, zip, country,
			 is_exponential, r2, cagr)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			pos, rec.Info.Ticker, rec.Info.Name, rec.Info.MarketCap, rec.Info.Description,
			rec.Info.Address1, rec.Info.Address2, rec.Info.City, rec.Info.State,
			rec.Info.Zip, rec.Info.Country,
			boolToInt(rec.Trend.IsExponential), rec.Trend.R2, rec.Trend.CAGR,
		)
		if err != nil {
			return fmt.Errorf("insert symbol %s: %w", rec.Info.Ticker, err)
		}
		symbolID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("symbol id for %s: %w", rec.Info.Ticker, err)
		}

		if err := insertSeries(tx, "prices", symbolID, rec.History); err != nil {
			return fmt.Errorf("insert history for %s: %w", rec.Info.Ticker, err)
		}
		if err := insertSeries(tx, "predictions", symbolID, rec.Trend.Predicted); err != nil {
			return fmt.Errorf("insert predictions for %s: %w", rec.Info.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func insertSeries(tx *sql.Tx, table string, symbolID int64, series model.PriceSeries) error {
	for seq, p := range series {
		if _, err := tx.Exec(
			`INSERT INTO `+table+` (symbol_id, seq, date, price) VALUES (?,?,?,?)`,
			symbolID, seq, p.Date.Unix(), p.Price,
		); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the cached batch back. ErrCacheMissing when no batch was
// ever saved to this artifact, ErrCacheCorrupt when the artifact is
// structurally incompatible or unreadable.
func (s *SQLiteStore) Load() (model.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The saved_at marker is only written by Save. Its absence means the
	// artifact never held a batch, even if the file itself exists.
	var savedAt string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'saved_at'`).Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCacheMissing
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read save marker: %v", ErrCacheCorrupt, err)
	}

	var version string
	err = s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("%w: read schema version: %v", ErrCacheCorrupt, err)
	}
	if version != fmt.Sprintf("%d", schemaVersion) {
		return nil, fmt.Errorf("%w: schema version %s, want %d", ErrCacheCorrupt, version, schemaVersion)
	}

	rows, err := s.db.Query(`SELECT id, ticker, name, market_cap, description,
		address1, address2, city, state, zip, country, is_exponential, r2, cagr
		FROM symbols ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query symbols: %v", ErrCacheCorrupt, err)
	}
	defer rows.Close()

	var batch model.Batch
	var ids []int64
	for rows.Next() {
		var (
			id    int64
			rec   model.SymbolRecord
			isExp int
		)
		if err := rows.Scan(&id, &rec.Info.Ticker, &rec.Info.Name, &rec.Info.MarketCap,
			&rec.Info.Description, &rec.Info.Address1, &rec.Info.Address2,
			&rec.Info.City, &rec.Info.State, &rec.Info.Zip, &rec.Info.Country,
			&isExp, &rec.Trend.R2, &rec.Trend.CAGR); err != nil {
			return nil, fmt.Errorf("%w: scan symbol: %v", ErrCacheCorrupt, err)
		}
		rec.Trend.IsExponential = isExp != 0
		batch = append(batch, rec)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate symbols: %v", ErrCacheCorrupt, err)
	}

	for i, id := range ids {
		history, err := s.loadSeries("prices", id)
		if err != nil {
			return nil, err
		}
		predicted, err := s.loadSeries("predictions", id)
		if err != nil {
			return nil, err
		}
		batch[i].History = history
		batch[i].Trend.Predicted = predicted
	}

	return batch, nil
}

func (s *SQLiteStore) loadSeries(table string, symbolID int64) (model.PriceSeries, error) {
	rows, err := s.db.Query(
		`SELECT date, price FROM `+table+` WHERE symbol_id = ? ORDER BY seq`, symbolID)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrCacheCorrupt, table, err)
	}
	defer rows.Close()

	var series model.PriceSeries
	for rows.Next() {
		var (
			unix  int64
			price float64
		)
		if err := rows.Scan(&unix, &price); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrCacheCorrupt, table, err)
		}
		series = append(series, model.PricePoint{Date: time.Unix(unix, 0).UTC(), Price: price})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %v", ErrCacheCorrupt, table, err)
	}
	return series, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite cache")
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
