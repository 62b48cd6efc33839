package marketdata

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
	"github.com/rs/zerolog"
)

// HistoryCache persists daily bars per symbol, one SQLite file per
// symbol under cacheDir.
type HistoryCache struct {
	cacheDir string
	log      zerolog.Logger
}

// NewHistoryCache creates a new history cache rooted at cacheDir
func NewHistoryCache(cacheDir string, log zerolog.Logger) (*HistoryCache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history cache directory: %w", err)
	}

	return &HistoryCache{
		cacheDir: cacheDir,
		log:      log.With().Str("component", "history_cache").Logger(),
	}, nil
}

// Store upserts daily bars for a symbol
func (c *HistoryCache) Store(symbol string, bars []PricePoint) error {
	if len(bars) == 0 {
		return nil
	}

	db, err := c.openSymbolDB(symbol)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (date, open_price, high_price, low_price, close_price, volume)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			open_price = excluded.open_price,
			high_price = excluded.high_price,
			low_price = excluded.low_price,
			close_price = excluded.close_price,
			volume = excluded.volume
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, bar := range bars {
		date := bar.Date.Format("2006-01-02")
		if _, err := stmt.Exec(date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert bar for %s on %s: %w", symbol, date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bars: %w", err)
	}

	c.log.Debug().Str("symbol", symbol).Int("count", len(bars)).Msg("Stored daily bars")
	return nil
}

// Load returns up to limit daily bars for a symbol in ascending date
// order. Returns ErrNoData when nothing is cached.
func (c *HistoryCache) Load(symbol string, limit int) ([]PricePoint, error) {
	db, err := c.openSymbolDB(symbol)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `
		SELECT date, open_price, high_price, low_price, close_price, volume
		FROM daily_prices
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily bars: %w", err)
	}
	defer rows.Close()

	var bars []PricePoint
	for rows.Next() {
		var bar PricePoint
		var date string
		var volume sql.NullInt64

		if err := rows.Scan(&date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily bar: %w", err)
		}

		bar.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid cached date %q for %s: %w", date, symbol, err)
		}

		if volume.Valid {
			bar.Volume = volume.Int64
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily bars: %w", err)
	}

	if len(bars) == 0 {
		return nil, ErrNoData
	}

	// Query is newest-first; flip to ascending
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	return bars, nil
}

// openSymbolDB opens (creating if needed) the per-symbol cache database
func (c *HistoryCache) openSymbolDB(symbol string) (*sql.DB, error) {
	// BRK.B -> BRK_B
	fileSymbol := strings.ReplaceAll(strings.ToUpper(symbol), ".", "_")
	dbPath := fmt.Sprintf("%s/%s.db", c.cacheDir, fileSymbol)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history cache for %s: %w", symbol, err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS daily_prices (
			date        TEXT PRIMARY KEY,
			open_price  REAL NOT NULL,
			high_price  REAL NOT NULL,
			low_price   REAL NOT NULL,
			close_price REAL NOT NULL,
			volume      INTEGER
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure cache schema for %s: %w", symbol, err)
	}

	return db, nil
}
