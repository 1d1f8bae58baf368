// Package db persists mentions and performance rows in SQLite.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"reddit-stocks-analyzer/internal/interfaces"
	"reddit-stocks-analyzer/internal/types"
)

// DB wraps the SQLite connection.
type DB struct {
	sql *sql.DB
}

var _ interfaces.Store = (*DB)(nil)

// Open opens (creating if needed) the database at path and migrates the
// schema.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	d := &DB{sql: conn}
	if err := d.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stock_mentions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		post_id TEXT NOT NULL,
		post_title TEXT,
		post_date TEXT,
		post_score INTEGER,
		post_url TEXT,
		author TEXT,
		UNIQUE(ticker, post_id)
	);

	CREATE TABLE IF NOT EXISTS stock_performance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		post_date TEXT NOT NULL,
		price_at_post REAL,
		price_1d REAL,
		price_3d REAL,
		price_1w REAL,
		price_2w REAL,
		price_1m REAL,
		return_1d REAL,
		return_3d REAL,
		return_1w REAL,
		return_2w REAL,
		return_1m REAL,
		UNIQUE(ticker, post_date)
	);

	CREATE INDEX IF NOT EXISTS idx_mentions_ticker ON stock_mentions(ticker);
	`
	_, err := d.sql.Exec(schema)
	return err
}

// SaveMentions upserts mentions on (ticker, post_id), last write wins.
func (d *DB) SaveMentions(ctx context.Context, mentions []types.Mention) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range mentions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stock_mentions (ticker, post_id, post_title, post_date, post_score, post_url, author)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(ticker, post_id) DO UPDATE SET
				post_title = excluded.post_title,
				post_date = excluded.post_date,
				post_score = excluded.post_score,
				post_url = excluded.post_url,
				author = excluded.author
		`, m.Ticker, m.PostID, m.PostTitle, m.PostDate.Format(time.RFC3339), m.PostScore, m.PostURL, m.Author)
		if err != nil {
			return fmt.Errorf("save mention %s/%s: %w", m.Ticker, m.PostID, err)
		}
	}
	return tx.Commit()
}

// SavePerformances upserts performance rows on (ticker, post_date) and
// returns the number of rows written.
func (d *DB) SavePerformances(ctx context.Context, perfs []types.Performance) (int, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	saved := 0
	for _, p := range perfs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stock_performance
				(ticker, post_date, price_at_post, price_1d, price_3d, price_1w, price_2w, price_1m,
				 return_1d, return_3d, return_1w, return_2w, return_1m)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(ticker, post_date) DO UPDATE SET
				price_at_post = excluded.price_at_post,
				price_1d = excluded.price_1d,
				price_3d = excluded.price_3d,
				price_1w = excluded.price_1w,
				price_2w = excluded.price_2w,
				price_1m = excluded.price_1m,
				return_1d = excluded.return_1d,
				return_3d = excluded.return_3d,
				return_1w = excluded.return_1w,
				return_2w = excluded.return_2w,
				return_1m = excluded.return_1m
		`, p.Ticker, p.PostDate.Format(time.RFC3339), p.PriceAtPost,
			p.Price1D, p.Price3D, p.Price1W, p.Price2W, p.Price1M,
			p.Return1D, p.Return3D, p.Return1W, p.Return2W, p.Return1M)
		if err != nil {
			return saved, fmt.Errorf("save performance %s@%s: %w", p.Ticker, p.PostDate.Format("2006-01-02"), err)
		}
		saved++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return saved, nil
}

// PerformanceRows returns rows where at least one horizon return is set.
func (d *DB) PerformanceRows(ctx context.Context) ([]types.Performance, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT ticker, post_date, price_at_post,
		       price_1d, price_3d, price_1w, price_2w, price_1m,
		       return_1d, return_3d, return_1w, return_2w, return_1m
		FROM stock_performance
		WHERE return_1d IS NOT NULL
		   OR return_3d IS NOT NULL
		   OR return_1w IS NOT NULL
		   OR return_2w IS NOT NULL
		   OR return_1m IS NOT NULL
		ORDER BY ticker, post_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Performance
	for rows.Next() {
		var p types.Performance
		var postDate string
		err := rows.Scan(&p.Ticker, &postDate, &p.PriceAtPost,
			&p.Price1D, &p.Price3D, &p.Price1W, &p.Price2W, &p.Price1M,
			&p.Return1D, &p.Return3D, &p.Return1W, &p.Return2W, &p.Return1M)
		if err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339, postDate); err == nil {
			p.PostDate = ts
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Diagnostics summarizes database contents after a run.
type Diagnostics struct {
	MentionCount     int
	PerformanceCount int
	WithReturns      int
	TopTickers       []TickerCount
	HorizonCounts    map[string]int
}

// TickerCount is a mention count for one ticker.
type TickerCount struct {
	Ticker string
	Count  int
}

// Diagnose reports row counts, the most-mentioned tickers, and how many
// rows resolved each horizon.
func (d *DB) Diagnose(ctx context.Context) (*Diagnostics, error) {
	diag := &Diagnostics{HorizonCounts: make(map[string]int)}

	if err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_mentions`).Scan(&diag.MentionCount); err != nil {
		return nil, err
	}
	if err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_performance`).Scan(&diag.PerformanceCount); err != nil {
		return nil, err
	}

	rows, err := d.sql.QueryContext(ctx, `
		SELECT ticker, COUNT(*) AS n FROM stock_mentions
		GROUP BY ticker ORDER BY n DESC, ticker LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tc TickerCount
		if err := rows.Scan(&tc.Ticker, &tc.Count); err != nil {
			return nil, err
		}
		diag.TopTickers = append(diag.TopTickers, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// SUM() is NULL on an empty table, hence the nullable scans.
	var h1d, h3d, h1w, h2w, h1m, withReturns sql.NullInt64
	err = d.sql.QueryRowContext(ctx, `
		SELECT
			SUM(CASE WHEN return_1d IS NOT NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN return_3d IS NOT NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN return_1w IS NOT NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN return_2w IS NOT NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN return_1m IS NOT NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN return_1d IS NOT NULL OR return_3d IS NOT NULL
				OR return_1w IS NOT NULL OR return_2w IS NOT NULL
				OR return_1m IS NOT NULL THEN 1 ELSE 0 END)
		FROM stock_performance
	`).Scan(&h1d, &h3d, &h1w, &h2w, &h1m, &withReturns)
	if err != nil {
		return nil, err
	}

	diag.HorizonCounts["1d"] = int(h1d.Int64)
	diag.HorizonCounts["3d"] = int(h3d.Int64)
	diag.HorizonCounts["1w"] = int(h1w.Int64)
	diag.HorizonCounts["2w"] = int(h2w.Int64)
	diag.HorizonCounts["1m"] = int(h1m.Int64)
	diag.WithReturns = int(withReturns.Int64)

	return diag, nil
}
