package clock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema is executed on every open; IF NOT EXISTS keeps it idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS clock_corrections (
    key        TEXT NOT NULL,
    mjd        REAL NOT NULL,
    offset_sec REAL NOT NULL,
    PRIMARY KEY (key, mjd)
);
`

// SQLiteStore is a Source backed by a local SQLite database, so clock tables
// imported once can be shared across runs.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the clock database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("clock: open database: %w", err)
	}
	// SQLite has a single writer; one connection avoids SQLITE_BUSY between
	// pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("clock: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("clock: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Put upserts points for key in a single transaction.
func (s *SQLiteStore) Put(ctx context.Context, key string, pts []Point) error {
	if len(pts) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clock: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const q = `
		INSERT INTO clock_corrections (key, mjd, offset_sec) VALUES (?, ?, ?)
		ON CONFLICT(key, mjd) DO UPDATE SET offset_sec = excluded.offset_sec`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("clock: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pts {
		if _, err := stmt.ExecContext(ctx, key, p.MJD, p.Offset); err != nil {
			return fmt.Errorf("clock: insert %s at MJD %.6f: %w", key, p.MJD, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clock: commit: %w", err)
	}
	return nil
}

// Offset implements Source.
func (s *SQLiteStore) Offset(ctx context.Context, key string, mjd float64) (float64, error) {
	lo, errLo := s.neighbor(ctx,
		"SELECT mjd, offset_sec FROM clock_corrections WHERE key = ? AND mjd <= ? ORDER BY mjd DESC LIMIT 1",
		key, mjd)
	if errLo != nil && !errors.Is(errLo, sql.ErrNoRows) {
		return 0, fmt.Errorf("clock: lookup %s: %w", key, errLo)
	}
	if errLo == nil && lo.MJD == mjd {
		return lo.Offset, nil
	}
	hi, errHi := s.neighbor(ctx,
		"SELECT mjd, offset_sec FROM clock_corrections WHERE key = ? AND mjd >= ? ORDER BY mjd ASC LIMIT 1",
		key, mjd)
	if errHi != nil && !errors.Is(errHi, sql.ErrNoRows) {
		return 0, fmt.Errorf("clock: lookup %s: %w", key, errHi)
	}
	if errLo != nil || errHi != nil {
		return 0, fmt.Errorf("%w: %s at MJD %.6f", ErrNoClockData, key, mjd)
	}
	return interpolate(lo, hi, mjd), nil
}

func (s *SQLiteStore) neighbor(ctx context.Context, q, key string, mjd float64) (Point, error) {
	var p Point
	err := s.db.QueryRowContext(ctx, q, key, mjd).Scan(&p.MJD, &p.Offset)
	return p, err
}

// Keys returns the table keys present in the store with their point counts.
func (s *SQLiteStore) Keys(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, COUNT(*) FROM clock_corrections GROUP BY key")
	if err != nil {
		return nil, fmt.Errorf("clock: list keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]int)
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, fmt.Errorf("clock: scan key: %w", err)
		}
		keys[k] = n
	}
	return keys, rows.Err()
}

// Points returns every point stored for key, sorted by MJD.
func (s *SQLiteStore) Points(ctx context.Context, key string) ([]Point, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT mjd, offset_sec FROM clock_corrections WHERE key = ? ORDER BY mjd ASC", key)
	if err != nil {
		return nil, fmt.Errorf("clock: list points %s: %w", key, err)
	}
	defer rows.Close()

	var pts []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.MJD, &p.Offset); err != nil {
			return nil, fmt.Errorf("clock: scan point: %w", err)
		}
		pts = append(pts, p)
	}
	return pts, rows.Err()
}
