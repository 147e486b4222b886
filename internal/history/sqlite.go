package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/marketeer/pkg/api"
)

type sqliteStore struct {
	db  *sql.DB
	cap int
	now func() time.Time
}

func openSQLite(ctx context.Context, dsn string, capacity int) (*sqliteStore, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	s := &sqliteStore{db: dbh, cap: capacity, now: time.Now}
	// Capacity may have shrunk since the last run.
	if err := s.trim(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return s, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  seq INTEGER NOT NULL,
  query TEXT NOT NULL,
  added_at INTEGER NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_seq ON results(seq DESC);
`)
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *sqliteStore) trim(ctx context.Context, ex execer) error {
	_, err := ex.ExecContext(ctx, `DELETE FROM results WHERE id NOT IN (SELECT id FROM results ORDER BY seq DESC LIMIT ?)`, s.cap)
	return err
}

func (s *sqliteStore) Add(ctx context.Context, r api.AnalysisResult) (Item, error) {
	it := newItem(r, s.now())
	payload, err := json.Marshal(it.Result)
	if err != nil {
		return Item{}, fmt.Errorf("encode result: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Item{}, err
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `
INSERT INTO results(id, seq, query, added_at, payload)
VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM results), ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  seq = excluded.seq,
  query = excluded.query,
  added_at = excluded.added_at,
  payload = excluded.payload`,
		it.ID, it.Result.Query, it.AddedAt.UnixNano(), string(payload))
	if err != nil {
		return Item{}, err
	}
	if err := s.trim(ctx, tx); err != nil {
		return Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]Item, error) {
	q := `SELECT id, added_at, payload FROM results ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Get(ctx context.Context, id string) (Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, added_at, payload FROM results WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return Item{}, ErrNotFound
	}
	return it, err
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n)
	return n, err
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM results`)
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (Item, error) {
	var (
		it      Item
		addedAt int64
		payload string
	)
	if err := sc.Scan(&it.ID, &addedAt, &payload); err != nil {
		return Item{}, err
	}
	if err := json.Unmarshal([]byte(payload), &it.Result); err != nil {
		return Item{}, fmt.Errorf("decode result %s: %w", it.ID, err)
	}
	it.AddedAt = time.Unix(0, addedAt).UTC()
	return it, nil
}
