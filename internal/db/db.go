// Package db is the sqlite-backed cache behind the probe tooling: explorer
// responses and engine evaluations keyed by position, so repeated probes of
// the same opening tree do not refetch or research.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var schema_stmts = []string{
	`PRAGMA journal_mode=WAL;`,
	`PRAGMA foreign_keys=ON;`,
	`CREATE TABLE IF NOT EXISTS explorer_cache (
		source TEXT NOT NULL,
		fen TEXT NOT NULL,
		body TEXT NOT NULL,
		fetched_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		PRIMARY KEY (source, fen)
	);`,
	`CREATE TABLE IF NOT EXISTS evals (
		fen TEXT NOT NULL,
		depth INTEGER NOT NULL,
		best_move TEXT NOT NULL DEFAULT '',
		score_cp INTEGER NOT NULL DEFAULT 0,
		score_mate INTEGER NOT NULL DEFAULT 0,
		is_mate INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (fen, depth)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_explorer_cache_fetched_at ON explorer_cache(fetched_at);`,
}

type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// keep it predictable; one process, one engine, one cache.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, stmt := range schema_stmts {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetExplorer(ctx context.Context, source, fen string) (string, bool, error) {
	var body string
	err := s.db.GetContext(ctx, &body, `
		SELECT body FROM explorer_cache WHERE source = ? AND fen = ?
	`, source, fen)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}

func (s *Store) PutExplorer(ctx context.Context, source, fen, body string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO explorer_cache (source, fen, body) VALUES (?, ?, ?)
		ON CONFLICT(source, fen) DO UPDATE SET body = excluded.body, fetched_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
	`, source, fen, body)
	return err
}

type EvalRow struct {
	FEN      string `db:"fen"`
	Depth    int    `db:"depth"`
	BestMove string `db:"best_move"`
	ScoreCP  int    `db:"score_cp"`
	Mate     int    `db:"score_mate"`
	IsMate   bool   `db:"is_mate"`
}

func (s *Store) GetEval(ctx context.Context, fen string, depth int) (EvalRow, bool, error) {
	var row EvalRow
	err := s.db.GetContext(ctx, &row, `
		SELECT fen, depth, best_move, score_cp, score_mate, is_mate
		FROM evals WHERE fen = ? AND depth = ?
	`, fen, depth)
	if errors.Is(err, sql.ErrNoRows) {
		return EvalRow{}, false, nil
	}
	if err != nil {
		return EvalRow{}, false, err
	}
	return row, true, nil
}

func (s *Store) PutEval(ctx context.Context, row EvalRow) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO evals (fen, depth, best_move, score_cp, score_mate, is_mate)
		VALUES (:fen, :depth, :best_move, :score_cp, :score_mate, :is_mate)
		ON CONFLICT(fen, depth) DO UPDATE SET
			best_move = excluded.best_move,
			score_cp = excluded.score_cp,
			score_mate = excluded.score_mate,
			is_mate = excluded.is_mate
	`, row)
	return err
}
