// Package indexdb keeps a queryable history of fired dispenses in sqlite.
// It is a secondary read model: writes are best effort and never stall the
// dispatch loop; the journal remains the source of truth.
package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"chat2snack.ai/internal/dispatch"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan dispatch.DispenseRecord
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan dispatch.DispenseRecord, 1024),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads; NORMAL is a decent
	// durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dispenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at TEXT NOT NULL,
			word INTEGER NOT NULL,
			lo INTEGER NOT NULL,
			hi INTEGER NOT NULL,
			cart_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_dispenses_at ON dispenses(at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordDispense enqueues a record for the writer goroutine. Drops when
// the queue is full rather than blocking a dispense.
func (s *SQLiteIndex) RecordDispense(r dispatch.DispenseRecord) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
	}
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		cartJSON, err := json.Marshal(r.Cart)
		if err != nil {
			continue
		}
		_, _ = s.db.Exec(
			`INSERT INTO dispenses (at, word, lo, hi, cart_json) VALUES (?, ?, ?, ?, ?)`,
			r.At.Format("2006-01-02T15:04:05.999999Z07:00"),
			int64(r.Word), int64(r.Lo), int64(r.Hi), string(cartJSON),
		)
	}
}

// DispenseRow is one indexed dispense, newest first in Recent.
type DispenseRow struct {
	ID       int64
	At       string
	Word     uint16
	Lo       byte
	Hi       byte
	CartJSON string
}

// Recent returns up to limit dispenses, newest first.
func (s *SQLiteIndex) Recent(ctx context.Context, limit int) ([]DispenseRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, word, lo, hi, cart_json FROM dispenses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DispenseRow
	for rows.Next() {
		var r DispenseRow
		var word, lo, hi int64
		if err := rows.Scan(&r.ID, &r.At, &word, &lo, &hi, &r.CartJSON); err != nil {
			return nil, err
		}
		r.Word = uint16(word)
		r.Lo = byte(lo)
		r.Hi = byte(hi)
		out = append(out, r)
	}
	return out, rows.Err()
}
