package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"solar-storage-sim/internal/analysis"
	"solar-storage-sim/internal/dispatch"
)

var ErrNotFound = errors.New("run not found")

// Run is one persisted simulation.
type Run struct {
	ID              string              `json:"id"`
	CreatedAt       time.Time           `json:"created_at"`
	Name            string              `json:"name"`
	StorageCapacity float64             `json:"storage_capacity"`
	Summary         analysis.Summary    `json:"summary"`
	Table           []dispatch.TableRow `json:"-"`
}

// SQLiteStore persists runs to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	schema := `CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        created_at INTEGER NOT NULL,
        name TEXT,
        storage_capacity REAL,
        summary TEXT,
        dispatch_table TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Save inserts run, filling in ID and CreatedAt when unset.
func (s *SQLiteStore) Save(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now().UTC()
	}
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return Run{}, fmt.Errorf("marshal summary: %w", err)
	}
	table, err := json.Marshal(run.Table)
	if err != nil {
		return Run{}, fmt.Errorf("marshal table: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, name, storage_capacity, summary, dispatch_table) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), run.Name, run.StorageCapacity, string(summary), string(table))
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Get returns the run with its dispatch table.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, name, storage_capacity, summary, dispatch_table FROM runs WHERE id = ?`, id)
	var (
		run            Run
		ts             int64
		summary, table string
	)
	if err := row.Scan(&run.ID, &ts, &run.Name, &run.StorageCapacity, &summary, &table); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return Run{}, err
	}
	run.CreatedAt = time.Unix(0, ts).UTC()
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return Run{}, fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := json.Unmarshal([]byte(table), &run.Table); err != nil {
		return Run{}, fmt.Errorf("unmarshal table: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first, without their tables. A limit of
// zero or less returns every run.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, created_at, name, storage_capacity, summary FROM runs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	res := []Run{}
	for rows.Next() {
		var (
			run     Run
			ts      int64
			summary string
		)
		if err := rows.Scan(&run.ID, &ts, &run.Name, &run.StorageCapacity, &summary); err != nil {
			return nil, err
		}
		run.CreatedAt = time.Unix(0, ts).UTC()
		if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
		res = append(res, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
