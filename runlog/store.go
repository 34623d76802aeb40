// Package runlog persists compilation runs in a SQLite database so past
// allocations can be listed and re-inspected. The store records the
// immutable result bundle only; DAGs themselves never outlive their
// invocation.
package runlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/go-regalloc/results"
)

// Run is one recorded compilation.
type Run struct {
	ID                  string          `json:"id"`
	Expression          string          `json:"expression"`
	CreatedAt           time.Time       `json:"created_at"`
	Success             bool            `json:"success"`
	Error               string          `json:"error,omitempty"`
	OriginalRegisters   int             `json:"original_registers"`
	RearrangedRegisters int             `json:"rearranged_registers"`
	Instructions        int             `json:"instructions"`
	Bundle              json.RawMessage `json:"bundle,omitempty"`
}

// Store handles SQLite database operations for run logging.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a run log at the given database path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		expression TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		success INTEGER NOT NULL,
		error TEXT,
		original_registers INTEGER DEFAULT 0,
		rearranged_registers INTEGER DEFAULT 0,
		instructions INTEGER DEFAULT 0,
		bundle TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_expression ON runs(expression);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a compilation bundle and returns the persisted run.
func (s *Store) Record(bundle *results.Bundle) (*Run, error) {
	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}

	run := &Run{
		ID:         uuid.New().String(),
		Expression: bundle.Expression,
		CreatedAt:  time.Now().UTC(),
		Success:    bundle.Success,
		Error:      bundle.Error,
		Bundle:     data,
	}
	if bundle.Original != nil {
		run.OriginalRegisters = bundle.Original.MinRegisters
		run.Instructions = len(bundle.Original.ThreeAddressCode)
	}
	if bundle.Rearranged != nil {
		run.RearrangedRegisters = bundle.Rearranged.MinRegisters
	}

	_, err = s.db.Exec(
		`INSERT INTO runs (id, expression, created_at, success, error,
		 original_registers, rearranged_registers, instructions, bundle)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Expression, run.CreatedAt, run.Success, run.Error,
		run.OriginalRegisters, run.RearrangedRegisters, run.Instructions, string(data),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	slog.Debug("recorded run",
		"id", run.ID,
		"expression", run.Expression,
		"registers", run.OriginalRegisters)
	return run, nil
}

// Get retrieves a run by ID, including its full bundle.
func (s *Store) Get(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, expression, created_at, success, error,
		 original_registers, rearranged_registers, instructions, bundle
		 FROM runs WHERE id = ?`, id,
	)
	return scanRun(row)
}

// Recent returns the most recent runs, newest first, without bundles.
func (s *Store) Recent(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, expression, created_at, success, error,
		 original_registers, rearranged_registers, instructions
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var errText sql.NullString
		err := rows.Scan(&run.ID, &run.Expression, &run.CreatedAt, &run.Success,
			&errText, &run.OriginalRegisters, &run.RearrangedRegisters, &run.Instructions)
		if err != nil {
			return nil, err
		}
		if errText.Valid {
			run.Error = errText.String
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// ByExpression returns all runs for an exact expression, newest first.
func (s *Store) ByExpression(expression string) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, expression, created_at, success, error,
		 original_registers, rearranged_registers, instructions
		 FROM runs WHERE expression = ? ORDER BY created_at DESC, id`, expression,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var errText sql.NullString
		err := rows.Scan(&run.ID, &run.Expression, &run.CreatedAt, &run.Success,
			&errText, &run.OriginalRegisters, &run.RearrangedRegisters, &run.Instructions)
		if err != nil {
			return nil, err
		}
		if errText.Valid {
			run.Error = errText.String
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var errText, bundle sql.NullString
	err := row.Scan(&run.ID, &run.Expression, &run.CreatedAt, &run.Success,
		&errText, &run.OriginalRegisters, &run.RearrangedRegisters,
		&run.Instructions, &bundle)
	if err != nil {
		return nil, err
	}
	if errText.Valid {
		run.Error = errText.String
	}
	if bundle.Valid {
		run.Bundle = json.RawMessage(bundle.String)
	}
	return &run, nil
}
