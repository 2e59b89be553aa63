// Package history persists per-document processing outcomes so runs can
// be audited and exported later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_documents (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL,
	original_name TEXT NOT NULL,
	new_name      TEXT NOT NULL DEFAULT '',
	issue_date    TEXT NOT NULL DEFAULT '',
	material      TEXT NOT NULL DEFAULT '',
	dimensions    TEXT NOT NULL DEFAULT '',
	manufacturer  TEXT NOT NULL DEFAULT '',
	charge_no     TEXT NOT NULL DEFAULT '',
	success       INTEGER NOT NULL,
	error         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_processed_documents_run ON processed_documents(run_id);
`

// Record is one processed document.
type Record struct {
	ID           uuid.UUID
	RunID        uuid.UUID
	OriginalName string
	NewName      string
	Date         string
	Material     string
	Dimensions   string
	Manufacturer string
	ChargeNo     string
	Success      bool
	Error        string
	CreatedAt    time.Time
}

// Store wraps an embedded SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	logger.Debug("history store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one processing outcome.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_documents
			(id, run_id, original_name, new_name, issue_date, material,
			 dimensions, manufacturer, charge_no, success, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.RunID.String(), rec.OriginalName, rec.NewName,
		rec.Date, rec.Material, rec.Dimensions, rec.Manufacturer, rec.ChargeNo,
		boolToInt(rec.Success), rec.Error, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record document: %w", err)
	}
	return nil
}

// ListRun returns the records of one run, oldest first.
func (s *Store) ListRun(ctx context.Context, runID uuid.UUID) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, original_name, new_name, issue_date, material,
		       dimensions, manufacturer, charge_no, success, error, created_at
		FROM processed_documents
		WHERE run_id = ?
		ORDER BY created_at, id`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("list run: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var rec Record
		var id, run string
		var success int
		if err := rows.Scan(&id, &run, &rec.OriginalName, &rec.NewName,
			&rec.Date, &rec.Material, &rec.Dimensions, &rec.Manufacturer,
			&rec.ChargeNo, &success, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.ID, _ = uuid.Parse(id)
		rec.RunID, _ = uuid.Parse(run)
		rec.Success = success != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
