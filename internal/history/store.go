package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const recordColumns = "id, run_id, source, output, outcome, error_kind, message, north, south, east, west, processed_at"

// Store persists processing results in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger at path, creating its directory.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts rec and returns its assigned ID. A zero ProcessedAt is
// stamped with the current time.
func (s *Store) Record(ctx context.Context, rec Record) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("history store unavailable")
	}
	if strings.TrimSpace(rec.RunID) == "" || strings.TrimSpace(rec.Source) == "" {
		return 0, errors.New("history record requires run id and source")
	}
	if rec.Outcome == "" {
		rec.Outcome = OutcomeSuccess
	}
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now()
	}

	var box [4]any
	if rec.HasBox {
		box = [4]any{rec.North, rec.South, rec.East, rec.West}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO results (
            run_id, source, output, outcome, error_kind, message,
            north, south, east, west, processed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Source,
		nullableString(rec.Output),
		string(rec.Outcome),
		nullableString(rec.Kind),
		nullableString(rec.Message),
		box[0], box[1], box[2], box[3],
		rec.ProcessedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns every record.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store unavailable")
	}
	query := `SELECT ` + recordColumns + ` FROM results ORDER BY processed_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// Run returns the records of one run in processing order.
func (s *Store) Run(ctx context.Context, runID string) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store unavailable")
	}
	return s.query(ctx, `SELECT `+recordColumns+` FROM results WHERE run_id = ? ORDER BY id`, runID)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		rec          Record
		outcome      string
		output       sql.NullString
		kind         sql.NullString
		message      sql.NullString
		north        sql.NullFloat64
		south        sql.NullFloat64
		east         sql.NullFloat64
		west         sql.NullFloat64
		processedRaw string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Source,
		&output,
		&outcome,
		&kind,
		&message,
		&north,
		&south,
		&east,
		&west,
		&processedRaw,
	); err != nil {
		return Record{}, fmt.Errorf("scan result: %w", err)
	}

	rec.Outcome = Outcome(outcome)
	rec.Output = output.String
	rec.Kind = kind.String
	rec.Message = message.String
	if north.Valid && south.Valid && east.Valid && west.Valid {
		rec.HasBox = true
		rec.North, rec.South, rec.East, rec.West = north.Float64, south.Float64, east.Float64, west.Float64
	}
	ts, err := time.Parse(time.RFC3339Nano, processedRaw)
	if err != nil {
		return Record{}, fmt.Errorf("parse processed_at %q: %w", processedRaw, err)
	}
	rec.ProcessedAt = ts
	return rec, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
