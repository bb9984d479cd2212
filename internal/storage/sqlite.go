// Package storage keeps propintel's local state in SQLite: remembered permission
// decisions, the alert log and the lookup history.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/config"
	"github.com/cristianoliveira/propintel/internal/notify"
)

// DBFileName is the database file inside the state directory.
const DBFileName = "propintel.db"

// SQLiteStore is the SQLite-backed store.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens (or creates) the database at dbPath and applies pending migrations.
func Open(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, ErrEmptyPath
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), config.FileModeDir); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One connection keeps :memory: databases shared across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	colors.StructuredDebug("storage", "open", "completed", nil, "", map[string]any{"path": dbPath})
	return s, nil
}

// OpenDefault opens the database in the configured state directory.
func OpenDefault() (*SQLiteStore, error) {
	stateDir := config.Get("state_dir", "")
	if stateDir == "" {
		return nil, ErrEmptyPath
	}
	return Open(filepath.Join(stateDir, DBFileName))
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SchemaVersion returns the highest applied migration.
func (s *SQLiteStore) SchemaVersion() (int, error) {
	var v int
	if err := s.db.Get(&v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// runMigrations checks the current schema version and applies any outstanding
// migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if currentVersion, err = s.SchemaVersion(); err != nil {
			return err
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// PermissionDecision returns the remembered decision for backend, or ok=false when
// the user was never asked.
func (s *SQLiteStore) PermissionDecision(ctx context.Context, backend string) (state string, ok bool, err error) {
	err = s.db.GetContext(ctx, &state,
		"SELECT state FROM permission_decisions WHERE backend = ?", backend)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading permission decision: %w", err)
	}
	return state, true, nil
}

// SavePermissionDecision remembers the decision for backend.
func (s *SQLiteStore) SavePermissionDecision(ctx context.Context, backend, state string) error {
	if state != string(notify.PermissionGranted) && state != string(notify.PermissionDenied) {
		return fmt.Errorf("%w: %q", ErrInvalidDecision, state)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO permission_decisions (backend, state, decided_at) VALUES (?, ?, ?)
		ON CONFLICT(backend) DO UPDATE SET state = excluded.state, decided_at = excluded.decided_at`,
		backend, state, s.now().UTC())
	if err != nil {
		return fmt.Errorf("saving permission decision: %w", err)
	}
	return nil
}

// ResetPermissionDecision forgets the decision for backend so the next request
// prompts again.
func (s *SQLiteStore) ResetPermissionDecision(ctx context.Context, backend string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM permission_decisions WHERE backend = ?", backend); err != nil {
		return fmt.Errorf("resetting permission decision: %w", err)
	}
	return nil
}

// AlertRow is a logged alert.
type AlertRow struct {
	ID                  string       `db:"id"`
	Platform            string       `db:"platform"`
	HandleID            string       `db:"handle_id"`
	Category            string       `db:"category"`
	Tag                 string       `db:"tag"`
	Title               string       `db:"title"`
	Body                string       `db:"body"`
	RequiresInteraction bool         `db:"requires_interaction"`
	CreatedAt           time.Time    `db:"created_at"`
	SupersededAt        sql.NullTime `db:"superseded_at"`
}

// RecordAlert logs a dispatched alert and marks the alerts it replaced as superseded.
func (s *SQLiteStore) RecordAlert(ctx context.Context, rec notify.AlertRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	createdAt = createdAt.UTC()

	// Only an alert that actually replaced another closes out the earlier rows.
	if rec.SupersededID != "" {
		_, err = tx.ExecContext(ctx, `
			UPDATE alerts SET superseded_at = ?
			WHERE platform = ? AND tag = ? AND superseded_at IS NULL`,
			createdAt, rec.Platform, rec.Tag)
		if err != nil {
			return fmt.Errorf("superseding alerts for tag %s: %w", rec.Tag, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO alerts (
			id, platform, handle_id, category, tag,
			title, body, requires_interaction, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.Platform, rec.HandleID, string(rec.Category), rec.Tag,
		rec.Title, rec.Body, rec.RequiresInteraction, createdAt)
	if err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return tx.Commit()
}

// LatestAlert returns the handle ID of the newest live alert for platform and tag.
func (s *SQLiteStore) LatestAlert(ctx context.Context, platform, tag string) (string, bool, error) {
	var handleID string
	err := s.db.GetContext(ctx, &handleID, `
		SELECT handle_id FROM alerts
		WHERE platform = ? AND tag = ? AND superseded_at IS NULL
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, platform, tag)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("finding latest alert for tag %s: %w", tag, err)
	}
	return handleID, true, nil
}

// ListAlerts returns the most recent alerts first.
func (s *SQLiteStore) ListAlerts(ctx context.Context, limit int) ([]AlertRow, error) {
	var rows []AlertRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, platform, handle_id, category, tag, title, body,
		       requires_interaction, created_at, superseded_at
		FROM alerts ORDER BY created_at DESC, rowid DESC LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	return rows, nil
}

// SearchRecord is one entry of the lookup history.
type SearchRecord struct {
	ID          string          `db:"id"`
	Query       string          `db:"query"`
	Country     string          `db:"country"`
	Outcome     string          `db:"outcome"`
	Latitude    sql.NullFloat64 `db:"latitude"`
	Longitude   sql.NullFloat64 `db:"longitude"`
	DisplayName string          `db:"display_name"`
	Error       string          `db:"error"`
	CreatedAt   time.Time       `db:"created_at"`
}

// RecordSearch appends rec to the lookup history. ID and CreatedAt are filled in
// when empty.
func (s *SQLiteStore) RecordSearch(ctx context.Context, rec SearchRecord) error {
	switch rec.Outcome {
	case "found", "not-found", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, rec.Outcome)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO searches (
			id, query, country, outcome, latitude, longitude,
			display_name, error, created_at
		) VALUES (
			:id, :query, :country, :outcome, :latitude, :longitude,
			:display_name, :error, :created_at
		)`, rec)
	if err != nil {
		return fmt.Errorf("inserting search: %w", err)
	}
	return nil
}

// ListSearches returns the most recent lookups first.
func (s *SQLiteStore) ListSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	var rows []SearchRecord
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, query, country, outcome, latitude, longitude,
		       display_name, error, created_at
		FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing searches: %w", err)
	}
	return rows, nil
}

// ClearSearches deletes the lookup history and returns how many rows were removed.
func (s *SQLiteStore) ClearSearches(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM searches")
	if err != nil {
		return 0, fmt.Errorf("clearing searches: %w", err)
	}
	return res.RowsAffected()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

var (
	_ notify.Recorder    = (*SQLiteStore)(nil)
	_ notify.AlertLookup = (*SQLiteStore)(nil)
)
