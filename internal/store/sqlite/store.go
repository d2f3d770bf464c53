// Package sqlite implements the persistence layer on modernc.org/sqlite.
// All engine-specific failures are translated into store sentinels here;
// nothing above this package matches on driver error strings.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jobtrailapp/jobtrail-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// dateLayout is the storage format for calendar dates (start/end of an
// experience). Timestamps use timeLayout; dates stay day-granular.
const dateLayout = "2006-01-02"

// timeLayout is the storage format for timestamps. The fractional seconds
// are fixed-width so the stored TEXT values sort lexicographically in
// chronological order; RFC3339Nano trims trailing zeros, which breaks
// ORDER BY on timestamp columns.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides SQLite-backed persistence for the JobTrail server.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a new SQLite store at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
// Explicit transactions start as BEGIN IMMEDIATE: the write lock is
// taken up front, so a validate-then-mutate transaction can never
// fail a lock upgrade halfway through.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Set connection pool to 1 writer (SQLite limitation).
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	// Run schema migration.
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// constraintError translates SQLite constraint violations into store
// sentinels. Returns nil if err is not a constraint violation so callers
// can fall through to the raw error.
func constraintError(err error) *store.Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return store.ErrAlreadyExists
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return store.ErrInvalidReference
	case strings.Contains(msg, "CHECK constraint failed"):
		return store.ErrInvalidInput
	}
	return nil
}

// boolToInt converts a bool to an int for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatTime formats a time.Time for storage. Always UTC, always
// nine fractional digits, so string order is time order.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp back to time.Time. RFC3339Nano
// parsing accepts any fractional width, so rows written before the
// fixed-width layout still load.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// formatDate formats a time.Time as a day-granular date for storage.
func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// parseDate parses a stored YYYY-MM-DD date back to time.Time.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// parseNullableDate parses an optional date string.
func parseNullableDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableString returns a sql.NullString from a *string.
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullDateString returns a sql.NullString from a *time.Time date.
func nullDateString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(*t), Valid: true}
}
