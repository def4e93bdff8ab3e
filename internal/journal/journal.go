// Package journal keeps a diagnostic history of launcher runs in SQLite.
// It never holds version state: the installed version lives only in the
// version file.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "launcher/internal/errors"

	_ "modernc.org/sqlite" // Pure Go SQLite driver, WAL-friendly
)

// DefaultRecent is the number of entries Recent returns for n <= 0.
const DefaultRecent = 20

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at TEXT NOT NULL,
		installed TEXT NOT NULL DEFAULT '',
		remote TEXT NOT NULL DEFAULT '',
		decision TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS runs_at ON runs (at);
`

// Entry is one recorded launcher run.
type Entry struct {
	ID        int64
	At        time.Time
	Installed string
	Remote    string
	Decision  string
	Outcome   string
	Detail    string
}

// Recorder persists run entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Journal is an open run journal.
type Journal struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

// Open opens (creating when needed) the journal database at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.CodeJournal, "journal path is empty", nil)
	}
	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(trimmed), 0755); err != nil {
		return nil, apperrors.New(apperrors.CodeJournal, "create journal directory", err)
	}

	db, err := sql.Open("sqlite", buildDSN(trimmed))
	if err != nil {
		return nil, apperrors.New(apperrors.CodeJournal, "open journal", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.New(apperrors.CodeJournal, "ping journal", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, apperrors.New(apperrors.CodeJournal, "create journal schema", err)
	}
	return &Journal{path: trimmed, db: db, now: time.Now}, nil
}

// buildDSN creates a read-write WAL DSN for the given path.
func buildDSN(dbPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(dbPath),
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(3000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u.RawQuery = q.Encode()
	return u.String()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// Record appends e. A zero At is stamped with the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	at := e.At
	if at.IsZero() {
		at = j.now()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (at, installed, remote, decision, outcome, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`, at.UTC().Format(time.RFC3339Nano), e.Installed, e.Remote, e.Decision, e.Outcome, e.Detail)
	if err != nil {
		return apperrors.New(apperrors.CodeJournal, "record run", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = DefaultRecent
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, at, installed, remote, decision, outcome, detail
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeJournal, "query runs", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.ID, &at, &e.Installed, &e.Remote, &e.Decision, &e.Outcome, &e.Detail); err != nil {
			return nil, apperrors.New(apperrors.CodeJournal, "scan run", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeJournal, fmt.Sprintf("parse run %d timestamp", e.ID), err)
		}
		e.At = parsed
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.New(apperrors.CodeJournal, "iterate runs", err)
	}
	return entries, nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
