// Package journal records one row per processing attempt in a local
// SQLite database, for diagnosis after the objects themselves have
// moved on.
package journal

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/invoice-formatter/constants"
	"github.com/joseph-ayodele/invoice-formatter/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	key            TEXT NOT NULL,
	outcome        TEXT NOT NULL,
	invoice_number TEXT NOT NULL DEFAULT '',
	items          INTEGER NOT NULL DEFAULT 0,
	error          TEXT NOT NULL DEFAULT '',
	duration_ms    INTEGER NOT NULL DEFAULT 0,
	recorded_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_recorded_at ON attempts (recorded_at);
`

// Entry is one recorded processing attempt.
type Entry struct {
	Key           string
	Outcome       constants.Outcome
	InvoiceNumber string
	Items         int
	Err           string
	Duration      time.Duration
	RecordedAt    time.Time
}

// Journal is an append-mostly log over a single SQLite file.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the journal database at path.
func Open(path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "opening journal")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "initializing journal schema")
	}
	return &Journal{db: db, logger: logger}, nil
}

// Record appends one attempt. Journal failures must never affect the
// pipeline; callers log and continue.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO attempts (key, outcome, invoice_number, items, error, duration_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Key, string(e.Outcome), e.InvoiceNumber, e.Items, e.Err, e.Duration.Milliseconds(), e.RecordedAt,
	)
	return common.WrapError(err, "recording attempt")
}

// Recent returns the latest attempts, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT key, outcome, invoice_number, items, error, duration_ms, recorded_at
		 FROM attempts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.WrapError(err, "querying attempts")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			j.logger.Warn("closing journal rows", "error", cerr)
		}
	}()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var outcome string
		var durationMs int64
		if err := rows.Scan(&e.Key, &outcome, &e.InvoiceNumber, &e.Items, &e.Err, &durationMs, &e.RecordedAt); err != nil {
			return nil, common.WrapError(err, "scanning attempt")
		}
		e.Outcome = constants.Outcome(outcome)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, common.WrapError(rows.Err(), "iterating attempts")
}

func (j *Journal) Close() error {
	return j.db.Close()
}
