// Package outbox keeps completion records that could not be written to the
// primary store in a local SQLite queue and retries them later.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/gymlog/internal/session"
	_ "modernc.org/sqlite"
)

// Item is a queued completion record.
type Item struct {
	ID        int64
	Record    session.CompletionRecord
	Attempts  int
	LastError string
	QueuedAt  time.Time
}

// Queue is the SQLite-backed pending-record store.
type Queue struct {
	db *sql.DB
}

// OpenQueue opens (or creates) the queue database at dir/outbox.db.
func OpenQueue(dir string) (*Queue, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating outbox dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "outbox.db"))
	if err != nil {
		return nil, fmt.Errorf("opening outbox db: %w", err)
	}
	// Single writer; avoids SQLITE_BUSY between Enqueue and Flush.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS pending_completions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id   TEXT NOT NULL UNIQUE,
		payload     TEXT NOT NULL,
		attempts    INTEGER NOT NULL DEFAULT 0,
		last_error  TEXT NOT NULL DEFAULT '',
		queued_at   TIMESTAMP NOT NULL,
		dead        INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating outbox table: %w", err)
	}

	return &Queue{db: db}, nil
}

// Enqueue stores a record. Re-queuing the same record ID is a no-op.
func (q *Queue) Enqueue(ctx context.Context, rec session.CompletionRecord, cause error) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	lastErr := ""
	if cause != nil {
		lastErr = cause.Error()
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO pending_completions (record_id, payload, last_error, queued_at)
		 VALUES (?, ?, ?, ?)`,
		rec.ID.String(), string(payload), lastErr, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("queuing record %s: %w", rec.ID, err)
	}
	return nil
}

// Pending returns up to limit queued items, oldest first. Dead items are excluded.
func (q *Queue) Pending(ctx context.Context, limit int) ([]Item, error) {
	return q.items(ctx, 0, limit)
}

// DeadLetters returns up to limit items that were given up on, oldest first.
func (q *Queue) DeadLetters(ctx context.Context, limit int) ([]Item, error) {
	return q.items(ctx, 1, limit)
}

func (q *Queue) items(ctx context.Context, dead, limit int) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, payload, attempts, last_error, queued_at
		 FROM pending_completions WHERE dead = ? ORDER BY id ASC LIMIT ?`, dead, limit)
	if err != nil {
		return nil, fmt.Errorf("querying outbox: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var payload string
		if err := rows.Scan(&it.ID, &payload, &it.Attempts, &it.LastError, &it.QueuedAt); err != nil {
			return nil, fmt.Errorf("scanning outbox item: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &it.Record); err != nil {
			return nil, fmt.Errorf("decoding outbox item %d: %w", it.ID, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Remove deletes a delivered item.
func (q *Queue) Remove(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pending_completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing outbox item %d: %w", id, err)
	}
	return nil
}

// MarkFailed bumps an item's attempt counter and records the error.
func (q *Queue) MarkFailed(ctx context.Context, id int64, cause error) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pending_completions SET attempts = attempts + 1, last_error = ? WHERE id = ?`,
		cause.Error(), id)
	if err != nil {
		return fmt.Errorf("updating outbox item %d: %w", id, err)
	}
	return nil
}

// MarkDead records the final error and stops the item from being delivered again.
// It stays in the database for inspection.
func (q *Queue) MarkDead(ctx context.Context, id int64, cause error) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pending_completions SET attempts = attempts + 1, last_error = ?, dead = 1 WHERE id = ?`,
		cause.Error(), id)
	if err != nil {
		return fmt.Errorf("dead-lettering outbox item %d: %w", id, err)
	}
	return nil
}

// Len returns the number of items still awaiting delivery.
func (q *Queue) Len(ctx context.Context) (int, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_completions WHERE dead = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting outbox: %w", err)
	}
	return n, nil
}

// Close closes the queue database.
func (q *Queue) Close() error {
	return q.db.Close()
}
