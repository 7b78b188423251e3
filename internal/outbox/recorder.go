package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/session"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrRejected wraps store errors that retrying cannot fix.
var ErrRejected = errors.New("completion rejected by store")

// Store is the primary destination for completion records.
type Store interface {
	RecordCompletion(ctx context.Context, rec session.CompletionRecord) error
}

// Recorder writes completion records to the primary store, retrying a few
// times, and falls back to the queue when the store stays unavailable.
type Recorder struct {
	store    Store
	queue    *Queue
	log      *slog.Logger
	attempts int
	backoff  time.Duration
	// maxDeliveries is how many failed flushes an item gets before it is dead-lettered.
	maxDeliveries int
}

// NewRecorder creates a Recorder. backoff is the first retry delay; it
// doubles on each further attempt.
func NewRecorder(store Store, queue *Queue, backoff time.Duration, log *slog.Logger) *Recorder {
	return &Recorder{store: store, queue: queue, log: log, attempts: 3, backoff: backoff, maxDeliveries: 20}
}

// RecordCompletion implements tracker.Recorder. It returns an error when the
// store rejected the record outright, or when the record could be neither
// stored nor queued.
func (r *Recorder) RecordCompletion(ctx context.Context, rec session.CompletionRecord) error {
	err := r.send(ctx, rec)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRejected) {
		r.log.Error("completion rejected, not queuing", "completion_id", rec.ID, "error", err)
		return err
	}
	r.log.Warn("completion store unavailable, queuing", "completion_id", rec.ID, "error", err)
	if qerr := r.queue.Enqueue(ctx, rec, err); qerr != nil {
		return fmt.Errorf("storing completion: %w (queue: %v)", err, qerr)
	}
	return nil
}

// send tries the store up to r.attempts times with exponential backoff.
// A rejected record is not retried.
func (r *Recorder) send(ctx context.Context, rec session.CompletionRecord) error {
	var lastErr error
	for attempt := range r.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.backoff << uint(attempt-1)):
			}
		}
		lastErr = r.store.RecordCompletion(ctx, rec)
		if lastErr == nil {
			return nil
		}
		if rejected(lastErr) {
			return fmt.Errorf("%w: %w", ErrRejected, lastErr)
		}
	}
	return fmt.Errorf("after %d attempts: %w", r.attempts, lastErr)
}

// rejected reports whether the store refused the record itself: a Postgres
// data exception (class 22) or integrity constraint violation (class 23).
func rejected(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")
}

// Flush delivers queued records once each, oldest first. Returns the number
// delivered. Items that fail again stay queued until they have failed
// maxDeliveries times or are rejected, then they are dead-lettered.
func (r *Recorder) Flush(ctx context.Context) (int, error) {
	items, err := r.queue.Pending(ctx, 100)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, it := range items {
		if err := r.store.RecordCompletion(ctx, it.Record); err != nil {
			attempts := it.Attempts + 1
			if rejected(err) || attempts >= r.maxDeliveries {
				r.log.Error("outbox giving up on completion", "completion_id", it.Record.ID, "attempts", attempts, "error", err)
				if merr := r.queue.MarkDead(ctx, it.ID, err); merr != nil {
					return sent, merr
				}
				continue
			}
			r.log.Warn("outbox delivery failed", "completion_id", it.Record.ID, "attempts", attempts, "error", err)
			if merr := r.queue.MarkFailed(ctx, it.ID, err); merr != nil {
				return sent, merr
			}
			continue
		}
		if err := r.queue.Remove(ctx, it.ID); err != nil {
			return sent, err
		}
		sent++
	}
	if sent > 0 {
		r.log.Info("outbox flushed", "delivered", sent, "remaining", len(items)-sent)
	}
	return sent, nil
}

// Run flushes the queue every interval until ctx is cancelled.
func (r *Recorder) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.log.Error("outbox flush failed", "error", err)
			}
		}
	}
}
