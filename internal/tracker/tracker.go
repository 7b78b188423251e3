// Package tracker runs live workout sessions: it owns the session state, feeds
// it timer ticks and user events one at a time, and produces the completion
// record when the session ends.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/claude/gymlog/internal/calories"
	"github.com/claude/gymlog/internal/session"
	"github.com/claude/gymlog/internal/timer"
	"github.com/google/uuid"
)

var (
	// ErrEnded is returned for events delivered after a session finished or was cancelled.
	ErrEnded = errors.New("session has ended")
	// ErrInvalidDuration is returned by Quit for a duration override outside [0, MaxDurationSeconds].
	ErrInvalidDuration = fmt.Errorf("duration must be between 0 and %d seconds", MaxDurationSeconds)
)

// MaxDurationSeconds is the longest duration override Quit accepts.
const MaxDurationSeconds = calories.MaxDurationMinutes * 60

// Units is a user's display preference for weights.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// Profile is the per-user configuration a tracker is built with.
type Profile struct {
	BodyMassKg float64 `json:"body_mass_kg"`
	Units      Units   `json:"units"`
}

// DefaultProfile is used for users who have not finished onboarding.
func DefaultProfile() Profile {
	return Profile{BodyMassKg: calories.DefaultBodyMassKg, Units: Metric}
}

// View is a tracker's state as handed to API callers.
type View struct {
	SessionID   uuid.UUID `json:"session_id"`
	WorkoutID   uuid.UUID `json:"workout_id"`
	WorkoutName string    `json:"workout_name"`
	BodyPart    string    `json:"body_part"`
	StartedAt   time.Time `json:"started_at"`
	Ended       bool      `json:"ended"`
	session.Snapshot
}

// Tracker is one live session. All methods are safe for concurrent use; ticks
// and events are applied in the order they acquire the tracker.
type Tracker struct {
	id        uuid.UUID
	userID    int
	workout   session.Workout
	profile   Profile
	ticker    timer.Ticker
	startedAt time.Time
	now       func() time.Time

	mu    sync.Mutex
	state session.State
	ended bool
}

// New validates the workout, builds the initial state and arms the ticker.
func New(userID int, w session.Workout, p Profile, t timer.Ticker, now func() time.Time) (*Tracker, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workout: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	tr := &Tracker{
		id:        uuid.New(),
		userID:    userID,
		workout:   w,
		profile:   p,
		ticker:    t,
		startedAt: now(),
		now:       now,
		state:     session.New(w.Exercises),
	}
	t.Start(tr.tick)
	return tr, nil
}

// ID returns the session ID.
func (t *Tracker) ID() uuid.UUID { return t.id }

// Workout returns the workout the session runs.
func (t *Tracker) Workout() session.Workout { return t.workout }

func (t *Tracker) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ended {
		return
	}
	t.state = session.Tick(t.state)
}

// View returns the current state.
func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

func (t *Tracker) viewLocked() View {
	return View{
		SessionID:   t.id,
		WorkoutID:   t.workout.ID,
		WorkoutName: t.workout.Name,
		BodyPart:    t.workout.BodyPart,
		StartedAt:   t.startedAt,
		Ended:       t.ended,
		Snapshot:    t.state.Snapshot(),
	}
}

// Ended reports whether the session has finished or been cancelled.
func (t *Tracker) Ended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ended
}

func (t *Tracker) apply(fn func(session.State) session.State) (View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ended {
		return View{}, ErrEnded
	}
	t.state = fn(t.state)
	return t.viewLocked(), nil
}

// Retreat steps back one set.
func (t *Tracker) Retreat() (View, error) { return t.apply(session.Retreat) }

// EndRest leaves the rest phase.
func (t *Tracker) EndRest() (View, error) { return t.apply(session.EndRest) }

// Pause stops elapsed time from counting.
func (t *Tracker) Pause() (View, error) {
	return t.apply(func(s session.State) session.State { return session.SetTimerRunning(s, false) })
}

// Resume restarts elapsed time counting.
func (t *Tracker) Resume() (View, error) {
	return t.apply(func(s session.State) session.State { return session.SetTimerRunning(s, true) })
}

// TogglePause flips the timer between running and paused.
func (t *Tracker) TogglePause() (View, error) {
	return t.apply(func(s session.State) session.State { return session.SetTimerRunning(s, !s.TimerRunning) })
}

// Advance completes the current set. When it was the final set the session
// ends and the returned record is non-nil.
func (t *Tracker) Advance() (View, *session.CompletionRecord, error) {
	t.mu.Lock()
	if t.ended {
		t.mu.Unlock()
		return View{}, nil, ErrEnded
	}
	next, done := session.Advance(t.state)
	t.state = next
	if !done {
		v := t.viewLocked()
		t.mu.Unlock()
		return v, nil, nil
	}
	t.ended = true
	t.mu.Unlock()

	rec := t.finish(true, nil)
	return t.View(), &rec, nil
}

// Quit ends the session early and returns its record. durationSeconds, when
// set, replaces the counted elapsed time. An out-of-range override leaves the
// session running.
func (t *Tracker) Quit(durationSeconds *int) (session.CompletionRecord, error) {
	if durationSeconds != nil && (*durationSeconds < 0 || *durationSeconds > MaxDurationSeconds) {
		return session.CompletionRecord{}, ErrInvalidDuration
	}
	t.mu.Lock()
	if t.ended {
		t.mu.Unlock()
		return session.CompletionRecord{}, ErrEnded
	}
	t.ended = true
	t.mu.Unlock()

	return t.finish(false, durationSeconds), nil
}

// Cancel discards the session without producing a record.
func (t *Tracker) Cancel() error {
	t.mu.Lock()
	if t.ended {
		t.mu.Unlock()
		return ErrEnded
	}
	t.ended = true
	t.mu.Unlock()

	t.ticker.Stop()
	return nil
}

// finish stops the ticker and then builds the record. ended is already set, so
// a tick racing with it is dropped and elapsed time is frozen.
func (t *Tracker) finish(finished bool, durationSeconds *int) session.CompletionRecord {
	t.ticker.Stop()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = session.SetTimerRunning(t.state, false)
	return session.Complete(t.state, session.CompletionInput{
		WorkoutID:       t.workout.ID,
		UserID:          t.userID,
		BodyPart:        t.workout.BodyPart,
		BodyMassKg:      t.profile.BodyMassKg,
		DurationSeconds: durationSeconds,
		Finished:        finished,
		StartedAt:       t.startedAt,
		EndedAt:         t.now(),
	})
}
