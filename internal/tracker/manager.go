package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/gymlog/internal/session"
	"github.com/claude/gymlog/internal/timer"
	"github.com/google/uuid"
)

var (
	// ErrSessionActive is returned when a user starts a session while one is running.
	ErrSessionActive = errors.New("a session is already active")
	// ErrNoSession is returned for events sent when the user has no active session.
	ErrNoSession = errors.New("no active session")
)

// WorkoutSource loads the workout a session is started from.
type WorkoutSource interface {
	SessionWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (session.Workout, error)
}

// Recorder persists completion records.
type Recorder interface {
	RecordCompletion(ctx context.Context, rec session.CompletionRecord) error
}

// Manager holds at most one active tracker per user.
type Manager struct {
	workouts  WorkoutSource
	recorder  Recorder
	newTicker func() timer.Ticker
	log       *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	active map[int]*Tracker
}

// NewManager creates a Manager. newTicker is called once per started session.
func NewManager(workouts WorkoutSource, recorder Recorder, newTicker func() timer.Ticker, log *slog.Logger) *Manager {
	return &Manager{
		workouts:  workouts,
		recorder:  recorder,
		newTicker: newTicker,
		log:       log,
		now:       time.Now,
		active:    make(map[int]*Tracker),
	}
}

// Start loads the workout and begins a session for the user.
func (m *Manager) Start(ctx context.Context, userID int, workoutID uuid.UUID, p Profile) (*Tracker, error) {
	m.mu.Lock()
	if tr, ok := m.active[userID]; ok && !tr.Ended() {
		m.mu.Unlock()
		return nil, ErrSessionActive
	}
	m.mu.Unlock()

	w, err := m.workouts.SessionWorkout(ctx, workoutID, userID)
	if err != nil {
		return nil, fmt.Errorf("loading workout %s: %w", workoutID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have started a session while the workout loaded.
	if tr, ok := m.active[userID]; ok && !tr.Ended() {
		return nil, ErrSessionActive
	}
	tr, err := New(userID, w, p, m.newTicker(), m.now)
	if err != nil {
		return nil, err
	}
	m.active[userID] = tr
	m.log.Info("session started", "user_id", userID, "session_id", tr.ID(), "workout_id", workoutID)
	return tr, nil
}

// Current returns the user's active tracker.
func (m *Manager) Current(userID int) (*Tracker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.active[userID]
	if !ok || tr.Ended() {
		return nil, ErrNoSession
	}
	return tr, nil
}

func (m *Manager) release(userID int, tr *Tracker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active[userID] == tr {
		delete(m.active, userID)
	}
}

// Advance completes the current set. If that finishes the workout, the record
// is saved and returned; a save failure is returned alongside the record.
func (m *Manager) Advance(ctx context.Context, userID int) (View, *session.CompletionRecord, error) {
	tr, err := m.Current(userID)
	if err != nil {
		return View{}, nil, err
	}
	v, rec, err := tr.Advance()
	if err != nil {
		return View{}, nil, m.ended(err)
	}
	if rec == nil {
		return v, nil, nil
	}
	m.release(userID, tr)
	return v, rec, m.save(ctx, *rec)
}

// Quit ends the user's session early and saves its record.
func (m *Manager) Quit(ctx context.Context, userID int, durationSeconds *int) (session.CompletionRecord, error) {
	tr, err := m.Current(userID)
	if err != nil {
		return session.CompletionRecord{}, err
	}
	rec, err := tr.Quit(durationSeconds)
	if err != nil {
		return session.CompletionRecord{}, m.ended(err)
	}
	m.release(userID, tr)
	return rec, m.save(ctx, rec)
}

// Cancel discards the user's session.
func (m *Manager) Cancel(userID int) error {
	tr, err := m.Current(userID)
	if err != nil {
		return err
	}
	if err := tr.Cancel(); err != nil {
		return m.ended(err)
	}
	m.release(userID, tr)
	m.log.Info("session cancelled", "user_id", userID, "session_id", tr.ID())
	return nil
}

// Retreat steps the user's session back one set.
func (m *Manager) Retreat(userID int) (View, error) {
	return m.event(userID, (*Tracker).Retreat)
}

// EndRest ends the user's rest period.
func (m *Manager) EndRest(userID int) (View, error) {
	return m.event(userID, (*Tracker).EndRest)
}

// Pause pauses the user's session timer.
func (m *Manager) Pause(userID int) (View, error) {
	return m.event(userID, (*Tracker).Pause)
}

// Resume resumes the user's session timer.
func (m *Manager) Resume(userID int) (View, error) {
	return m.event(userID, (*Tracker).Resume)
}

// Shutdown cancels every active session. Records are not produced.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	trackers := make([]*Tracker, 0, len(m.active))
	for uid, tr := range m.active {
		trackers = append(trackers, tr)
		delete(m.active, uid)
	}
	m.mu.Unlock()

	for _, tr := range trackers {
		if err := tr.Cancel(); err == nil {
			m.log.Info("session dropped on shutdown", "session_id", tr.ID())
		}
	}
}

func (m *Manager) event(userID int, fn func(*Tracker) (View, error)) (View, error) {
	tr, err := m.Current(userID)
	if err != nil {
		return View{}, err
	}
	v, err := fn(tr)
	if err != nil {
		return View{}, m.ended(err)
	}
	return v, nil
}

// ended maps a tracker that finished between lookup and use to ErrNoSession.
func (m *Manager) ended(err error) error {
	if errors.Is(err, ErrEnded) {
		return ErrNoSession
	}
	return err
}

func (m *Manager) save(ctx context.Context, rec session.CompletionRecord) error {
	if err := m.recorder.RecordCompletion(ctx, rec); err != nil {
		m.log.Error("failed to save completion", "workout_id", rec.WorkoutID, "error", err)
		return fmt.Errorf("saving completion: %w", err)
	}
	m.log.Info("session completed",
		"user_id", rec.UserID,
		"workout_id", rec.WorkoutID,
		"finished", rec.Finished,
		"duration_sec", rec.DurationSeconds,
		"calories", rec.CaloriesBurned,
	)
	return nil
}
