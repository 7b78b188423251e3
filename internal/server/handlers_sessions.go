package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/claude/gymlog/internal/session"
	"github.com/claude/gymlog/internal/tracker"
	"github.com/google/uuid"
)

type startSessionRequest struct {
	WorkoutID uuid.UUID `json:"workout_id"`
}

type quitRequest struct {
	DurationSeconds *int `json:"duration_seconds"`
}

// advanceResponse carries the completion record when the advance finished the
// workout. Warning is set when the record could not be saved.
type advanceResponse struct {
	Session    tracker.View             `json:"session"`
	Completion *session.CompletionRecord `json:"completion,omitempty"`
	Warning    string                   `json:"warning,omitempty"`
}

type quitResponse struct {
	Completion session.CompletionRecord `json:"completion"`
	Warning    string                   `json:"warning,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.WorkoutID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workout_id is required"})
		return
	}

	profile, err := s.trackerProfile(r, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	tr, err := s.sessions.Start(r.Context(), uid, req.WorkoutID, profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tr.View())
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	tr, err := s.sessions.Current(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr.View())
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Cancel(uid); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	view, rec, err := s.sessions.Advance(r.Context(), uid)
	if err != nil && rec == nil {
		writeError(w, err)
		return
	}
	resp := advanceResponse{Session: view, Completion: rec}
	if err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req quitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.DurationSeconds != nil && (*req.DurationSeconds < 0 || *req.DurationSeconds > tracker.MaxDurationSeconds) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": tracker.ErrInvalidDuration.Error()})
		return
	}

	rec, err := s.sessions.Quit(r.Context(), uid, req.DurationSeconds)
	if err != nil && rec.ID == uuid.Nil {
		writeError(w, err)
		return
	}
	resp := quitResponse{Completion: rec}
	if err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// sessionEvent adapts a manager event that only changes session state.
func (s *Server) sessionEvent(fn func(userID int) (tracker.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := mustUserID(w, r)
		if !ok {
			return
		}
		view, err := fn(uid)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// trackerProfile builds the tracker configuration from the stored profile.
func (s *Server) trackerProfile(r *http.Request, uid int) (tracker.Profile, error) {
	p, err := s.store.GetProfile(r.Context(), uid)
	if err != nil {
		return tracker.Profile{}, err
	}
	profile := tracker.DefaultProfile()
	if s.opts.DefaultBodyMassKg > 0 {
		profile.BodyMassKg = s.opts.DefaultBodyMassKg
	}
	if p.BodyMassKg != nil && *p.BodyMassKg > 0 {
		profile.BodyMassKg = *p.BodyMassKg
	}
	if p.Units == string(tracker.Imperial) {
		profile.Units = tracker.Imperial
	}
	return profile, nil
}
