package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxWorkoutBody bounds JSON routine uploads.
const maxWorkoutBody = 1 << 20

func (s *Server) handleBodyParts(w http.ResponseWriter, r *http.Request) {
	parts, err := s.store.ListBodyParts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.store.ListExercises(r.Context(), r.URL.Query().Get("body_part"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workouts, err := s.store.ListWorkouts(r.Context(), uid, r.URL.Query().Get("body_part"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	detail, err := s.store.GetWorkout(r.Context(), workoutID, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxWorkoutBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}
	workout, err := ingest.DecodeWorkout(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if _, err := s.store.CreateWorkout(r.Context(), uid, workout, "manual"); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteWorkout(r.Context(), workoutID, uid); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	start := time.Now()
	result, err := s.importer.Ingest(r.Context(), r.Body, uid, dryRun)
	if !dryRun {
		s.logImport(uid, "alpha_csv", result, err, int(time.Since(start).Milliseconds()))
	}
	if err != nil {
		s.log.Error("routine import error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors to status codes; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, tracker.ErrNoSession):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrConflict), errors.Is(err, tracker.ErrSessionActive):
		status = http.StatusConflict
	case errors.Is(err, tracker.ErrInvalidDuration):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}

func parseLimit(r *http.Request, def int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
