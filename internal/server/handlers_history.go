package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/claude/gymlog/internal/calories"
	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/tracker"
)

const kgPerLb = 0.45359237

type profileRequest struct {
	BodyMass *float64 `json:"body_mass"`
	Units    string   `json:"units"`
}

type estimateRequest struct {
	BodyPart        string   `json:"body_part"`
	DurationMinutes float64  `json:"duration_minutes"`
	BodyMassKg      *float64 `json:"body_mass_kg"`
}

type estimateResponse struct {
	BodyPart   string  `json:"body_part"`
	MET        float64 `json:"met"`
	BodyMassKg float64 `json:"body_mass_kg"`
	Calories   int     `json:"calories"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetProfile(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handlePutProfile stores onboarding answers. body_mass is in the unit system
// given by units and stored in kilograms.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Units == "" {
		req.Units = string(tracker.Metric)
	}
	if req.Units != string(tracker.Metric) && req.Units != string(tracker.Imperial) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "units must be metric or imperial"})
		return
	}

	row := models.ProfileRow{UserID: uid, Units: req.Units}
	if req.BodyMass != nil {
		if *req.BodyMass <= 0 || math.IsNaN(*req.BodyMass) || math.IsInf(*req.BodyMass, 0) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body_mass must be positive"})
			return
		}
		kg := *req.BodyMass
		if req.Units == string(tracker.Imperial) {
			kg *= kgPerLb
		}
		if kg > calories.MaxBodyMassKg {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("body_mass must be at most %.0f kg", calories.MaxBodyMassKg)})
			return
		}
		row.BodyMassKg = &kg
	}

	saved, err := s.store.UpsertProfile(r.Context(), row)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.store.QueryCompletions(r.Context(), start, end, uid, parseLimit(r, 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleTrainingSummary(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bucket := "1 week"
	switch r.URL.Query().Get("bucket") {
	case "day":
		bucket = "1 day"
	case "month":
		bucket = "1 month"
	case "week", "":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bucket must be day, week or month"})
		return
	}

	periods, err := s.store.GetTrainingSummary(r.Context(), start, end, bucket, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	stats, err := s.store.GetDataStats(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	logs, err := s.store.QueryImportLogs(r.Context(), uid, parseLimit(r, 50))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleEstimateCalories(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.DurationMinutes < 0 || req.DurationMinutes > calories.MaxDurationMinutes {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("duration_minutes must be between 0 and %d", calories.MaxDurationMinutes)})
		return
	}
	if req.BodyMassKg != nil && *req.BodyMassKg > calories.MaxBodyMassKg {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("body_mass_kg must be at most %.0f", calories.MaxBodyMassKg)})
		return
	}

	mass := 0.0
	if req.BodyMassKg != nil {
		mass = *req.BodyMassKg
	} else {
		profile, err := s.trackerProfile(r, uid)
		if err != nil {
			writeError(w, err)
			return
		}
		mass = profile.BodyMassKg
	}
	if mass <= 0 {
		mass = calories.DefaultBodyMassKg
	}

	writeJSON(w, http.StatusOK, estimateResponse{
		BodyPart:   req.BodyPart,
		MET:        calories.LookupMET(req.BodyPart),
		BodyMassKg: mass,
		Calories:   calories.Estimate(req.BodyPart, req.DurationMinutes, mass),
	})
}

// logImport records an import operation's result to the import_logs table.
func (s *Server) logImport(uid int, source string, result *ingest.Result, importErr error, durationMs int) {
	status := "success"
	var errMsg *string
	if importErr != nil {
		status = "error"
		msg := importErr.Error()
		errMsg = &msg
	}

	entry := storage.ImportLog{
		UserID:       uid,
		Source:       source,
		Status:       status,
		DurationMs:   &durationMs,
		ErrorMessage: errMsg,
	}
	if result != nil {
		entry.RoutinesReceived = int64(result.RoutinesReceived)
		entry.RoutinesInserted = int64(result.RoutinesInserted)
		entry.ExercisesInserted = result.ExercisesInserted
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	if _, err := s.store.InsertImportLog(ctx, entry); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout for async logging.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}
