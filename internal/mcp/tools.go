package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/gymlog/internal/calories"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	return timeRangeWithDefault(startStr, endStr, 7)
}

// timeRangeWithDefault parses start/end, defaulting start to days before end.
func timeRangeWithDefault(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List the workout routines available to the user: shared starter routines plus the user's own. Returns id, name, body part and source."),
	mcp.WithString("body_part", mcp.Description("Filter by body part (e.g. 'legs', 'chest')")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one routine with its ordered exercises (sets, reps, weight)."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Routine UUID from list_workouts")),
)

var toolGetCompletions = mcp.NewTool("get_completions",
	mcp.WithDescription("Completed and quit sessions with duration, estimated calories and sets done, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions. Defaults to all.")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Aggregated sessions per period: count, finished count, total duration, calories and sets, with a per-body-part breakdown."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to '1 week'."), mcp.Enum("1 day", "1 week", "1 month")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("All-time totals: routines, sessions, finished sessions, duration, calories, date range and sessions per routine."),
)

var toolEstimateCalories = mcp.NewTool("estimate_calories",
	mcp.WithDescription("Estimate calories burned for a duration of training a body part (MET x body mass x hours). Uses the user's stored body mass unless one is given."),
	mcp.WithString("body_part", mcp.Required(), mcp.Description("Body part or activity (e.g. 'legs', 'cardio')")),
	mcp.WithNumber("duration_minutes", mcp.Required(), mcp.Description("Training duration in minutes")),
	mcp.WithNumber("body_mass_kg", mcp.Description("Body mass in kilograms")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	rows, err := h.ds.ListWorkouts(ctx, uid, req.GetString("body_part", ""))
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(rows)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid routine id: " + err.Error()), nil
	}

	detail, err := h.ds.GetWorkout(ctx, id, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(detail)
}

func (h *handlers) getCompletions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	limit := int(req.GetFloat("limit", 0))

	rows, err := h.ds.QueryCompletions(ctx, start, end, UserIDFromContext(ctx), limit)
	if err != nil {
		h.log.Error("mcp get_completions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(rows)
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRangeWithDefault(req.GetString("start", ""), req.GetString("end", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	bucket := req.GetString("bucket", "1 week")

	periods, err := h.ds.GetTrainingSummary(ctx, start, end, bucket, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(periods)
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetDataStats(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(stats)
}

func (h *handlers) estimateCalories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bodyPart, err := req.RequireString("body_part")
	if err != nil {
		return mcp.NewToolResultError("body_part parameter is required"), nil
	}
	minutes, err := req.RequireFloat("duration_minutes")
	if err != nil {
		return mcp.NewToolResultError("duration_minutes parameter is required"), nil
	}
	if minutes < 0 || minutes > calories.MaxDurationMinutes {
		return mcp.NewToolResultError(fmt.Sprintf("duration_minutes must be between 0 and %d", calories.MaxDurationMinutes)), nil
	}

	mass := req.GetFloat("body_mass_kg", 0)
	if mass > calories.MaxBodyMassKg {
		return mcp.NewToolResultError(fmt.Sprintf("body_mass_kg must be at most %.0f", calories.MaxBodyMassKg)), nil
	}
	if mass <= 0 {
		p, err := h.ds.GetProfile(ctx, UserIDFromContext(ctx))
		if err != nil {
			h.log.Warn("mcp estimate_calories: profile lookup failed", "error", err)
		} else if p.BodyMassKg != nil {
			mass = *p.BodyMassKg
		}
	}
	if mass <= 0 {
		mass = calories.DefaultBodyMassKg
	}

	return jsonResult(map[string]any{
		"body_part":        bodyPart,
		"met":              calories.LookupMET(bodyPart),
		"body_mass_kg":     mass,
		"duration_minutes": minutes,
		"calories":         calories.Estimate(bodyPart, minutes, mass),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
