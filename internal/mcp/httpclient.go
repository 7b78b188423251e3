package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the GymLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). The server
// resolves the user from the tailnet identity, so user IDs are ignored.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// bucketParam maps storage bucket intervals to the REST API bucket parameter.
func bucketParam(bucket string) string {
	switch bucket {
	case "1 day":
		return "day"
	case "1 month":
		return "month"
	default:
		return "week"
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	default:
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
}

// getJSON fetches path and decodes the response into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) ListWorkouts(ctx context.Context, _ int, bodyPart string) ([]models.WorkoutRow, error) {
	params := url.Values{}
	if bodyPart != "" {
		params.Set("body_part", bodyPart)
	}
	var rows []models.WorkoutRow
	if err := c.getJSON(ctx, "/api/v1/workouts", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) GetWorkout(ctx context.Context, workoutID uuid.UUID, _ int) (*storage.WorkoutDetail, error) {
	var detail storage.WorkoutDetail
	if err := c.getJSON(ctx, "/api/v1/workouts/"+workoutID.String(), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *HTTPClient) QueryCompletions(ctx context.Context, start, end time.Time, _ int, limit int) ([]models.CompletionRow, error) {
	params := timeParams(start, end)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var rows []models.CompletionRow
	if err := c.getJSON(ctx, "/api/v1/completions", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string, _ int) ([]storage.TrainingSummaryPeriod, error) {
	params := timeParams(start, end)
	params.Set("bucket", bucketParam(bucket))
	var periods []storage.TrainingSummaryPeriod
	if err := c.getJSON(ctx, "/api/v1/completions/summary", params, &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context, _ int) (*storage.DataStats, error) {
	var stats storage.DataStats
	if err := c.getJSON(ctx, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, _ int) (models.ProfileRow, error) {
	var p models.ProfileRow
	if err := c.getJSON(ctx, "/api/v1/profile", nil, &p); err != nil {
		return models.ProfileRow{}, err
	}
	return p, nil
}
