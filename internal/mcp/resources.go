package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/gymlog/internal/calories"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	rows, err := h.ds.QueryCompletions(ctx, start, end, uid, 0)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, rows)
}

type metEntry struct {
	BodyPart string  `json:"body_part"`
	MET      float64 `json:"met"`
}

func (h *handlers) metTable(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	keys := calories.Keys()
	table := make([]metEntry, 0, len(keys)+1)
	for _, k := range keys {
		table = append(table, metEntry{BodyPart: k, MET: calories.LookupMET(k)})
	}
	table = append(table, metEntry{BodyPart: "default", MET: calories.DefaultMET})
	return jsonResource(req.Params.URI, table)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
