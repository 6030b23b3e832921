// ABOUTME: MCP resource implementations for the diet log.
// ABOUTME: Provides diet://summary, diet://targets, and diet://recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// recentDays is the window, ending at the newest entry, shown by diet://recent.
const recentDays = 7

func (s *Server) registerResources() {
	// diet://summary - Summary of every stored entry
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "diet://summary",
		Name:        "Diet Summary",
		Description: "Totals, daily averages, macro split and daily calories for all stored entries",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// diet://targets - Profile, goals and computed targets
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "diet://targets",
		Name:        "Nutrition Targets",
		Description: "Stored profile and goals with BMR, TDEE and daily targets",
		MIMEType:    "application/json",
	}, s.handleTargetsResource)

	// diet://recent - Last week of entries and latest imports
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "diet://recent",
		Name:        "Recent Diet Entries",
		Description: "Entries from the last 7 logged days plus the latest imports",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	var result interface{}

	rep, err := report.Build(s.repo, models.RecordFilter{})
	switch {
	case errors.Is(err, analysis.ErrNoEntries):
		result = map[string]interface{}{
			"generated_at": time.Now().Format(time.RFC3339),
			"message":      "No entries stored yet.",
		}
	case err != nil:
		return nil, fmt.Errorf("failed to build summary: %w", err)
	default:
		result = map[string]interface{}{
			"generated_at": time.Now().Format(time.RFC3339),
			"summary":      rep.Summary,
			"targets":      rep.Targets,
		}
	}

	return jsonResource("diet://summary", result)
}

func (s *Server) handleTargetsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	p, g, t, err := report.Preferences(s.repo)
	if err != nil {
		return nil, err
	}

	return jsonResource("diet://targets", map[string]interface{}{
		"profile": p,
		"goals":   g,
		"targets": t,
	})
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	all, err := s.repo.ListRecords(models.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	// Records come back in date order, so the newest day is last.
	recent := []models.NutritionRecord{}
	var from, to models.Date
	if len(all) > 0 {
		to = all[len(all)-1].Date
		from = to.AddDays(-(recentDays - 1))
		recent = models.RecordFilter{From: from, To: to}.Apply(all)
	}

	imports, err := s.repo.ListImports(5)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}

	result := map[string]interface{}{
		"entries": recent,
		"imports": imports,
		"counts": map[string]int{
			"entries": len(recent),
			"imports": len(imports),
		},
	}
	if !to.IsZero() {
		result["from"] = from
		result["to"] = to
	}

	return jsonResource("diet://recent", result)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
