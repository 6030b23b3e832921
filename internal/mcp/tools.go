// ABOUTME: MCP tool implementations for the diet log.
// ABOUTME: Import, query, summarise, preferences and narration tools.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 50

func (s *Server) registerTools() {
	// import_csv
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "import_csv",
		Description: "Import a CSV diet log export from a local file path",
	}, s.handleImportCSV)

	// list_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List stored diet entries, optionally filtered by date range and text",
	}, s.handleListRecords)

	// summarize
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "summarize",
		Description: "Summarise filtered entries: totals, daily averages, macro split and daily calories",
	}, s.handleSummarize)

	// get_targets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_targets",
		Description: "Get BMR, TDEE and daily nutrient targets from the stored profile and goals",
	}, s.handleGetTargets)

	// get_profile
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get the stored profile and goal settings",
	}, s.handleGetProfile)

	// update_profile
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_profile",
		Description: "Update profile fields; omitted fields keep their stored value",
	}, s.handleUpdateProfile)

	// update_goals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_goals",
		Description: "Update goal settings; omitted fields keep their stored value",
	}, s.handleUpdateGoals)

	// analyze
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze",
		Description: "Produce a written analysis of filtered entries against the targets",
	}, s.handleAnalyze)

	// list_imports
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_imports",
		Description: "List imported CSV files, newest first",
	}, s.handleListImports)

	// delete_import
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_import",
		Description: "Delete an import and its entries by ID or ID prefix",
	}, s.handleDeleteImport)
}

// Tool input/output types

type importCSVInput struct {
	Path string `json:"path" jsonschema:"Path to the CSV file"`
}

type importOutput struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Entries int    `json:"entries"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

type filterInput struct {
	From   string `json:"from,omitempty" jsonschema:"Start date (YYYY-MM-DD), inclusive"`
	To     string `json:"to,omitempty" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	Search string `json:"search,omitempty" jsonschema:"Case-insensitive text matched against item, meal and notes"`
}

type listRecordsInput struct {
	From   string `json:"from,omitempty" jsonschema:"Start date (YYYY-MM-DD), inclusive"`
	To     string `json:"to,omitempty" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	Search string `json:"search,omitempty" jsonschema:"Case-insensitive text matched against item, meal and notes"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type emptyInput struct{}

type updateProfileInput struct {
	Age           int     `json:"age,omitempty" jsonschema:"Age in years (13-120)"`
	Sex           string  `json:"sex,omitempty" jsonschema:"male or female"`
	WeightKg      float64 `json:"weight_kg,omitempty" jsonschema:"Body weight in kg (30-400)"`
	HeightCm      float64 `json:"height_cm,omitempty" jsonschema:"Height in cm (120-250)"`
	ActivityLevel string  `json:"activity_level,omitempty" jsonschema:"sedentary, lightly_active, moderately_active, very_active or athlete"`
}

type updateGoalsInput struct {
	Mode           string   `json:"mode,omitempty" jsonschema:"lose, maintain or gain"`
	WeeklyRateKg   *float64 `json:"weekly_rate_kg,omitempty" jsonschema:"Target change in kg per week (0-1.5)"`
	ProteinPerKg   *float64 `json:"protein_per_kg,omitempty" jsonschema:"Protein grams per kg of body weight (0.7-3.0)"`
	FatPerKg       *float64 `json:"fat_per_kg,omitempty" jsonschema:"Fat grams per kg of body weight (0.3-1.5)"`
	FiberTargetG   *float64 `json:"fiber_target_g,omitempty" jsonschema:"Fiber override in grams; zero or negative means automatic"`
	SodiumTargetMg *float64 `json:"sodium_target_mg,omitempty" jsonschema:"Sodium override in mg; zero or negative means automatic"`
}

type preferencesOutput struct {
	Profile models.Profile      `json:"profile"`
	Goals   models.GoalSettings `json:"goals"`
	Message string              `json:"message,omitempty"`
}

type analyzeOutput struct {
	Analysis string `json:"analysis"`
	Source   string `json:"source"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

type listImportsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type deleteImportInput struct {
	ID string `json:"id" jsonschema:"Import ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleImportCSV(ctx context.Context, req *mcp.CallToolRequest, input importCSVInput) (*mcp.CallToolResult, importOutput, error) {
	if input.Path == "" {
		return nil, importOutput{}, fmt.Errorf("path is required")
	}

	res, err := s.importer.ImportFile(ctx, input.Path)
	if err != nil {
		return nil, importOutput{}, err
	}

	batch := res.Batch()
	if err := s.repo.SaveImport(batch, res.Records); err != nil {
		return nil, importOutput{}, fmt.Errorf("failed to save import: %w", err)
	}

	id := batch.ID.String()[:8]
	return nil, importOutput{
		ID:      id,
		Source:  batch.Source,
		Entries: batch.Entries,
		Skipped: batch.Skipped,
		Message: fmt.Sprintf("Imported %d entries from %s, skipped %d rows (ID: %s)", batch.Entries, batch.Source, batch.Skipped, id),
	}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	filter, err := models.ParseRecordFilter(input.From, input.To, input.Search, input.Limit)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.repo.ListRecords(filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list records: %w", err)
	}

	if len(records) == 0 {
		return nil, map[string]interface{}{"message": "No entries found."}, nil
	}

	return nil, map[string]interface{}{
		"count":   len(records),
		"records": records,
	}, nil
}

func (s *Server) handleSummarize(ctx context.Context, req *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, any, error) {
	rep, err := s.buildReport(input)
	if err != nil {
		return nil, nil, err
	}
	return nil, rep.Summary, nil
}

func (s *Server) handleGetTargets(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	p, g, t, err := report.Preferences(s.repo)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]interface{}{
		"profile": p,
		"goals":   g,
		"targets": t,
	}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, preferencesOutput, error) {
	p, err := s.repo.LoadProfile()
	if err != nil {
		return nil, preferencesOutput{}, fmt.Errorf("failed to load profile: %w", err)
	}
	g, err := s.repo.LoadGoals()
	if err != nil {
		return nil, preferencesOutput{}, fmt.Errorf("failed to load goals: %w", err)
	}
	return nil, preferencesOutput{Profile: p, Goals: g}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, req *mcp.CallToolRequest, input updateProfileInput) (*mcp.CallToolResult, preferencesOutput, error) {
	p, err := s.repo.LoadProfile()
	if err != nil {
		return nil, preferencesOutput{}, fmt.Errorf("failed to load profile: %w", err)
	}

	if input.Age != 0 {
		p.Age = input.Age
	}
	if input.Sex != "" {
		if p.Sex, err = models.ParseSex(input.Sex); err != nil {
			return nil, preferencesOutput{}, err
		}
	}
	if input.WeightKg != 0 {
		p.WeightKg = input.WeightKg
	}
	if input.HeightCm != 0 {
		p.HeightCm = input.HeightCm
	}
	if input.ActivityLevel != "" {
		if p.ActivityLevel, err = models.ParseActivityLevel(input.ActivityLevel); err != nil {
			return nil, preferencesOutput{}, err
		}
	}

	if err := s.repo.SaveProfile(p); err != nil {
		return nil, preferencesOutput{}, err
	}

	g, err := s.repo.LoadGoals()
	if err != nil {
		return nil, preferencesOutput{}, fmt.Errorf("failed to load goals: %w", err)
	}
	return nil, preferencesOutput{Profile: p, Goals: g, Message: "Profile saved."}, nil
}

func (s *Server) handleUpdateGoals(ctx context.Context, req *mcp.CallToolRequest, input updateGoalsInput) (*mcp.CallToolResult, preferencesOutput, error) {
	g, err := s.repo.LoadGoals()
	if err != nil {
		return nil, preferencesOutput{}, fmt.Errorf("failed to load goals: %w", err)
	}

	if input.Mode != "" {
		if g.Mode, err = models.ParseGoalMode(input.Mode); err != nil {
			return nil, preferencesOutput{}, err
		}
	}
	setFloat(&g.WeeklyRateKg, input.WeeklyRateKg)
	setFloat(&g.ProteinPerKg, input.ProteinPerKg)
	setFloat(&g.FatPerKg, input.FatPerKg)
	setFloat(&g.FiberTargetG, input.FiberTargetG)
	setFloat(&g.SodiumTargetMg, input.SodiumTargetMg)

	if err := s.repo.SaveGoals(g); err != nil {
		return nil, preferencesOutput{}, err
	}

	p, err := s.repo.LoadProfile()
	if err != nil {
		return nil, preferencesOutput{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return nil, preferencesOutput{Profile: p, Goals: g, Message: "Goals saved."}, nil
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, analyzeOutput, error) {
	rep, err := s.buildReport(input)
	if err != nil {
		return nil, analyzeOutput{}, err
	}

	res := s.narrator.Analyze(ctx, rep.Payload())
	out := analyzeOutput{
		Analysis: res.Text,
		Source:   string(res.Source),
		Provider: res.Provider,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return nil, out, nil
}

func (s *Server) handleListImports(ctx context.Context, req *mcp.CallToolRequest, input listImportsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	batches, err := s.repo.ListImports(input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list imports: %w", err)
	}

	if len(batches) == 0 {
		return nil, map[string]interface{}{"message": "No imports found."}, nil
	}

	return nil, batches, nil
}

func (s *Server) handleDeleteImport(ctx context.Context, req *mcp.CallToolRequest, input deleteImportInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteImport(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete import: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted import: %s", input.ID),
	}, nil
}

// buildReport resolves the filter and assembles the report, turning an empty
// selection into a readable error.
func (s *Server) buildReport(input filterInput) (*report.Report, error) {
	filter, err := models.ParseRecordFilter(input.From, input.To, input.Search, 0)
	if err != nil {
		return nil, err
	}
	rep, err := report.Build(s.repo, filter)
	if errors.Is(err, analysis.ErrNoEntries) {
		return nil, fmt.Errorf("no entries match the filter; import a CSV first or widen the date range")
	}
	return rep, err
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
