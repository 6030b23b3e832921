// ABOUTME: Report assembles filtered records, preferences, targets and summary.
// ABOUTME: Shared by the CLI, the MCP server and the HTTP API.
package report

import (
	"fmt"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/narrate"
	"github.com/harperreed/diet/internal/targets"
)

// Source supplies stored records and preferences.
type Source interface {
	ListRecords(filter models.RecordFilter) ([]models.NutritionRecord, error)
	LoadProfile() (models.Profile, error)
	LoadGoals() (models.GoalSettings, error)
}

// Report is everything needed to display or narrate one filtered view.
type Report struct {
	Filter  models.RecordFilter `json:"-"`
	Profile models.Profile      `json:"profile"`
	Goals   models.GoalSettings `json:"goals"`
	Targets targets.Targets     `json:"targets"`
	Summary *analysis.Summary   `json:"summary"`
}

// Preferences loads the profile and goals and computes targets, without
// touching any records.
func Preferences(src Source) (models.Profile, models.GoalSettings, targets.Targets, error) {
	p, err := src.LoadProfile()
	if err != nil {
		return models.Profile{}, models.GoalSettings{}, targets.Targets{}, fmt.Errorf("load profile: %w", err)
	}
	g, err := src.LoadGoals()
	if err != nil {
		return models.Profile{}, models.GoalSettings{}, targets.Targets{}, fmt.Errorf("load goals: %w", err)
	}
	return p, g, targets.Calculate(p, g), nil
}

// Build loads the records matching filter and summarises them. An empty
// selection yields analysis.ErrNoEntries.
func Build(src Source, filter models.RecordFilter) (*Report, error) {
	records, err := src.ListRecords(filter)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	summary, err := analysis.Summarize(records)
	if err != nil {
		return nil, err
	}

	p, g, t, err := Preferences(src)
	if err != nil {
		return nil, err
	}

	return &Report{
		Filter:  filter,
		Profile: p,
		Goals:   g,
		Targets: t,
		Summary: summary,
	}, nil
}

// Payload is the narration request for this report.
func (r *Report) Payload() narrate.Payload {
	return narrate.NewPayload(r.Profile, r.Goals, r.Targets, r.Summary)
}
