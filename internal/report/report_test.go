// ABOUTME: Tests for report assembly.
// ABOUTME: Checks filtering, preferences and payload construction.
package report

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/narrate"
	"github.com/harperreed/diet/internal/targets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSource struct {
	records    []models.NutritionRecord
	profile    models.Profile
	goals      models.GoalSettings
	profileErr error
}

func (m *memSource) ListRecords(f models.RecordFilter) ([]models.NutritionRecord, error) {
	return f.Apply(m.records), nil
}

func (m *memSource) LoadProfile() (models.Profile, error) { return m.profile, m.profileErr }
func (m *memSource) LoadGoals() (models.GoalSettings, error) { return m.goals, nil }

func newSource() *memSource {
	day := func(d int) models.Date { return models.NewDate(2024, time.June, d) }
	return &memSource{
		records: []models.NutritionRecord{
			{Date: day(1), Meal: "Breakfast", Item: "Oats", Calories: 350, CarbsG: 60, ProteinG: 12, FatG: 6},
			{Date: day(1), Meal: "Dinner", Item: "Salmon", Calories: 600, ProteinG: 45, FatG: 35},
			{Date: day(2), Meal: "Lunch", Item: "Lentil soup", Calories: 420, CarbsG: 55, ProteinG: 22, FatG: 8, Notes: "homemade"},
		},
		profile: models.DefaultProfile(),
		goals:   models.DefaultGoals(),
	}
}

func TestBuild(t *testing.T) {
	src := newSource()

	r, err := Build(src, models.RecordFilter{})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Summary.EntryCount)
	assert.Equal(t, 2, r.Summary.DayCount)
	assert.Equal(t, targets.Calculate(src.profile, src.goals), r.Targets)
	assert.Equal(t, models.DefaultProfile(), r.Profile)
}

func TestBuildAppliesFilter(t *testing.T) {
	r, err := Build(newSource(), models.RecordFilter{Search: "HOMEMADE"})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Summary.EntryCount)
	assert.InDelta(t, 420, r.Summary.Totals.Calories, 1e-9)

	r, err = Build(newSource(), models.RecordFilter{To: models.NewDate(2024, time.June, 1)})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Summary.EntryCount)
}

func TestBuildEmptySelection(t *testing.T) {
	_, err := Build(newSource(), models.RecordFilter{Search: "pizza"})
	assert.ErrorIs(t, err, analysis.ErrNoEntries)
}

func TestBuildPreferenceError(t *testing.T) {
	src := newSource()
	src.profileErr = errors.New("disk gone")

	_, err := Build(src, models.RecordFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load profile")
}

func TestPayload(t *testing.T) {
	r, err := Build(newSource(), models.RecordFilter{})
	require.NoError(t, err)

	p := r.Payload()
	assert.Equal(t, narrate.PayloadNote, p.Note)
	assert.Same(t, r.Summary, p.Summary)
	assert.Equal(t, r.Targets, p.Targets)
}
