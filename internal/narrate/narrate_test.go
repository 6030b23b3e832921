// ABOUTME: Shared fixtures for narrate tests.
// ABOUTME: Builds a reference profile, summary and payload.
package narrate

import (
	"testing"
	"time"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/targets"
	"github.com/stretchr/testify/require"
)

func testProfile() models.Profile {
	return models.Profile{
		Age:           30,
		Sex:           models.SexMale,
		WeightKg:      80,
		HeightCm:      180,
		ActivityLevel: models.ActivitySedentary,
	}
}

func testSummary(t *testing.T, records ...models.NutritionRecord) *analysis.Summary {
	t.Helper()
	if len(records) == 0 {
		records = []models.NutritionRecord{
			{Date: models.NewDate(2024, time.January, 1), Calories: 2100, ProteinG: 130, CarbsG: 260, FatG: 65, FiberG: 30, SodiumMg: 2000},
			{Date: models.NewDate(2024, time.January, 2), Calories: 2150, ProteinG: 126, CarbsG: 264, FatG: 63, FiberG: 31, SodiumMg: 2200},
		}
	}
	s, err := analysis.Summarize(records)
	require.NoError(t, err)
	return s
}

func testPayload(t *testing.T) Payload {
	t.Helper()
	p := testProfile()
	g := models.DefaultGoals()
	return NewPayload(p, g, targets.Calculate(p, g), testSummary(t))
}
