// ABOUTME: Tests for the target calculator.
// ABOUTME: Covers BMR, goal adjustments, the calorie floor and overrides.
package targets

import (
	"testing"

	"github.com/harperreed/diet/internal/models"
	"github.com/stretchr/testify/assert"
)

func maleProfile() models.Profile {
	return models.Profile{
		Age:           30,
		Sex:           models.SexMale,
		WeightKg:      80,
		HeightCm:      180,
		ActivityLevel: models.ActivitySedentary,
	}
}

func TestCalculateWorkedExample(t *testing.T) {
	got := Calculate(maleProfile(), models.DefaultGoals())

	assert.InDelta(t, 1780, got.BMR, 1e-9)
	assert.InDelta(t, 2136, got.TDEE, 1e-9)
	assert.InDelta(t, 2136, got.CalorieTarget, 1e-9)
	assert.InDelta(t, 128, got.ProteinG, 1e-9)
	assert.InDelta(t, 64, got.FatG, 1e-9)
	assert.InDelta(t, 262, got.CarbsG, 1e-9)
	assert.Equal(t, 30.0, got.FiberG)
	assert.Equal(t, 2300.0, got.SodiumMg)
}

func TestBMRFemaleConstant(t *testing.T) {
	p := maleProfile()
	p.Sex = models.SexFemale
	assert.InDelta(t, 1780-166, BMR(p), 1e-9)
}

func TestActivityScalesTDEE(t *testing.T) {
	for level, mult := range models.ActivityMultipliers {
		t.Run(string(level), func(t *testing.T) {
			p := maleProfile()
			p.ActivityLevel = level
			assert.InDelta(t, 1780*mult, Calculate(p, models.DefaultGoals()).TDEE, 1e-9)
		})
	}
}

func TestDailyAdjustment(t *testing.T) {
	tests := []struct {
		mode models.GoalMode
		rate float64
		want float64
	}{
		{models.GoalLose, 0.5, -550},
		{models.GoalGain, 0.25, 275},
		{models.GoalMaintain, 1.0, 0},
		{models.GoalLose, 0, 0},
	}
	for _, tt := range tests {
		g := models.DefaultGoals()
		g.Mode = tt.mode
		g.WeeklyRateKg = tt.rate
		assert.InDelta(t, tt.want, DailyAdjustment(g), 1e-9, "%s %.2f", tt.mode, tt.rate)
	}
}

func TestCalorieFloor(t *testing.T) {
	p := models.Profile{Age: 80, Sex: models.SexFemale, WeightKg: 40, HeightCm: 140, ActivityLevel: models.ActivitySedentary}
	g := models.DefaultGoals()
	g.Mode = models.GoalLose

	for _, rate := range []float64{0, 0.5, 1.5, 10, 1000} {
		g.WeeklyRateKg = rate
		got := Calculate(p, g)
		assert.GreaterOrEqual(t, got.CalorieTarget, MinCalories, "rate %v", rate)
	}

	g.WeeklyRateKg = 1.5
	assert.Equal(t, MinCalories, Calculate(p, g).CalorieTarget)
}

func TestCarbsNeverNegative(t *testing.T) {
	p := maleProfile()
	p.WeightKg = 300
	g := models.DefaultGoals()
	g.ProteinPerKg = 3
	g.FatPerKg = 1.5

	got := Calculate(p, g)
	assert.Zero(t, got.CarbsG)
}

func TestOverrides(t *testing.T) {
	g := models.DefaultGoals()
	g.FiberTargetG = 40
	g.SodiumTargetMg = 1500

	got := Calculate(maleProfile(), g)
	assert.Equal(t, 40.0, got.FiberG)
	assert.Equal(t, 1500.0, got.SodiumMg)

	g.FiberTargetG = 0
	g.SodiumTargetMg = -5
	got = Calculate(maleProfile(), g)
	assert.Equal(t, 30.0, got.FiberG)
	assert.Equal(t, DefaultSodiumMg, got.SodiumMg)
}

func TestAutoFiberAtFloor(t *testing.T) {
	g := models.DefaultGoals()
	g.Mode = models.GoalLose
	g.WeeklyRateKg = 1.5
	p := models.Profile{Age: 70, Sex: models.SexFemale, WeightKg: 45, HeightCm: 150, ActivityLevel: models.ActivitySedentary}

	got := Calculate(p, g)
	assert.Equal(t, MinCalories, got.CalorieTarget)
	// 1200 / 1000 * 14 = 16.8
	assert.Equal(t, 17.0, got.FiberG)
}

func TestCalculateIsDeterministic(t *testing.T) {
	p := maleProfile()
	g := models.DefaultGoals()
	g.Mode = models.GoalGain
	g.WeeklyRateKg = 0.3

	first := Calculate(p, g)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Calculate(p, g))
	}
}

func TestCalculateAcceptsLooseEnumSpellings(t *testing.T) {
	p := maleProfile()
	p.Sex = "male"
	p.ActivityLevel = "sedentary"
	g := models.DefaultGoals()
	g.Mode = "lose"
	g.WeeklyRateKg = 0.5

	got := Calculate(p, g)

	assert.InDelta(t, 1780, got.BMR, 1e-9)
	assert.InDelta(t, 2136, got.TDEE, 1e-9)
	assert.InDelta(t, 2136-550, got.CalorieTarget, 1e-9)
}
