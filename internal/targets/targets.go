// ABOUTME: TargetCalculator derives daily nutrient targets from a profile and goals.
// ABOUTME: Mifflin-St Jeor BMR, activity-scaled TDEE and a 1200 kcal floor.
package targets

import (
	"math"

	"github.com/harperreed/diet/internal/models"
)

const (
	// KcalPerKg approximates the energy in one kilogram of body mass.
	KcalPerKg = 7700.0

	// MinCalories is the floor applied to every calorie target.
	MinCalories = 1200.0

	// DefaultSodiumMg is used when no sodium override is set.
	DefaultSodiumMg = 2300.0

	// FiberPer1000Kcal scales the automatic fiber target.
	FiberPer1000Kcal = 14.0
)

// Targets is the daily intake derived from one Profile and GoalSettings.
type Targets struct {
	BMR           float64 `json:"bmr" yaml:"bmr"`
	TDEE          float64 `json:"tdee" yaml:"tdee"`
	CalorieTarget float64 `json:"calorie_target" yaml:"calorie_target"`
	ProteinG      float64 `json:"protein_target_g" yaml:"protein_target_g"`
	CarbsG        float64 `json:"carbs_target_g" yaml:"carbs_target_g"`
	FatG          float64 `json:"fat_target_g" yaml:"fat_target_g"`
	FiberG        float64 `json:"fiber_target_g" yaml:"fiber_target_g"`
	SodiumMg      float64 `json:"sodium_target_mg" yaml:"sodium_target_mg"`
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(p models.Profile) float64 {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if sex, err := models.ParseSex(string(p.Sex)); err == nil && sex == models.SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// DailyAdjustment is the kcal/day added to TDEE for the goal mode.
func DailyAdjustment(g models.GoalSettings) float64 {
	perDay := g.WeeklyRateKg * KcalPerKg / 7
	mode, _ := models.ParseGoalMode(string(g.Mode))
	switch mode {
	case models.GoalLose:
		return -perDay
	case models.GoalGain:
		return perDay
	}
	return 0
}

// Calculate computes targets. It has no state and the same inputs always
// give the same result.
func Calculate(p models.Profile, g models.GoalSettings) Targets {
	bmr := BMR(p)
	tdee := bmr * p.ActivityLevel.Multiplier()
	calories := math.Max(MinCalories, tdee+DailyAdjustment(g))

	protein := math.Max(0, g.ProteinPerKg*p.WeightKg)
	fat := math.Max(0, g.FatPerKg*p.WeightKg)
	remaining := math.Max(0, calories-protein*models.KcalPerGramProtein-fat*models.KcalPerGramFat)

	fiber := g.FiberTargetG
	if fiber <= 0 {
		fiber = math.Floor(calories/1000*FiberPer1000Kcal + 0.5)
	}
	sodium := g.SodiumTargetMg
	if sodium <= 0 {
		sodium = DefaultSodiumMg
	}

	return Targets{
		BMR:           bmr,
		TDEE:          tdee,
		CalorieTarget: calories,
		ProteinG:      protein,
		CarbsG:        remaining / models.KcalPerGramCarbs,
		FatG:          fat,
		FiberG:        fiber,
		SodiumMg:      sodium,
	}
}
