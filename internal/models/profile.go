// ABOUTME: User profile and goal settings used to derive nutrient targets.
// ABOUTME: Defines enums, documented defaults and save-time range validation.
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// ActivityLevel scales BMR to TDEE.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "SEDENTARY"
	ActivityLightlyActive    ActivityLevel = "LIGHTLY_ACTIVE"
	ActivityModeratelyActive ActivityLevel = "MODERATELY_ACTIVE"
	ActivityVeryActive       ActivityLevel = "VERY_ACTIVE"
	ActivityAthlete          ActivityLevel = "ATHLETE"
)

// ActivityMultipliers maps activity levels to their TDEE multiplier.
var ActivityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityAthlete:          1.9,
}

// AllActivityLevels lists activity levels from least to most active.
var AllActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive,
	ActivityVeryActive, ActivityAthlete,
}

// Multiplier returns the TDEE factor. Spellings accepted by
// ParseActivityLevel resolve to their level; anything else counts as
// sedentary.
func (a ActivityLevel) Multiplier() float64 {
	if m, ok := ActivityMultipliers[a]; ok {
		return m
	}
	if level, err := ParseActivityLevel(string(a)); err == nil {
		return ActivityMultipliers[level]
	}
	return ActivityMultipliers[ActivitySedentary]
}

// GoalMode is the direction of the weight goal.
type GoalMode string

const (
	GoalLose     GoalMode = "LOSE"
	GoalMaintain GoalMode = "MAINTAIN"
	GoalGain     GoalMode = "GAIN"
)

// normalizeEnum uppercases and turns spaces and dashes into underscores so
// "lightly active" and "Lightly-Active" both read as LIGHTLY_ACTIVE.
func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ParseSex parses a sex value case-insensitively.
func ParseSex(s string) (Sex, error) {
	switch v := Sex(normalizeEnum(s)); v {
	case SexMale, SexFemale:
		return v, nil
	case "M":
		return SexMale, nil
	case "F":
		return SexFemale, nil
	}
	return "", &ValidationError{Field: "sex", Message: fmt.Sprintf("unknown value %q (use male or female)", s)}
}

// ParseActivityLevel parses an activity level case-insensitively.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	v := ActivityLevel(normalizeEnum(s))
	if _, ok := ActivityMultipliers[v]; ok {
		return v, nil
	}
	return "", &ValidationError{Field: "activity_level", Message: fmt.Sprintf("unknown value %q (use sedentary, lightly_active, moderately_active, very_active or athlete)", s)}
}

// ParseGoalMode parses a goal mode case-insensitively.
func ParseGoalMode(s string) (GoalMode, error) {
	switch v := GoalMode(normalizeEnum(s)); v {
	case GoalLose, GoalMaintain, GoalGain:
		return v, nil
	}
	return "", &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown value %q (use lose, maintain or gain)", s)}
}

// Profile describes the person the targets are computed for.
type Profile struct {
	Age           int           `json:"age" yaml:"age"`
	Sex           Sex           `json:"sex" yaml:"sex"`
	WeightKg      float64       `json:"weight_kg" yaml:"weight_kg"`
	HeightCm      float64       `json:"height_cm" yaml:"height_cm"`
	ActivityLevel ActivityLevel `json:"activity_level" yaml:"activity_level"`
}

// DefaultProfile returns the profile used when nothing has been stored.
func DefaultProfile() Profile {
	return Profile{
		Age:           30,
		Sex:           SexFemale,
		WeightKg:      70,
		HeightCm:      170,
		ActivityLevel: ActivitySedentary,
	}
}

// GoalSettings tunes the calorie adjustment and macro targets.
// FiberTargetG and SodiumTargetMg are overrides; values <= 0 mean "auto".
type GoalSettings struct {
	Mode           GoalMode `json:"mode" yaml:"mode"`
	WeeklyRateKg   float64  `json:"weekly_rate_kg" yaml:"weekly_rate_kg"`
	ProteinPerKg   float64  `json:"protein_per_kg" yaml:"protein_per_kg"`
	FatPerKg       float64  `json:"fat_per_kg" yaml:"fat_per_kg"`
	FiberTargetG   float64  `json:"fiber_target_g" yaml:"fiber_target_g"`
	SodiumTargetMg float64  `json:"sodium_target_mg" yaml:"sodium_target_mg"`
}

// DefaultGoals returns the goals used when nothing has been stored.
func DefaultGoals() GoalSettings {
	return GoalSettings{
		Mode:           GoalMaintain,
		WeeklyRateKg:   0,
		ProteinPerKg:   1.6,
		FatPerKg:       0.8,
		FiberTargetG:   -1,
		SodiumTargetMg: -1,
	}
}

// Allowed ranges enforced when saving preferences.
var (
	AgeRange          = Range{Min: 13, Max: 120}
	WeightKgRange     = Range{Min: 30, Max: 400}
	HeightCmRange     = Range{Min: 120, Max: 250}
	WeeklyRateKgRange = Range{Min: 0, Max: 1.5}
	ProteinPerKgRange = Range{Min: 0.7, Max: 3.0}
	FatPerKgRange     = Range{Min: 0.3, Max: 1.5}
)

// Range is an inclusive numeric bound.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.Min && v <= r.Max
}

func (r Range) check(field string, v float64) error {
	if r.Contains(v) {
		return nil
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be between %g and %g (got %g)", r.Min, r.Max, v),
	}
}

// ValidationError reports a preference field outside its allowed values.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Normalize returns p with its enum fields in canonical form, so "male" and
// "sedentary" become MALE and SEDENTARY. Every failing field is joined into
// the error.
func (p Profile) Normalize() (Profile, error) {
	var errs []error
	errs = append(errs, AgeRange.check("age", float64(p.Age)))
	if sex, err := ParseSex(string(p.Sex)); err != nil {
		errs = append(errs, err)
	} else {
		p.Sex = sex
	}
	errs = append(errs,
		WeightKgRange.check("weight_kg", p.WeightKg),
		HeightCmRange.check("height_cm", p.HeightCm),
	)
	if level, err := ParseActivityLevel(string(p.ActivityLevel)); err != nil {
		errs = append(errs, err)
	} else {
		p.ActivityLevel = level
	}
	if err := errors.Join(errs...); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks every profile field and joins all failures.
func (p Profile) Validate() error {
	_, err := p.Normalize()
	return err
}

// Normalize returns g with its mode in canonical form.
func (g GoalSettings) Normalize() (GoalSettings, error) {
	var errs []error
	if mode, err := ParseGoalMode(string(g.Mode)); err != nil {
		errs = append(errs, err)
	} else {
		g.Mode = mode
	}
	errs = append(errs,
		WeeklyRateKgRange.check("weekly_rate_kg", g.WeeklyRateKg),
		ProteinPerKgRange.check("protein_per_kg", g.ProteinPerKg),
		FatPerKgRange.check("fat_per_kg", g.FatPerKg),
		finite("fiber_target_g", g.FiberTargetG),
		finite("sodium_target_mg", g.SodiumTargetMg),
	)
	if err := errors.Join(errs...); err != nil {
		return GoalSettings{}, err
	}
	return g, nil
}

// Validate checks every goal field and joins all failures.
func (g GoalSettings) Validate() error {
	_, err := g.Normalize()
	return err
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Message: "must be a finite number"}
	}
	return nil
}
