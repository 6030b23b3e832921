// ABOUTME: Tests for Profile and GoalSettings.
// ABOUTME: Covers defaults, enum parsing, multipliers and range validation.
package models

import (
	"errors"
	"math"
	"testing"
)

func TestActivityMultipliers(t *testing.T) {
	tests := []struct {
		level ActivityLevel
		want  float64
	}{
		{ActivitySedentary, 1.2},
		{ActivityLightlyActive, 1.375},
		{ActivityModeratelyActive, 1.55},
		{ActivityVeryActive, 1.725},
		{ActivityAthlete, 1.9},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.Multiplier(); got != tt.want {
				t.Errorf("Multiplier() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllActivityLevelsHaveMultipliers(t *testing.T) {
	for _, a := range AllActivityLevels {
		if a.Multiplier() == 0 {
			t.Errorf("ActivityLevel %s has no multiplier", a)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if s, err := ParseSex("male"); err != nil || s != SexMale {
		t.Errorf("ParseSex(male) = %v, %v", s, err)
	}
	if s, err := ParseSex("F"); err != nil || s != SexFemale {
		t.Errorf("ParseSex(F) = %v, %v", s, err)
	}
	if a, err := ParseActivityLevel("lightly active"); err != nil || a != ActivityLightlyActive {
		t.Errorf("ParseActivityLevel(lightly active) = %v, %v", a, err)
	}
	if m, err := ParseGoalMode("gain"); err != nil || m != GoalGain {
		t.Errorf("ParseGoalMode(gain) = %v, %v", m, err)
	}

	_, err := ParseActivityLevel("couch")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "activity_level" {
		t.Errorf("expected activity_level ValidationError, got %v", err)
	}
}

func TestDefaultsAreValid(t *testing.T) {
	if err := DefaultProfile().Validate(); err != nil {
		t.Errorf("default profile invalid: %v", err)
	}
	if err := DefaultGoals().Validate(); err != nil {
		t.Errorf("default goals invalid: %v", err)
	}

	g := DefaultGoals()
	if g.Mode != GoalMaintain || g.ProteinPerKg != 1.6 || g.FatPerKg != 0.8 {
		t.Errorf("unexpected default goals: %+v", g)
	}
	if g.FiberTargetG > 0 || g.SodiumTargetMg > 0 {
		t.Errorf("expected auto fiber/sodium overrides, got %+v", g)
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *Profile)
		wantField string
	}{
		{"age too low", func(p *Profile) { p.Age = 12 }, "age"},
		{"age too high", func(p *Profile) { p.Age = 121 }, "age"},
		{"weight too low", func(p *Profile) { p.WeightKg = 29.9 }, "weight_kg"},
		{"height too high", func(p *Profile) { p.HeightCm = 251 }, "height_cm"},
		{"unknown sex", func(p *Profile) { p.Sex = "OTHER" }, "sex"},
		{"unknown activity", func(p *Profile) { p.ActivityLevel = "" }, "activity_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(&p)

			err := p.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", verr.Field, tt.wantField)
			}
		})
	}
}

func TestProfileValidateBoundaries(t *testing.T) {
	p := Profile{Age: 13, Sex: SexMale, WeightKg: 400, HeightCm: 120, ActivityLevel: ActivityAthlete}
	if err := p.Validate(); err != nil {
		t.Errorf("boundary values should be valid: %v", err)
	}
}

func TestGoalsValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(g *GoalSettings)
		wantField string
	}{
		{"weekly rate negative", func(g *GoalSettings) { g.WeeklyRateKg = -0.1 }, "weekly_rate_kg"},
		{"weekly rate too high", func(g *GoalSettings) { g.WeeklyRateKg = 2 }, "weekly_rate_kg"},
		{"protein too low", func(g *GoalSettings) { g.ProteinPerKg = 0.5 }, "protein_per_kg"},
		{"fat too high", func(g *GoalSettings) { g.FatPerKg = 1.6 }, "fat_per_kg"},
		{"unknown mode", func(g *GoalSettings) { g.Mode = "BULK" }, "mode"},
		{"nan fiber", func(g *GoalSettings) { g.FiberTargetG = math.NaN() }, "fiber_target_g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGoals()
			tt.mutate(&g)

			err := g.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateJoinsAllErrors(t *testing.T) {
	p := Profile{Age: 5, Sex: SexMale, WeightKg: 10, HeightCm: 170, ActivityLevel: ActivitySedentary}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("expected 2 field errors, got %d", n)
	}
}

func TestMultiplierLooseSpellings(t *testing.T) {
	tests := []struct {
		level ActivityLevel
		want  float64
	}{
		{"sedentary", 1.2},
		{"very active", 1.725},
		{"Lightly-Active", 1.375},
		{"couch", 1.2},
	}
	for _, tt := range tests {
		if got := tt.level.Multiplier(); got != tt.want {
			t.Errorf("ActivityLevel(%q).Multiplier() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestProfileNormalize(t *testing.T) {
	p := Profile{Age: 30, Sex: "m", WeightKg: 80, HeightCm: 180, ActivityLevel: "moderately active"}

	got, err := p.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got.Sex != SexMale || got.ActivityLevel != ActivityModeratelyActive {
		t.Errorf("Normalize() = %+v, want canonical enums", got)
	}
	if got.Age != 30 || got.WeightKg != 80 || got.HeightCm != 180 {
		t.Errorf("Normalize() changed numeric fields: %+v", got)
	}

	p.Sex = "other"
	if _, err := p.Normalize(); err == nil {
		t.Error("Normalize() should reject unknown sex")
	}
}

func TestGoalsNormalize(t *testing.T) {
	g := DefaultGoals()
	g.Mode = "lose"

	got, err := g.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got.Mode != GoalLose {
		t.Errorf("Mode = %q, want %q", got.Mode, GoalLose)
	}

	g.ProteinPerKg = 10
	var ve *ValidationError
	if _, err := g.Normalize(); !errors.As(err, &ve) {
		t.Errorf("Normalize() error = %v, want ValidationError", err)
	}
}
