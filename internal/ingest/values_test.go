// ABOUTME: Tests for cell value parsing.
// ABOUTME: Covers date layouts, locale numbers and sodium conversion.
package ingest

import (
	"testing"
	"time"

	"github.com/harperreed/diet/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseDateLayouts(t *testing.T) {
	want := models.NewDate(2024, time.December, 25)

	// Day 25 keeps the day-first layouts unambiguous.
	inputs := map[string]string{
		"2006-01-02": "2024-12-25",
		"1/2/2006":   "12/25/2024",
		"01/02/2006": "12/25/2024",
		"2/1/2006":   "25/12/2024",
		"02/01/2006": "25/12/2024",
		"2006/01/02": "2024/12/25",
	}
	for _, layout := range DateLayouts {
		t.Run(layout, func(t *testing.T) {
			formatted := want.Time().Format(layout)
			assert.Equal(t, inputs[layout], formatted)

			got, ok := ParseDate(formatted)
			assert.True(t, ok)
			assert.True(t, got.Equal(want), "got %s", got)
		})
	}
}

func TestParseDateVariants(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"3/4/2024", "2024-03-04", true},
		{"03/04/2024", "2024-03-04", true},
		{"5/1/2024", "2024-05-01", true},
		{"31/1/2024", "2024-01-31", true},
		{"  2024-02-29  ", "2024-02-29", true},
		{"2024-01-15T08:30:00Z", "2024-01-15", true},
		{"2024-01-15 08:30", "2024-01-15", true},
		{"2024/01/15 lunch", "2024-01-15", true},
		{"2023-02-30", "2023-02-28", true},
		{"2024-02-30", "2024-02-29", true},
		{"2024-04-31", "2024-04-30", true},
		{"04/31/2024", "2024-04-30", true},
		{"31/04/2024", "2024-04-30", true},
		{"2024/06/31", "2024-06-30", true},
		{"2024-04-32", "", false},
		{"2024-13-30", "", false},
		{"yesterday", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"250", 250},
		{" 12.5 g", 12.5},
		{"1,234", 1.234},
		{"1,234.5", 1234.5},
		{"2.345,6", 2.3456},
		{"12,5", 12.5},
		{"420 kcal", 420},
		{"", 0},
		{"n/a", 0},
		{"-", 0},
		{"1.2.3", 0},
		{"-5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumber(tt.in), 1e-9)
		})
	}
}

func TestSodiumUnits(t *testing.T) {
	assert.Equal(t, SodiumGrams, SodiumUnitFor("Sodium (g)"))
	assert.Equal(t, SodiumGrams, SodiumUnitFor("SALT (G)"))
	assert.Equal(t, SodiumMg, SodiumUnitFor("Sodium (mg)"))
	assert.Equal(t, SodiumAssumeMg, SodiumUnitFor("Sodium"))

	assert.Equal(t, 2000.0, NormalizeSodium(2, SodiumGrams))
	assert.Equal(t, 2.0, NormalizeSodium(2, SodiumMg))
	assert.Equal(t, 2.0, NormalizeSodium(2, SodiumAssumeMg))
	assert.Equal(t, 800.0, NormalizeSodium(800, SodiumAssumeMg))
}
