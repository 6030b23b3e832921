// ABOUTME: Cell-level value parsing for CSV imports.
// ABOUTME: Handles the accepted date layouts, locale-tolerant numbers and sodium units.
package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/diet/internal/models"
)

// DateLayouts are tried in order; US month-first layouts win for ambiguous
// values such as 03/04/2024.
var DateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2/1/2006",
	"02/01/2006",
	"2006/01/02",
}

// ParseDate tries every layout against the trimmed value, then against its
// first 10 characters to cover timestamp-suffixed values.
func ParseDate(raw string) (models.Date, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return models.Date{}, false
	}
	if d, ok := parseDateLayouts(v); ok {
		return d, true
	}
	if len(v) >= 10 {
		return parseDateLayouts(v[:10])
	}
	return models.Date{}, false
}

func parseDateLayouts(v string) (models.Date, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return models.DateOf(t), true
		}
		if t, ok := clampDay(layout, v); ok {
			return models.DateOf(t), true
		}
	}
	return models.Date{}, false
}

// clampDay retries a day of 29 to 31 that overruns its month with the
// month's last day, so 2024-04-31 reads as 2024-04-30 and 2023-02-30 as
// 2023-02-28. Days above 31 and invalid months still fail.
func clampDay(layout, v string) (time.Time, bool) {
	sep := "-"
	if strings.Contains(layout, "/") {
		sep = "/"
	}
	lf, vf := strings.Split(layout, sep), strings.Split(v, sep)
	if len(lf) != 3 || len(vf) != 3 {
		return time.Time{}, false
	}
	for i, f := range lf {
		if f != "2" && f != "02" {
			continue
		}
		day, err := strconv.Atoi(vf[i])
		if err != nil || day < 29 || day > 31 {
			return time.Time{}, false
		}
		for d := day - 1; d >= 28; d-- {
			vf[i] = strconv.Itoa(d)
			if t, err := time.Parse(layout, strings.Join(vf, sep)); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

// ParseNumber reads a numeric cell, tolerating units, thousands separators
// and decimal commas. Anything unparseable reads as 0, as do negatives.
func ParseNumber(raw string) float64 {
	s := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// SodiumUnit is the unit a sodium column is recorded in.
type SodiumUnit int

const (
	// SodiumAssumeMg applies when the header names no unit.
	SodiumAssumeMg SodiumUnit = iota
	SodiumMg
	SodiumGrams
)

// SodiumUnitFor infers the unit from a header literal.
func SodiumUnitFor(header string) SodiumUnit {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "(g)"):
		return SodiumGrams
	case strings.Contains(h, "(mg)"):
		return SodiumMg
	}
	return SodiumAssumeMg
}

// NormalizeSodium converts a parsed sodium value to milligrams.
//
// Unlabelled columns are read as mg whatever the magnitude. Earlier versions
// carried a "value > 50 means mg" check whose two arms returned the same
// thing; small unlabelled values that are really grams are therefore not
// converted.
func NormalizeSodium(v float64, unit SodiumUnit) float64 {
	if unit == SodiumGrams {
		return v * 1000
	}
	return v
}
