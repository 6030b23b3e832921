// ABOUTME: NutritionRecord model produced by CSV ingestion.
// ABOUTME: Also defines Nutrients totals, RecordFilter and ImportBatch.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default text values for record fields missing from a source row.
const (
	DefaultMeal = "Meal"
	DefaultItem = "Item"
)

// Energy densities in kcal per gram.
const (
	KcalPerGramProtein = 4.0
	KcalPerGramCarbs   = 4.0
	KcalPerGramFat     = 9.0
)

// NutritionRecord is one canonical diet-log entry. It is a value type: copies
// are independent and nothing in the pipeline modifies a record after parsing.
type NutritionRecord struct {
	Date     Date    `json:"date" yaml:"date"`
	Meal     string  `json:"meal" yaml:"meal"`
	Item     string  `json:"item" yaml:"item"`
	Quantity string  `json:"quantity" yaml:"quantity,omitempty"`
	Calories float64 `json:"calories" yaml:"calories"`
	CarbsG   float64 `json:"carbs_g" yaml:"carbs_g"`
	ProteinG float64 `json:"protein_g" yaml:"protein_g"`
	FatG     float64 `json:"fat_g" yaml:"fat_g"`
	FiberG   float64 `json:"fiber_g" yaml:"fiber_g"`
	SodiumMg float64 `json:"sodium_mg" yaml:"sodium_mg"`
	Notes    string  `json:"notes" yaml:"notes,omitempty"`
}

// Nutrients returns the numeric part of the record.
func (r NutritionRecord) Nutrients() Nutrients {
	return Nutrients{
		Calories: r.Calories,
		CarbsG:   r.CarbsG,
		ProteinG: r.ProteinG,
		FatG:     r.FatG,
		FiberG:   r.FiberG,
		SodiumMg: r.SodiumMg,
	}
}

// Nutrients holds a set of nutrient quantities (totals, averages or one entry).
type Nutrients struct {
	Calories float64 `json:"calories" yaml:"calories"`
	CarbsG   float64 `json:"carbs_g" yaml:"carbs_g"`
	ProteinG float64 `json:"protein_g" yaml:"protein_g"`
	FatG     float64 `json:"fat_g" yaml:"fat_g"`
	FiberG   float64 `json:"fiber_g" yaml:"fiber_g"`
	SodiumMg float64 `json:"sodium_mg" yaml:"sodium_mg"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		CarbsG:   n.CarbsG + o.CarbsG,
		ProteinG: n.ProteinG + o.ProteinG,
		FatG:     n.FatG + o.FatG,
		FiberG:   n.FiberG + o.FiberG,
		SodiumMg: n.SodiumMg + o.SodiumMg,
	}
}

// Div returns every field divided by d.
func (n Nutrients) Div(d float64) Nutrients {
	return Nutrients{
		Calories: n.Calories / d,
		CarbsG:   n.CarbsG / d,
		ProteinG: n.ProteinG / d,
		FatG:     n.FatG / d,
		FiberG:   n.FiberG / d,
		SodiumMg: n.SodiumMg / d,
	}
}

// RecordFilter narrows a record collection by date range and free text.
// Zero values mean "no constraint".
type RecordFilter struct {
	From   Date
	To     Date
	Search string
	Limit  int
}

// ParseRecordFilter builds a filter from user-supplied strings. Blank dates
// leave that bound open; a from date after the to date is rejected.
func ParseRecordFilter(from, to, search string, limit int) (RecordFilter, error) {
	f := RecordFilter{Search: strings.TrimSpace(search), Limit: limit}
	var err error
	if from = strings.TrimSpace(from); from != "" {
		if f.From, err = ParseDate(from); err != nil {
			return RecordFilter{}, fmt.Errorf("invalid from date %q: use YYYY-MM-DD", from)
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		if f.To, err = ParseDate(to); err != nil {
			return RecordFilter{}, fmt.Errorf("invalid to date %q: use YYYY-MM-DD", to)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return RecordFilter{}, fmt.Errorf("from date %s is after to date %s", f.From, f.To)
	}
	if f.Limit < 0 {
		f.Limit = 0
	}
	return f, nil
}

// Match reports whether r passes the date bounds (inclusive) and the
// case-insensitive search over item, meal and notes.
func (f RecordFilter) Match(r NutritionRecord) bool {
	if !f.From.IsZero() && r.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Date.After(f.To) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Item), q) ||
		strings.Contains(strings.ToLower(r.Meal), q) ||
		strings.Contains(strings.ToLower(r.Notes), q)
}

// Apply returns the records that match f, preserving order and honouring Limit.
func (f RecordFilter) Apply(records []NutritionRecord) []NutritionRecord {
	out := make([]NutritionRecord, 0, len(records))
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		out = append(out, r)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// ImportBatch describes one imported CSV file.
type ImportBatch struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Source     string    `json:"source" yaml:"source"`
	ImportedAt time.Time `json:"imported_at" yaml:"imported_at"`
	Entries    int       `json:"entries" yaml:"entries"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
}

// NewImportBatch creates a batch with a generated UUID and current timestamp.
func NewImportBatch(source string, entries, skipped int) *ImportBatch {
	return &ImportBatch{
		ID:         uuid.New(),
		Source:     source,
		ImportedAt: time.Now(),
		Entries:    entries,
		Skipped:    skipped,
	}
}
