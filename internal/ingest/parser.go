// ABOUTME: RecordParser turns one CSV row into a canonical NutritionRecord.
// ABOUTME: Numeric and text fields recover to defaults; only a missing date fails.
package ingest

import (
	"strings"

	"github.com/harperreed/diet/internal/models"
)

// Parser converts rows of one file. It holds only the resolved header map
// and is safe for concurrent use.
type Parser struct {
	headers HeaderMap
}

// NewParser returns a parser for rows laid out as described by headers.
func NewParser(headers HeaderMap) *Parser {
	return &Parser{headers: headers}
}

// ParseRow builds a record from row. The only failure is a row with no
// recognisable date anywhere, reported as ErrUnparseableDate.
func (p *Parser) ParseRow(row []string) (models.NutritionRecord, error) {
	date, ok := ParseDate(p.value(row, FieldDate))
	if !ok {
		date, ok = scanForDate(row)
		if !ok {
			return models.NutritionRecord{}, ErrUnparseableDate
		}
	}

	return models.NutritionRecord{
		Date:     date,
		Meal:     orDefault(p.value(row, FieldMeal), models.DefaultMeal),
		Item:     orDefault(p.value(row, FieldItem), models.DefaultItem),
		Quantity: p.value(row, FieldQuantity),
		Calories: ParseNumber(p.value(row, FieldCalories)),
		CarbsG:   ParseNumber(p.value(row, FieldCarbs)),
		ProteinG: ParseNumber(p.value(row, FieldProtein)),
		FatG:     ParseNumber(p.value(row, FieldFat)),
		FiberG:   ParseNumber(p.value(row, FieldFiber)),
		SodiumMg: p.sodium(row),
		Notes:    p.value(row, FieldNotes),
	}, nil
}

// lookup returns the first non-blank trimmed cell among the columns mapped
// to f, together with the column it came from.
func (p *Parser) lookup(row []string, f Field) (string, Column, bool) {
	for _, col := range p.headers.Columns(f) {
		if col.Index >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[col.Index]); v != "" {
			return v, col, true
		}
	}
	return "", Column{}, false
}

func (p *Parser) value(row []string, f Field) string {
	v, _, _ := p.lookup(row, f)
	return v
}

// sodium reads the sodium cell and converts it to mg using the unit named
// in the header of the column that supplied the value.
func (p *Parser) sodium(row []string) float64 {
	raw, col, ok := p.lookup(row, FieldSodium)
	if !ok {
		return 0
	}
	return NormalizeSodium(ParseNumber(raw), SodiumUnitFor(col.Header))
}

// scanForDate is the last-resort recovery: the first cell anywhere in the
// row that parses as a date.
func scanForDate(row []string) (models.Date, bool) {
	for _, cell := range row {
		if d, ok := ParseDate(cell); ok {
			return d, true
		}
	}
	return models.Date{}, false
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}
