// ABOUTME: HeaderResolver maps loosely named CSV columns to canonical fields.
// ABOUTME: Matching is driven by a synonym table, never by per-app branches.
package ingest

import (
	"strings"
)

// Field is a canonical nutrition record field.
type Field string

const (
	FieldDate     Field = "date"
	FieldItem     Field = "item"
	FieldQuantity Field = "quantity"
	FieldCalories Field = "calories"
	FieldCarbs    Field = "carbs"
	FieldProtein  Field = "protein"
	FieldFat      Field = "fat"
	FieldSodium   Field = "sodium"
	FieldFiber    Field = "fiber"
	FieldMeal     Field = "meal"
	FieldNotes    Field = "notes"
)

// AllFields lists canonical fields in resolution priority order.
var AllFields = []Field{
	FieldDate, FieldItem, FieldQuantity, FieldCalories, FieldCarbs, FieldProtein,
	FieldFat, FieldSodium, FieldFiber, FieldMeal, FieldNotes,
}

// DefaultSynonyms returns a fresh copy of the built-in synonym table.
// Literals are compared after NormalizeHeader.
func DefaultSynonyms() map[Field][]string {
	return map[Field][]string{
		FieldDate:     {"date", "log date", "entry date", "day", "timestamp", "datetime"},
		FieldItem:     {"item", "food", "description", "name", "food name"},
		FieldQuantity: {"quantity", "quantity / duration", "qty", "serving", "servings", "amount", "duration"},
		FieldCalories: {"calories", "kcal", "energy (kcal)", "calories (kcal)"},
		FieldCarbs:    {"carbohydrates", "carbs", "carbohydrate (g)", "carbs (g)"},
		FieldProtein:  {"protein", "protein (g)"},
		FieldFat:      {"fat", "total fat", "fat (g)"},
		FieldSodium:   {"sodium", "sodium (mg)", "sodium (g)", "salt", "salt (mg)", "salt (g)"},
		FieldFiber:    {"fiber", "dietary fiber", "fiber (g)"},
		FieldMeal:     {"meal", "meal type", "meal_name", "category"},
		FieldNotes:    {"notes", "note", "comment", "comments"},
	}
}

// NormalizeHeader lowercases, trims and collapses internal whitespace.
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Resolver matches header strings against a synonym table. It is read-only
// after construction and safe for concurrent use.
type Resolver struct {
	lookup map[string]Field
}

// NewResolver builds a resolver from a synonym table. When a literal is
// listed under several fields, the field earliest in AllFields wins; fields
// not in AllFields follow in table order of discovery.
func NewResolver(table map[Field][]string) *Resolver {
	r := &Resolver{lookup: make(map[string]Field)}
	add := func(f Field) {
		for _, lit := range table[f] {
			key := NormalizeHeader(lit)
			if _, taken := r.lookup[key]; !taken {
				r.lookup[key] = f
			}
		}
	}
	known := make(map[Field]bool, len(AllFields))
	for _, f := range AllFields {
		known[f] = true
		add(f)
	}
	for f := range table {
		if !known[f] {
			add(f)
		}
	}
	return r
}

var defaultResolver = NewResolver(DefaultSynonyms())

// DefaultResolver returns the resolver for the built-in synonym table.
func DefaultResolver() *Resolver { return defaultResolver }

// Column is one resolved CSV column.
type Column struct {
	Index  int
	Header string
	Field  Field
}

// HeaderMap is the result of resolving a file's header row.
type HeaderMap struct {
	columns []Column
	byField map[Field][]Column
}

// Resolve maps each header (in file order) to its canonical field.
// Unmatched headers are left out.
func (r *Resolver) Resolve(headers []string) HeaderMap {
	hm := HeaderMap{byField: make(map[Field][]Column)}
	for i, h := range headers {
		f, ok := r.lookup[NormalizeHeader(h)]
		if !ok {
			continue
		}
		col := Column{Index: i, Header: h, Field: f}
		hm.columns = append(hm.columns, col)
		hm.byField[f] = append(hm.byField[f], col)
	}
	return hm
}

// ResolveHeaders resolves headers with the default synonym table.
func ResolveHeaders(headers []string) HeaderMap {
	return defaultResolver.Resolve(headers)
}

// Columns returns the columns mapped to f in file order.
func (h HeaderMap) Columns(f Field) []Column {
	return h.byField[f]
}

// Has reports whether any column maps to f.
func (h HeaderMap) Has(f Field) bool {
	return len(h.byField[f]) > 0
}

// Mapping returns raw header -> canonical field for every matched column.
func (h HeaderMap) Mapping() map[string]Field {
	m := make(map[string]Field, len(h.columns))
	for _, c := range h.columns {
		m[c.Header] = c.Field
	}
	return m
}

// Len is the number of matched columns.
func (h HeaderMap) Len() int { return len(h.columns) }
