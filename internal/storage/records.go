// ABOUTME: Diet entry queries for SQLite storage.
// ABOUTME: Dates are stored as YYYY-MM-DD so range filters compare as text.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/diet/internal/models"
)

const entryColumns = `date, meal, item, quantity, calories, carbs_g, protein_g, fat_g, fiber_g, sodium_mg, notes`

// ListRecords returns entries matching filter in date order, ties kept in
// import order. Date bounds are applied in SQL; the free-text search and
// limit use models.RecordFilter so every surface matches identically.
func (d *DB) ListRecords(filter models.RecordFilter) ([]models.NutritionRecord, error) {
	var where []string
	var args []interface{}
	if !filter.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, filter.From.String())
	}
	if !filter.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, filter.To.String())
	}

	query := "SELECT " + entryColumns + " FROM entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date ASC, id ASC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	return models.RecordFilter{Search: filter.Search, Limit: filter.Limit}.Apply(records), nil
}

// ListImportRecords returns the entries of one batch in file order.
func (d *DB) ListImportRecords(importID string) ([]models.NutritionRecord, error) {
	id, err := d.resolveImportID(importID)
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query("SELECT "+entryColumns+" FROM entries WHERE import_id = ? ORDER BY id ASC", id)
	if err != nil {
		return nil, fmt.Errorf("list import records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// scanRecords scans multiple rows into records.
func scanRecords(rows *sql.Rows) ([]models.NutritionRecord, error) {
	var records []models.NutritionRecord

	for rows.Next() {
		var r models.NutritionRecord
		var date string

		err := rows.Scan(&date, &r.Meal, &r.Item, &r.Quantity, &r.Calories, &r.CarbsG,
			&r.ProteinG, &r.FatG, &r.FiberG, &r.SodiumMg, &r.Notes)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		r.Date, err = models.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
