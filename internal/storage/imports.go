// ABOUTME: Import batch operations for SQLite storage.
// ABOUTME: A batch and its entries are written in one transaction.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/diet/internal/models"
)

// PendingImport is a parsed batch waiting to be stored.
type PendingImport struct {
	Batch   *models.ImportBatch
	Records []models.NutritionRecord
}

// SaveImport stores a batch together with its parsed records.
func (d *DB) SaveImport(batch *models.ImportBatch, records []models.NutritionRecord) error {
	return d.SaveImports([]PendingImport{{Batch: batch, Records: records}})
}

// SaveImports stores every batch in one transaction; if any insert fails
// none of the batches are kept.
func (d *DB) SaveImports(imports []PendingImport) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, imp := range imports {
		if err := insertImport(tx, imp.Batch, imp.Records); err != nil {
			return fmt.Errorf("save import %s: %w", imp.Batch.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save import: %w", err)
	}
	return nil
}

func insertImport(tx *sql.Tx, batch *models.ImportBatch, records []models.NutritionRecord) error {
	_, err := tx.Exec(`
		INSERT INTO imports (id, source, imported_at, entries, skipped)
		VALUES (?, ?, ?, ?, ?)
	`,
		batch.ID.String(),
		batch.Source,
		batch.ImportedAt.Format(time.RFC3339),
		batch.Entries,
		batch.Skipped,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (import_id, date, meal, item, quantity, calories, carbs_g, protein_g, fat_g, fiber_g, sodium_mg, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			batch.ID.String(),
			r.Date.String(),
			r.Meal,
			r.Item,
			r.Quantity,
			r.Calories,
			r.CarbsG,
			r.ProteinG,
			r.FatG,
			r.FiberG,
			r.SodiumMg,
			r.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}
	return nil
}

// GetImport retrieves a batch by ID or ID prefix.
func (d *DB) GetImport(idOrPrefix string) (*models.ImportBatch, error) {
	id, err := d.resolveImportID(idOrPrefix)
	if err != nil {
		return nil, err
	}

	row := d.db.QueryRow(`
		SELECT id, source, imported_at, entries, skipped
		FROM imports
		WHERE id = ?
	`, id)

	b, err := scanImport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return b, err
}

// ListImports returns batches newest first. A limit <= 0 means no limit.
func (d *DB) ListImports(limit int) ([]*models.ImportBatch, error) {
	query := `
		SELECT id, source, imported_at, entries, skipped
		FROM imports
		ORDER BY imported_at DESC, rowid DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var batches []*models.ImportBatch
	for rows.Next() {
		b, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// DeleteImport removes a batch and, through the foreign key, its entries.
func (d *DB) DeleteImport(idOrPrefix string) error {
	id, err := d.resolveImportID(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete import: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM imports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete import: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete import: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}

	return nil
}

// resolveImportID finds the full ID from a prefix.
func (d *DB) resolveImportID(idOrPrefix string) (string, error) {
	// If it looks like a full UUID, use it directly
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	rows, err := d.db.Query(`SELECT id FROM imports WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve import ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan import ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve import ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple imports", idOrPrefix)
	}

	return matches[0], nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanImport(s scanner) (*models.ImportBatch, error) {
	var b models.ImportBatch
	var idStr, importedAt string

	if err := s.Scan(&idStr, &b.Source, &importedAt, &b.Entries, &b.Skipped); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan import: %w", err)
	}

	b.ID, _ = uuid.Parse(idStr)
	b.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return &b, nil
}
