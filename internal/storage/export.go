// ABOUTME: Export and import functionality for diet data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for diet data.
type ExportData struct {
	Version    string              `json:"version" yaml:"version"`
	ExportedAt time.Time           `json:"exported_at" yaml:"exported_at"`
	Tool       string              `json:"tool" yaml:"tool"`
	Profile    models.Profile      `json:"profile" yaml:"profile"`
	Goals      models.GoalSettings `json:"goals" yaml:"goals"`
	Imports    []ExportedImport    `json:"imports" yaml:"imports"`
}

// ExportedImport is one batch with its entries.
type ExportedImport struct {
	models.ImportBatch `yaml:",inline"`
	Records            []models.NutritionRecord `json:"records" yaml:"records"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	profile, err := d.LoadProfile()
	if err != nil {
		return nil, err
	}
	goals, err := d.LoadGoals()
	if err != nil {
		return nil, err
	}

	batches, err := d.ListImports(0)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}

	imports := make([]ExportedImport, 0, len(batches))
	for _, b := range batches {
		records, err := d.ListImportRecords(b.ID.String())
		if err != nil {
			return nil, fmt.Errorf("list import records: %w", err)
		}
		imports = append(imports, ExportedImport{ImportBatch: *b, Records: records})
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "diet",
		Profile:    profile,
		Goals:      goals,
		Imports:    imports,
	}, nil
}

// ImportData restores preferences and batches from an export in one
// transaction. Batches whose ID already exists are skipped; any failure
// leaves the database unchanged.
func (d *DB) ImportData(data *ExportData) error {
	profile, perr := data.Profile.Normalize()
	goals, gerr := data.Goals.Normalize()
	if err := errors.Join(perr, gerr); err != nil {
		return fmt.Errorf("import preferences: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := savePreference(tx, prefProfile, profile); err != nil {
		return fmt.Errorf("import preferences: %w", err)
	}
	if err := savePreference(tx, prefGoals, goals); err != nil {
		return fmt.Errorf("import preferences: %w", err)
	}

	for i := range data.Imports {
		imp := &data.Imports[i]
		var exists int
		err := tx.QueryRow("SELECT COUNT(*) FROM imports WHERE id = ?", imp.ID.String()).Scan(&exists)
		if err != nil {
			return fmt.Errorf("import batch %s: %w", imp.ID, err)
		}
		if exists > 0 {
			continue
		}
		if err := insertImport(tx, &imp.ImportBatch, imp.Records); err != nil {
			return fmt.Errorf("import batch %s: %w", imp.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import data: %w", err)
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders the entries matching filter as a summary table
// followed by one entry table per day.
func (d *DB) ExportMarkdown(filter models.RecordFilter) (string, error) {
	records, err := d.ListRecords(filter)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Diet Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	summary, err := analysis.Summarize(records)
	if errors.Is(err, analysis.ErrNoEntries) {
		sb.WriteString("No entries.\n")
		return sb.String(), nil
	}
	if err != nil {
		return "", err
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("%s to %s, %d entries over %d days.\n\n",
		summary.StartDate, summary.EndDate, summary.EntryCount, summary.DayCount))
	sb.WriteString("| | Calories | Carbs (g) | Protein (g) | Fat (g) | Fiber (g) | Sodium (mg) |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	writeNutrientRow(&sb, "Total", summary.Totals)
	writeNutrientRow(&sb, "Daily average", summary.Averages)
	sb.WriteString(fmt.Sprintf("\nMacro calories: protein %.0f%%, carbs %.0f%%, fat %.0f%%\n\n",
		summary.MacroPercent.Protein, summary.MacroPercent.Carbs, summary.MacroPercent.Fat))

	var current models.Date
	for _, r := range records {
		if !r.Date.Equal(current) {
			if !current.IsZero() {
				sb.WriteString("\n")
			}
			current = r.Date
			cal, _ := summary.DailyCalories.Get(current)
			sb.WriteString(fmt.Sprintf("## %s (%d kcal)\n\n", current, cal))
			sb.WriteString("| Meal | Item | Quantity | Calories | Carbs | Protein | Fat | Fiber | Sodium | Notes |\n")
			sb.WriteString("|------|------|----------|----------|-------|---------|-----|-------|--------|-------|\n")
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.0f | %.1f | %.1f | %.1f | %.1f | %.0f | %s |\n",
			mdCell(r.Meal), mdCell(r.Item), mdCell(r.Quantity), r.Calories,
			r.CarbsG, r.ProteinG, r.FatG, r.FiberG, r.SodiumMg, mdCell(r.Notes)))
	}

	return sb.String(), nil
}

func writeNutrientRow(sb *strings.Builder, label string, n models.Nutrients) {
	sb.WriteString(fmt.Sprintf("| %s | %.0f | %.1f | %.1f | %.1f | %.1f | %.0f |\n",
		label, n.Calories, n.CarbsG, n.ProteinG, n.FatG, n.FiberG, n.SodiumMg))
}

func mdCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(&exportData)
}
