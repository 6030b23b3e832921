// ABOUTME: Repository interface for diet data storage.
// ABOUTME: Defines the contract for import batches, entries and preferences.
package storage

import (
	"errors"

	"github.com/harperreed/diet/internal/models"
)

// ErrNotFound is wrapped by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Repository defines the storage interface for diet data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Import batch operations
	SaveImport(batch *models.ImportBatch, records []models.NutritionRecord) error
	GetImport(idOrPrefix string) (*models.ImportBatch, error)
	ListImports(limit int) ([]*models.ImportBatch, error)
	DeleteImport(idOrPrefix string) error

	// Entry operations
	ListRecords(filter models.RecordFilter) ([]models.NutritionRecord, error)
	ListImportRecords(importID string) ([]models.NutritionRecord, error)

	// Preference operations
	LoadProfile() (models.Profile, error)
	SaveProfile(p models.Profile) error
	LoadGoals() (models.GoalSettings, error)
	SaveGoals(g models.GoalSettings) error
	SavePreferences(p models.Profile, g models.GoalSettings) error

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}

var _ Repository = (*DB)(nil)
