// ABOUTME: Data migration between diet databases.
// ABOUTME: Copies preferences, import batches and their entries from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Imports int
	Entries int
}

// MigrateData copies all data from src to dst storage. Preferences are
// copied first, then each import batch with its entries in file order.
// The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	profile, err := src.LoadProfile()
	if err != nil {
		return nil, fmt.Errorf("load source profile: %w", err)
	}
	goals, err := src.LoadGoals()
	if err != nil {
		return nil, fmt.Errorf("load source goals: %w", err)
	}
	if err := dst.SavePreferences(profile, goals); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}

	batches, err := src.ListImports(0)
	if err != nil {
		return nil, fmt.Errorf("list source imports: %w", err)
	}

	// Oldest first so the destination keeps the same ordering.
	for i := len(batches) - 1; i >= 0; i-- {
		b := batches[i]
		records, err := src.ListImportRecords(b.ID.String())
		if err != nil {
			return nil, fmt.Errorf("list records for import %s: %w", b.ID, err)
		}
		if err := dst.SaveImport(b, records); err != nil {
			return nil, fmt.Errorf("save import %s: %w", b.ID, err)
		}
		summary.Imports++
		summary.Entries += len(records)
	}

	return summary, nil
}

// FileNonEmpty reports whether path exists and has content.
func FileNonEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
	return info.Size() > 0, nil
}
