// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for import batches, diet entries and preferences.
package storage

import "fmt"

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

// checkSchemaVersion refuses databases written by a newer release.
func (d *DB) checkSchemaVersion() error {
	var v int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v > schemaVersion {
		return fmt.Errorf("database %s has schema version %d; this diet supports up to %d", d.dbPath, v, schemaVersion)
	}
	return nil
}

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		imported_at DATETIME NOT NULL,
		entries INTEGER NOT NULL,
		skipped INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id TEXT NOT NULL,
		date TEXT NOT NULL,
		meal TEXT NOT NULL,
		item TEXT NOT NULL,
		quantity TEXT NOT NULL DEFAULT '',
		calories REAL NOT NULL DEFAULT 0,
		carbs_g REAL NOT NULL DEFAULT 0,
		protein_g REAL NOT NULL DEFAULT 0,
		fat_g REAL NOT NULL DEFAULT 0,
		fiber_g REAL NOT NULL DEFAULT 0,
		sodium_mg REAL NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (import_id) REFERENCES imports(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_imports_imported ON imports(imported_at DESC);
	CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
	CREATE INDEX IF NOT EXISTS idx_entries_import ON entries(import_id);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return err
	}
	_, err := d.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}
