// ABOUTME: Tests for Repository interface implementations.
// ABOUTME: Verifies import batches, entry queries and preferences using SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/targets"
)

func day(d int) models.Date {
	return models.NewDate(2024, time.March, d)
}

func sampleRecords() []models.NutritionRecord {
	return []models.NutritionRecord{
		{Date: day(2), Meal: "Lunch", Item: "Burrito", Quantity: "1", Calories: 700, CarbsG: 80, ProteinG: 30, FatG: 25, FiberG: 9, SodiumMg: 1200},
		{Date: day(1), Meal: "Breakfast", Item: "Oats", Calories: 300, CarbsG: 55, ProteinG: 10, FatG: 5, FiberG: 8, Notes: "with berries"},
		{Date: day(1), Meal: "Dinner", Item: "Tofu stir fry", Calories: 550, CarbsG: 40, ProteinG: 28, FatG: 22, FiberG: 6, SodiumMg: 900},
	}
}

func saveSample(t *testing.T, db *DB) *models.ImportBatch {
	t.Helper()
	records := sampleRecords()
	b := models.NewImportBatch("log.csv", len(records), 1)
	if err := db.SaveImport(b, records); err != nil {
		t.Fatalf("SaveImport failed: %v", err)
	}
	return b
}

func TestSaveAndGetImport(t *testing.T) {
	db := setupTestDB(t)

	b := saveSample(t, db)

	got, err := db.GetImport(b.ID.String())
	if err != nil {
		t.Fatalf("GetImport failed: %v", err)
	}
	if got.ID != b.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, b.ID)
	}
	if got.Source != "log.csv" {
		t.Errorf("Source mismatch: got %q", got.Source)
	}
	if got.Entries != 3 || got.Skipped != 1 {
		t.Errorf("counts mismatch: got %d/%d, want 3/1", got.Entries, got.Skipped)
	}
	if !got.ImportedAt.Truncate(time.Second).Equal(b.ImportedAt.Truncate(time.Second)) {
		t.Errorf("ImportedAt mismatch: got %v, want %v", got.ImportedAt, b.ImportedAt)
	}
}

func TestGetImportByPrefix(t *testing.T) {
	db := setupTestDB(t)
	b := saveSample(t, db)

	got, err := db.GetImport(b.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetImport by prefix failed: %v", err)
	}
	if got.ID != b.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, b.ID)
	}
}

func TestGetImportNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetImport("deadbeef")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListImports(t *testing.T) {
	db := setupTestDB(t)

	older := models.NewImportBatch("old.csv", 1, 0)
	older.ImportedAt = time.Now().Add(-2 * time.Hour)
	newer := models.NewImportBatch("new.csv", 1, 0)

	for _, b := range []*models.ImportBatch{older, newer} {
		if err := db.SaveImport(b, sampleRecords()[:1]); err != nil {
			t.Fatalf("SaveImport failed: %v", err)
		}
	}

	all, err := db.ListImports(0)
	if err != nil {
		t.Fatalf("ListImports failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(all))
	}
	if all[0].Source != "new.csv" {
		t.Errorf("expected newest first, got %s", all[0].Source)
	}

	limited, err := db.ListImports(1)
	if err != nil {
		t.Fatalf("ListImports with limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 import, got %d", len(limited))
	}
}

func TestDeleteImportCascades(t *testing.T) {
	db := setupTestDB(t)
	b := saveSample(t, db)
	keep := models.NewImportBatch("keep.csv", 1, 0)
	if err := db.SaveImport(keep, []models.NutritionRecord{{Date: day(5), Meal: "Snack", Item: "Apple", Calories: 95}}); err != nil {
		t.Fatalf("SaveImport failed: %v", err)
	}

	if err := db.DeleteImport(b.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteImport failed: %v", err)
	}

	records, err := db.ListRecords(models.RecordFilter{})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 || records[0].Item != "Apple" {
		t.Errorf("expected only the kept entry, got %+v", records)
	}

	if err := db.DeleteImport(b.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestListRecordsOrderAndRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	saveSample(t, db)

	records, err := db.ListRecords(models.RecordFilter{})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	wantItems := []string{"Oats", "Tofu stir fry", "Burrito"}
	for i, want := range wantItems {
		if records[i].Item != want {
			t.Errorf("records[%d].Item = %q, want %q", i, records[i].Item, want)
		}
	}

	burrito := records[2]
	want := sampleRecords()[0]
	if burrito != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", burrito, want)
	}
}

func TestListRecordsFilter(t *testing.T) {
	db := setupTestDB(t)
	saveSample(t, db)

	tests := []struct {
		name   string
		filter models.RecordFilter
		want   int
	}{
		{"no filter", models.RecordFilter{}, 3},
		{"from", models.RecordFilter{From: day(2)}, 1},
		{"to", models.RecordFilter{To: day(1)}, 2},
		{"inclusive range", models.RecordFilter{From: day(1), To: day(2)}, 3},
		{"search item", models.RecordFilter{Search: "tofu"}, 1},
		{"search meal", models.RecordFilter{Search: "BREAKFAST"}, 1},
		{"search notes", models.RecordFilter{Search: "berries"}, 1},
		{"search and range", models.RecordFilter{Search: "o", To: day(1)}, 2},
		{"limit", models.RecordFilter{Limit: 2}, 2},
		{"nothing", models.RecordFilter{Search: "pizza"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListRecords(tt.filter)
			if err != nil {
				t.Fatalf("ListRecords failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestListImportRecords(t *testing.T) {
	db := setupTestDB(t)
	b := saveSample(t, db)

	records, err := db.ListImportRecords(b.ID.String()[:8])
	if err != nil {
		t.Fatalf("ListImportRecords failed: %v", err)
	}
	if len(records) != 3 || records[0].Item != "Burrito" {
		t.Errorf("expected file order, got %+v", records)
	}
}

func TestPreferencesDefaults(t *testing.T) {
	db := setupTestDB(t)

	p, err := db.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p != models.DefaultProfile() {
		t.Errorf("expected default profile, got %+v", p)
	}

	g, err := db.LoadGoals()
	if err != nil {
		t.Fatalf("LoadGoals failed: %v", err)
	}
	if g != models.DefaultGoals() {
		t.Errorf("expected default goals, got %+v", g)
	}
}

func TestSaveAndLoadPreferences(t *testing.T) {
	db := setupTestDB(t)

	p := models.Profile{Age: 41, Sex: models.SexMale, WeightKg: 88.5, HeightCm: 183, ActivityLevel: models.ActivityVeryActive}
	g := models.GoalSettings{Mode: models.GoalLose, WeeklyRateKg: 0.5, ProteinPerKg: 2, FatPerKg: 0.7, FiberTargetG: 35, SodiumTargetMg: -1}

	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := db.SaveGoals(g); err != nil {
		t.Fatalf("SaveGoals failed: %v", err)
	}

	gotP, _ := db.LoadProfile()
	if gotP != p {
		t.Errorf("profile mismatch: got %+v, want %+v", gotP, p)
	}
	gotG, _ := db.LoadGoals()
	if gotG != g {
		t.Errorf("goals mismatch: got %+v, want %+v", gotG, g)
	}

	// Saving again overwrites.
	p.Age = 42
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile overwrite failed: %v", err)
	}
	gotP, _ = db.LoadProfile()
	if gotP.Age != 42 {
		t.Errorf("expected age 42, got %d", gotP.Age)
	}
}

func TestSaveProfileRejectsInvalid(t *testing.T) {
	db := setupTestDB(t)

	p := models.DefaultProfile()
	p.Age = 9
	err := db.SaveProfile(p)

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "age" {
		t.Errorf("expected field age, got %s", verr.Field)
	}

	got, _ := db.LoadProfile()
	if got != models.DefaultProfile() {
		t.Errorf("invalid profile must not be saved, got %+v", got)
	}
}

func TestSavePreferencesNoPartialSave(t *testing.T) {
	db := setupTestDB(t)

	p := models.DefaultProfile()
	p.WeightKg = 95
	g := models.DefaultGoals()
	g.ProteinPerKg = 5

	err := db.SavePreferences(p, g)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got, _ := db.LoadProfile()
	if got.WeightKg != models.DefaultProfile().WeightKg {
		t.Errorf("profile was saved despite invalid goals: %+v", got)
	}

	g.ProteinPerKg = 1.8
	if err := db.SavePreferences(p, g); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	got, _ = db.LoadProfile()
	if got.WeightKg != 95 {
		t.Errorf("expected weight 95, got %v", got.WeightKg)
	}
}

func TestLoadProfileKeepsDefaultsForMissingFields(t *testing.T) {
	db := setupTestDB(t)

	if err := savePreference(db.db, prefProfile, map[string]interface{}{"age": 50}); err != nil {
		t.Fatalf("savePreference failed: %v", err)
	}

	p, err := db.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Age != 50 || p.Sex != models.SexFemale || p.HeightCm != 170 {
		t.Errorf("unexpected profile %+v", p)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "diet.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var conns []*sql.Conn
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()
	for i := 0; i < 3; i++ {
		c, err := db.db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn %d failed: %v", i, err)
		}
		conns = append(conns, c)
	}

	for i, c := range conns {
		var on int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		if on != 1 {
			t.Errorf("conn %d: foreign_keys = %d, want 1", i, on)
		}
	}
}

func TestOpenSetsSchemaVersion(t *testing.T) {
	db := setupTestDB(t)

	var v int
	if err := db.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	if v != schemaVersion {
		t.Errorf("user_version = %d, want %d", v, schemaVersion)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "diet.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := db.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := Open(dbPath); err == nil {
		t.Fatal("expected Open to refuse a newer schema")
	} else if !strings.Contains(err.Error(), "schema version 99") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultDBPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	if got := DefaultDBPath(); got != "/tmp/xdg-data/diet/diet.db" {
		t.Errorf("DefaultDBPath() = %s", got)
	}
}

func TestSaveProfileStoresCanonicalEnums(t *testing.T) {
	db := setupTestDB(t)

	p := models.Profile{Age: 30, Sex: "male", WeightKg: 80, HeightCm: 180, ActivityLevel: "sedentary"}
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	g := models.DefaultGoals()
	g.Mode = "maintain"
	if err := db.SaveGoals(g); err != nil {
		t.Fatalf("SaveGoals failed: %v", err)
	}

	var raw string
	if err := db.db.QueryRow("SELECT value FROM preferences WHERE key = ?", prefProfile).Scan(&raw); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !strings.Contains(raw, `"sex":"MALE"`) || !strings.Contains(raw, `"activity_level":"SEDENTARY"`) {
		t.Errorf("stored profile not canonical: %s", raw)
	}

	loaded, err := db.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	goals, err := db.LoadGoals()
	if err != nil {
		t.Fatalf("LoadGoals failed: %v", err)
	}
	if goals.Mode != models.GoalMaintain {
		t.Errorf("Mode = %q, want %q", goals.Mode, models.GoalMaintain)
	}

	got := targets.Calculate(loaded, goals)
	if math.Abs(got.BMR-1780) > 1e-9 || math.Abs(got.TDEE-2136) > 1e-9 || math.Abs(got.CalorieTarget-2136) > 1e-9 {
		t.Errorf("targets = BMR %v TDEE %v calories %v, want 1780/2136/2136", got.BMR, got.TDEE, got.CalorieTarget)
	}
}

func TestSavePreferencesStoresCanonicalEnums(t *testing.T) {
	db := setupTestDB(t)

	p := models.Profile{Age: 41, Sex: "f", WeightKg: 65, HeightCm: 165, ActivityLevel: "very active"}
	g := models.DefaultGoals()
	g.Mode = "Lose"
	g.WeeklyRateKg = 0.5
	if err := db.SavePreferences(p, g); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	loaded, _ := db.LoadProfile()
	goals, _ := db.LoadGoals()
	if loaded.Sex != models.SexFemale || loaded.ActivityLevel != models.ActivityVeryActive || goals.Mode != models.GoalLose {
		t.Errorf("unexpected preferences %+v %+v", loaded, goals)
	}
}

func TestLoadProfileCanonicalisesStoredSpelling(t *testing.T) {
	db := setupTestDB(t)

	stored := map[string]interface{}{"age": 30, "sex": "male", "weight_kg": 80, "height_cm": 180, "activity_level": "sedentary"}
	if err := savePreference(db.db, prefProfile, stored); err != nil {
		t.Fatalf("savePreference failed: %v", err)
	}

	p, err := db.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Sex != models.SexMale || p.ActivityLevel != models.ActivitySedentary {
		t.Errorf("unexpected profile %+v", p)
	}
}

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "diet-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "diet.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
