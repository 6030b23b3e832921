// ABOUTME: Integration tests for the diet CLI.
// ABOUTME: Builds the binary and runs the import, summary and analysis workflow.
package test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const foodLog = "Date,Meal,Food Name,Energy (kcal),Protein (g),Carbohydrates (g),Fat (g),Fiber (g),Sodium (g),Notes\n" +
	"2024-05-01,Breakfast,Greek yogurt,220,20,12,9,0,0.08,\n" +
	"2024-05-01,Dinner,Chicken curry,780,45,60,38,7,1.4,spicy\n" +
	"2024-05-02,Lunch,Lentil soup,410,24,55,8,15,0.9,\n" +
	"tomorrow,Snack,Cookie,150,2,20,7,1,0.1,\n"

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	dietBinary := filepath.Join(projectRoot, "diet")

	buildCmd := exec.Command("go", "build", "-o", dietBinary, "./cmd/diet")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(dietBinary)

	// Use temp database and config
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	csvPath := filepath.Join(tmpDir, "may.csv")
	if err := os.WriteFile(csvPath, []byte(foodLog), 0600); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"OPENAI_API_KEY=",
		"GEMINI_API_KEY=",
		"DIET_NARRATOR_PROVIDER=",
		"NO_COLOR=1",
	)

	run := func(args ...string) (string, error) {
		fullArgs := append([]string{"--db", dbPath}, args...)
		cmd := exec.Command(dietBinary, fullArgs...)
		cmd.Dir = tmpDir
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Import
	output, err := run("import", csvPath)
	if err != nil {
		t.Fatalf("Failed to import: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Imported 3 entries from may.csv") {
		t.Errorf("Expected import message, got: %s", output)
	}

	// List
	output, err = run("list", "--search", "curry")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Chicken curry") || strings.Contains(output, "Lentil soup") {
		t.Errorf("Unexpected list output: %s", output)
	}

	// Summary: sodium in grams is converted to mg
	output, err = run("summary", "--daily")
	if err != nil {
		t.Fatalf("Failed to summarize: %v\n%s", err, output)
	}
	for _, want := range []string{"2024-05-01 to 2024-05-02", "1,410", "2,380", "1,000"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in summary output, got: %s", want, output)
		}
	}

	// Offline analysis
	output, err = run("analyze")
	if err != nil {
		t.Fatalf("Failed to analyze: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Offline analysis") {
		t.Errorf("Expected offline analysis, got: %s", output)
	}

	// JSON export
	exportFile := filepath.Join(tmpDir, "backup.json")
	output, err = run("export", "json", "-o", exportFile)
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	data, err := os.ReadFile(exportFile)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	var backup struct {
		Tool    string `json:"tool"`
		Imports []struct {
			Source  string            `json:"source"`
			Records []json.RawMessage `json:"records"`
		} `json:"imports"`
	}
	if err := json.Unmarshal(data, &backup); err != nil {
		t.Fatalf("Export is not valid JSON: %v\n%s", err, data)
	}
	if backup.Tool != "diet" || len(backup.Imports) != 1 || len(backup.Imports[0].Records) != 3 {
		t.Errorf("Unexpected export: %s", data)
	}
}
