// ABOUTME: Root Cobra command for diet CLI.
// ABOUTME: Loads config and .env, sets up logging, and manages the database lifecycle.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/diet/internal/config"
	"github.com/harperreed/diet/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	db      *storage.DB
	cfg     *config.Config
	logger  = log.NewWithOptions(os.Stderr, log.Options{Prefix: "diet"})
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "diet",
	Short: "Diet log analysis from CSV exports",
	Long: `Diet imports CSV exports from food-logging apps, summarises what you ate,
computes personal calorie and macro targets, and writes feedback on how the
two compare.

QUICK START:

  $ diet import myfitnesspal.csv          # Import a CSV export
  $ diet summary                          # Totals, daily averages, macro split
  $ diet profile set --age 34 --sex male --weight 82 --height 180
  $ diet goals set --mode lose --rate 0.5
  $ diet targets                          # BMR, TDEE and daily targets
  $ diet analyze                          # Feedback on the logged period

CSV FORMAT:

  Column names are matched loosely: "Date", "Food", "Calories (kcal)",
  "Protein (g)", "Sodium (mg)" and common variants are all recognised.
  Rows without a readable date are skipped and reported.

FILTERING:

  Most commands accept --from and --to (YYYY-MM-DD, inclusive) and
  --search to match item, meal or notes text.

AI FEEDBACK:

  Set OPENAI_API_KEY or GEMINI_API_KEY (a .env file in the working
  directory works too) for model-written feedback. Without a key, or
  when the request fails, 'diet analyze' prints the offline analysis.

MCP INTEGRATION:

  Run 'diet mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "diet": { "command": "diet", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Entries and preferences are stored in SQLite at ~/.local/share/diet/diet.db.
  Configuration lives in ~/.config/diet/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}

		// Skip database init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "install-skill" {
			return nil
		}

		// A missing .env is normal.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if dbPath != "" {
			db, err = storage.Open(config.ExpandPath(dbPath))
		} else {
			db, err = cfg.OpenStorage()
		}
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.local/share/diet/diet.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
