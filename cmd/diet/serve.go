// ABOUTME: CLI command for starting the HTTP API.
// ABOUTME: Serves JSON endpoints until interrupted.
package main

import (
	"os/signal"
	"syscall"

	"github.com/harperreed/diet/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start a JSON HTTP API over the diet database.

ENDPOINTS:

  GET    /api/records            Entries (?from, ?to, ?q, ?limit)
  GET    /api/summary            Summary with profile, goals and targets
  GET    /api/targets            Daily targets
  GET    /api/profile            Profile
  PUT    /api/profile            Update profile fields
  GET    /api/goals              Goal settings
  PUT    /api/goals              Update goal settings
  GET    /api/imports            Imported files (?limit)
  POST   /api/imports?name=x.csv Import a CSV request body
  DELETE /api/imports/{id}       Delete an import
  POST   /api/analyze            Written feedback (?from, ?to, ?q)

Only one import and one analysis run at a time; a second request while
one is running gets 409 Conflict.

EXAMPLES:

  diet serve                                # Listen on :8080
  diet serve --addr 127.0.0.1:9000
  curl -X POST --data-binary @log.csv 'localhost:8080/api/imports?name=log.csv'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		narrator := cfg.NewNarrator(ctx, logger)
		return server.New(db, narrator, logger).ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
