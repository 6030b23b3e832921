// ABOUTME: Shared date-range and search flags for read commands.
// ABOUTME: Also holds small text helpers used by table output.
package main

import (
	"strings"

	"github.com/harperreed/diet/internal/models"
	"github.com/spf13/cobra"
)

type filterFlags struct {
	from   string
	to     string
	search string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "only entries whose item, meal or notes contain this text")
}

func (f *filterFlags) filter(limit int) (models.RecordFilter, error) {
	return models.ParseRecordFilter(f.from, f.to, f.search, limit)
}

func (f *filterFlags) reset() {
	*f = filterFlags{}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	return s[:maxLen-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
