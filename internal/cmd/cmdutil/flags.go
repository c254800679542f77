// Package cmdutil provides shared flags and output helpers for kitstash commands.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/kitstash/internal/appcontext"
	"github.com/agentstation/kitstash/internal/cmd/output"
	"github.com/agentstation/kitstash/internal/matcher"
)

// ListFlags holds the filters shared by list commands.
type ListFlags struct {
	Status string
	Search string
	Limit  int
}

// AddListFlags adds list filter flags to a command.
func AddListFlags(cmd *cobra.Command) *ListFlags {
	flags := &ListFlags{}

	cmd.Flags().StringVar(&flags.Status, "status", "",
		"Filter by status")
	cmd.Flags().StringVarP(&flags.Search, "search", "s", "",
		"Filter by text, ignoring case and accents")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Maximum number of results (0 for all)")

	return flags
}

// Matches reports whether status and any of texts pass the filters.
func (f *ListFlags) Matches(status string, texts ...string) bool {
	if f.Status != "" && f.Status != status {
		return false
	}
	if f.Search == "" {
		return true
	}
	query := matcher.Fold(f.Search)
	for _, text := range texts {
		if strings.Contains(matcher.Fold(text), query) {
			return true
		}
	}
	return false
}

// Apply returns items cut to the limit.
func Apply[T any](f *ListFlags, items []T) []T {
	if f.Limit > 0 && len(items) > f.Limit {
		return items[:f.Limit]
	}
	return items
}

// Render writes table for tabular formats and structured otherwise.
func Render(cmd *cobra.Command, app appcontext.Interface, table output.Data, structured any) error {
	return output.Write(cmd.OutOrStdout(), app.OutputFormat(), table, structured)
}
