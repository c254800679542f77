package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/kitstash/cmd/kitstash/cmd/backup"
	"github.com/agentstation/kitstash/cmd/kitstash/cmd/catalog"
	"github.com/agentstation/kitstash/cmd/kitstash/cmd/enrich"
	"github.com/agentstation/kitstash/cmd/kitstash/cmd/kits"
	"github.com/agentstation/kitstash/cmd/kitstash/cmd/paints"
	"github.com/agentstation/kitstash/cmd/kitstash/cmd/projects"
	"github.com/agentstation/kitstash/internal/cmd/output"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(catalog.NewCommand(a))
	rootCmd.AddCommand(paints.NewCommand(a))
	rootCmd.AddCommand(kits.NewCommand(a))
	rootCmd.AddCommand(projects.NewCommand(a))
	rootCmd.AddCommand(enrich.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(backup.NewExportCommand(a))
	rootCmd.AddCommand(backup.NewImportCommand(a))

	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := struct {
				Version string `json:"version"`
				Commit  string `json:"commit"`
				Date    string `json:"date"`
				BuiltBy string `json:"built_by"`
			}{a.version, a.commit, a.date, a.builtBy}

			if a.OutputFormat().Tabular() {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "kitstash %s (commit %s, built %s by %s)\n",
					info.Version, info.Commit, info.Date, info.BuiltBy)
				return err
			}
			return output.NewFormatter(a.OutputFormat()).Format(cmd.OutOrStdout(), info)
		},
	}
}
