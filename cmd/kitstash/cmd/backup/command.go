// Package backup implements the export and import commands.
package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/kitstash/internal/appcontext"
	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/store"
)

// NewExportCommand creates the export command with app dependencies.
func NewExportCommand(app appcontext.Interface) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "management",
		Short:   "Export paints, kits and projects as a JSON snapshot",
		Example: `  kitstash export > stash.json
  kitstash export --file stash.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if file != "" {
				f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
				if err != nil {
					return errors.WrapIO("create", file, err)
				}
				defer f.Close()
				w = f
			}
			if err := client.Export(cmd.Context(), w); err != nil {
				return err
			}
			if file != "" {
				app.Logger().Info().Str("file", file).Msg("Exported collection")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "write to file instead of stdout")

	return cmd
}

// NewImportCommand creates the import command with app dependencies.
func NewImportCommand(app appcontext.Interface) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:     "import <file>",
		GroupID: "management",
		Short:   "Import a JSON snapshot",
		Long: `Import reads a snapshot written by export. In merge mode records with a
known id are replaced and new ones are added. In replace mode every stored
record of the imported collections is deleted first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importMode := store.ImportMode(mode)
			if !importMode.Valid() {
				return errors.NewValidationError("mode", mode, "must be merge or replace")
			}
			client, err := app.Client()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return errors.WrapIO("open", args[0], err)
			}
			defer f.Close()

			stats, err := client.Import(cmd.Context(), f, importMode)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %d, replaced %d, deleted %d\n",
				stats.Created, stats.Replaced, stats.Deleted)
			return err
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(store.ImportMerge), "merge or replace")

	return cmd
}
