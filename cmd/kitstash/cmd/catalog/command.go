// Package catalog implements the catalog command: browsing manufacturers,
// series and paint entries of the reference catalog.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/kitstash/internal/appcontext"
	"github.com/agentstation/kitstash/internal/cmd/cmdutil"
	"github.com/agentstation/kitstash/internal/cmd/output"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/resolver"
)

// NewCommand creates the catalog command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		GroupID: "core",
		Short:   "Browse the paint catalog",
		Example: `  kitstash catalog manufacturers
  kitstash catalog series tamiya
  kitstash catalog search "flat black" --brand tamiya
  kitstash catalog spec tamiya XF-1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newManufacturersCommand(app))
	cmd.AddCommand(newSeriesCommand(app))
	cmd.AddCommand(newSearchCommand(app))
	cmd.AddCommand(newSpecCommand(app))

	return cmd
}

func resolverFor(app appcontext.Interface) (*resolver.Resolver, error) {
	client, err := app.Client()
	if err != nil {
		return nil, err
	}
	return client.Resolver(), nil
}

func newManufacturersCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "manufacturers",
		Aliases: []string{"brands"},
		Short:   "List paint manufacturers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := resolverFor(app)
			if err != nil {
				return err
			}
			brands := r.ListManufacturers()

			table := output.Data{
				Headers:         []string{"ID", "Name", "Series", "Colors"},
				ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignRight},
			}
			for _, b := range brands {
				table.Rows = append(table.Rows, []string{
					b.ID,
					b.DisplayName,
					strconv.Itoa(len(r.ListSeries(b.ID))),
					strconv.Itoa(len(r.BrandEntryList(b.ID))),
				})
			}
			return cmdutil.Render(cmd, app, table, brands)
		},
	}
}

func newSeriesCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "series <brand>",
		Short: "List the series of a manufacturer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolverFor(app)
			if err != nil {
				return err
			}
			series := r.ListSeries(args[0])
			if len(series) == 0 {
				return errors.NewNotFoundError("manufacturer", args[0])
			}

			table := output.Data{Headers: []string{"ID", "Name", "Colors"}}
			for _, s := range series {
				table.Rows = append(table.Rows, []string{
					s.ID,
					s.DisplayName,
					strconv.Itoa(len(r.SeriesEntries(args[0], s.ID))),
				})
			}
			return cmdutil.Render(cmd, app, table, series)
		},
	}
}

func newSearchCommand(app appcontext.Interface) *cobra.Command {
	var scope resolver.Scope

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search catalog colors by code or name",
		Long: `Search matches the query against color codes, ignoring case, spaces and
dashes, and against color names. Code matches come first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolverFor(app)
			if err != nil {
				return err
			}
			entries := r.Search(strings.Join(args, " "), scope)
			app.Logger().Debug().Int("results", len(entries)).Str("brand", scope.Brand).Msg("Catalog search")
			return cmdutil.Render(cmd, app, EntriesTable(entries), entries)
		},
	}

	cmd.Flags().StringVarP(&scope.Brand, "brand", "b", "", "limit the search to one manufacturer")
	cmd.Flags().StringVar(&scope.Series, "series", "", "limit the search to one series of the manufacturer")

	return cmd
}

func newSpecCommand(app appcontext.Interface) *cobra.Command {
	var colorType string

	cmd := &cobra.Command{
		Use:   "spec <brand> [code]",
		Short: "Show thinning, cleanup and safety advice for a paint",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolverFor(app)
			if err != nil {
				return err
			}
			var code string
			if len(args) == 2 {
				code = args[1]
			}
			spec := r.SpecOrDefault(args[0], code, colorType)

			table := output.Data{Headers: []string{"Property", "Value"}}
			for _, row := range [][2]string{
				{"Type", spec.Label},
				{"Solvent", spec.Solvent},
				{"Thinner", spec.Thinner},
				{"Dilution", spec.Dilution},
				{"Cleanup", spec.Cleanup},
				{"Usage", spec.Usage},
				{"Safety", strings.Join(spec.Safety, "; ")},
			} {
				if row[1] != "" {
					table.Rows = append(table.Rows, []string{row[0], row[1]})
				}
			}
			return cmdutil.Render(cmd, app, table, spec)
		},
	}

	cmd.Flags().StringVar(&colorType, "type", "", "color type, e.g. acrylic or enamel")

	return cmd
}

// EntriesTable converts catalog entries to table data.
func EntriesTable(entries []resolver.Entry) output.Data {
	table := output.Data{Headers: []string{"Brand", "Code", "Name", "Type", "Finish", "Hex"}}
	for _, e := range entries {
		code := e.DisplayCode
		if code == "" {
			code = e.Code
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%s (%s)", e.BrandName, e.Brand),
			code,
			e.Name,
			e.ColorType,
			e.Finish,
			e.Hex,
		})
	}
	return table
}
