// Package paints implements the paints command: listing, adding and mixing
// paints in the collection.
package paints

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/kitstash/internal/appcontext"
	"github.com/agentstation/kitstash/internal/cmd/cmdutil"
	"github.com/agentstation/kitstash/internal/cmd/output"
	"github.com/agentstation/kitstash/pkg/consistency"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
)

// NewCommand creates the paints command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "paints",
		Aliases: []string{"paint"},
		GroupID: "core",
		Short:   "Manage paints and mixes",
		Example: `  kitstash paints list --status low
  kitstash paints quick-add tamiya XF-1
  kitstash paints add --brand Revell --code 32108 --name "Black Matt"
  kitstash paints mix "RLM 02 mix" --part p-1=3 --part p-2=1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newQuickAddCommand(app))
	cmd.AddCommand(newMixCommand(app))
	cmd.AddCommand(newDeleteCommand(app))

	return cmd
}

// paintRow is the structured output of a listed paint.
type paintRow struct {
	records.Paint
	Available bool `json:"available"`
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	var mixesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List paints",
		Args:  cobra.NoArgs,
	}
	flags := cmdutil.AddListFlags(cmd)
	cmd.Flags().BoolVar(&mixesOnly, "mixes", false, "only list mixes")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		client, err := app.Client()
		if err != nil {
			return err
		}
		index := client.Library().Index()

		var rows []paintRow
		for _, p := range index.Paints() {
			if mixesOnly && !p.IsMix {
				continue
			}
			if !flags.Matches(string(p.Status), p.Brand, p.Code, p.Name) {
				continue
			}
			rows = append(rows, paintRow{Paint: p, Available: index.MixComplete(p)})
		}
		rows = cmdutil.Apply(flags, rows)

		table := output.Data{Headers: []string{"ID", "Paint", "Type", "Status", "Available"}}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{
				r.ID,
				r.Label(),
				r.ColorType,
				string(r.Status),
				yesNo(r.Available),
			})
		}
		return cmdutil.Render(cmd, app, table, rows)
	}

	return cmd
}

func newAddCommand(app appcontext.Interface) *cobra.Command {
	var (
		paint  records.Paint
		status string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a paint by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			paint.Status = records.PaintStatus(status)
			sess := client.Library().NewPaint(paint)
			if dup := sess.Duplicate(); dup != nil {
				app.Logger().Warn().Str("existing", dup.ID).Msgf("%s is already in the collection", dup.Label())
			}
			id, err := sess.Save(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cmd.Flags().StringVar(&paint.Brand, "brand", "", "manufacturer name")
	cmd.Flags().StringVar(&paint.Code, "code", "", "catalog code")
	cmd.Flags().StringVar(&paint.Name, "name", "", "color name")
	cmd.Flags().StringVar(&paint.ColorType, "type", "", "color type, e.g. acrylic")
	cmd.Flags().StringVar(&paint.Finish, "finish", "", "finish, e.g. flat or gloss")
	cmd.Flags().StringVar(&paint.Hex, "hex", "", "swatch color as #rrggbb")
	cmd.Flags().StringVar(&paint.Notes, "notes", "", "free notes")
	cmd.Flags().StringVar(&status, "status", string(records.PaintInStock), "in_stock, low, wanted or empty")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newQuickAddCommand(app appcontext.Interface) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "quick-add <brand> <code or name>",
		Short: "Add a paint from the catalog",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			entry := client.Resolver().Resolve(args[0], text)
			if entry == nil {
				return errors.NewNotFoundError("catalog color", args[0]+" "+text)
			}
			id, err := client.QuickAddPaint(cmd.Context(), *entry, records.PaintStatus(status))
			if errors.Is(err, errors.ErrAlreadyExists) {
				app.Logger().Warn().Str("existing", id).Msgf("%s is already in the collection", entry.Label())
				return nil
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cmd.Flags().StringVar(&status, "status", string(records.PaintInStock), "in_stock, low, wanted or empty")

	return cmd
}

func newMixCommand(app appcontext.Interface) *cobra.Command {
	var (
		parts   []string
		thinner string
		notes   string
	)

	cmd := &cobra.Command{
		Use:   "mix <name>",
		Short: "Record a mix of stored paints",
		Long: `Mix stores a recipe of paints already in the collection. Each --part takes
a paint id and its ratio, e.g. --part p-1=3. A mix is available only when
every ingredient is in stock.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			sess := client.Library().NewMix(strings.Join(args, " "))
			if err := sess.Edit(func(p *records.Paint) {
				p.Thinner = thinner
				p.Notes = notes
			}); err != nil {
				return err
			}
			for _, part := range parts {
				id, ratio, err := parsePart(part)
				if err != nil {
					return err
				}
				if err := sess.AddIngredient(id, ratio); err != nil {
					return err
				}
			}
			id, err := sess.Save(cmd.Context())
			if err != nil {
				return err
			}
			if !sess.Complete() {
				app.Logger().Info().Msg("Some ingredients are not in stock")
			}
			return cmdutil.Render(cmd, app, IngredientsTable(sess.Ingredients()), map[string]any{
				"id":          id,
				"ingredients": sess.Ingredients(),
			})
		},
	}

	cmd.Flags().StringArrayVar(&parts, "part", nil, "ingredient as paint-id=parts (repeatable)")
	cmd.Flags().StringVar(&thinner, "thinner", "", "thinner used for the mix")
	cmd.Flags().StringVar(&notes, "notes", "", "free notes")
	_ = cmd.MarkFlagRequired("part")

	return cmd
}

func newDeleteCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a paint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			return client.Library().Delete(cmd.Context(), records.CollectionPaints, args[0])
		},
	}
}

// parsePart parses "paint-id=parts".
func parsePart(s string) (string, int, error) {
	id, ratio, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, errors.NewValidationError("part", s, "expected paint-id=parts")
	}
	n, err := strconv.Atoi(strings.TrimSpace(ratio))
	if err != nil {
		return "", 0, errors.NewValidationError("part", s, "parts must be a whole number")
	}
	return strings.TrimSpace(id), n, nil
}

// IngredientsTable converts resolved mix ingredients to table data.
func IngredientsTable(ingredients []consistency.Ingredient) output.Data {
	table := output.Data{
		Headers:         []string{"Paint", "Parts", "In stock"},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight, output.AlignCenter},
	}
	for _, in := range ingredients {
		label := in.Part.Name
		if in.Paint != nil {
			label = in.Paint.Label()
		}
		if in.Missing {
			label += " (deleted)"
		}
		table.Rows = append(table.Rows, []string{label, strconv.Itoa(in.Part.Parts), yesNo(in.InStock)})
	}
	return table
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
