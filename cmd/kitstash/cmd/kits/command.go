// Package kits implements the kits command: listing kits with their derived
// indicators, showing one kit and adding kits.
package kits

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

// NewCommand creates the kits command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kits",
		Aliases: []string{"kit"},
		GroupID: "core",
		Short:   "Manage model kits",
		Example: `  kitstash kits list --status wip
  kitstash kits show k-1
  kitstash kits add --brand Tamiya --number 61032 --scale 1/48 --paint p-1 --paint p-2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newShowCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newDeleteCommand(app))

	return cmd
}

// View is a kit with its derived indicators.
type View struct {
	Kit        records.Kit               `json:"kit"`
	Indicators consistency.KitIndicators `json:"indicators"`
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List kits with paint coverage and build readiness",
		Args:  cobra.NoArgs,
	}
	flags := cmdutil.AddListFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		client, err := app.Client()
		if err != nil {
			return err
		}
		index := client.Library().Index()

		var views []View
		for _, k := range index.Kits() {
			if !flags.Matches(string(k.Status), k.Brand, k.CatalogNumber, k.SubjectName, k.DisplayName) {
				continue
			}
			views = append(views, View{Kit: k, Indicators: index.Evaluate(k)})
		}
		views = cmdutil.Apply(flags, views)

		table := output.Data{
			Headers: []string{"ID", "Kit", "Scale", "Status", "Progress", "Paints", "Ready"},
			ColumnAlignment: []output.Align{
				output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignLeft,
				output.AlignRight, output.AlignRight, output.AlignCenter,
			},
		}
		for _, v := range views {
			ready := "no"
			if v.Indicators.Ready {
				ready = "yes"
			}
			table.Rows = append(table.Rows, []string{
				v.Kit.ID,
				v.Kit.Label(),
				v.Kit.Scale,
				string(v.Kit.Status),
				strconv.Itoa(v.Kit.Progress) + "%",
				coverage(v.Indicators.Paints),
				ready,
			})
		}
		return cmdutil.Render(cmd, app, table, views)
	}

	return cmd
}

func newShowCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a kit with its indicators and warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			index := client.Library().Index()
			kit, ok := index.Kit(args[0])
			if !ok {
				return errors.NewNotFoundError("kit", args[0])
			}
			view := View{Kit: kit, Indicators: index.Evaluate(kit)}
			return cmdutil.Render(cmd, app, detailTable(view, index), view)
		},
	}
}

func newAddCommand(app appcontext.Interface) *cobra.Command {
	var (
		kit      records.Kit
		status   string
		paintIDs []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a kit",
		Long: `Add stores a new kit. Advisory warnings such as an unknown brand or a
possible duplicate are printed but do not prevent the save.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			sess := client.Library().NewKit()
			if err := sess.Edit(func(k *records.Kit) {
				*k = kit
				k.Status = records.KitStatus(status)
				for _, id := range paintIDs {
					k.Paints = append(k.Paints, records.KitPaint{PaintID: id})
				}
			}); err != nil {
				return err
			}
			for _, w := range sess.Indicators().Warnings {
				app.Logger().Warn().Str("field", w.Field).Msg(w.Message)
			}
			id, err := sess.Save(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cmd.Flags().StringVar(&kit.Brand, "brand", "", "kit manufacturer")
	cmd.Flags().StringVar(&kit.CatalogNumber, "number", "", "manufacturer catalog number")
	cmd.Flags().StringVar(&kit.Scale, "scale", "", "scale, e.g. 1/48")
	cmd.Flags().StringVar(&kit.SubjectName, "subject", "", "subject, e.g. Spitfire Mk.I")
	cmd.Flags().StringVar(&kit.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&kit.ProjectID, "project", "", "project id")
	cmd.Flags().IntVar(&kit.Progress, "progress", 0, "build progress 0-100")
	cmd.Flags().StringVar(&kit.Notes, "notes", "", "free notes")
	cmd.Flags().StringVar(&status, "status", string(records.KitNew), "new, wip, finished, wishlist or scrap")
	cmd.Flags().StringArrayVar(&paintIDs, "paint", nil, "paint id needed for the build (repeatable)")

	return cmd
}

func newDeleteCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a kit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			return client.Library().Delete(cmd.Context(), records.CollectionKits, args[0])
		},
	}
}

func detailTable(v View, index *consistency.Index) output.Data {
	k := v.Kit
	rows := [][]string{
		{"ID", k.ID},
		{"Kit", k.Label()},
		{"Brand", k.Brand},
		{"Catalog number", k.CatalogNumber},
		{"Scale", k.Scale},
		{"Subject", k.SubjectName},
		{"Status", string(k.Status)},
		{"Progress", strconv.Itoa(k.Progress) + "%"},
		{"Paints", coverage(v.Indicators.Paints)},
		{"Accessories", coverage(v.Indicators.Accessories)},
		{"Ready", strconv.FormatBool(v.Indicators.Ready)},
	}
	if project, ok := index.KitProject(k); ok {
		rows = append(rows, []string{"Project", project.Name})
	}
	if k.Year != 0 {
		rows = append(rows, []string{"Year", strconv.Itoa(k.Year)})
	}
	if k.EAN != "" {
		rows = append(rows, []string{"EAN", k.EAN})
	}
	for _, p := range k.Paints {
		label := p.PaintID + " (missing)"
		if paint, ok := index.Paint(p.PaintID); ok {
			label = fmt.Sprintf("%s [%s]", paint.Label(), paint.Status)
		}
		rows = append(rows, []string{"Paint", label})
	}
	for _, o := range k.Offers {
		rows = append(rows, []string{"Offer", strings.TrimSpace(o.Shop + " " + o.Price)})
	}
	for _, d := range v.Indicators.Duplicates {
		rows = append(rows, []string{"Duplicate of", d.ID + " " + d.Label()})
	}
	for _, w := range v.Indicators.Warnings {
		rows = append(rows, []string{"Warning", w.String()})
	}
	return output.Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

func coverage(c consistency.Coverage) string {
	return fmt.Sprintf("%d/%d", c.Owned, c.Total)
}
