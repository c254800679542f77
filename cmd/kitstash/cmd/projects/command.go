// Package projects implements the projects command.
package projects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/kitstash/internal/appcontext"
	"github.com/agentstation/kitstash/internal/cmd/cmdutil"
	"github.com/agentstation/kitstash/internal/cmd/output"
	"github.com/agentstation/kitstash/pkg/consistency"
	"github.com/agentstation/kitstash/pkg/records"
)

// NewCommand creates the projects command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		GroupID: "core",
		Short:   "Manage build projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newDeleteCommand(app))

	return cmd
}

// View is a project with its derived indicators.
type View struct {
	Project    records.Project               `json:"project"`
	Indicators consistency.ProjectIndicators `json:"indicators"`
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects with progress",
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
		for _, p := range index.Projects() {
			if !flags.Matches(string(p.Status), p.Name, p.Description) {
				continue
			}
			views = append(views, View{Project: p, Indicators: index.EvaluateProject(p)})
		}
		views = cmdutil.Apply(flags, views)

		table := output.Data{
			Headers: []string{"ID", "Name", "Status", "Kits", "Progress", "Ready"},
			ColumnAlignment: []output.Align{
				output.AlignLeft, output.AlignLeft, output.AlignLeft,
				output.AlignRight, output.AlignRight, output.AlignRight,
			},
		}
		for _, v := range views {
			table.Rows = append(table.Rows, []string{
				v.Project.ID,
				v.Project.Name,
				string(v.Project.Status),
				strconv.Itoa(v.Indicators.Kits),
				strconv.Itoa(v.Indicators.Progress) + "%",
				fmt.Sprintf("%d/%d", v.Indicators.Ready, v.Indicators.Kits),
			})
		}
		return cmdutil.Render(cmd, app, table, views)
	}

	return cmd
}

func newAddCommand(app appcontext.Interface) *cobra.Command {
	var project records.Project
	var status string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			project.Name = strings.Join(args, " ")
			project.Status = records.ProjectStatus(status)
			id, err := client.Library().SaveProject(cmd.Context(), project)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cmd.Flags().StringVar(&project.Description, "description", "", "project description")
	cmd.Flags().StringVar(&status, "status", string(records.ProjectPlanned), "planned, active, finished or hold")

	return cmd
}

func newDeleteCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project; its kits keep a dangling reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			return client.Library().Delete(cmd.Context(), records.CollectionProjects, args[0])
		},
	}
}
