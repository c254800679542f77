// Package enrich implements the enrich command: reading kit details from a
// kit database page through the fetch relay.
package enrich

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/kitstash/internal/appcontext"
	"github.com/agentstation/kitstash/internal/cmd/cmdutil"
	"github.com/agentstation/kitstash/internal/cmd/output"
	"github.com/agentstation/kitstash/pkg/enrichment"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
)

// NewCommand creates the enrich command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var kitID string

	cmd := &cobra.Command{
		Use:     "enrich <url>",
		GroupID: "core",
		Short:   "Read kit details from a kit database page",
		Long: `Enrich fetches a kit page through the configured fetch relay and reads the
brand, catalog number, scale, box art, markings, instructions and shop
offers from it. With --kit the details are merged into a stored kit.

The relay is configured with relay_url and relay_api_key in ~/.kitstash.yaml
or the KITSTASH_RELAY_URL and KITSTASH_RELAY_API_KEY environment variables.`,
		Example: `  kitstash enrich https://kits.example.com/kit/61032
  kitstash enrich https://kits.example.com/kit/61032 --kit k-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			var res enrichment.Result
			if kitID != "" {
				_, res, err = client.EnrichKit(ctx, kitID, args[0])
			} else {
				res, err = client.Enrich(ctx, args[0])
			}
			if err != nil {
				return err
			}

			for _, soft := range res.SoftFailures {
				app.Logger().Warn().Str("stage", string(soft.Stage)).Str("url", soft.URL).
					Msg(errors.Message(soft.Err))
			}
			return cmdutil.Render(cmd, app, ResultTable(res), res)
		},
	}

	cmd.Flags().StringVar(&kitID, "kit", "", "stored kit to merge the details into")

	return cmd
}

// ResultTable converts an enrichment result to table data.
func ResultTable(res enrichment.Result) output.Data {
	k := res.Kit
	var rows [][]string
	add := func(name, value string) {
		if value != "" {
			rows = append(rows, []string{name, value})
		}
	}

	add("Title", k.Title)
	add("Brand", k.Brand)
	add("Catalog number", k.CatalogNumber)
	add("Scale", k.Scale)
	add("Subject", k.SubjectName)
	if k.Year != 0 {
		add("Year", strconv.Itoa(k.Year))
	}
	add("EAN", k.EAN)
	add("Image", k.ImageURL)
	if k.Instructions != nil {
		add("Instructions", k.Instructions.URL)
	}
	for _, o := range k.Offers {
		add("Offer", strings.TrimSpace(o.Shop+" "+o.Price))
	}
	for _, note := range k.Notes {
		add("Note", note)
	}
	for _, soft := range res.SoftFailures {
		add("Skipped", string(soft.Stage)+": "+string(soft.Category))
	}
	add("Took", res.Duration.String())

	return output.Data{Headers: []string{"Field", "Value"}, Rows: rows}
}
