package cmd

import (
	"fmt"
	"strconv"

	"github.com/msalah0e/relgraph/internal/network"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/spf13/cobra"
)

func filterCmd(a *app) *cobra.Command {
	var (
		ff     filterFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List the people visible under a category and year filter",
		Example: `  relgraph filter --year 1920
  relgraph filter --only 友人,同乡 --year 1915
  relgraph filter --hide 亲属 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.openView(cmd.Context())
			if v.Empty() {
				return nil
			}
			vis, err := ff.apply(v)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), vis)
			}

			fs := v.Filter()
			ui.Banner(fmt.Sprintf("relationships up to %d", fs.Year))

			headers := []string{"", "Name", "Relation", "Since", "Status"}
			var rows [][]string
			for _, n := range vis.Nodes {
				if n.IsCenter() {
					continue
				}
				rows = append(rows, []string{
					ui.Swatch(n.Color),
					n.Name,
					n.Relation,
					strconv.Itoa(n.EarliestYear),
					linkStatus(vis, n.ID),
				})
			}
			if len(rows) == 0 {
				fmt.Println("  Nobody matches this filter.")
			}
			ui.Table(headers, rows)
			fmt.Println()
			fmt.Printf("  %s\n", ui.Subtle.Sprintf("%d of %d people visible", len(vis.Nodes)-1, v.Graph().People()))
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the visible nodes and links as JSON")
	return cmd
}

func linkStatus(vis network.Visible, id string) string {
	for _, e := range vis.Links {
		if e.Target == id {
			if e.Broken {
				return ui.Warn.Sprint("severed")
			}
			return ui.Good.Sprint("active")
		}
	}
	return ui.Subtle.Sprint("-")
}
