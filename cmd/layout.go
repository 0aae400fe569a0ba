package cmd

import (
	"fmt"

	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/spf13/cobra"
)

func layoutCmd(a *app) *cobra.Command {
	var (
		ff        filterFlags
		dragSpecs []string
		dragTicks int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Run the force layout and print node positions",
		Long: `Run the force layout on the filtered graph and print the settled positions.

--drag replays a drag gesture: the node is held at the given point while the
layout runs reheated for --drag-ticks steps, then released to cool down.`,
		Example: `  relgraph layout --year 1918
  relgraph layout --drag person_3@120,80 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			drags := make([]drag, 0, len(dragSpecs))
			for _, s := range dragSpecs {
				d, err := parseDrag(s)
				if err != nil {
					return err
				}
				drags = append(drags, d)
			}

			v := a.openView(cmd.Context())
			if v.Empty() {
				return nil
			}
			if _, err := ff.apply(v); err != nil {
				return err
			}
			if err := replayDrags(v, drags, dragTicks); err != nil {
				return err
			}

			frame := v.Frame()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), frame)
			}

			opts := v.Simulation().Options()
			ui.Banner(fmt.Sprintf("layout on %.0f×%.0f", opts.Width, opts.Height))
			headers := []string{"ID", "Name", "X", "Y"}
			var rows [][]string
			for _, p := range frame.Nodes {
				name := p.ID
				if n, ok := v.Graph().Node(p.ID); ok {
					name = n.Name
				}
				rows = append(rows, []string{p.ID, name, fmt.Sprintf("%.1f", p.X), fmt.Sprintf("%.1f", p.Y)})
			}
			ui.Table(headers, rows)
			fmt.Println()
			fmt.Printf("  %s\n", ui.Subtle.Sprintf("state: %s, alpha %.4f", v.State(), v.Simulation().Alpha()))
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringArrayVar(&dragSpecs, "drag", nil, "Drag a node: id@x,y (repeatable)")
	cmd.Flags().IntVar(&dragTicks, "drag-ticks", 60, "Reheated steps while dragged nodes are held")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the frame as JSON")
	return cmd
}
