package cmd

import (
	"fmt"
	"strings"

	"github.com/msalah0e/relgraph/internal/network"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/spf13/cobra"
)

func showCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <name-or-id>",
		Short: "Show a person's relation and event history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.openView(cmd.Context())
			if v.Empty() {
				return nil
			}
			g := v.Graph()

			n, ok := g.Node(args[0])
			if !ok {
				n, ok = g.Find(args[0])
			}
			if !ok {
				return fmt.Errorf("%q: %w", args[0], network.ErrNodeNotFound)
			}

			nd, err := v.NodeDetail(n.ID)
			if err != nil {
				return err
			}
			var ld *network.LinkDetail
			if !n.IsCenter() {
				d, err := v.LinkDetail(g.Center().ID, n.ID)
				if err != nil {
					return err
				}
				ld = &d
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					Node network.NodeDetail  `json:"node"`
					Link *network.LinkDetail `json:"link,omitempty"`
				}{nd, ld})
			}

			fmt.Print(renderDetail(nd, ld))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the detail payload as JSON")
	return cmd
}

// renderDetail draws the sidebar view of a node as a terminal tree.
func renderDetail(nd network.NodeDetail, ld *network.LinkDetail) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("  %s %s\n", ui.Swatch(nd.Color), ui.Brand.Sprint(nd.Name)))
	b.WriteString(fmt.Sprintf("  │  %s\n", ui.Subtle.Sprintf("%s · since %d", nd.Relation, nd.EarliestYear)))
	if ld != nil {
		status := ui.Good.Sprint("active")
		if ld.Broken {
			status = ui.Warn.Sprint("severed")
		}
		b.WriteString(fmt.Sprintf("  │  %s ↔ %s  %s\n", ld.SourceName, ld.TargetName, status))
	}

	if len(nd.Events) == 0 {
		b.WriteString(fmt.Sprintf("  └── %s\n", ui.Subtle.Sprint("no recorded events")))
		return b.String()
	}
	b.WriteString("  │\n")
	for i, e := range nd.Events {
		prefix := "  ├── "
		if i == len(nd.Events)-1 {
			prefix = "  └── "
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", prefix, ui.Info.Sprintf("%-8s", e.Time), e.Description))
	}
	return b.String()
}
