package cmd

import (
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/spf13/cobra"
)

func statsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"summary"},
		Short:   "Summarize people, categories and severed relations",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.openView(cmd.Context())
			if v.Empty() {
				return nil
			}
			s := v.Graph().Stats()

			if asJSON {
				return printJSON(cmd.OutOrStdout(), s)
			}

			ui.Banner("relationship data")
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "People"), s.People)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Categories"), len(s.Categories))
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Events"), s.Events)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Severed"), s.Broken)
			fmt.Printf("  %s  %d–%d\n", ui.Brand.Sprintf("%-16s", "Horizon"), s.MinYear, s.MaxYear)
			fmt.Println()

			headers := []string{"", "Category", "People", "Severed", "Since"}
			var rows [][]string
			for _, c := range s.Categories {
				rows = append(rows, []string{
					ui.Swatch(c.Color),
					c.Category,
					strconv.Itoa(c.People),
					strconv.Itoa(c.Broken),
					strconv.Itoa(c.Earliest),
				})
			}
			ui.Table(headers, rows)
			fmt.Println()
			fmt.Printf("  %s\n", ui.Subtle.Sprintf("Source: %s", a.location()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
