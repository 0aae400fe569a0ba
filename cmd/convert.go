package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/msalah0e/relgraph/internal/network"
	"github.com/msalah0e/relgraph/internal/source"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/spf13/cobra"
)

func convertCmd(a *app) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a CSV, JSON or YAML record set into a graph document",
		Long: `Convert records into the nodes/links document the viewer loads.

The CSV layout is one row per person after a header row: an index column,
name, relation, then (time, description) pairs. Empty names become
"Unknown <n>" and empty relations take [data] fallback_relation.`,
		Example: `  relgraph convert 人物关系.csv -o network-data.json
  relgraph convert network-data.json -o network-data.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.loader().Load(cmd.Context(), args[0])
			if !res.Loaded() {
				return fmt.Errorf("read %s: %w", args[0], res.Err)
			}

			f := source.Format(strings.ToLower(format))
			if f == "yml" {
				f = source.FormatYAML
			}
			if f == "" {
				f = source.FormatJSON
				if output != "" {
					f = source.DetectFormat(output)
				}
			}

			g := network.Normalize(res.Records, a.cfg.NetworkOptions())

			w := cmd.OutOrStdout()
			if output != "" {
				if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
					return err
				}
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			if err := source.Encode(w, g, f); err != nil {
				return err
			}

			if output != "" {
				s := g.Stats()
				fmt.Printf("  %s Wrote %s %s\n", ui.StatusIcon(true), ui.Brand.Sprint(output),
					ui.Subtle.Sprintf("(%d people, %d categories, %d severed)", s.People, len(s.Categories), s.Broken))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default: from output extension, else json)")
	return cmd
}

func extOf(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
