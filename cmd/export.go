package cmd

import (
	"fmt"

	"github.com/msalah0e/relgraph/internal/render"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/msalah0e/relgraph/internal/view"
	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	var (
		ff        filterFlags
		output    string
		format    string
		title     string
		dragSpecs []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the laid-out graph as SVG, PNG, DOT, JSON or HTML",
		Example: `  relgraph export -o graph.svg
  relgraph export -o graph.png --year 1920 --hide 同事
  relgraph export -o graph.html --title "鲁迅的人情罗网"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(format, output)
			if err != nil {
				return err
			}
			if output == "" {
				output = "relgraph." + string(f)
			}
			drags := make([]drag, 0, len(dragSpecs))
			for _, s := range dragSpecs {
				d, err := parseDrag(s)
				if err != nil {
					return err
				}
				drags = append(drags, d)
			}

			v := a.openView(cmd.Context())
			if _, err := ff.apply(v); err != nil {
				return err
			}
			if !v.Empty() {
				if err := replayDrags(v, drags, 60); err != nil {
					return err
				}
			}

			if err := a.save(v, output, f, title); err != nil {
				return err
			}
			fmt.Printf("  %s Wrote %s %s\n", ui.StatusIcon(true), ui.Brand.Sprint(output),
				ui.Subtle.Sprintf("(%d nodes, %d links)", len(v.Visible().Nodes), len(v.Visible().Links)))
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default relgraph.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "svg, png, dot, json or html (default: from extension, then [render] format)")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	cmd.Flags().StringVar(&title, "title", "", "Caption drawn on the snapshot")
	cmd.Flags().StringArrayVar(&dragSpecs, "drag", nil, "Drag a node before rendering: id@x,y (repeatable)")
	return cmd
}

// outputFormat resolves the format flag, the output extension and the
// configured default, in that order.
func (a *app) outputFormat(flag, output string) (render.Format, error) {
	if flag != "" {
		return render.ParseFormat(flag)
	}
	if output != "" {
		if f, err := render.ParseFormat(extOf(output)); err == nil {
			return f, nil
		}
	}
	if a.cfg.Render.Format != "" {
		return render.ParseFormat(a.cfg.Render.Format)
	}
	return render.FormatSVG, nil
}

func (a *app) save(v *view.GraphView, path string, f render.Format, title string) error {
	return render.Save(path, render.FromView(v, title), f, a.style())
}
