package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/msalah0e/relgraph/internal/parallel"
	"github.com/msalah0e/relgraph/internal/render"
	"github.com/msalah0e/relgraph/internal/source"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/spf13/cobra"
)

func framesCmd(a *app) *cobra.Command {
	var (
		ff          filterFlags
		dir         string
		format      string
		from, to    int
		step        int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Render one snapshot per year, in parallel",
		Long: `Render one snapshot per year of the horizon into a directory, one file per
year. Each year gets its own independent layout, so frames can be stitched
into an animation of how the network grew.`,
		Example: `  relgraph frames -o frames/ --format png
  relgraph frames --from 1915 --to 1920 --only 友人`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(format, "")
			if err != nil {
				return err
			}

			res := a.load(cmd.Context())
			if !res.Loaded() {
				noData(res)
				return nil
			}

			lo, hi := a.cfg.Years.Min, a.cfg.Years.Max
			if from != 0 {
				lo = from
			}
			if to != 0 {
				hi = to
			}
			years := frameYears(lo, hi, step)
			if len(years) == 0 {
				return fmt.Errorf("no years between %d and %d", lo, hi)
			}
			if concurrency < 1 {
				concurrency = a.cfg.Render.Concurrency
			}

			ui.Banner(fmt.Sprintf("%d frames, %d–%d", len(years), years[0], years[len(years)-1]))

			tasks := make([]parallel.Task, len(years))
			for i, year := range years {
				year := year
				path := filepath.Join(dir, fmt.Sprintf("%d.%s", year, f))
				tasks[i] = parallel.Task{
					Name: fmt.Sprintf("%d", year),
					Fn: func(ctx context.Context) (string, error) {
						return path, a.renderYear(res, ff, year, path, f)
					},
				}
			}

			results := parallel.Run(cmd.Context(), tasks, concurrency)
			if n := parallel.Failed(results); n > 0 {
				return fmt.Errorf("%d of %d frames failed", n, len(results))
			}
			fmt.Println()
			ui.Good.Printf("  %s Wrote %d frames to %s\n", ui.StatusIcon(true), len(results), dir)
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVarP(&dir, "output", "o", "frames", "Output directory")
	cmd.Flags().StringVarP(&format, "format", "f", "", "svg, png, dot, json or html")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	cmd.Flags().IntVar(&from, "from", 0, "First year (default [years] min)")
	cmd.Flags().IntVar(&to, "to", 0, "Last year (default [years] max)")
	cmd.Flags().IntVar(&step, "step", 1, "Years between frames")
	cmd.Flags().IntVarP(&concurrency, "jobs", "j", 0, "Frames rendered at once (default [render] concurrency)")
	return cmd
}

// renderYear lays out res at one year threshold in a view of its own. The
// --year flag is ignored; the frame year wins.
func (a *app) renderYear(res source.Result, ff filterFlags, year int, path string, f render.Format) error {
	v := a.newView()
	v.Load(res)
	ff.year = year
	if _, err := ff.apply(v); err != nil {
		return err
	}
	return render.Save(path, render.FromView(v, fmt.Sprintf("%d", year)), f, a.style())
}

func frameYears(from, to, step int) []int {
	if step < 1 {
		step = 1
	}
	var years []int
	for y := from; y <= to; y += step {
		years = append(years, y)
	}
	return years
}
