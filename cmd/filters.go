package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/msalah0e/relgraph/internal/layout"
	"github.com/msalah0e/relgraph/internal/network"
	"github.com/msalah0e/relgraph/internal/view"
	"github.com/spf13/cobra"
)

// filterFlags are the category and year controls shared by the commands
// that show a filtered graph.
type filterFlags struct {
	year int
	only []string
	hide []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "Year threshold (default: last year of the horizon)")
	cmd.Flags().StringSliceVar(&f.only, "only", nil, "Show only these relation categories")
	cmd.Flags().StringSliceVar(&f.hide, "hide", nil, "Hide these relation categories")
}

// apply installs the flags on v and returns the visible subgraph. Unknown
// categories are an error so typos don't silently empty the graph.
func (f filterFlags) apply(v *view.GraphView) (network.Visible, error) {
	if v.Empty() {
		return network.Visible{}, nil
	}

	known := make(map[string]bool)
	for _, c := range v.Categories() {
		known[c] = true
	}
	check := func(c string) error {
		if !known[c] {
			return fmt.Errorf("unknown category %q (have: %s)", c, strings.Join(v.Categories(), ", "))
		}
		return nil
	}

	if len(f.only) == 0 && len(f.hide) == 0 && f.year == 0 {
		return v.Visible(), nil
	}

	fs := v.Filter()
	if len(f.only) > 0 {
		fs.SetAll(false)
		for _, c := range f.only {
			if err := check(c); err != nil {
				return network.Visible{}, err
			}
			fs.SetActive(c, true)
		}
	}
	for _, c := range f.hide {
		if err := check(c); err != nil {
			return network.Visible{}, err
		}
		fs.SetActive(c, false)
	}
	if f.year != 0 {
		fs.SetYear(f.year)
	}
	return v.OnFilterChanged(fs), nil
}

// drag is a scripted drag gesture: node ID held at a point.
type drag struct {
	ID string
	At layout.Point
}

// parseDrag reads "id@x,y".
func parseDrag(s string) (drag, error) {
	id, pos, ok := strings.Cut(s, "@")
	if !ok || id == "" {
		return drag{}, fmt.Errorf("invalid drag %q (want id@x,y)", s)
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return drag{}, fmt.Errorf("invalid drag %q (want id@x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return drag{}, fmt.Errorf("invalid drag x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return drag{}, fmt.Errorf("invalid drag y %q: %w", ys, err)
	}
	return drag{ID: id, At: layout.Point{X: x, Y: y}}, nil
}

// maxCoolTicks bounds the cool-down after a scripted drag.
const maxCoolTicks = 2000

// replayDrags pins each node, runs the reheated layout for ticks steps,
// releases them and lets the layout cool down again.
func replayDrags(v *view.GraphView, drags []drag, ticks int) error {
	if len(drags) == 0 {
		return nil
	}
	for _, d := range drags {
		if err := v.OnDragStart(d.ID, d.At); err != nil {
			return err
		}
	}
	for i := 0; i < ticks; i++ {
		v.Tick()
	}
	for _, d := range drags {
		if err := v.OnDragEnd(d.ID); err != nil {
			return err
		}
	}
	for i := 0; i < maxCoolTicks && v.Tick(); i++ {
	}
	return nil
}
