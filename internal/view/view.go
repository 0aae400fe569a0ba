// Package view owns one relationship graph and its single active layout.
//
// A GraphView replaces the page-global "current simulation" with an explicit
// value: it holds the canonical graph, the filter state, the visible subgraph
// and at most one Simulation. Hosts drive it through commands (filter changes,
// drag start/move/end, animation ticks) and read frames and detail payloads
// back out.
package view

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/msalah0e/relgraph/internal/layout"
	"github.com/msalah0e/relgraph/internal/network"
	"github.com/msalah0e/relgraph/internal/source"
)

// ErrNoGraph is returned by commands that need loaded data.
var ErrNoGraph = errors.New("no graph loaded")

// State is the lifecycle state of the view's simulation.
type State int

const (
	Idle State = iota
	Running
	Settled
	Dragging
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Settled:
		return "settled"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Container reports the drawing area the layout is centered in.
type Container interface {
	Size() (width, height float64)
}

// FixedSize is a Container with constant dimensions.
type FixedSize struct {
	Width, Height float64
}

// Size implements Container.
func (f FixedSize) Size() (float64, float64) {
	return f.Width, f.Height
}

// Options configures a GraphView.
type Options struct {
	Network   network.Options
	Layout    layout.Options
	Container Container
	Logger    *slog.Logger
}

// GraphView is a single-threaded controller; callers must not use it from
// more than one goroutine at a time.
type GraphView struct {
	opts    Options
	log     *slog.Logger
	graph   *network.Graph
	filter  network.FilterState
	visible network.Visible
	sim     *layout.Simulation
	state   State
	dragged map[string]bool
	reason  error
}

// New returns an idle view with no data.
func New(opts Options) *GraphView {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Container == nil {
		opts.Container = FixedSize{}
	}
	opts.Layout.Logger = opts.Logger
	return &GraphView{
		opts:    opts,
		log:     opts.Logger,
		dragged: make(map[string]bool),
	}
}

// Load replaces the view's data with the outcome of a source load. An
// Unavailable result leaves the view empty; it is not an error.
func (v *GraphView) Load(res source.Result) {
	v.Close()
	if !res.Loaded() {
		v.graph = nil
		v.visible = network.Visible{}
		v.reason = res.Err
		v.log.Info("view: no relationship data", "reason", res.Err)
		return
	}

	v.reason = nil
	v.graph = network.Normalize(res.Records, v.opts.Network)
	v.filter = network.NewFilterState(v.graph)
	v.log.Debug("view: graph built", "people", v.graph.People(), "categories", len(v.graph.Categories()))
	v.refresh()
}

// Empty reports whether the view has no data to show.
func (v *GraphView) Empty() bool {
	return v.graph == nil
}

// Reason explains why the view is empty, if it is.
func (v *GraphView) Reason() error {
	return v.reason
}

// Graph returns the canonical graph, or nil when empty.
func (v *GraphView) Graph() *network.Graph {
	return v.graph
}

// Categories lists the relation categories present in the data.
func (v *GraphView) Categories() []string {
	if v.graph == nil {
		return nil
	}
	return v.graph.Categories()
}

// Filter returns a copy of the active filter state.
func (v *GraphView) Filter() network.FilterState {
	return v.filter.Clone()
}

// Visible returns the current visible subgraph.
func (v *GraphView) Visible() network.Visible {
	return v.visible
}

// State returns the simulation lifecycle state.
func (v *GraphView) State() State {
	return v.state
}

// Simulation exposes the active simulation, or nil.
func (v *GraphView) Simulation() *layout.Simulation {
	return v.sim
}

// OnFilterChanged installs fs and rebuilds the visible subgraph and layout.
func (v *GraphView) OnFilterChanged(fs network.FilterState) network.Visible {
	v.filter = fs.Clone()
	return v.refresh()
}

// ToggleCategory flips one category and rebuilds.
func (v *GraphView) ToggleCategory(category string) network.Visible {
	v.filter.Toggle(category)
	return v.refresh()
}

// SetYear moves the year threshold and rebuilds.
func (v *GraphView) SetYear(year int) network.Visible {
	v.filter.SetYear(year)
	return v.refresh()
}

func (v *GraphView) refresh() network.Visible {
	if v.graph == nil {
		return network.Visible{}
	}
	v.visible = network.ApplyFilters(v.graph, v.filter)
	v.Rebuild()
	return v.visible
}

// Rebuild retires any running simulation and lays out the visible subgraph
// from scratch. Prior positions are discarded.
func (v *GraphView) Rebuild() {
	v.Close()
	if v.graph == nil {
		return
	}

	opts := v.opts.Layout
	opts.Width, opts.Height = v.opts.Container.Size()

	v.state = Running
	sim, err := v.build(opts)
	if err != nil {
		v.log.Warn("view: layout build failed", "error", err)
	}
	v.sim = sim
	v.state = Settled
}

func (v *GraphView) build(opts layout.Options) (sim *layout.Simulation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build simulation: %v", r)
			for _, n := range v.visible.Nodes {
				n.X, n.Y = 0, 0
			}
		}
	}()
	sim = layout.New(v.visible.Nodes, v.visible.Links, opts)
	err = sim.Warmup()
	return sim, err
}

// Close retires the simulation. A later Rebuild starts fresh.
func (v *GraphView) Close() {
	if v.sim != nil {
		v.sim.Stop()
	}
	v.sim = nil
	v.state = Idle
	clear(v.dragged)
}

// OnDragStart pins node id at p and reheats the layout.
func (v *GraphView) OnDragStart(id string, p layout.Point) error {
	if v.sim == nil {
		return ErrNoGraph
	}
	if err := v.sim.Pin(id, p); err != nil {
		return err
	}
	if len(v.dragged) == 0 {
		v.sim.SetAlphaTarget(v.sim.Options().DragAlphaTarget)
		v.sim.Restart()
	}
	v.dragged[id] = true
	v.state = Dragging
	return nil
}

// OnDragMove moves the pinned node id to p.
func (v *GraphView) OnDragMove(id string, p layout.Point) error {
	if v.sim == nil {
		return ErrNoGraph
	}
	if !v.dragged[id] {
		return fmt.Errorf("drag move %q: drag not started", id)
	}
	return v.sim.Pin(id, p)
}

// OnDragEnd releases node id and lets the layout cool down.
func (v *GraphView) OnDragEnd(id string) error {
	if v.sim == nil {
		return ErrNoGraph
	}
	if err := v.sim.Unpin(id); err != nil {
		return err
	}
	delete(v.dragged, id)
	if len(v.dragged) == 0 {
		v.sim.SetAlphaTarget(0)
		v.state = Settled
	}
	return nil
}

// Tick advances the layout by one animation frame. It reports whether
// positions changed.
func (v *GraphView) Tick() bool {
	if v.sim == nil {
		return false
	}
	return v.sim.Advance()
}

// Frame returns the current positions for redraw.
func (v *GraphView) Frame() layout.Frame {
	if v.sim == nil {
		return layout.Frame{}
	}
	return v.sim.Frame()
}

// NodeDetail returns the detail payload for node id.
func (v *GraphView) NodeDetail(id string) (network.NodeDetail, error) {
	if v.graph == nil {
		return network.NodeDetail{}, ErrNoGraph
	}
	return v.graph.NodeDetail(id)
}

// LinkDetail returns the detail payload for the edge source-target.
func (v *GraphView) LinkDetail(source, target string) (network.LinkDetail, error) {
	if v.graph == nil {
		return network.LinkDetail{}, ErrNoGraph
	}
	return v.graph.LinkDetail(source, target)
}
