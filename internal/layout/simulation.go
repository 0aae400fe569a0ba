// Package layout positions the visible relationship graph with a
// force-directed simulation.
//
// The model follows d3-force: each step moves alpha toward alphaTarget,
// applies the link, many-body, centering and collision forces, then damps
// velocities and integrates positions. Pinned nodes are held at their fixed
// position. Bodies are a private working copy; only the X and Y fields of the
// network nodes are written back.
package layout

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/msalah0e/relgraph/internal/network"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	initialRadius = 10.0
	distanceMin2  = 1.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Options holds the simulation constants. Zero fields take the defaults.
type Options struct {
	Width           float64
	Height          float64
	LinkDistance    float64
	CloseDistance   float64
	CloseRelations  []string
	ChargeStrength  float64
	CollidePadding  float64
	VelocityDecay   float64
	AlphaDecay      float64
	AlphaMin        float64
	Warmup          int
	DragAlphaTarget float64
	Logger          *slog.Logger
}

// DefaultOptions returns the constants the relationship view is tuned for.
func DefaultOptions() Options {
	return Options{
		Width:           800,
		Height:          600,
		LinkDistance:    120,
		CloseDistance:   60,
		CloseRelations:  []string{"kin", "kinship", "亲属"},
		ChargeStrength:  -80,
		CollidePadding:  18,
		VelocityDecay:   0.6,
		AlphaDecay:      0.06,
		AlphaMin:        0.001,
		Warmup:          120,
		DragAlphaTarget: 0.3,
	}
}

// Distance returns the spring length for a relation.
func (o Options) Distance(relation string) float64 {
	for _, r := range o.CloseRelations {
		if r == relation {
			return o.CloseDistance
		}
	}
	return o.LinkDistance
}

type body struct {
	node   *network.Node
	pos    r2.Vec
	vel    r2.Vec
	fixed  *r2.Vec
	radius float64
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodePosition is a node id and its current coordinate.
type NodePosition struct {
	ID string `json:"id"`
	Point
}

// Segment is an edge with resolved endpoint coordinates.
type Segment struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Frame is a snapshot of positions suitable for redraw.
type Frame struct {
	Nodes []NodePosition `json:"nodes"`
	Links []Segment      `json:"links"`
}

// Simulation is a force-directed layout over a fixed node and edge set.
type Simulation struct {
	opts        Options
	bodies      []*body
	byID        map[string]*body
	springs     []spring
	forces      []force
	alpha       float64
	alphaTarget float64
	running     bool
	seed        uint32
	log         *slog.Logger
}

// New prepares a simulation over nodes and links. Links whose endpoints are
// not among nodes are dropped. Nodes start on a phyllotaxis spiral around the
// canvas center, so the result is deterministic for a given input order.
func New(nodes []*network.Node, links []*network.Edge, opts Options) *Simulation {
	opts = opts.withDefaults()
	s := &Simulation{
		opts:   opts,
		bodies: make([]*body, 0, len(nodes)),
		byID:   make(map[string]*body, len(nodes)),
		alpha:  1,
		seed:   1,
		log:    opts.Logger,
	}

	center := r2.Vec{X: opts.Width / 2, Y: opts.Height / 2}
	for i, n := range nodes {
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		b := &body{
			node:   n,
			pos:    r2.Add(center, r2.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}),
			radius: n.Radius,
		}
		if b.radius <= 0 {
			b.radius = 10
		}
		s.bodies = append(s.bodies, b)
		s.byID[n.ID] = b
	}

	for _, e := range links {
		src, okS := s.byID[e.Source]
		dst, okT := s.byID[e.Target]
		if !okS || !okT {
			s.log.Debug("layout: dropping link with missing endpoint", "source", e.Source, "target", e.Target)
			continue
		}
		s.springs = append(s.springs, spring{source: src, target: dst, distance: opts.Distance(e.Relation)})
	}

	radii := make([]float64, len(s.bodies))
	for i, b := range s.bodies {
		radii[i] = b.radius + opts.CollidePadding
	}

	s.forces = []force{
		newLinkForce(s.springs, s.jiggle),
		&chargeForce{bodies: s.bodies, strength: opts.ChargeStrength, distanceMin2: distanceMin2, jiggle: s.jiggle},
		&centerForce{bodies: s.bodies, target: center, strength: 1},
		&collideForce{bodies: s.bodies, radii: radii, strength: 1, jiggle: s.jiggle},
	}
	s.writeBack()
	return s
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.LinkDistance <= 0 {
		o.LinkDistance = d.LinkDistance
	}
	if o.CloseDistance <= 0 {
		o.CloseDistance = d.CloseDistance
	}
	if o.CloseRelations == nil {
		o.CloseRelations = d.CloseRelations
	}
	if o.ChargeStrength == 0 {
		o.ChargeStrength = d.ChargeStrength
	}
	if o.CollidePadding <= 0 {
		o.CollidePadding = d.CollidePadding
	}
	if o.VelocityDecay <= 0 || o.VelocityDecay >= 1 {
		o.VelocityDecay = d.VelocityDecay
	}
	if o.AlphaDecay <= 0 || o.AlphaDecay >= 1 {
		o.AlphaDecay = d.AlphaDecay
	}
	if o.AlphaMin <= 0 {
		o.AlphaMin = d.AlphaMin
	}
	if o.Warmup <= 0 {
		o.Warmup = d.Warmup
	}
	if o.DragAlphaTarget <= 0 {
		o.DragAlphaTarget = d.DragAlphaTarget
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// jiggle returns a tiny deterministic offset used to separate coincident
// points. The sequence is the d3 linear congruential generator.
func (s *Simulation) jiggle() float64 {
	s.seed = 1664525*s.seed + 1013904223
	return (float64(s.seed)/4294967296 - 0.5) * 1e-6
}

// Options returns the effective simulation constants.
func (s *Simulation) Options() Options {
	return s.opts
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// SetAlpha sets the current temperature.
func (s *Simulation) SetAlpha(alpha float64) {
	s.alpha = alpha
}

// AlphaTarget returns the temperature alpha decays toward.
func (s *Simulation) AlphaTarget() float64 {
	return s.alphaTarget
}

// SetAlphaTarget sets the temperature alpha decays toward.
func (s *Simulation) SetAlphaTarget(target float64) {
	s.alphaTarget = target
}

// Running reports whether Advance will step the simulation.
func (s *Simulation) Running() bool {
	return s.running
}

// Restart lets Advance step the simulation again.
func (s *Simulation) Restart() {
	s.running = true
}

// Stop halts Advance.
func (s *Simulation) Stop() {
	s.running = false
}

// Step advances the simulation by one tick regardless of Running.
func (s *Simulation) Step() {
	s.alpha += (s.alphaTarget - s.alpha) * s.opts.AlphaDecay
	for _, f := range s.forces {
		f.apply(s.alpha)
	}
	keep := 1 - s.opts.VelocityDecay
	for _, b := range s.bodies {
		if b.fixed != nil {
			b.pos = *b.fixed
			b.vel = r2.Vec{}
			continue
		}
		b.vel = r2.Scale(keep, b.vel)
		b.pos = r2.Add(b.pos, b.vel)
	}
	s.writeBack()
}

// Tick runs n steps.
func (s *Simulation) Tick(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Advance is the per-frame driver: it steps once while running and stops
// once alpha falls below the minimum. It reports whether a step was taken.
func (s *Simulation) Advance() bool {
	if !s.running {
		return false
	}
	s.Step()
	if s.alpha < s.opts.AlphaMin {
		s.running = false
	}
	s.sanitize()
	return true
}

// Warmup runs the bounded synchronous pre-advance at full energy and then
// stops. Numerical failures are logged and leave the layout at whatever
// positions are available.
func (s *Simulation) Warmup() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layout warmup: %v", r)
			s.log.Warn("layout: pre-advance skipped", "error", err, "nodes", len(s.bodies))
		}
		s.running = false
		s.writeBack()
		s.sanitize()
	}()

	s.alpha = 1
	s.Tick(s.opts.Warmup)
	return nil
}

// Pin holds node id at (x, y) until Unpin.
func (s *Simulation) Pin(id string, p Point) error {
	b, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("pin %q: %w", id, network.ErrNodeNotFound)
	}
	b.fixed = &r2.Vec{X: p.X, Y: p.Y}
	return nil
}

// Unpin releases node id back into free simulation.
func (s *Simulation) Unpin(id string) error {
	b, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("unpin %q: %w", id, network.ErrNodeNotFound)
	}
	b.fixed = nil
	return nil
}

// Pinned reports whether node id is held at a fixed position.
func (s *Simulation) Pinned(id string) bool {
	b, ok := s.byID[id]
	return ok && b.fixed != nil
}

// Position returns the current coordinate of node id.
func (s *Simulation) Position(id string) (Point, bool) {
	b, ok := s.byID[id]
	if !ok {
		return Point{}, false
	}
	return Point{X: b.pos.X, Y: b.pos.Y}, true
}

// Frame returns node positions and edge endpoints in input order.
func (s *Simulation) Frame() Frame {
	f := Frame{
		Nodes: make([]NodePosition, len(s.bodies)),
		Links: make([]Segment, len(s.springs)),
	}
	for i, b := range s.bodies {
		f.Nodes[i] = NodePosition{ID: b.node.ID, Point: Point{X: b.pos.X, Y: b.pos.Y}}
	}
	for i, sp := range s.springs {
		f.Links[i] = Segment{
			Source: sp.source.node.ID,
			Target: sp.target.node.ID,
			X1:     sp.source.pos.X,
			Y1:     sp.source.pos.Y,
			X2:     sp.target.pos.X,
			Y2:     sp.target.pos.Y,
		}
	}
	return f
}

// sanitize resets non-finite coordinates to the origin.
func (s *Simulation) sanitize() {
	bad := 0
	for _, b := range s.bodies {
		if !finite(b.pos) || !finite(b.vel) {
			b.pos, b.vel = r2.Vec{}, r2.Vec{}
			bad++
		}
	}
	if bad > 0 {
		s.log.Warn("layout: reset non-finite positions to origin", "count", bad)
		s.writeBack()
	}
}

func (s *Simulation) writeBack() {
	for _, b := range s.bodies {
		b.node.X, b.node.Y = b.pos.X, b.pos.Y
	}
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
