package layout

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/msalah0e/relgraph/internal/network"
	"gonum.org/v1/gonum/spatial/r2"
	"pgregory.net/rapid"
)

func star(t *testing.T, people int, relation func(i int) string) *network.Graph {
	t.Helper()
	records := make([]network.PersonRecord, people)
	for i := range records {
		records[i] = network.PersonRecord{
			Name:     fmt.Sprintf("p%d", i),
			Relation: relation(i),
			Events:   []network.Event{{Time: "1915", Description: "met"}},
		}
	}
	return network.Normalize(records, network.DefaultOptions())
}

func dist(a, b *network.Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestWarmupSeparatesNodes(t *testing.T) {
	for _, size := range []int{1, 5, 20, 49} {
		g := star(t, size, func(i int) string {
			if i%3 == 0 {
				return "kin"
			}
			return "friend"
		})
		sim := New(g.Nodes, g.Links, DefaultOptions())
		if err := sim.Warmup(); err != nil {
			t.Fatalf("warmup failed: %v", err)
		}

		for i := 0; i < len(g.Nodes); i++ {
			for j := i + 1; j < len(g.Nodes); j++ {
				a, b := g.Nodes[i], g.Nodes[j]
				if d := dist(a, b); d < a.Radius+b.Radius-1e-6 {
					t.Errorf("size %d: %s and %s overlap (distance %.2f)", size, a.ID, b.ID, d)
				}
			}
		}
	}
}

func TestWarmupStops(t *testing.T) {
	g := star(t, 3, func(int) string { return "friend" })
	sim := New(g.Nodes, g.Links, DefaultOptions())
	sim.Restart()
	sim.Warmup()

	if sim.Running() {
		t.Error("simulation should be halted after warmup")
	}
	if sim.Alpha() > 0.001 {
		t.Errorf("alpha after warmup = %f, want near zero", sim.Alpha())
	}
	if sim.Advance() {
		t.Error("Advance should be a no-op while halted")
	}
}

func TestDeterministic(t *testing.T) {
	g1 := star(t, 12, func(int) string { return "friend" })
	g2 := star(t, 12, func(int) string { return "friend" })

	New(g1.Nodes, g1.Links, DefaultOptions()).Warmup()
	New(g2.Nodes, g2.Links, DefaultOptions()).Warmup()

	for i := range g1.Nodes {
		if g1.Nodes[i].X != g2.Nodes[i].X || g1.Nodes[i].Y != g2.Nodes[i].Y {
			t.Fatalf("node %d differs between identical runs", i)
		}
	}
}

func TestCloseRelationsSitNearer(t *testing.T) {
	g := star(t, 2, func(i int) string {
		if i == 0 {
			return "kin"
		}
		return "friend"
	})
	New(g.Nodes, g.Links, DefaultOptions()).Warmup()

	center := g.Center()
	kin, _ := g.Node("person_0")
	friend, _ := g.Node("person_1")
	if dist(center, kin) >= dist(center, friend) {
		t.Errorf("kin at %.1f should be nearer than friend at %.1f", dist(center, kin), dist(center, friend))
	}
}

func TestCentering(t *testing.T) {
	g := star(t, 8, func(int) string { return "friend" })
	opts := DefaultOptions()
	opts.Width, opts.Height = 1000, 400
	New(g.Nodes, g.Links, opts).Warmup()

	var cx, cy float64
	for _, n := range g.Nodes {
		cx += n.X
		cy += n.Y
	}
	cx /= float64(len(g.Nodes))
	cy /= float64(len(g.Nodes))
	if math.Abs(cx-500) > 5 || math.Abs(cy-200) > 5 {
		t.Errorf("centroid = (%.1f, %.1f), want near (500, 200)", cx, cy)
	}
}

func TestPinHoldsPosition(t *testing.T) {
	g := star(t, 4, func(int) string { return "friend" })
	sim := New(g.Nodes, g.Links, DefaultOptions())
	sim.Warmup()

	if err := sim.Pin("person_2", Point{X: 42, Y: 24}); err != nil {
		t.Fatalf("Pin failed: %v", err)
	}
	sim.SetAlphaTarget(0.3)
	sim.Restart()
	for i := 0; i < 10; i++ {
		sim.Advance()
	}
	p, _ := sim.Position("person_2")
	if p.X != 42 || p.Y != 24 {
		t.Errorf("pinned node moved to %+v", p)
	}
	if !sim.Pinned("person_2") {
		t.Error("person_2 should report pinned")
	}

	if err := sim.Unpin("person_2"); err != nil {
		t.Fatalf("Unpin failed: %v", err)
	}
	sim.Tick(5)
	p, _ = sim.Position("person_2")
	if p.X == 42 && p.Y == 24 {
		t.Error("released node should rejoin the simulation")
	}
}

func TestPinUnknownNode(t *testing.T) {
	sim := New(nil, nil, DefaultOptions())
	if err := sim.Pin("ghost", Point{}); !errors.Is(err, network.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
	if err := sim.Unpin("ghost"); !errors.Is(err, network.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestReheatSettles(t *testing.T) {
	g := star(t, 6, func(int) string { return "friend" })
	sim := New(g.Nodes, g.Links, DefaultOptions())
	sim.Warmup()

	sim.SetAlphaTarget(0.3)
	sim.Restart()
	for i := 0; i < 30; i++ {
		sim.Advance()
	}
	if sim.Alpha() < 0.1 {
		t.Errorf("alpha should climb toward the drag target, got %f", sim.Alpha())
	}

	sim.SetAlphaTarget(0)
	steps := 0
	for sim.Advance() {
		steps++
		if steps > 1000 {
			t.Fatal("simulation never settled")
		}
	}
	if sim.Running() {
		t.Error("simulation should stop once cool")
	}
}

func TestDegenerateInputs(t *testing.T) {
	sim := New(nil, nil, DefaultOptions())
	if err := sim.Warmup(); err != nil {
		t.Errorf("empty warmup should not fail: %v", err)
	}
	if f := sim.Frame(); len(f.Nodes) != 0 || len(f.Links) != 0 {
		t.Errorf("empty frame expected, got %+v", f)
	}

	lone := &network.Node{ID: "solo", Radius: 5}
	sim = New([]*network.Node{lone}, []*network.Edge{{Source: "solo", Target: "missing"}}, DefaultOptions())
	sim.Warmup()
	if len(sim.Frame().Links) != 0 {
		t.Error("link to a missing node should be dropped")
	}
	if math.IsNaN(lone.X) || math.IsNaN(lone.Y) {
		t.Error("lone node should have finite coordinates")
	}
}

func TestSanitizeResetsNonFinite(t *testing.T) {
	g := star(t, 2, func(int) string { return "friend" })
	sim := New(g.Nodes, g.Links, DefaultOptions())
	sim.bodies[1].pos = r2.Vec{X: math.NaN(), Y: 3}

	sim.sanitize()
	n, _ := g.Node("person_0")
	if n.X != 0 || n.Y != 0 {
		t.Errorf("non-finite node should be reset to origin, got (%f, %f)", n.X, n.Y)
	}
}

func TestWarmupRecoversFromPanic(t *testing.T) {
	g := star(t, 2, func(int) string { return "friend" })
	sim := New(g.Nodes, g.Links, DefaultOptions())
	sim.forces = append(sim.forces, panicForce{})

	if err := sim.Warmup(); err == nil {
		t.Error("expected warmup to report the recovered failure")
	}
	if sim.Running() {
		t.Error("simulation should be halted after a failed warmup")
	}
}

type panicForce struct{}

func (panicForce) apply(float64) { panic("boom") }

func TestFrameMatchesNodes(t *testing.T) {
	g := star(t, 3, func(int) string { return "friend" })
	sim := New(g.Nodes, g.Links, DefaultOptions())
	sim.Warmup()

	f := sim.Frame()
	if len(f.Nodes) != 4 || len(f.Links) != 3 {
		t.Fatalf("frame has %d nodes, %d links", len(f.Nodes), len(f.Links))
	}
	for i, np := range f.Nodes {
		if np.X != g.Nodes[i].X || np.Y != g.Nodes[i].Y {
			t.Errorf("frame node %s out of sync with node object", np.ID)
		}
	}
	seg := f.Links[0]
	if seg.X1 != g.Center().X || seg.Y1 != g.Center().Y {
		t.Error("segment should start at the center")
	}
}

func TestPropertyWarmupSettlesFinite(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "people")
		records := make([]network.PersonRecord, n)
		for i := range records {
			records[i] = network.PersonRecord{
				Name:     fmt.Sprintf("p%d", i),
				Relation: rapid.SampledFrom([]string{"kin", "friend", "亲属", "同乡"}).Draw(rt, "relation"),
			}
		}
		g := network.Normalize(records, network.DefaultOptions())
		opts := DefaultOptions()
		sim := New(g.Nodes, g.Links, opts)
		if err := sim.Warmup(); err != nil {
			rt.Fatalf("warmup failed: %v", err)
		}
		if sim.Running() {
			rt.Fatal("simulation should be halted after warmup")
		}

		frame := sim.Frame()
		if len(frame.Nodes) != len(g.Nodes) || len(frame.Links) != len(g.Links) {
			rt.Fatalf("frame has %d nodes and %d links, want %d and %d",
				len(frame.Nodes), len(frame.Links), len(g.Nodes), len(g.Links))
		}
		for _, p := range frame.Nodes {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				rt.Fatalf("%s has non-finite position %+v", p.ID, p.Point)
			}
			if math.Abs(p.X-opts.Width/2) > 10*opts.Width || math.Abs(p.Y-opts.Height/2) > 10*opts.Height {
				rt.Fatalf("%s drifted to %+v", p.ID, p.Point)
			}
		}
	})
}
