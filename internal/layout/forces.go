package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// force mutates body velocities (or, for centering, positions) for one step.
type force interface {
	apply(alpha float64)
}

// ─── Link ───

type spring struct {
	source, target *body
	distance       float64
	strength       float64
	bias           float64
}

type linkForce struct {
	springs []spring
	jiggle  func() float64
}

func newLinkForce(springs []spring, jiggle func() float64) *linkForce {
	count := make(map[*body]int)
	for _, s := range springs {
		count[s.source]++
		count[s.target]++
	}
	for i := range springs {
		cs, ct := float64(count[springs[i].source]), float64(count[springs[i].target])
		springs[i].bias = cs / (cs + ct)
		springs[i].strength = 1 / math.Min(cs, ct)
	}
	return &linkForce{springs: springs, jiggle: jiggle}
}

func (f *linkForce) apply(alpha float64) {
	for _, s := range f.springs {
		d := r2.Sub(r2.Add(s.target.pos, s.target.vel), r2.Add(s.source.pos, s.source.vel))
		if d.X == 0 {
			d.X = f.jiggle()
		}
		if d.Y == 0 {
			d.Y = f.jiggle()
		}
		l := r2.Norm(d)
		d = r2.Scale((l-s.distance)/l*alpha*s.strength, d)
		s.target.vel = r2.Sub(s.target.vel, r2.Scale(s.bias, d))
		s.source.vel = r2.Add(s.source.vel, r2.Scale(1-s.bias, d))
	}
}

// ─── Many-body ───

// chargeForce is an exact pairwise many-body force. Graphs here are small
// enough that the quadtree approximation buys nothing.
type chargeForce struct {
	bodies       []*body
	strength     float64
	distanceMin2 float64
	jiggle       func() float64
}

func (f *chargeForce) apply(alpha float64) {
	for _, b := range f.bodies {
		for _, o := range f.bodies {
			if o == b {
				continue
			}
			d := r2.Sub(o.pos, b.pos)
			l := r2.Norm2(d)
			if d.X == 0 {
				d.X = f.jiggle()
				l += d.X * d.X
			}
			if d.Y == 0 {
				d.Y = f.jiggle()
				l += d.Y * d.Y
			}
			if l < f.distanceMin2 {
				l = math.Sqrt(f.distanceMin2 * l)
			}
			b.vel = r2.Add(b.vel, r2.Scale(f.strength*alpha/l, d))
		}
	}
}

// ─── Center ───

type centerForce struct {
	bodies   []*body
	target   r2.Vec
	strength float64
}

func (f *centerForce) apply(float64) {
	if len(f.bodies) == 0 {
		return
	}
	var sum r2.Vec
	for _, b := range f.bodies {
		sum = r2.Add(sum, b.pos)
	}
	shift := r2.Scale(f.strength, r2.Sub(r2.Scale(1/float64(len(f.bodies)), sum), f.target))
	for _, b := range f.bodies {
		b.pos = r2.Sub(b.pos, shift)
	}
}

// ─── Collide ───

// collideForce keeps bodies at least radius_i + radius_j apart, where each
// radius already includes the padding. It ignores alpha.
type collideForce struct {
	bodies   []*body
	radii    []float64
	strength float64
	jiggle   func() float64
}

func (f *collideForce) apply(float64) {
	for i, a := range f.bodies {
		ri := f.radii[i]
		ri2 := ri * ri
		next := r2.Add(a.pos, a.vel)
		for j := i + 1; j < len(f.bodies); j++ {
			b := f.bodies[j]
			rj := f.radii[j]
			r := ri + rj
			d := r2.Sub(next, r2.Add(b.pos, b.vel))
			l := r2.Norm2(d)
			if l >= r*r {
				continue
			}
			if d.X == 0 {
				d.X = f.jiggle()
				l += d.X * d.X
			}
			if d.Y == 0 {
				d.Y = f.jiggle()
				l += d.Y * d.Y
			}
			l = math.Sqrt(l)
			d = r2.Scale((r-l)/l*f.strength, d)
			rj2 := rj * rj
			w := rj2 / (ri2 + rj2)
			a.vel = r2.Add(a.vel, r2.Scale(w, d))
			b.vel = r2.Sub(b.vel, r2.Scale(1-w, d))
		}
	}
}
