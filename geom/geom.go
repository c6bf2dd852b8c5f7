// Package geom implements the Bézier geometry kernel: evaluation, splitting,
// bounding, inflection detection, flattening, degree conversion and offset
// (parallel curve) construction for degree-1/2/3 segments in 2-D. All
// coordinates are points (1/72 inch) unless noted otherwise.
package geom

import "math"

// Pt is a point or vector in the plane.
type Pt struct {
	X, Y float64
}

func (p Pt) Add(q Pt) Pt   { return Pt{p.X + q.X, p.Y + q.Y} }
func (p Pt) Sub(q Pt) Pt   { return Pt{p.X - q.X, p.Y - q.Y} }
func (p Pt) Scale(s float64) Pt { return Pt{p.X * s, p.Y * s} }
func (p Pt) Dot(q Pt) float64   { return p.X*q.X + p.Y*q.Y }
func (p Pt) Cross(q Pt) float64 { return p.X*q.Y - p.Y*q.X }
func (p Pt) Len() float64       { return math.Hypot(p.X, p.Y) }

// Normal returns the unit left-hand normal, or the zero vector if p is
// degenerate.
func (p Pt) Normal() Pt {
	l := p.Len()
	if l == 0 {
		return Pt{}
	}
	return Pt{-p.Y / l, p.X / l}
}

func (p Pt) Unit() Pt {
	l := p.Len()
	if l == 0 {
		return Pt{}
	}
	return Pt{p.X / l, p.Y / l}
}

func lerp(a, b Pt, t float64) Pt {
	return Pt{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Line is a degree-1 segment.
type Line struct{ P0, P1 Pt }

// Quad is a degree-2 (quadratic) segment.
type Quad struct{ P0, P1, P2 Pt }

// Cubic is a degree-3 segment.
type Cubic struct{ P0, P1, P2, P3 Pt }

// Evaluate returns the point on the line at parameter t via linear
// interpolation.
func (l Line) Evaluate(t float64) Pt { return lerp(l.P0, l.P1, t) }

// Evaluate returns the point on the curve at parameter t via de Casteljau's
// algorithm.
func (q Quad) Evaluate(t float64) Pt {
	a := lerp(q.P0, q.P1, t)
	b := lerp(q.P1, q.P2, t)
	return lerp(a, b, t)
}

// Evaluate returns the point on the curve at parameter t via de Casteljau's
// algorithm.
func (c Cubic) Evaluate(t float64) Pt {
	a := lerp(c.P0, c.P1, t)
	b := lerp(c.P1, c.P2, t)
	d := lerp(c.P2, c.P3, t)
	ab := lerp(a, b, t)
	bd := lerp(b, d, t)
	return lerp(ab, bd, t)
}

// Split divides the line at t into two lines that concatenate exactly to
// the original.
func (l Line) Split(t float64) (Line, Line) {
	m := l.Evaluate(t)
	return Line{l.P0, m}, Line{m, l.P1}
}

// Split divides the quadratic at t via de Casteljau, producing two
// quadratics that concatenate exactly to the original.
func (q Quad) Split(t float64) (Quad, Quad) {
	a := lerp(q.P0, q.P1, t)
	b := lerp(q.P1, q.P2, t)
	m := lerp(a, b, t)
	return Quad{q.P0, a, m}, Quad{m, b, q.P2}
}

// Split divides the cubic at t via de Casteljau, producing two cubics that
// concatenate exactly to the original.
func (c Cubic) Split(t float64) (Cubic, Cubic) {
	a := lerp(c.P0, c.P1, t)
	b := lerp(c.P1, c.P2, t)
	d := lerp(c.P2, c.P3, t)
	ab := lerp(a, b, t)
	bd := lerp(b, d, t)
	m := lerp(ab, bd, t)
	return Cubic{c.P0, a, ab, m}, Cubic{m, bd, d, c.P3}
}

func (l Line) Halve() (Line, Line)   { return l.Split(0.5) }
func (q Quad) Halve() (Quad, Quad)   { return q.Split(0.5) }
func (c Cubic) Halve() (Cubic, Cubic) { return c.Split(0.5) }
