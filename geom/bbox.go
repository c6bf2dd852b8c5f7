package geom

import "math"

// Box is an axis-aligned bounding box.
type Box struct{ Min, Max Pt }

func (b Box) Contains(p Pt) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func boxOf(pts ...Pt) Box {
	b := Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// BBox returns the axis-aligned bounding box of the line: its two
// endpoints, since a line has no interior extrema.
func (l Line) BBox() Box { return boxOf(l.P0, l.P1) }

// BBox returns the axis-aligned bounding box of the quadratic, found by
// evaluating the endpoints and the single root (if any, within (0,1)) of
// the linear derivative per axis.
func (q Quad) BBox() Box {
	pts := []Pt{q.P0, q.P2}
	for axis := 0; axis < 2; axis++ {
		p0, p1, p2 := axisVal(q.P0, axis), axisVal(q.P1, axis), axisVal(q.P2, axis)
		denom := p0 - 2*p1 + p2
		if denom == 0 {
			continue
		}
		t := (p0 - p1) / denom
		if t > 0 && t < 1 {
			pts = append(pts, q.Evaluate(t))
		}
	}
	return boxOf(pts...)
}

// BBox returns the axis-aligned bounding box of the cubic, found by
// evaluating the endpoints and the roots (within (0,1)) of the quadratic
// derivative per axis.
func (c Cubic) BBox() Box {
	pts := []Pt{c.P0, c.P3}
	for axis := 0; axis < 2; axis++ {
		p0, p1, p2, p3 := axisVal(c.P0, axis), axisVal(c.P1, axis), axisVal(c.P2, axis), axisVal(c.P3, axis)
		// Derivative of the cubic Bernstein basis, degree 2 in t:
		// B'(t)/3 = a*t^2 + b*t + c0
		a := -p0 + 3*p1 - 3*p2 + p3
		b := 2 * (p0 - 2*p1 + p2)
		c0 := p1 - p0
		for _, t := range quadRoots(a, b, c0) {
			if t > 0 && t < 1 {
				pts = append(pts, c.Evaluate(t))
			}
		}
	}
	return boxOf(pts...)
}

func axisVal(p Pt, axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// quadRoots returns the real roots of a*t^2 + b*t + c = 0.
func quadRoots(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if math.Abs(b) < 1e-12 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	if disc == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}
