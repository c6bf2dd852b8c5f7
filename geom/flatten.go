package geom

import "math"

// Segments2 returns the number of equal-parameter sub-steps needed to keep
// a piecewise-linear approximation of the quadratic within error, using
// the second-finite-difference bound.
func Segments2(q Quad, errTol float64) int {
	d := q.P0.Sub(q.P1.Scale(2)).Add(q.P2)
	n := int(math.Ceil(math.Sqrt(d.Len() / (4 * errTol))))
	if n < 1 {
		n = 1
	}
	return n
}

// Segments3 returns the number of equal-parameter sub-steps needed to keep
// a piecewise-linear approximation of the cubic within error, using the
// second-finite-difference bound scaled by a factor of 3 for the extra
// degree.
func Segments3(c Cubic, errTol float64) int {
	d1 := c.P0.Sub(c.P1.Scale(2)).Add(c.P2)
	d2 := c.P1.Sub(c.P2.Scale(2)).Add(c.P3)
	d := math.Max(d1.Len(), d2.Len())
	n := int(math.Ceil(math.Sqrt(3 * d / (4 * errTol))))
	if n < 1 {
		n = 1
	}
	return n
}

// cosThreshold is the default vertex-angle cosine threshold used by
// Subdivide: -sqrt(2+sqrt(2))/2, the cosine of 157.5 degrees.
var cosThreshold = -math.Sqrt(2+math.Sqrt2) / 2

func unitEdge(a, b Pt) Pt { return b.Sub(a).Unit() }

func turnsSharp(pts []Pt, threshold float64) bool {
	for i := 1; i < len(pts)-1; i++ {
		e0 := unitEdge(pts[i-1], pts[i])
		e1 := unitEdge(pts[i], pts[i+1])
		if e0 == (Pt{}) || e1 == (Pt{}) {
			continue
		}
		// -e0·e1 is the cosine of the angle at vertex i between the edges
		// back to pts[i-1] and on to pts[i+1]: -1 where the polygon runs
		// straight on, rising as the corner sharpens.
		if -e0.Dot(e1) >= threshold {
			return true
		}
	}
	return false
}

// SubdivideCubic adaptively halves c until, at every internal
// control-polygon vertex, the cosine of the angle between the two edges
// meeting there is below the threshold (threshold defaults to
// cosThreshold when 0, which leaves at most a 22.5 degree turn at each
// vertex). Long, highly-curved cubics must be decomposed this way before
// stroking.
func SubdivideCubic(c Cubic, threshold float64) []Cubic {
	if threshold == 0 {
		threshold = cosThreshold
	}
	return subdivideCubic(c, threshold, 0)
}

func subdivideCubic(c Cubic, threshold float64, depth int) []Cubic {
	pts := []Pt{c.P0, c.P1, c.P2, c.P3}
	if depth >= 16 || !turnsSharp(pts, threshold) {
		return []Cubic{c}
	}
	left, right := c.Halve()
	out := subdivideCubic(left, threshold, depth+1)
	return append(out, subdivideCubic(right, threshold, depth+1)...)
}

// SubdivideQuad is the quadratic analogue of SubdivideCubic.
func SubdivideQuad(q Quad, threshold float64) []Quad {
	if threshold == 0 {
		threshold = cosThreshold
	}
	return subdivideQuad(q, threshold, 0)
}

func subdivideQuad(q Quad, threshold float64, depth int) []Quad {
	pts := []Pt{q.P0, q.P1, q.P2}
	if depth >= 16 || !turnsSharp(pts, threshold) {
		return []Quad{q}
	}
	left, right := q.Halve()
	out := subdivideQuad(left, threshold, depth+1)
	return append(out, subdivideQuad(right, threshold, depth+1)...)
}

// Polyline returns the parameters in (0,1) where either the x or the y
// component of the cubic's derivative vanishes. Every cusp (both
// components vanishing at once, a direction reversal that a pure
// curvature test misses) is among them, and so is every axis extremum;
// the list is not narrowed to a single dominant axis.
func (c Cubic) Polyline() []float64 {
	c1 := c.P1.Sub(c.P0).Scale(3)
	c2 := c.P0.Sub(c.P1.Scale(2)).Add(c.P2).Scale(3)
	c3 := c.P3.Sub(c.P2.Scale(3)).Add(c.P1.Scale(3)).Sub(c.P0)

	// B'(t) = c1 + 2*c2*t + 3*c3*t^2, per axis.
	xRoots := quadRoots(3*c3.X, 2*c2.X, c1.X)
	yRoots := quadRoots(3*c3.Y, 2*c2.Y, c1.Y)

	seen := map[float64]bool{}
	var out []float64
	for _, t := range append(xRoots, yRoots...) {
		if t > 0 && t < 1 && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
