package geom

import "math"

// Arc3 approximates the circular arc centred at (cx,cy) from p0 to p3 as
// a single cubic Bézier, using the closed-form control-point construction
// of Riškus (2006). Valid for arcs up to 90 degrees; larger arcs should be
// split by the caller before calling Arc3 on each piece.
func Arc3(cx, cy float64, p0, p3 Pt) Cubic {
	ax, ay := p0.X-cx, p0.Y-cy
	bx, by := p3.X-cx, p3.Y-cy

	q1 := ax*ax + ay*ay
	q2 := q1 + ax*bx + ay*by
	det := ax*by - ay*bx
	if det == 0 || q1 == 0 {
		return Cubic{p0, p0, p3, p3}
	}
	k2 := 4.0 / 3.0 * (math.Sqrt(2*q1*q2) - q2) / det

	p1 := Pt{cx + ax - k2*ay, cy + ay + k2*ax}
	p2 := Pt{cx + bx + k2*by, cy + by - k2*bx}

	return Cubic{p0, p1, p2, p3}
}
