package geom

// OffsetLine translates the line by distance d along its unit normal. A
// positive d offsets to the curve's left.
func OffsetLine(l Line, d float64) Line {
	n := l.P1.Sub(l.P0).Normal()
	return Line{l.P0.Add(n.Scale(d)), l.P1.Add(n.Scale(d))}
}

// bisect returns the Tiller-Hanson offset displacement for a vertex whose
// two adjacent edges have unit normals n0, n1: the bisecting direction
// scaled so that offsetting along it by d produces the exact corner of
// the two edges' individual straight offsets. Degenerate corners (normals
// pointing opposite ways, a 180-degree cusp) fall back to n0 alone.
func bisect(n0, n1 Pt, d float64) Pt {
	denom := 1 + n0.Dot(n1)
	if denom < 1e-9 {
		return n0.Scale(d)
	}
	return n0.Add(n1).Scale(d / denom)
}

// OffsetQuad translates the quadratic's endpoints along their edge
// normals and displaces the interior control point along the bisecting
// direction of the two edge normals, scaled by d/(1+n0·n1). The caller is
// responsible for subdividing at cusps and inflections first.
func OffsetQuad(q Quad, d float64) Quad {
	e0 := q.P1.Sub(q.P0)
	e1 := q.P2.Sub(q.P1)
	n0 := e0.Normal()
	n1 := e1.Normal()
	if n0 == (Pt{}) {
		n0 = n1
	}
	if n1 == (Pt{}) {
		n1 = n0
	}
	return Quad{
		P0: q.P0.Add(n0.Scale(d)),
		P1: q.P1.Add(bisect(n0, n1, d)),
		P2: q.P2.Add(n1.Scale(d)),
	}
}

// OffsetCubic translates the cubic's endpoints along their edge normals
// and displaces each interior control point along the bisecting
// direction of its two adjacent edge normals, scaled by d/(1+n0·n1). The
// caller is responsible for subdividing at cusps and inflections first.
func OffsetCubic(c Cubic, d float64) Cubic {
	e0 := c.P1.Sub(c.P0)
	e1 := c.P2.Sub(c.P1)
	e2 := c.P3.Sub(c.P2)
	n0 := e0.Normal()
	n1 := e1.Normal()
	n2 := e2.Normal()
	if n0 == (Pt{}) {
		n0 = n1
	}
	if n1 == (Pt{}) {
		if n0 != (Pt{}) {
			n1 = n0
		} else {
			n1 = n2
		}
	}
	if n2 == (Pt{}) {
		n2 = n1
	}
	return Cubic{
		P0: c.P0.Add(n0.Scale(d)),
		P1: c.P1.Add(bisect(n0, n1, d)),
		P2: c.P2.Add(bisect(n1, n2, d)),
		P3: c.P3.Add(n2.Scale(d)),
	}
}
