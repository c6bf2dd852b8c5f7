package geom

// Elevate2 raises the quadratic to an exactly equivalent cubic using the
// standard Bernstein degree-elevation formula.
func (q Quad) Elevate2() Cubic {
	c1 := q.P0.Scale(1.0 / 3).Add(q.P1.Scale(2.0 / 3))
	c2 := q.P1.Scale(2.0 / 3).Add(q.P2.Scale(1.0 / 3))
	return Cubic{q.P0, c1, c2, q.P2}
}

// Reduce3 lowers the cubic to the best-fit quadratic using the standard
// Bernstein degree-reduction formula. The two candidate inner control
// points derived from either endpoint are averaged; for a cubic produced
// by Elevate2 the two candidates coincide and the reduction is exact.
// Reduction may lose precision for arbitrary cubics and is only meant to
// be applied to glyph outlines ahead of rasterisation.
func (c Cubic) Reduce3() Quad {
	fromStart := c.P0.Scale(-1).Add(c.P1.Scale(3)).Scale(0.5)
	fromEnd := c.P3.Scale(-1).Add(c.P2.Scale(3)).Scale(0.5)
	mid := fromStart.Add(fromEnd).Scale(0.5)
	return Quad{c.P0, mid, c.P3}
}
