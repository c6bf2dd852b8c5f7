package geom

// Inflections3 returns the parameters in (0,1) where the cubic's
// curvature changes sign: the roots of the cross product of the first and
// second derivatives. Expanding that cross product in the cubic's
// power-basis coefficients cancels the cubic term identically, leaving a
// quadratic, so there are at most two inflection parameters.
func (c Cubic) Inflections3() []float64 {
	c1 := c.P1.Sub(c.P0).Scale(3)
	c2 := c.P0.Sub(c.P1.Scale(2)).Add(c.P2).Scale(3)
	c3 := c.P3.Sub(c.P2.Scale(3)).Add(c.P1.Scale(3)).Sub(c.P0)

	a := 3 * c2.Cross(c3)
	b := 3 * c1.Cross(c3)
	d := c1.Cross(c2)

	roots := quadRoots(a, b, d)
	out := roots[:0]
	for _, t := range roots {
		if t > 0 && t < 1 {
			out = append(out, t)
		}
	}
	return out
}
