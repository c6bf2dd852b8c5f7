package geom

import "sort"

// ChopCubic splits c at each ascending parameter in ts (values outside
// (0,1) are ignored), returning the pieces in order. The concatenation of
// the results reproduces c's endpoints exactly; each interior parameter is
// rescaled against the remaining tail as (t-ti)/(1-ti) so repeated
// splitting of the tail piece lands on the correct point.
func ChopCubic(c Cubic, ts []float64) []Cubic {
	params := sortedInterior(ts)
	if len(params) == 0 {
		return []Cubic{c}
	}
	out := make([]Cubic, 0, len(params)+1)
	rest := c
	prev := 0.0
	for _, t := range params {
		rel := (t - prev) / (1 - prev)
		left, right := rest.Split(rel)
		out = append(out, left)
		rest = right
		prev = t
	}
	out = append(out, rest)
	return out
}

// ChopQuad is the quadratic analogue of ChopCubic.
func ChopQuad(q Quad, ts []float64) []Quad {
	params := sortedInterior(ts)
	if len(params) == 0 {
		return []Quad{q}
	}
	out := make([]Quad, 0, len(params)+1)
	rest := q
	prev := 0.0
	for _, t := range params {
		rel := (t - prev) / (1 - prev)
		left, right := rest.Split(rel)
		out = append(out, left)
		rest = right
		prev = t
	}
	out = append(out, rest)
	return out
}

// ChopLine is the degree-1 analogue of ChopCubic.
func ChopLine(l Line, ts []float64) []Line {
	params := sortedInterior(ts)
	if len(params) == 0 {
		return []Line{l}
	}
	out := make([]Line, 0, len(params)+1)
	rest := l
	prev := 0.0
	for _, t := range params {
		rel := (t - prev) / (1 - prev)
		left, right := rest.Split(rel)
		out = append(out, left)
		rest = right
		prev = t
	}
	out = append(out, rest)
	return out
}

func sortedInterior(ts []float64) []float64 {
	out := make([]float64, 0, len(ts))
	for _, t := range ts {
		if t > 0 && t < 1 {
			out = append(out, t)
		}
	}
	sort.Float64s(out)
	return out
}
