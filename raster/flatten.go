package raster

import "math"

// flattenQuad/flattenCubic flatten a curve in the 24.8 fixed-point grid:
// N is chosen so piecewise-linear error stays within 0.25 pixel (0.25*256
// in the fixed grid, per the spec's flattening tolerance), then the curve
// is evaluated directly in floating point at t = i/N for i = 1..N, each
// point truncated to the fixed grid, giving N line segments. No
// forward-difference recurrence is used.
const flattenErrorFixed = 0.25 * fixedScale

func segmentsForQuad(x0, y0, x1, y1, x2, y2 fixed) int {
	ddx := float64(x0) - 2*float64(x1) + float64(x2)
	ddy := float64(y0) - 2*float64(y1) + float64(y2)
	d := math.Hypot(ddx, ddy)
	n := int(math.Ceil(math.Sqrt(d / (4 * flattenErrorFixed))))
	if n < 1 {
		n = 1
	}
	return n
}

func segmentsForCubic(x0, y0, x1, y1, x2, y2, x3, y3 fixed) int {
	ddx1 := float64(x0) - 2*float64(x1) + float64(x2)
	ddy1 := float64(y0) - 2*float64(y1) + float64(y2)
	ddx2 := float64(x1) - 2*float64(x2) + float64(x3)
	ddy2 := float64(y1) - 2*float64(y2) + float64(y3)
	d := math.Max(math.Hypot(ddx1, ddy1), math.Hypot(ddx2, ddy2))
	n := int(math.Ceil(math.Sqrt(3 * d / (4 * flattenErrorFixed))))
	if n < 1 {
		n = 1
	}
	return n
}

func flattenQuad(x0, y0, x1, y1, x2, y2 fixed) []point {
	n := segmentsForQuad(x0, y0, x1, y1, x2, y2)
	pts := make([]point, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		x := mt*mt*float64(x0) + 2*mt*t*float64(x1) + t*t*float64(x2)
		y := mt*mt*float64(y0) + 2*mt*t*float64(y1) + t*t*float64(y2)
		pts = append(pts, point{x: fixed(x), y: fixed(y)})
	}
	return pts
}

func flattenCubic(x0, y0, x1, y1, x2, y2, x3, y3 fixed) []point {
	n := segmentsForCubic(x0, y0, x1, y1, x2, y2, x3, y3)
	pts := make([]point, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		x := mt*mt*mt*float64(x0) + 3*mt*mt*t*float64(x1) + 3*mt*t*t*float64(x2) + t*t*t*float64(x3)
		y := mt*mt*mt*float64(y0) + 3*mt*mt*t*float64(y1) + 3*mt*t*t*float64(y2) + t*t*t*float64(y3)
		pts = append(pts, point{x: fixed(x), y: fixed(y)})
	}
	return pts
}
