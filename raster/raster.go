// Package raster implements an analytic coverage rasterizer: a scanline
// edge accumulator producing exact per-pixel coverage for filled and
// stroked outlines, composited into a backing pixel buffer.
package raster

import (
	"sort"

	"github.com/go-paper/paper/perr"
)

// fixed is a 24.8 fixed-point quantity: user-space coordinates scaled by
// 256 and rounded, matching the rasterizer's internal grid.
type fixed int64

const fixedShift = 8
const fixedScale = 1 << fixedShift

func toFixed(v float64) fixed { return fixed(v*fixedScale + 0.5*sign(v)) }

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// cell is one scanline's signed-area contribution at a pixel column, in
// units of 256×height pixel-fractions (so the running prefix sum across
// a row, divided by 256, is the analytic coverage in [0,255]).
type cell struct {
	x     int
	delta int64
}

// Rasterizer owns a scanline accumulator and a pen position; it exposes
// imperative path construction (moveto/lineto/quadto/curveto/closepath)
// and a destructive rasterize() that flushes accumulated edges into a
// backing Image.
type Rasterizer struct {
	width, height int
	rows          [][]cell

	curX, curY   fixed
	startX, startY fixed
	open         bool
}

// New creates a rasterizer targeting a width×height pixel grid.
func New(width, height int) *Rasterizer {
	return &Rasterizer{
		width:  width,
		height: height,
		rows:   make([][]cell, height),
	}
}

func (r *Rasterizer) MoveTo(x, y float64) {
	if r.open {
		r.closeImplicit()
	}
	r.curX, r.curY = toFixed(x), toFixed(y)
	r.startX, r.startY = r.curX, r.curY
	r.open = true
}

func (r *Rasterizer) LineTo(x, y float64) {
	nx, ny := toFixed(x), toFixed(y)
	r.addEdge(r.curX, r.curY, nx, ny)
	r.curX, r.curY = nx, ny
}

// QuadTo and CurveTo flatten the curve into points (flatten.go) before
// emitting line edges.
func (r *Rasterizer) QuadTo(x1, y1, x, y float64) {
	pts := flattenQuad(r.curX, r.curY, toFixed(x1), toFixed(y1), toFixed(x), toFixed(y))
	r.emitPolyline(pts)
}

func (r *Rasterizer) CurveTo(x1, y1, x2, y2, x, y float64) {
	pts := flattenCubic(r.curX, r.curY,
		toFixed(x1), toFixed(y1), toFixed(x2), toFixed(y2), toFixed(x), toFixed(y))
	r.emitPolyline(pts)
}

func (r *Rasterizer) emitPolyline(pts []point) {
	for _, p := range pts {
		r.addEdge(r.curX, r.curY, p.x, p.y)
		r.curX, r.curY = p.x, p.y
	}
}

func (r *Rasterizer) ClosePath() {
	r.closeImplicit()
	r.open = false
}

func (r *Rasterizer) closeImplicit() {
	if r.curX != r.startX || r.curY != r.startY {
		r.addEdge(r.curX, r.curY, r.startX, r.startY)
	}
}

type point struct{ x, y fixed }

// addEdge decomposes the segment (x0,y0)-(x1,y1) into per-scanline
// trapezoidal area contributions using the signed-area-delta technique:
// a left-side contribution carries the sub-row area actually covered,
// and a right-side contribution carries the complementary "spill" so a
// row's running prefix sum equals the exact analytic coverage.
func (r *Rasterizer) addEdge(x0, y0, x1, y1 fixed) {
	if y0 == y1 {
		return
	}

	dir := int64(1)
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
		dir = -1
	}

	rowTop := int(y0 >> fixedShift)
	rowBottom := int((y1 - 1) >> fixedShift)
	if rowBottom < 0 || rowTop >= r.height {
		return
	}

	dxdy := float64(x1-x0) / float64(y1-y0)

	for row := rowTop; row <= rowBottom; row++ {
		if row < 0 || row >= r.height {
			continue
		}
		rowY0 := fixed(row << fixedShift)
		rowY1 := rowY0 + fixedScale

		segY0 := maxFixed(y0, rowY0)
		segY1 := minFixed(y1, rowY1)
		if segY1 <= segY0 {
			continue
		}

		segX0 := x0 + fixed(float64(segY0-y0)*dxdy)
		segX1 := x0 + fixed(float64(segY1-y0)*dxdy)

		r.addTrapezoid(row, segX0, segY0, segX1, segY1, dir)
	}
}

func maxFixed(a, b fixed) fixed {
	if a > b {
		return a
	}
	return b
}

func minFixed(a, b fixed) fixed {
	if a < b {
		return a
	}
	return b
}

// addTrapezoid appends area-delta cells for the sub-row span between
// (x0,y0) and (x1,y1) (y0<y1 within this row), distributing coverage
// into whichever pixel columns the segment crosses. Each column gets a
// two-cell contribution: the partial area actually swept within that
// column's bounds, plus the complementary remainder carried into the
// next column — a running prefix sum across all columns then equals the
// exact analytic coverage, for single- or multi-column crossings alike.
func (r *Rasterizer) addTrapezoid(row int, x0, y0, x1, y1 fixed, dir int64) {
	height := y1 - y0
	if height <= 0 {
		return
	}

	pxStart := int(x0 >> fixedShift)
	pxEnd := int(x1 >> fixedShift)

	if pxStart == pxEnd {
		r.addColumnContribution(row, pxStart, x0, x1, height, dir)
		return
	}

	dxTotal := x1 - x0
	step := 1
	if pxEnd < pxStart {
		step = -1
	}

	prevX, prevY := x0, y0
	for px := pxStart; ; px += step {
		var boundX fixed
		if px == pxEnd {
			boundX = x1
		} else if step > 0 {
			boundX = fixed((px + 1) << fixedShift)
		} else {
			boundX = fixed(px << fixedShift)
		}

		t := float64(boundX-x0) / float64(dxTotal)
		boundY := y0 + fixed(t*float64(height))

		segHeight := boundY - prevY
		if segHeight < 0 {
			segHeight = -segHeight
		}
		r.addColumnContribution(row, px, prevX, boundX, segHeight, dir)

		prevX, prevY = boundX, boundY
		if px == pxEnd {
			break
		}
	}
}

// addColumnContribution emits the two-cell area/remainder pair for a
// sub-segment whose x-extent lies entirely within pixel column px.
func (r *Rasterizer) addColumnContribution(row, px int, xa, xb fixed, height fixed, dir int64) {
	if height == 0 {
		return
	}
	colX0 := fixed(px << fixedShift)
	avgX := (xa + xb) / 2
	xFrac := avgX - colX0
	if xFrac < 0 {
		xFrac = 0
	}
	if xFrac > fixedScale {
		xFrac = fixedScale
	}

	area := dir * int64(height) * int64(fixedScale-xFrac) / fixedScale
	full := dir * int64(height)

	r.rows[row] = append(r.rows[row], cell{x: px, delta: area})
	r.rows[row] = append(r.rows[row], cell{x: px + 1, delta: full - area})
}

// sweep converts one row's unordered (x, delta) cells into a coverage
// slice of length width using a non-zero winding prefix sum.
func (r *Rasterizer) sweep(row int) []uint8 {
	cells := r.rows[row]
	if len(cells) == 0 {
		return nil
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].x < cells[j].x })

	cov := make([]uint8, r.width)
	var acc int64
	prevX := 0
	for _, c := range cells {
		if c.x > prevX {
			val := coverageFromAcc(acc)
			for x := prevX; x < c.x && x < r.width; x++ {
				cov[x] = val
			}
		}
		acc += c.delta
		prevX = c.x
	}
	if prevX < r.width {
		val := coverageFromAcc(acc)
		for x := prevX; x < r.width; x++ {
			cov[x] = val
		}
	}
	return cov
}

func coverageFromAcc(acc int64) uint8 {
	winding := acc
	if winding < 0 {
		winding = -winding
	}
	cov := winding * 255 / fixedScale
	if cov > 255 {
		cov = 255
	}
	return uint8(cov)
}

// Components is the set of colour channel values supplied to Rasterize,
// in the target image's own kind (1/2/3/4 channels).
type Components []uint8

// Target is the minimal pixel-buffer surface Rasterize composites into.
type Target interface {
	Kind() Kind
	Set(x, y int, cov uint8, comps Components) error
}

// Kind names the four supported channel layouts.
type Kind int

const (
	KindGray Kind = iota
	KindGrayAlpha
	KindRGB
	KindRGBA
)

// Rasterize flushes the accumulated scanline edges into dst using comps
// as the fill colour, then clears the accumulator. CMYK/spot targets are
// rejected per spec; Target implementations for those kinds must refuse
// construction instead of reaching here.
func (r *Rasterizer) Rasterize(dst Target, comps Components) error {
	if err := validateComponents(dst.Kind(), comps); err != nil {
		return err
	}

	for row := 0; row < r.height; row++ {
		cov := r.sweep(row)
		for x, c := range cov {
			if c == 0 {
				continue
			}
			if err := dst.Set(x, row, c, comps); err != nil {
				return err
			}
		}
	}

	r.rows = make([][]cell, r.height)
	return nil
}

func validateComponents(kind Kind, comps Components) error {
	want := map[Kind]int{KindGray: 1, KindGrayAlpha: 2, KindRGB: 3, KindRGBA: 4}[kind]
	if len(comps) != want {
		return perr.New(perr.Invalid, "raster.Rasterize", "component count does not match target kind")
	}
	return nil
}
