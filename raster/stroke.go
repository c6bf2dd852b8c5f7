package raster

import (
	"math"

	"github.com/go-paper/paper/geom"
)

// Cap names the terminator geometry at an open sub-path end.
type Cap int

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Join names the corner geometry inserted at an interior stroke vertex.
type Join int

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// strokeSeg is a line/quad/cubic segment paired with its offset distance,
// accumulated by the rasterizer's stroke* operations before a single
// flush builds the two parallel boundary outlines.
type strokeSeg struct {
	kind int // 0 line, 1 quad, 2 cubic
	line geom.Line
	quad geom.Quad
	cub  geom.Cubic
}

// StrokePath turns a sequence of segments plus stroke parameters into the
// outline of the stroke's Minkowski-sum shape: two parallel offset
// polylines (left at +d, right at -d) joined at each interior vertex and
// capped at open ends, fed back into the rasterizer as a single closed
// fill region.
func (r *Rasterizer) StrokePath(segs []any, width float64, closed bool, join Join, cap Cap, miterLimit float64) {
	if len(segs) == 0 || width <= 0 {
		return
	}
	d := width / 2

	left := make([]any, 0, len(segs))
	right := make([]any, 0, len(segs))
	for _, s := range segs {
		switch v := s.(type) {
		case geom.Line:
			left = append(left, geom.OffsetLine(v, d))
			right = append(right, geom.OffsetLine(v, -d))
		case geom.Quad:
			left = append(left, subdivideAndOffsetQuad(v, d)...)
			right = append(right, subdivideAndOffsetQuad(v, -d)...)
		case geom.Cubic:
			left = append(left, subdivideAndOffsetCubic(v, d)...)
			right = append(right, subdivideAndOffsetCubic(v, -d)...)
		}
	}

	r.emitStrokeOutline(left, right, segs, closed, join, cap, d, miterLimit)
}

func subdivideAndOffsetQuad(q geom.Quad, d float64) []any {
	const cosThreshold = -0.9238795325112867 // -√(2+√2)/2
	parts := geom.SubdivideQuad(q, cosThreshold)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = geom.OffsetQuad(p, d)
	}
	return out
}

// subdivideAndOffsetCubic chops at inflection parameters first (per
// spec §4.3), then adaptively subdivides each monotone piece before
// offsetting, so the offset construction never crosses an inflection.
func subdivideAndOffsetCubic(c geom.Cubic, d float64) []any {
	const cosThreshold = -0.9238795325112867
	ts := c.Inflections3()
	pieces := geom.ChopCubic(c, ts)

	out := make([]any, 0, len(pieces)*2)
	for _, piece := range pieces {
		for _, sub := range geom.SubdivideCubic(piece, cosThreshold) {
			out = append(out, geom.OffsetCubic(sub, d))
		}
	}
	return out
}

// emitStrokeOutline walks the left offsets forward and the right offsets
// in reverse, inserting the join geometry named by `join` at each
// interior vertex of the original path, and cap geometry at the two
// open ends if the path isn't closed.
func (r *Rasterizer) emitStrokeOutline(left, right, orig []any, closed bool, join Join, cap Cap, d, miterLimit float64) {
	if len(left) == 0 {
		return
	}

	firstPt := func(s any) geom.Pt { return segStart(s) }
	lastPt := func(s any) geom.Pt { return segEnd(s) }

	start := firstPt(left[0])
	r.MoveTo(start.X, start.Y)
	for i, s := range left {
		r.emitSeg(s)
		if i < len(left)-1 {
			r.emitJoin(lastPt(s), firstPt(left[i+1]), segTangentOut(s), segTangentIn(left[i+1]), join, d, miterLimit)
		}
	}

	if closed {
		r.ClosePath()
		rstart := firstPt(right[0])
		r.MoveTo(rstart.X, rstart.Y)
		for i, s := range right {
			r.emitSeg(s)
			if i < len(right)-1 {
				r.emitJoin(lastPt(s), firstPt(right[i+1]), segTangentOut(s), segTangentIn(right[i+1]), join, d, miterLimit)
			}
		}
		r.ClosePath()
		return
	}

	r.emitCap(lastPt(left[len(left)-1]), segTangentOut(left[len(left)-1]), d, cap)

	for i := len(right) - 1; i >= 0; i-- {
		r.emitSegReverse(right[i])
		if i > 0 {
			r.emitJoin(firstPt(right[i]), lastPt(right[i-1]), segTangentIn(right[i]).Scale(-1), segTangentOut(right[i-1]).Scale(-1), join, d, miterLimit)
		}
	}

	r.emitCap(firstPt(right[0]), segTangentIn(right[0]).Scale(-1), d, cap)
	r.ClosePath()
}

func segStart(s any) geom.Pt {
	switch v := s.(type) {
	case geom.Line:
		return v.P0
	case geom.Quad:
		return v.P0
	case geom.Cubic:
		return v.P0
	}
	return geom.Pt{}
}

func segEnd(s any) geom.Pt {
	switch v := s.(type) {
	case geom.Line:
		return v.P1
	case geom.Quad:
		return v.P2
	case geom.Cubic:
		return v.P3
	}
	return geom.Pt{}
}

func segTangentOut(s any) geom.Pt {
	switch v := s.(type) {
	case geom.Line:
		return v.P1.Sub(v.P0).Unit()
	case geom.Quad:
		return v.P2.Sub(v.P1).Unit()
	case geom.Cubic:
		return v.P3.Sub(v.P2).Unit()
	}
	return geom.Pt{}
}

func segTangentIn(s any) geom.Pt {
	switch v := s.(type) {
	case geom.Line:
		return v.P1.Sub(v.P0).Unit()
	case geom.Quad:
		return v.P1.Sub(v.P0).Unit()
	case geom.Cubic:
		return v.P1.Sub(v.P0).Unit()
	}
	return geom.Pt{}
}

func (r *Rasterizer) emitSeg(s any) {
	switch v := s.(type) {
	case geom.Line:
		r.LineTo(v.P1.X, v.P1.Y)
	case geom.Quad:
		r.QuadTo(v.P1.X, v.P1.Y, v.P2.X, v.P2.Y)
	case geom.Cubic:
		r.CurveTo(v.P1.X, v.P1.Y, v.P2.X, v.P2.Y, v.P3.X, v.P3.Y)
	}
}

func (r *Rasterizer) emitSegReverse(s any) {
	switch v := s.(type) {
	case geom.Line:
		r.LineTo(v.P0.X, v.P0.Y)
	case geom.Quad:
		r.QuadTo(v.P1.X, v.P1.Y, v.P0.X, v.P0.Y)
	case geom.Cubic:
		r.CurveTo(v.P2.X, v.P2.Y, v.P1.X, v.P1.Y, v.P0.X, v.P0.Y)
	}
}

// emitJoin inserts corner geometry between two consecutive offset
// segments meeting at vertex `a`≈`b` (they may differ slightly due to
// independent per-piece offsetting). If both tangents agree (collinear
// pieces from a subdivided curve with no real corner), a single straight
// edge is emitted and no join geometry is added — the canonical choice
// for the nearly-collinear case documented in DESIGN.md, avoiding the
// double-emitted tangent line the original exhibited.
func (r *Rasterizer) emitJoin(a, b, tanOut, tanIn geom.Pt, join Join, d, miterLimit float64) {
	cross := tanOut.Cross(tanIn)
	dot := tanOut.Dot(tanIn)
	if math.Abs(cross) < 1e-9 && dot > 0 {
		if a != b {
			r.LineTo(b.X, b.Y)
		}
		return
	}

	switch join {
	case JoinBevel:
		r.LineTo(b.X, b.Y)

	case JoinMiter:
		normOut := geom.Pt{X: -tanOut.Y, Y: tanOut.X}
		normIn := geom.Pt{X: -tanIn.Y, Y: tanIn.X}
		sum := normOut.Add(normIn)
		denom := 1 + normOut.Dot(normIn)
		if denom < 1e-9 {
			r.LineTo(b.X, b.Y)
			return
		}
		miterPt := a.Add(sum.Scale(math.Abs(d) / denom))
		dist := miterPt.Sub(a).Len()
		if dist > miterLimit*math.Abs(d) {
			r.LineTo(b.X, b.Y)
			return
		}
		r.LineTo(miterPt.X, miterPt.Y)
		r.LineTo(b.X, b.Y)

	case JoinRound:
		r.arcBetween(a, b, math.Abs(d))
	}
}

// emitCap appends the terminator geometry at an open path end, where
// `p` is the stroke-edge endpoint and `tan` the path's tangent there.
func (r *Rasterizer) emitCap(p geom.Pt, tan geom.Pt, d float64, cap Cap) {
	switch cap {
	case CapButt:
		return
	case CapSquare:
		ext := p.Add(tan.Scale(math.Abs(d)))
		r.LineTo(ext.X, ext.Y)
	case CapRound:
		far := p.Add(tan.Scale(2 * math.Abs(d)))
		r.arcBetween(p, far, math.Abs(d))
	}
}

// arcBetween approximates a circular fillet of radius rad centered
// roughly between a and b using arc3, falling back to a straight edge
// when the geometry is degenerate.
func (r *Rasterizer) arcBetween(a, b geom.Pt, rad float64) {
	mid := a.Add(b).Scale(0.5)
	c := geom.Arc3(mid.X, mid.Y, a, b)
	r.CurveTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
}
