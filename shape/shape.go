// Package shape implements the vector primitive model: lines,
// rectangles, circles, ellipses, polylines, polygons and arbitrary
// paths, each carrying a Style, plus the Group container that composes
// nested transforms.
package shape

import (
	"math"

	"github.com/go-paper/paper/geom"
)

// Cap and Join mirror raster.Cap/raster.Join; duplicated here (rather
// than imported) so that shape has no dependency on the rasterizer —
// only a back-end visiting a placed shape needs to translate them.
type Cap int

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

type Join int

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// Style carries the fill/stroke appearance of a shape. Fill and Stroke
// are interface{} (the document-level Color type) to avoid an import
// cycle between shape and the root package that defines placed items.
type Style struct {
	Fill        any
	HasFill     bool
	Stroke      any
	HasStroke   bool
	StrokeWidth float64
	Cap         Cap
	Join        Join
	MiterLimit  float64
}

// Command is one command of a path's outline, mirroring font.Command's
// shape but expressed purely in geom terms for shapes authored directly
// by the caller rather than decoded from a font.
type Command struct {
	Op             CommandOp
	X, Y           float64
	X1, Y1, X2, Y2 float64
}

type CommandOp int

const (
	OpMoveTo CommandOp = iota
	OpLineTo
	OpQuadTo
	OpCurveTo
	OpClosePath
)

// Shape is any of the primitive vector kinds: a flattened command
// stream plus its style.
type Shape struct {
	Style    Style
	Commands []Command
}

func Line(x0, y0, x1, y1 float64, style Style) Shape {
	return Shape{Style: style, Commands: []Command{
		{Op: OpMoveTo, X: x0, Y: y0},
		{Op: OpLineTo, X: x1, Y: y1},
	}}
}

func Rect(x, y, w, h float64, style Style) Shape {
	return Shape{Style: style, Commands: []Command{
		{Op: OpMoveTo, X: x, Y: y},
		{Op: OpLineTo, X: x + w, Y: y},
		{Op: OpLineTo, X: x + w, Y: y + h},
		{Op: OpLineTo, X: x, Y: y + h},
		{Op: OpClosePath},
	}}
}

// Circle approximates a full circle of the given radius centred at
// (cx,cy) with four geom.Arc3 quadrants.
func Circle(cx, cy, r float64, style Style) Shape {
	return Ellipse(cx, cy, r, r, style)
}

// Ellipse approximates a full ellipse with semi-axes (rx,ry) using four
// cubic arcs, one per quadrant, stretched from a unit-circle
// approximation.
func Ellipse(cx, cy, rx, ry float64, style Style) Shape {
	unit := []geom.Pt{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}
	stretch := func(p geom.Pt) geom.Pt { return geom.Pt{X: cx + rx*p.X, Y: cy + ry*p.Y} }
	start := stretch(unit[0])
	cmds := []Command{{Op: OpMoveTo, X: start.X, Y: start.Y}}
	for i := 0; i < 4; i++ {
		arc := geom.Arc3(0, 0, unit[i], unit[(i+1)%4])
		p1, p2, p3 := stretch(arc.P1), stretch(arc.P2), stretch(arc.P3)
		cmds = append(cmds, Command{Op: OpCurveTo, X1: p1.X, Y1: p1.Y, X2: p2.X, Y2: p2.Y, X: p3.X, Y: p3.Y})
	}
	cmds = append(cmds, Command{Op: OpClosePath})
	return Shape{Style: style, Commands: cmds}
}

func Polyline(pts []geom.Pt, style Style) Shape {
	return polyShape(pts, style, false)
}

func Polygon(pts []geom.Pt, style Style) Shape {
	return polyShape(pts, style, true)
}

func polyShape(pts []geom.Pt, style Style, closed bool) Shape {
	if len(pts) == 0 {
		return Shape{Style: style}
	}
	cmds := make([]Command, 0, len(pts)+1)
	cmds = append(cmds, Command{Op: OpMoveTo, X: pts[0].X, Y: pts[0].Y})
	for _, p := range pts[1:] {
		cmds = append(cmds, Command{Op: OpLineTo, X: p.X, Y: p.Y})
	}
	if closed {
		cmds = append(cmds, Command{Op: OpClosePath})
	}
	return Shape{Style: style, Commands: cmds}
}

// Path builds an arbitrary shape from a caller-supplied command stream,
// e.g. one produced by flattening another shape or decoding a glyph.
func Path(commands []Command, style Style) Shape {
	return Shape{Style: style, Commands: commands}
}

// BBox returns the shape's axis-aligned bounding box over its command
// stream's control points (a coarse bound, not the tight curve bbox
// geom.Cubic.BBox would give per-segment).
func (s Shape) BBox() geom.Box {
	var minX, minY, maxX, maxY float64
	first := true
	consider := func(x, y float64) {
		if first {
			minX, maxX, minY, maxY = x, x, y, y
			first = false
			return
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, c := range s.Commands {
		switch c.Op {
		case OpMoveTo, OpLineTo:
			consider(c.X, c.Y)
		case OpQuadTo:
			consider(c.X1, c.Y1)
			consider(c.X, c.Y)
		case OpCurveTo:
			consider(c.X1, c.Y1)
			consider(c.X2, c.Y2)
			consider(c.X, c.Y)
		}
	}
	return geom.Box{Min: geom.Pt{X: minX, Y: minY}, Max: geom.Pt{X: maxX, Y: maxY}}
}
