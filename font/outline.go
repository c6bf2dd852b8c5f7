package font

import "github.com/go-paper/paper/geom"

// CmdKind tags the variant carried by a Command.
type CmdKind int

const (
	CmdMoveTo CmdKind = iota
	CmdLineTo
	CmdQuadTo
	CmdCurveTo
	CmdClosePath
)

// Command is one element of an outline's command stream. Every drawable
// sub-path begins with a MoveTo; ClosePath returns the current point to
// the last MoveTo and carries no coordinates.
type Command struct {
	Kind CmdKind
	X1, Y1 f32
	X2, Y2 f32
	X, Y   f32
}

// Outline is a glyph's decoded command stream, in the font's design grid
// (y-up). Callers scale by the inverse density and flip to a y-down page
// convention before use.
type Outline struct {
	Commands []Command
}

func moveTo(x, y f32) Command   { return Command{Kind: CmdMoveTo, X: x, Y: y} }
func lineTo(x, y f32) Command   { return Command{Kind: CmdLineTo, X: x, Y: y} }
func quadTo(x1, y1, x, y f32) Command {
	return Command{Kind: CmdQuadTo, X1: x1, Y1: y1, X: x, Y: y}
}
func curveTo(x1, y1, x2, y2, x, y f32) Command {
	return Command{Kind: CmdCurveTo, X1: x1, Y1: y1, X2: x2, Y2: y2, X: x, Y: y}
}
func closePath() Command { return Command{Kind: CmdClosePath} }

// Segments converts the command stream into geom segments, each carrying
// its own start point so every segment is self-contained; a closepath adds
// a closing line only when the contour does not already end at its start.
// It is a convenience used by rasterisation and flattening callers.
func (o Outline) Segments() ([]any, error) {
	segs := make([]any, 0, len(o.Commands))
	var cur, start geom.Pt
	for _, c := range o.Commands {
		switch c.Kind {
		case CmdMoveTo:
			cur = geom.Pt{X: float64(c.X), Y: float64(c.Y)}
			start = cur
		case CmdLineTo:
			p := geom.Pt{X: float64(c.X), Y: float64(c.Y)}
			segs = append(segs, geom.Line{P0: cur, P1: p})
			cur = p
		case CmdQuadTo:
			c1 := geom.Pt{X: float64(c.X1), Y: float64(c.Y1)}
			p := geom.Pt{X: float64(c.X), Y: float64(c.Y)}
			segs = append(segs, geom.Quad{P0: cur, P1: c1, P2: p})
			cur = p
		case CmdCurveTo:
			c1 := geom.Pt{X: float64(c.X1), Y: float64(c.Y1)}
			c2 := geom.Pt{X: float64(c.X2), Y: float64(c.Y2)}
			p := geom.Pt{X: float64(c.X), Y: float64(c.Y)}
			segs = append(segs, geom.Cubic{P0: cur, P1: c1, P2: c2, P3: p})
			cur = p
		case CmdClosePath:
			if cur != start {
				segs = append(segs, geom.Line{P0: cur, P1: start})
				cur = start
			}
		}
	}
	return segs, nil
}
