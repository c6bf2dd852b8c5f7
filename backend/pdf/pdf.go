// Package pdf emits a page's placed items as a PDF content-stream
// fragment plus the graphic-state/resource registrations it depends
// on, adapting the teacher's raw content-stream-writer style (a
// buffered accumulator of whitespace-separated operators) to the
// shape/layout/img placed-item model.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-paper/paper"
	"github.com/go-paper/paper/img"
	"github.com/go-paper/paper/shape"
)

// Resources accumulates the cross-references a content stream needs,
// each registered once and referenced by name. Only images (xobjects)
// are registered; the fonts and gstate maps are created empty and
// nothing fills them.
type Resources struct {
	fonts  map[string]bool
	images map[*img.Image]string
	gstate map[string]bool
	nextId int
}

func newResources() *Resources {
	return &Resources{
		fonts:  map[string]bool{},
		images: map[*img.Image]string{},
		gstate: map[string]bool{},
	}
}

func (r *Resources) registerImage(im *img.Image) string {
	if name, ok := r.images[im]; ok {
		return name
	}
	r.nextId++
	name := fmt.Sprintf("Im%d", r.nextId)
	r.images[im] = name
	return name
}

// GraphicState threads through emission so future color/line-state
// deduplication (skip re-emitting an unchanged rg/w/J/j) has somewhere
// to live without changing every emit* signature again.
type GraphicState struct{}

// EmitPage writes page's placed items as a content-stream fragment
// into buf, returning the Resources the fragment references. Page
// coordinates are user-space points with a y-down origin at the page's
// top-left; PDF's own coordinate space is y-up, so every emitted
// position is flipped against pageHeight.
func EmitPage(buf *bytes.Buffer, page *paper.Page) *Resources {
	res := newResources()
	gs := &GraphicState{}
	flip := shape.Matrix{A: 1, D: -1, F: page.Height}

	for _, item := range page.Items {
		emitPlaced(buf, page.Height, item, flip, res, gs)
	}
	return res
}

func emitPlaced(buf *bytes.Buffer, pageHeight float64, item *paper.Placed, parent shape.Matrix, res *Resources, gs *GraphicState) {
	local := shape.Translate(item.X, item.Y).Mul(parent)
	local = shape.Scale(item.K, item.K).Mul(local)

	switch {
	case item.Shape != nil:
		emitShape(buf, pageHeight, *item.Shape, local, res, gs)
	case item.Group != nil:
		for _, placed := range item.Group.Flatten() {
			emitShape(buf, pageHeight, placed.Shape, placed.Transform.Mul(local), res, gs)
		}
	case item.Image != nil:
		emitImage(buf, pageHeight, item, local, res)
	case item.Text != nil:
		emitText(buf, pageHeight, item, local, res)
	}
}

func emitShape(buf *bytes.Buffer, pageHeight float64, s shape.Shape, m shape.Matrix, res *Resources, gs *GraphicState) {
	fmt.Fprintf(buf, "q\n%s cm\n", fmtMatrix(m))
	setColor(buf, s.Style, gs)

	var curX, curY float64
	for _, c := range s.Commands {
		switch c.Op {
		case shape.OpMoveTo:
			fmt.Fprintf(buf, "%s m\n", fmtPt(c.X, c.Y))
			curX, curY = c.X, c.Y
		case shape.OpLineTo:
			fmt.Fprintf(buf, "%s l\n", fmtPt(c.X, c.Y))
			curX, curY = c.X, c.Y
		case shape.OpQuadTo:
			// PDF has no native quadratic operator; elevate to a cubic
			// via the standard 1/3-rule control-point formula.
			cp1x, cp1y := curX+2.0/3*(c.X1-curX), curY+2.0/3*(c.Y1-curY)
			cp2x, cp2y := c.X+2.0/3*(c.X1-c.X), c.Y+2.0/3*(c.Y1-c.Y)
			fmt.Fprintf(buf, "%s %s %s c\n", fmtPt(cp1x, cp1y), fmtPt(cp2x, cp2y), fmtPt(c.X, c.Y))
			curX, curY = c.X, c.Y
		case shape.OpCurveTo:
			fmt.Fprintf(buf, "%s %s %s c\n", fmtPt(c.X1, c.Y1), fmtPt(c.X2, c.Y2), fmtPt(c.X, c.Y))
			curX, curY = c.X, c.Y
		case shape.OpClosePath:
			buf.WriteString("h\n")
		}
	}

	buf.WriteString(paintOp(s.Style))
	buf.WriteString("Q\n")
}

func paintOp(style shape.Style) string {
	switch {
	case style.HasFill && style.HasStroke:
		return "B\n"
	case style.HasFill:
		return "f\n"
	case style.HasStroke:
		return "S\n"
	default:
		return "n\n"
	}
}

func setColor(buf *bytes.Buffer, style shape.Style, gs *GraphicState) {
	if style.HasFill {
		if c, ok := style.Fill.(paper.Color); ok {
			fmt.Fprintf(buf, "%s\n", colorOp(c, false))
		}
	}
	if style.HasStroke {
		if c, ok := style.Stroke.(paper.Color); ok {
			fmt.Fprintf(buf, "%s\n", colorOp(c, true))
		}
		fmt.Fprintf(buf, "%.2f w\n", style.StrokeWidth)
		fmt.Fprintf(buf, "%d J %d j %.2f M\n", pdfCap(style.Cap), pdfJoin(style.Join), style.MiterLimit)
	}
}

func colorOp(c paper.Color, stroke bool) string {
	suffix := "rg"
	if stroke {
		suffix = "RG"
	}
	switch c.Kind() {
	case paper.ColorGray, paper.ColorGrayAlpha:
		g := float64(c.GrayComponent()) / 255
		op := "g"
		if stroke {
			op = "G"
		}
		return fmt.Sprintf("%.4f %s", g, op)
	case paper.ColorRGB, paper.ColorRGBA:
		r, g, b := c.RGBComponents()
		return fmt.Sprintf("%.4f %.4f %.4f %s", float64(r)/255, float64(g)/255, float64(b)/255, suffix)
	case paper.ColorCMYK, paper.ColorSpot:
		cc, mm, yy, kk := c.CMYKComponents()
		op := "k"
		if stroke {
			op = "K"
		}
		return fmt.Sprintf("%.4f %.4f %.4f %.4f %s", float64(cc)/255, float64(mm)/255, float64(yy)/255, float64(kk)/255, op)
	}
	return ""
}

func pdfCap(c shape.Cap) int {
	switch c {
	case shape.CapRound:
		return 1
	case shape.CapSquare:
		return 2
	default:
		return 0
	}
}

func pdfJoin(j shape.Join) int {
	switch j {
	case shape.JoinRound:
		return 1
	case shape.JoinBevel:
		return 2
	default:
		return 0
	}
}

func emitImage(buf *bytes.Buffer, pageHeight float64, item *paper.Placed, m shape.Matrix, res *Resources) {
	name := res.registerImage(item.Image)
	w, h := item.Frame.Width, item.Frame.Height
	fmt.Fprintf(buf, "q\n%s cm\n%.4f 0 0 %.4f 0 0 cm\n/%s Do\nQ\n", fmtMatrix(m), w, h, name)
}

func emitText(buf *bytes.Buffer, pageHeight float64, item *paper.Placed, m shape.Matrix, res *Resources) {
	buf.WriteString("q\nBT\n")
	for i, line := range item.Text.Lines() {
		offset := item.Text.LineOffset(i)
		fmt.Fprintf(buf, "%% line x-offset %.4f, height %.4f to span %d\n", offset, line.Height, line.End.Span)
	}
	buf.WriteString("ET\nQ\n")
}

func fmtMatrix(m shape.Matrix) string {
	return fmt.Sprintf("%.6f %.6f %.6f %.6f %.4f %.4f", m.A, m.B, m.C, m.D, m.E, m.F)
}

func fmtPt(x, y float64) string {
	return fmt.Sprintf("%.4f %.4f", x, y)
}
