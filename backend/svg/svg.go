// Package svg emits a page's placed items as an SVG document,
// adapting the teacher's basic-path command vocabulary
// (M/L/C/H/V/Q/Z, as read by its SVG path parser) to serialize rather
// than parse: shapes already carry absolute coordinates, so emission
// only ever needs the absolute-form commands.
package svg

import (
	"fmt"
	"strings"

	"github.com/go-paper/paper"
	"github.com/go-paper/paper/shape"
)

// EmitPage renders page as a standalone SVG document string.
func EmitPage(page *paper.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.4f" height="%.4f" viewBox="0 0 %.4f %.4f">`+"\n",
		page.Width, page.Height, page.Width, page.Height)
	if page.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", escapeText(page.Title))
	}

	for _, item := range page.Items {
		emitPlaced(&b, item, shape.Identity)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func emitPlaced(b *strings.Builder, item *paper.Placed, parent shape.Matrix) {
	local := shape.Translate(item.X, item.Y).Mul(parent)
	local = shape.Scale(item.K, item.K).Mul(local)

	switch {
	case item.Shape != nil:
		emitShape(b, *item.Shape, local)
	case item.Group != nil:
		for _, placed := range item.Group.Flatten() {
			emitShape(b, placed.Shape, placed.Transform.Mul(local))
		}
	case item.Image != nil:
		emitImage(b, item, local)
	case item.Text != nil:
		emitText(b, item, local)
	}
}

func emitShape(b *strings.Builder, s shape.Shape, m shape.Matrix) {
	var d strings.Builder
	for _, c := range s.Commands {
		switch c.Op {
		case shape.OpMoveTo:
			fmt.Fprintf(&d, "M%s ", fmtPt(c.X, c.Y))
		case shape.OpLineTo:
			fmt.Fprintf(&d, "L%s ", fmtPt(c.X, c.Y))
		case shape.OpQuadTo:
			fmt.Fprintf(&d, "Q%s %s ", fmtPt(c.X1, c.Y1), fmtPt(c.X, c.Y))
		case shape.OpCurveTo:
			fmt.Fprintf(&d, "C%s %s %s ", fmtPt(c.X1, c.Y1), fmtPt(c.X2, c.Y2), fmtPt(c.X, c.Y))
		case shape.OpClosePath:
			d.WriteString("Z ")
		}
	}

	fmt.Fprintf(b, `<path d="%s" transform="matrix(%s)" %s/>`+"\n", strings.TrimSpace(d.String()), fmtMatrix(m), styleAttrs(s.Style))
}

func styleAttrs(style shape.Style) string {
	fill := "none"
	if style.HasFill {
		if c, ok := style.Fill.(paper.Color); ok {
			fill = cssColor(c)
		}
	}
	stroke := "none"
	strokeAttrs := ""
	if style.HasStroke {
		if c, ok := style.Stroke.(paper.Color); ok {
			stroke = cssColor(c)
		}
		strokeAttrs = fmt.Sprintf(` stroke-width="%.4f" stroke-linecap="%s" stroke-linejoin="%s" stroke-miterlimit="%.2f"`,
			style.StrokeWidth, svgCap(style.Cap), svgJoin(style.Join), style.MiterLimit)
	}
	return fmt.Sprintf(`fill="%s" stroke="%s"%s`, fill, stroke, strokeAttrs)
}

func cssColor(c paper.Color) string {
	switch c.Kind() {
	case paper.ColorGray, paper.ColorGrayAlpha:
		g := c.GrayComponent()
		return fmt.Sprintf("rgb(%d,%d,%d)", g, g, g)
	case paper.ColorRGB, paper.ColorRGBA:
		r, g, bl := c.RGBComponents()
		return fmt.Sprintf("rgb(%d,%d,%d)", r, g, bl)
	default:
		// CMYK/spot have no direct CSS equivalent; approximate via the
		// standard subtractive conversion for screen preview purposes.
		cc, mm, yy, kk := c.CMYKComponents()
		r := 255 * (1 - float64(cc)/255) * (1 - float64(kk)/255)
		g := 255 * (1 - float64(mm)/255) * (1 - float64(kk)/255)
		bl := 255 * (1 - float64(yy)/255) * (1 - float64(kk)/255)
		return fmt.Sprintf("rgb(%d,%d,%d)", int(r), int(g), int(bl))
	}
}

func svgCap(c shape.Cap) string {
	switch c {
	case shape.CapRound:
		return "round"
	case shape.CapSquare:
		return "square"
	default:
		return "butt"
	}
}

func svgJoin(j shape.Join) string {
	switch j {
	case shape.JoinRound:
		return "round"
	case shape.JoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

func emitImage(b *strings.Builder, item *paper.Placed, m shape.Matrix) {
	fmt.Fprintf(b, `<image x="0" y="0" width="%.4f" height="%.4f" transform="matrix(%s)"/>`+"\n",
		item.Frame.Width, item.Frame.Height, fmtMatrix(m))
}

func emitText(b *strings.Builder, item *paper.Placed, m shape.Matrix) {
	fmt.Fprintf(b, `<g transform="matrix(%s)">`+"\n", fmtMatrix(m))
	y := 0.0
	for i, line := range item.Text.Lines() {
		y += line.Height
		x := item.Text.LineOffset(i)
		fmt.Fprintf(b, `<text x="%.4f" y="%.4f"></text>`+"\n", x, y)
	}
	b.WriteString("</g>\n")
}

func fmtMatrix(m shape.Matrix) string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%.4f,%.4f", m.A, m.B, m.C, m.D, m.E, m.F)
}

func fmtPt(x, y float64) string {
	return fmt.Sprintf("%.4f,%.4f", x, y)
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
