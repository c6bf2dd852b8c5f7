// Package raster drives the analytic coverage rasterizer to paint a
// page's placed items into a pixel buffer, the way the teacher's PDF/SVG
// adapters walk the same item list to emit a content stream or markup.
package raster

import (
	"github.com/go-paper/paper"
	"github.com/go-paper/paper/font"
	"github.com/go-paper/paper/geom"
	"github.com/go-paper/paper/img"
	"github.com/go-paper/paper/layout"
	"github.com/go-paper/paper/perr"
	prast "github.com/go-paper/paper/raster"
	"github.com/go-paper/paper/shape"
)

// RenderPage paints page's items into a freshly allocated image of kind
// at the given pixel dimensions. CMYK/spot targets are unsupported, per
// the rasterizer's own restriction to the four channel-counted kinds.
func RenderPage(page *paper.Page, width, height int, kind img.Kind) (*img.Image, error) {
	rk, ok := toRasterKind(kind)
	if !ok {
		return nil, perr.New(perr.Unsupported, "backend/raster.RenderPage", "CMYK/spot rasterization is not supported")
	}

	buf, err := prast.NewBuffer(rk, width, height)
	if err != nil {
		return nil, err
	}

	for _, item := range page.Items {
		if err := paintPlaced(buf, item, shape.Identity); err != nil {
			return nil, err
		}
	}

	out := img.New(kind, width, height)
	copy(out.Pix, buf.Pix())
	return out, nil
}

func toRasterKind(kind img.Kind) (prast.Kind, bool) {
	switch kind {
	case img.KindGray:
		return prast.KindGray, true
	case img.KindGrayAlpha:
		return prast.KindGrayAlpha, true
	case img.KindRGB:
		return prast.KindRGB, true
	case img.KindRGBA:
		return prast.KindRGBA, true
	default:
		return 0, false
	}
}

func paintPlaced(buf *prast.Buffer, item *paper.Placed, parent shape.Matrix) error {
	local := shape.Translate(item.X, item.Y).Mul(parent)
	local = shape.Scale(item.K, item.K).Mul(local)

	switch {
	case item.Shape != nil:
		return paintShape(buf, *item.Shape, local)
	case item.Group != nil:
		for _, placed := range item.Group.Flatten() {
			if err := paintShape(buf, placed.Shape, placed.Transform.Mul(local)); err != nil {
				return err
			}
		}
	case item.Image != nil:
		paintImage(buf, item, local)
	case item.Text != nil:
		return paintText(buf, item.Text, local)
	}
	return nil
}

// paintText walks a placed text block's committed lines, and within
// each its positioned glyph run, rasterizing every glyph's outline the
// way paintShape rasterizes a vector shape's path.
func paintText(buf *prast.Buffer, pt *layout.PlacedText, parent shape.Matrix) error {
	top := 0.0
	for i, line := range pt.Lines() {
		baseY := top + line.Baseline
		offsetX := pt.LineOffset(i)
		for _, g := range line.Glyphs {
			if err := paintGlyph(buf, g, offsetX, baseY, parent); err != nil {
				return err
			}
		}
		top += line.Height
	}
	return nil
}

// paintGlyph rasterizes a single positioned glyph: it resolves the
// glyph's outline from the concrete *font.Font backing its style,
// scales the outline from the font's design grid into the same
// point-space layout already measured advances in, flips it to the
// page's y-down convention, and feeds it to a fresh rasterizer.
func paintGlyph(buf *prast.Buffer, g layout.Glyph, offsetX, baseY float64, parent shape.Matrix) error {
	fnt, ok := g.Style.Font.(*font.Font)
	if !ok {
		return nil
	}
	outline, err := fnt.Glyph(g.GID)
	if err != nil {
		return err
	}
	segs, err := outline.Segments()
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return nil
	}

	comps, err := colorComponents(g.Style.Color, buf.Kind())
	if err != nil {
		return err
	}

	scale := float64(fnt.Scale) * g.Style.SizePt / 1000
	m := shape.Translate(offsetX+g.X, baseY).Mul(parent)
	m = shape.Scale(scale, -scale).Mul(m)

	r := prast.New(buf.Width(), buf.Height())
	feedSegments(r, segs, m)
	return r.Rasterize(buf, comps)
}

// feedSegments drives a rasterizer over a glyph outline's flattened
// segment list, issuing a MoveTo whenever the next segment doesn't pick
// up where the last one left off (a new glyph contour).
func feedSegments(r *prast.Rasterizer, segs []any, m shape.Matrix) {
	var last geom.Pt
	started := false
	moveIfNeeded := func(p geom.Pt) {
		if !started || p != last {
			r.MoveTo(p.X, p.Y)
			started = true
		}
	}

	for _, seg := range segs {
		switch s := seg.(type) {
		case geom.Line:
			moveIfNeeded(m.Apply(s.P0))
			p1 := m.Apply(s.P1)
			r.LineTo(p1.X, p1.Y)
			last = p1
		case geom.Quad:
			moveIfNeeded(m.Apply(s.P0))
			p1, p2 := m.Apply(s.P1), m.Apply(s.P2)
			r.QuadTo(p1.X, p1.Y, p2.X, p2.Y)
			last = p2
		case geom.Cubic:
			moveIfNeeded(m.Apply(s.P0))
			p1, p2, p3 := m.Apply(s.P1), m.Apply(s.P2), m.Apply(s.P3)
			r.CurveTo(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)
			last = p3
		}
	}
	r.ClosePath()
}

func paintShape(buf *prast.Buffer, s shape.Shape, m shape.Matrix) error {
	if s.HasFill {
		comps, err := colorComponents(s.Fill, buf.Kind())
		if err != nil {
			return err
		}
		r := prast.New(buf.Width(), buf.Height())
		feedPath(r, s, m)
		if err := r.Rasterize(buf, comps); err != nil {
			return err
		}
	}

	if s.HasStroke {
		comps, err := colorComponents(s.Stroke, buf.Kind())
		if err != nil {
			return err
		}
		segs := pathSegments(s, m)
		closed := len(s.Commands) > 0 && s.Commands[len(s.Commands)-1].Op == shape.OpClosePath
		r := prast.New(buf.Width(), buf.Height())
		r.StrokePath(segs, s.StrokeWidth*scaleOf(m), closed, toRasterJoin(s.Join), toRasterCap(s.Cap), s.MiterLimit)
		if err := r.Rasterize(buf, comps); err != nil {
			return err
		}
	}
	return nil
}

func feedPath(r *prast.Rasterizer, s shape.Shape, m shape.Matrix) {
	for _, c := range s.Commands {
		switch c.Op {
		case shape.OpMoveTo:
			p := m.Apply(geom.Pt{X: c.X, Y: c.Y})
			r.MoveTo(p.X, p.Y)
		case shape.OpLineTo:
			p := m.Apply(geom.Pt{X: c.X, Y: c.Y})
			r.LineTo(p.X, p.Y)
		case shape.OpQuadTo:
			p1 := m.Apply(geom.Pt{X: c.X1, Y: c.Y1})
			p := m.Apply(geom.Pt{X: c.X, Y: c.Y})
			r.QuadTo(p1.X, p1.Y, p.X, p.Y)
		case shape.OpCurveTo:
			p1 := m.Apply(geom.Pt{X: c.X1, Y: c.Y1})
			p2 := m.Apply(geom.Pt{X: c.X2, Y: c.Y2})
			p := m.Apply(geom.Pt{X: c.X, Y: c.Y})
			r.CurveTo(p1.X, p1.Y, p2.X, p2.Y, p.X, p.Y)
		case shape.OpClosePath:
			r.ClosePath()
		}
	}
}

// pathSegments converts a shape's command stream into the geom segment
// values StrokePath expects, applying m to every coordinate first.
func pathSegments(s shape.Shape, m shape.Matrix) []any {
	var segs []any
	cur := geom.Pt{}
	start := geom.Pt{}
	for _, c := range s.Commands {
		switch c.Op {
		case shape.OpMoveTo:
			cur = m.Apply(geom.Pt{X: c.X, Y: c.Y})
			start = cur
		case shape.OpLineTo:
			p := m.Apply(geom.Pt{X: c.X, Y: c.Y})
			segs = append(segs, geom.Line{P0: cur, P1: p})
			cur = p
		case shape.OpQuadTo:
			p1 := m.Apply(geom.Pt{X: c.X1, Y: c.Y1})
			p := m.Apply(geom.Pt{X: c.X, Y: c.Y})
			segs = append(segs, geom.Quad{P0: cur, P1: p1, P2: p})
			cur = p
		case shape.OpCurveTo:
			p1 := m.Apply(geom.Pt{X: c.X1, Y: c.Y1})
			p2 := m.Apply(geom.Pt{X: c.X2, Y: c.Y2})
			p := m.Apply(geom.Pt{X: c.X, Y: c.Y})
			segs = append(segs, geom.Cubic{P0: cur, P1: p1, P2: p2, P3: p})
			cur = p
		case shape.OpClosePath:
			if cur != start {
				segs = append(segs, geom.Line{P0: cur, P1: start})
				cur = start
			}
		}
	}
	return segs
}

// scaleOf extracts a uniform scale factor from an affine matrix, used to
// carry a shape's own cumulative page scale into its stroke width.
func scaleOf(m shape.Matrix) float64 {
	sx := geom.Pt{X: m.A, Y: m.B}.Len()
	sy := geom.Pt{X: m.C, Y: m.D}.Len()
	return (sx + sy) / 2
}

func toRasterJoin(j shape.Join) prast.Join {
	switch j {
	case shape.JoinRound:
		return prast.JoinRound
	case shape.JoinBevel:
		return prast.JoinBevel
	default:
		return prast.JoinMiter
	}
}

func toRasterCap(c shape.Cap) prast.Cap {
	switch c {
	case shape.CapRound:
		return prast.CapRound
	case shape.CapSquare:
		return prast.CapSquare
	default:
		return prast.CapButt
	}
}

func colorComponents(c any, kind prast.Kind) (prast.Components, error) {
	col, ok := c.(paper.Color)
	if !ok {
		return nil, perr.New(perr.Invalid, "backend/raster.colorComponents", "fill/stroke value is not a paper.Color")
	}

	switch col.Kind() {
	case paper.ColorCMYK, paper.ColorSpot:
		return nil, perr.New(perr.Unsupported, "backend/raster.colorComponents", "CMYK/spot rasterization is not supported")
	}

	alpha := uint8(255)
	if col.Kind() == paper.ColorGrayAlpha || col.Kind() == paper.ColorRGBA {
		alpha = col.Alpha()
	}

	switch kind {
	case prast.KindGray:
		return prast.Components{col.GrayComponent()}, nil
	case prast.KindGrayAlpha:
		return prast.Components{col.GrayComponent(), alpha}, nil
	case prast.KindRGB:
		r, g, b := col.RGBComponents()
		return prast.Components{r, g, b}, nil
	case prast.KindRGBA:
		r, g, b := col.RGBComponents()
		return prast.Components{r, g, b, alpha}, nil
	}
	return nil, perr.New(perr.Invalid, "backend/raster.colorComponents", "unrecognised target kind")
}

func paintImage(buf *prast.Buffer, item *paper.Placed, m shape.Matrix) {
	src := item.Image
	w, h := item.Frame.Width, item.Frame.Height
	corners := [4]geom.Pt{
		m.Apply(geom.Pt{X: 0, Y: 0}),
		m.Apply(geom.Pt{X: w, Y: 0}),
		m.Apply(geom.Pt{X: w, Y: h}),
		m.Apply(geom.Pt{X: 0, Y: h}),
	}
	minX, minY, maxX, maxY := corners[0].X, corners[0].Y, corners[0].X, corners[0].Y
	for _, p := range corners[1:] {
		minX, maxX = minf(minX, p.X), maxf(maxX, p.X)
		minY, maxY = minf(minY, p.Y), maxf(maxY, p.Y)
	}

	sx := geom.Pt{X: m.A, Y: m.B}.Len()
	sy := geom.Pt{X: m.C, Y: m.D}.Len()

	for py := maxi(0, int(minY)); py < mini(buf.Height(), int(maxY)+1); py++ {
		for px := maxi(0, int(minX)); px < mini(buf.Width(), int(maxX)+1); px++ {
			// Placement is always a translate/scale composition (the
			// Group model has no rotation), so the forward map from
			// image space is just an axis-aligned scale from corners[0].
			u := (float64(px) + 0.5 - corners[0].X) / maxf(w*sx, 1)
			v := (float64(py) + 0.5 - corners[0].Y) / maxf(h*sy, 1)
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			imgX, imgY := int(u*float64(src.Width)), int(v*float64(src.Height))
			comps, alpha, ok := samplePixel(src, imgX, imgY)
			if !ok {
				continue
			}
			out, err := colorComponentsFromSample(comps, buf.Kind())
			if err != nil {
				continue
			}
			_ = buf.Set(px, py, alpha, out)
		}
	}
}

func samplePixel(src *img.Image, x, y int) ([]uint8, uint8, bool) {
	if x < 0 || x >= src.Width || y < 0 || y >= src.Height {
		return nil, 0, false
	}
	n := src.Kind.Channels()
	off := (y*src.Width + x) * n
	if off+n > len(src.Pix) {
		return nil, 0, false
	}
	px := src.Pix[off : off+n]
	alpha := uint8(255)
	if src.Kind == img.KindGrayAlpha {
		alpha = px[1]
	} else if src.Kind == img.KindRGBA {
		alpha = px[3]
	}
	return px, alpha, true
}

func colorComponentsFromSample(px []uint8, kind prast.Kind) (prast.Components, error) {
	switch kind {
	case prast.KindGray:
		return prast.Components{px[0]}, nil
	case prast.KindGrayAlpha:
		if len(px) >= 2 {
			return prast.Components{px[0], px[1]}, nil
		}
		return prast.Components{px[0], 255}, nil
	case prast.KindRGB:
		if len(px) >= 3 {
			return prast.Components{px[0], px[1], px[2]}, nil
		}
		return prast.Components{px[0], px[0], px[0]}, nil
	case prast.KindRGBA:
		if len(px) >= 4 {
			return prast.Components{px[0], px[1], px[2], px[3]}, nil
		}
		if len(px) >= 3 {
			return prast.Components{px[0], px[1], px[2], 255}, nil
		}
		return prast.Components{px[0], px[0], px[0], 255}, nil
	}
	return nil, perr.New(perr.Invalid, "backend/raster.colorComponentsFromSample", "unrecognised target kind")
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}
