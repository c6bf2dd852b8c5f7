package raster

import (
	"testing"

	"github.com/go-paper/paper"
	"github.com/go-paper/paper/geom"
	"github.com/go-paper/paper/img"
	"github.com/go-paper/paper/layout"
	prast "github.com/go-paper/paper/raster"
	"github.com/go-paper/paper/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMeasurer satisfies layout.Measurer but is not a *font.Font, the
// case paintGlyph must skip rather than error on: it has no outline to
// resolve.
type stubMeasurer struct{}

func (stubMeasurer) GlyphId(r rune) uint16    { return 1 }
func (stubMeasurer) Width(gid uint16) float32 { return 500 }
func (stubMeasurer) Kern(a, b uint16) int16   { return 0 }
func (stubMeasurer) AscenderUnits() float32   { return 750 }

func TestRenderPageFillsRect(t *testing.T) {
	doc := paper.NewDocument("t")
	page := doc.AddPage(20, 20, 1, "")
	page.PlaceShape(shape.Rect(5, 5, 10, 10, shape.Style{HasFill: true, Fill: paper.RGB(200, 10, 10)}), 0, 0, 1)

	out, err := RenderPage(page, 20, 20, img.KindRGB)
	require.NoError(t, err)

	off := (10*20 + 10) * 3
	assert.Equal(t, uint8(200), out.Pix[off])
	assert.Equal(t, uint8(10), out.Pix[off+1])
	assert.Equal(t, uint8(10), out.Pix[off+2])

	offOutside := (1*20 + 1) * 3
	assert.Equal(t, uint8(0), out.Pix[offOutside])
}

func TestRenderPageRejectsCMYKTarget(t *testing.T) {
	doc := paper.NewDocument("t")
	page := doc.AddPage(10, 10, 1, "")

	_, err := RenderPage(page, 10, 10, img.KindCMYK)
	assert.Error(t, err)
}

func TestRenderPageRejectsCMYKFillColor(t *testing.T) {
	doc := paper.NewDocument("t")
	page := doc.AddPage(10, 10, 1, "")
	page.PlaceShape(shape.Rect(0, 0, 5, 5, shape.Style{HasFill: true, Fill: paper.CMYK(0, 0, 0, 100)}), 0, 0, 1)

	_, err := RenderPage(page, 10, 10, img.KindRGB)
	assert.Error(t, err)
}

func TestRenderPageSamplesPlacedImage(t *testing.T) {
	doc := paper.NewDocument("t")
	page := doc.AddPage(10, 10, 1, "")

	src := img.New(img.KindRGB, 2, 2)
	for i := range src.Pix {
		src.Pix[i] = 50
	}
	page.PlaceImage(src, 0, 0, 10, 10)

	out, err := RenderPage(page, 10, 10, img.KindRGB)
	require.NoError(t, err)

	off := (5*10 + 5) * 3
	assert.Equal(t, uint8(50), out.Pix[off])
}

func TestRenderPageSkipsTextForNonFontMeasurer(t *testing.T) {
	doc := paper.NewDocument("t")
	page := doc.AddPage(50, 50, 1, "")

	style := layout.Style{Font: stubMeasurer{}, SizePt: 10, Leading: 12, Color: paper.RGB(0, 0, 0)}
	text := layout.NewText([]layout.Span{{Style: style, Text: "hi"}})
	placed := layout.NewPlacedText(text, 50, 50)
	page.PlaceText(placed, 0, 0, 50, 50)

	_, err := RenderPage(page, 50, 50, img.KindRGB)
	require.NoError(t, err)
}

func TestFeedSegmentsMovesToOnDiscontinuity(t *testing.T) {
	r := prast.New(10, 10)
	segs := []any{
		geom.Line{P0: geom.Pt{X: 0, Y: 0}, P1: geom.Pt{X: 5, Y: 0}},
		// A disjoint second contour: feedSegments must re-MoveTo here
		// rather than treat it as a continuation of the first.
		geom.Line{P0: geom.Pt{X: 8, Y: 8}, P1: geom.Pt{X: 9, Y: 8}},
	}
	feedSegments(r, segs, shape.Identity)

	buf, err := prast.NewBuffer(prast.KindGray, 10, 10)
	require.NoError(t, err)
	require.NoError(t, r.Rasterize(buf, prast.Components{255}))
}
