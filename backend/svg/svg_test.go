package svg

import (
	"testing"

	"github.com/go-paper/paper"
	"github.com/go-paper/paper/shape"
	"github.com/stretchr/testify/assert"
)

func TestEmitPageProducesValidShell(t *testing.T) {
	doc := paper.NewDocument("t")
	page := doc.AddPage(100, 200, 1, "My Page")
	page.PlaceShape(shape.Rect(0, 0, 10, 10, shape.Style{HasFill: true, Fill: paper.Gray(0)}), 5, 5, 1)

	out := EmitPage(page)
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg" width="100.0000" height="200.0000"`)
	assert.Contains(t, out, "<title>My Page</title>")
	assert.Contains(t, out, "<path d=")
	assert.Contains(t, out, "</svg>")
}

func TestCssColorRGB(t *testing.T) {
	assert.Equal(t, "rgb(10,20,30)", cssColor(paper.RGB(10, 20, 30)))
}
