package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-paper/paper"
	"github.com/go-paper/paper/img"
	"github.com/go-paper/paper/shape"
	"github.com/stretchr/testify/assert"
)

func testImage() *img.Image {
	return img.New(img.KindRGB, 4, 4)
}

func TestEmitPageFilledRect(t *testing.T) {
	doc := paper.NewDocument("t")
	page := doc.AddPage(100, 100, 1, "")
	page.PlaceShape(shape.Rect(10, 10, 20, 20, shape.Style{HasFill: true, Fill: paper.RGB(255, 0, 0)}), 0, 0, 1)

	var buf bytes.Buffer
	res := EmitPage(&buf, page)

	assert.Contains(t, buf.String(), " m\n")
	assert.Contains(t, buf.String(), " l\n")
	assert.Contains(t, buf.String(), "f\n")
	assert.NotNil(t, res)
}

func TestEmitPageRegistersImageOnce(t *testing.T) {
	doc := paper.NewDocument("t")
	page := doc.AddPage(100, 100, 1, "")
	im := testImage()
	page.PlaceImage(im, 0, 0, 50, 50)
	page.PlaceImage(im, 10, 10, 50, 50)

	var buf bytes.Buffer
	res := EmitPage(&buf, page)
	assert.Equal(t, 1, len(res.images))
	assert.Equal(t, strings.Count(buf.String(), "/Im1 Do"), 2)
}
