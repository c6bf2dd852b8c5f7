package paper

import (
	"github.com/go-paper/paper/img"
	"github.com/go-paper/paper/layout"
	"github.com/go-paper/paper/shape"
)

// Frame is the optional size box a placed text/image/group item may
// carry in addition to its position, used for frame-relative content
// (text reflow, image scaling).
type Frame struct {
	Width, Height float64
}

// Placed wraps exactly one of {Shape, Group, Text, Image} with a
// page-local position, effective scale and optional frame. Placed
// items are owned by exactly one page and are never shared.
type Placed struct {
	X, Y, K float64
	Frame   *Frame

	Shape *shape.Shape
	Group *shape.Group
	Text  *layout.PlacedText
	Image *img.Image
}

// Page owns its (width, height, scale, title) and an ordered list of
// placed items.
type Page struct {
	Width, Height, K float64
	Title            string
	Items            []*Placed
}

func newPage(width, height, k float64, title string) *Page {
	if k == 0 {
		k = 1
	}
	return &Page{Width: width, Height: height, K: k, Title: title}
}

func (p *Page) place(item *Placed) *Placed {
	p.Items = append(p.Items, item)
	return item
}

func (p *Page) PlaceShape(s shape.Shape, x, y, k float64) *Placed {
	if k == 0 {
		k = 1
	}
	return p.place(&Placed{Shape: &s, X: x, Y: y, K: k})
}

func (p *Page) PlaceGroup(g *shape.Group, x, y, k float64) *Placed {
	if k == 0 {
		k = 1
	}
	return p.place(&Placed{Group: g, X: x, Y: y, K: k})
}

func (p *Page) PlaceText(t *layout.PlacedText, x, y, width, height float64) *Placed {
	return p.place(&Placed{Text: t, X: x, Y: y, K: 1, Frame: &Frame{Width: width, Height: height}})
}

func (p *Page) PlaceImage(im *img.Image, x, y, width, height float64) *Placed {
	return p.place(&Placed{Image: im, X: x, Y: y, K: 1, Frame: &Frame{Width: width, Height: height}})
}
