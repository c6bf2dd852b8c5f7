package raster

import "github.com/go-paper/paper/perr"

// Buffer is a ready-to-use Target backed by a row-major pixel slice in
// one of the four supported channel layouts. CMYK/spot buffers are
// rejected at construction, since spec §4.3 requires rasterize() to
// fail for those kinds rather than silently accept them.
type Buffer struct {
	kind          Kind
	width, height int
	pix           []uint8
	channels      int
}

func NewBuffer(kind Kind, width, height int) (*Buffer, error) {
	channels, ok := map[Kind]int{KindGray: 1, KindGrayAlpha: 2, KindRGB: 3, KindRGBA: 4}[kind]
	if !ok {
		return nil, perr.New(perr.Unsupported, "raster.NewBuffer", "CMYK/spot rasterization is not supported")
	}
	return &Buffer{
		kind:     kind,
		width:    width,
		height:   height,
		channels: channels,
		pix:      make([]uint8, width*height*channels),
	}, nil
}

func (b *Buffer) Kind() Kind { return b.kind }

func (b *Buffer) Pix() []uint8 { return b.pix }

func (b *Buffer) Width() int { return b.width }

func (b *Buffer) Height() int { return b.height }

func (b *Buffer) Fill(comps Components) {
	for i := 0; i < b.width*b.height; i++ {
		copy(b.pix[i*b.channels:], comps)
	}
}

// Set composites comps into the pixel at (x,y) with the given coverage
// (0-255), per the spec's two blending regimes: straight alpha for the
// opaque kinds (g, rgb), Porter-Duff source-over for the alpha-carrying
// kinds (ga, rgba) using a pre-combined source alpha of `srcAlpha *
// coverage`.
func (b *Buffer) Set(x, y int, cov uint8, comps Components) error {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil
	}
	off := (y*b.width + x) * b.channels

	switch b.kind {
	case KindGray:
		b.pix[off] = blend8(b.pix[off], comps[0], cov)

	case KindRGB:
		for c := 0; c < 3; c++ {
			b.pix[off+c] = blend8(b.pix[off+c], comps[c], cov)
		}

	case KindGrayAlpha:
		srcAlpha := mul8(comps[1], cov)
		dstAlpha := b.pix[off+1]
		outAlpha := srcAlpha + mul8(dstAlpha, 255-srcAlpha)
		b.pix[off] = porterDuffOver(b.pix[off], comps[0], srcAlpha, dstAlpha, outAlpha)
		b.pix[off+1] = outAlpha

	case KindRGBA:
		srcAlpha := mul8(comps[3], cov)
		dstAlpha := b.pix[off+3]
		outAlpha := srcAlpha + mul8(dstAlpha, 255-srcAlpha)
		for c := 0; c < 3; c++ {
			b.pix[off+c] = porterDuffOver(b.pix[off+c], comps[c], srcAlpha, dstAlpha, outAlpha)
		}
		b.pix[off+3] = outAlpha
	}
	return nil
}

func mul8(a, b uint8) uint8 { return uint8(uint32(a) * uint32(b) / 255) }

func blend8(dst, src, cov uint8) uint8 {
	return uint8((uint32(src)*uint32(cov) + uint32(dst)*uint32(255-cov)) / 255)
}

// porterDuffOver composites src (with srcAlpha) over dst (with dstAlpha)
// into a pixel carrying outAlpha, using the standard un-premultiplied
// source-over formula, truncated to an 8-bit value by integer division
// as in mul8 and blend8.
func porterDuffOver(dst, src, srcAlpha, dstAlpha, outAlpha uint8) uint8 {
	if outAlpha == 0 {
		return 0
	}
	num := uint32(src)*uint32(srcAlpha)*255 + uint32(dst)*uint32(dstAlpha)*uint32(255-srcAlpha)
	return uint8(num / (uint32(outAlpha) * 255))
}
