// Package img implements the pixel-buffer model: a mutable row-major
// buffer in one of five channel kinds, lazy on-demand decompression from
// an opaque-encoded source, and the geometric/tonal operations (resize,
// blur, dither, rotate, flip, blit) named in the specification.
package img

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/go-paper/paper/perr"
)

// Kind names the supported channel layouts; channel counts are 1/2/3/4/4
// respectively.
type Kind int

const (
	KindGray Kind = iota
	KindGrayAlpha
	KindRGB
	KindRGBA
	KindCMYK
)

func (k Kind) Channels() int {
	switch k {
	case KindGray:
		return 1
	case KindGrayAlpha:
		return 2
	case KindRGB:
		return 3
	case KindRGBA, KindCMYK:
		return 4
	}
	return 0
}

// Image owns width/height/kind and a contiguous row-major pixel buffer,
// plus an optional lazily-decoded compressed source. Mutating Pix (via
// any of the ops in ops.go) invalidates and drops the cached source.
type Image struct {
	Width, Height int
	Kind          Kind
	Pix           []uint8

	source     []byte
	sourceKind sourceKind
	decoded    bool
}

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourcePNG
	sourceJPEG
	sourceBMP
	sourceTIFF
)

// New allocates a blank image buffer of the given kind and dimensions.
func New(kind Kind, width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Kind:   kind,
		Pix:    make([]uint8, width*height*kind.Channels()),
	}
}

// Open wraps raw encoded bytes as a lazily-decoded Image, recognising
// PNG/JPEG (the spec's named opaque codecs) plus BMP/TIFF (breadth
// carried over from the pack's own opaque-decoder usage). Decompression
// happens when Decode is called; Resize, Blur, Rotate, Adjust and Dither
// call it first, while Flip and Blit work on Pix as it is.
func Open(raw []byte) (*Image, error) {
	kind, err := sniff(raw)
	if err != nil {
		return nil, err
	}
	return &Image{source: raw, sourceKind: kind}, nil
}

func sniff(raw []byte) (sourceKind, error) {
	switch {
	case len(raw) >= 8 && bytes.Equal(raw[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}):
		return sourcePNG, nil
	case len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xD8:
		return sourceJPEG, nil
	case len(raw) >= 2 && raw[0] == 'B' && raw[1] == 'M':
		return sourceBMP, nil
	case len(raw) >= 4 && (bytes.Equal(raw[:4], []byte("II*\x00")) || bytes.Equal(raw[:4], []byte("MM\x00*"))):
		return sourceTIFF, nil
	default:
		return sourceNone, perr.New(perr.Malformed, "img.Open", "unrecognised image magic")
	}
}

// Decode forces decompression of a lazily-opened image's source,
// populating Width/Height/Kind/Pix. A no-op once already decoded.
func (im *Image) Decode() error {
	if im.decoded || im.source == nil {
		return nil
	}

	var src image.Image
	var err error
	switch im.sourceKind {
	case sourcePNG:
		src, err = png.Decode(bytes.NewReader(im.source))
	case sourceJPEG:
		src, err = jpeg.Decode(bytes.NewReader(im.source))
	case sourceBMP:
		src, err = bmp.Decode(bytes.NewReader(im.source))
	case sourceTIFF:
		src, err = tiff.Decode(bytes.NewReader(im.source))
	default:
		return perr.New(perr.Malformed, "img.Decode", "no recognised source to decode")
	}
	if err != nil {
		return perr.Wrap(perr.Malformed, "img.Decode", "decoding image source failed", err)
	}

	im.fromStdImage(src)
	im.decoded = true
	return nil
}

func (im *Image) fromStdImage(src image.Image) {
	bounds := src.Bounds()
	im.Width, im.Height = bounds.Dx(), bounds.Dy()

	_, hasAlpha := src.(*image.NRGBA)
	if hasAlpha {
		im.Kind = KindRGBA
	} else {
		im.Kind = KindRGB
	}
	n := im.Kind.Channels()
	im.Pix = make([]uint8, im.Width*im.Height*n)

	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := (y*im.Width + x) * n
			im.Pix[off] = uint8(r >> 8)
			im.Pix[off+1] = uint8(g >> 8)
			im.Pix[off+2] = uint8(b >> 8)
			if n == 4 {
				im.Pix[off+3] = uint8(a >> 8)
			}
		}
	}
}

// invalidateSource drops the cached compressed source; called by every
// mutating op.
func (im *Image) invalidateSource() {
	im.source = nil
	im.sourceKind = sourceNone
}

// ToStdImage exposes the buffer through the standard image.Image
// interface, for feeding to golang.org/x/image/draw and
// github.com/anthonynsimon/bild operations.
func (im *Image) ToStdImage() image.Image {
	switch im.Kind {
	case KindGray:
		out := image.NewGray(image.Rect(0, 0, im.Width, im.Height))
		copy(out.Pix, im.Pix)
		return out
	case KindGrayAlpha:
		out := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
		for i := 0; i < im.Width*im.Height; i++ {
			g, a := im.Pix[i*2], im.Pix[i*2+1]
			out.Pix[i*4], out.Pix[i*4+1], out.Pix[i*4+2], out.Pix[i*4+3] = g, g, g, a
		}
		return out
	case KindRGB:
		out := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
		for i := 0; i < im.Width*im.Height; i++ {
			copy(out.Pix[i*4:i*4+3], im.Pix[i*3:i*3+3])
			out.Pix[i*4+3] = 255
		}
		return out
	case KindRGBA:
		out := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
		copy(out.Pix, im.Pix)
		return out
	case KindCMYK:
		out := image.NewCMYK(image.Rect(0, 0, im.Width, im.Height))
		copy(out.Pix, im.Pix)
		return out
	}
	return nil
}

// FromStdImage replaces the buffer's contents from a standard
// image.Image, used by ops (Resize/Blur/Rotate) that delegate to
// external libraries returning a stdlib image.
func (im *Image) FromStdImage(src image.Image, kind Kind) {
	im.invalidateSource()
	im.Kind = kind
	im.fromStdImage(src)
}
