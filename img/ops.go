package img

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"

	"github.com/go-paper/paper/perr"
)

// Resize scales the image to width×height using a Catmull-Rom resampler.
func (im *Image) Resize(width, height int) error {
	if err := im.Decode(); err != nil {
		return err
	}
	src := im.ToStdImage()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	im.FromStdImage(dst, KindRGBA)
	return nil
}

// Blur applies a Gaussian blur of the given radius (in pixels).
func (im *Image) Blur(radius float64) error {
	if err := im.Decode(); err != nil {
		return err
	}
	out := blur.Gaussian(im.ToStdImage(), radius)
	im.FromStdImage(out, KindRGBA)
	return nil
}

// Rotate rotates the image by the given angle in degrees, clockwise.
// Multiples of 90 degrees are exact (no resampling artefacts);
// arbitrary angles are resampled bilinearly.
func (im *Image) Rotate(degrees float64) error {
	if err := im.Decode(); err != nil {
		return err
	}

	norm := math.Mod(degrees, 360)
	if norm < 0 {
		norm += 360
	}

	var out image.Image
	switch norm {
	case 0:
		return nil
	case 90, 180, 270:
		out = transform.Rotate(im.ToStdImage(), norm, nil)
	default:
		out = transform.Rotate(im.ToStdImage(), norm, &transform.RotationOptions{ResizeBounds: true})
	}
	im.FromStdImage(out, KindRGBA)
	return nil
}

// Adjust applies a grayscale tonal adjustment, per the spec's "Adjust"
// op naming: when grayscale is true every pixel becomes its luma
// (0.299R + 0.587G + 0.114B, alpha kept) through a local per-pixel
// conversion, not a bild transform; when false the image is unchanged.
func (im *Image) Adjust(grayscale bool) error {
	if !grayscale {
		return nil
	}
	if err := im.Decode(); err != nil {
		return err
	}
	out := grayscaleNRGBA(im.ToStdImage())
	im.FromStdImage(out, KindRGBA)
	return nil
}

func grayscaleNRGBA(src image.Image) image.Image {
	bounds := src.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			l := uint8((299*r + 587*g + 114*b) / 1000 >> 8)
			out.Set(x, y, image.NRGBA{l, l, l, uint8(a >> 8)})
		}
	}
	return out
}

// bayer4 is the standard 4x4 ordered-dither threshold matrix, entries
// 0-15; Dither divides each by 16 for a threshold in [0,1).
var bayer4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// Dither quantizes the image to `levels` values per channel using an
// ordered Bayer-matrix dither; levels outside [2,256] is a programmer
// error per spec §7.
func (im *Image) Dither(levels int) error {
	if levels < 2 || levels > 256 {
		return perr.New(perr.Invalid, "img.Dither", "dither levels must be within [2,256]")
	}
	if err := im.Decode(); err != nil {
		return err
	}

	n := im.Kind.Channels()
	step := 255.0 / float64(levels-1)

	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			threshold := float64(bayer4[y%4][x%4]) / 16.0
			off := (y*im.Width + x) * n
			for c := 0; c < n; c++ {
				if n == 4 && c == 3 {
					continue // alpha is never dithered
				}
				v := float64(im.Pix[off+c])
				q := math.Floor(v/step+threshold) * step
				if q > 255 {
					q = 255
				}
				if q < 0 {
					q = 0
				}
				im.Pix[off+c] = uint8(q)
			}
		}
	}

	im.invalidateSource()
	return nil
}

// Flip mirrors the image horizontally and/or vertically in place.
// Flip(true, true) is involutive.
func (im *Image) Flip(horizontal, vertical bool) {
	if !horizontal && !vertical {
		return
	}
	n := im.Kind.Channels()
	for y := 0; y < im.Height; y++ {
		ySrc := y
		if vertical {
			ySrc = im.Height - 1 - y
		}
		if vertical && y > ySrc {
			continue // this row pair was already swapped from the other side
		}

		// An odd-height vertical flip leaves its middle row paired with
		// itself: it still needs its own horizontal reversal, just not
		// a cross-row swap, so only the inner break condition changes.
		selfPairedRow := vertical && y == ySrc

		for x := 0; x < im.Width; x++ {
			xSrc := x
			if horizontal {
				xSrc = im.Width - 1 - x
			}
			if selfPairedRow && x >= xSrc {
				break
			}
			if !selfPairedRow && !vertical && horizontal && x >= xSrc {
				break
			}
			aOff := (y*im.Width + x) * n
			bOff := (ySrc*im.Width + xSrc) * n
			for c := 0; c < n; c++ {
				im.Pix[aOff+c], im.Pix[bOff+c] = im.Pix[bOff+c], im.Pix[aOff+c]
			}
		}
	}
	im.invalidateSource()
}

// Blit copies src's pixels onto im at (x,y), overwriting them without
// alpha blending and clipping to im's bounds; the two images must share
// the same kind, or this is a programmer error per spec §7.
func (im *Image) Blit(src *Image, x, y int) error {
	if src.Kind != im.Kind {
		return perr.New(perr.Invalid, "img.Blit", "mismatched image kinds")
	}
	n := im.Kind.Channels()
	for sy := 0; sy < src.Height; sy++ {
		dy := y + sy
		if dy < 0 || dy >= im.Height {
			continue
		}
		for sx := 0; sx < src.Width; sx++ {
			dx := x + sx
			if dx < 0 || dx >= im.Width {
				continue
			}
			srcOff := (sy*src.Width + sx) * n
			dstOff := (dy*im.Width + dx) * n
			copy(im.Pix[dstOff:dstOff+n], src.Pix[srcOff:srcOff+n])
		}
	}
	im.invalidateSource()
	return nil
}
