package img

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, fill color.Gray) []byte {
	t.Helper()
	src := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.SetGray(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	return buf.Bytes()
}

func TestOpenDecodePNGRoundTrip(t *testing.T) {
	raw := encodePNG(t, 4, 3, color.Gray{Y: 200})

	im, err := Open(raw)
	require.NoError(t, err)
	assert.False(t, im.decoded)

	require.NoError(t, im.Decode())
	assert.Equal(t, 4, im.Width)
	assert.Equal(t, 3, im.Height)
	for _, v := range im.Pix {
		assert.Equal(t, uint8(200), v)
	}
}

func TestOpenRejectsUnrecognisedMagic(t *testing.T) {
	_, err := Open([]byte{0, 1, 2, 3})
	assert.Error(t, err)
}

func TestDecodeInvalidatesSourceOnMutation(t *testing.T) {
	raw := encodePNG(t, 2, 2, color.Gray{Y: 10})
	im, err := Open(raw)
	require.NoError(t, err)
	require.NoError(t, im.Decode())

	im.Flip(true, false)
	assert.Nil(t, im.source)
}

func TestFlipBothIsInvolutive(t *testing.T) {
	im := New(KindGray, 3, 2)
	for i := range im.Pix {
		im.Pix[i] = uint8(i)
	}
	orig := append([]uint8(nil), im.Pix...)

	im.Flip(true, true)
	assert.NotEqual(t, orig, im.Pix)

	im.Flip(true, true)
	assert.Equal(t, orig, im.Pix)
}

func TestFlipBothReversesMiddleRowOnOddHeight(t *testing.T) {
	im := New(KindGray, 3, 3)
	for i := range im.Pix {
		im.Pix[i] = uint8(i)
	}
	im.Flip(true, true)
	// Row 1 (values 3,4,5) is its own vertical pair and must still be
	// reversed horizontally to 5,4,3.
	assert.Equal(t, []uint8{5, 4, 3}, im.Pix[3:6])
}

func TestFlipHorizontalReversesRows(t *testing.T) {
	im := New(KindGray, 3, 1)
	im.Pix = []uint8{1, 2, 3}
	im.Flip(true, false)
	assert.Equal(t, []uint8{3, 2, 1}, im.Pix)
}

func TestBlitRejectsMismatchedKinds(t *testing.T) {
	dst := New(KindGray, 4, 4)
	src := New(KindRGB, 2, 2)
	err := dst.Blit(src, 0, 0)
	assert.Error(t, err)
}

func TestBlitCopiesRegion(t *testing.T) {
	dst := New(KindGray, 4, 4)
	src := New(KindGray, 2, 2)
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	require.NoError(t, dst.Blit(src, 1, 1))
	assert.Equal(t, uint8(255), dst.Pix[1*4+1])
	assert.Equal(t, uint8(255), dst.Pix[2*4+2])
	assert.Equal(t, uint8(0), dst.Pix[0])
}

func TestDitherRejectsOutOfRangeLevels(t *testing.T) {
	im := New(KindGray, 2, 2)
	assert.Error(t, im.Dither(1))
	assert.Error(t, im.Dither(257))
}

func TestDitherQuantizesToRequestedLevels(t *testing.T) {
	im := New(KindGray, 4, 4)
	for i := range im.Pix {
		im.Pix[i] = 128
	}
	require.NoError(t, im.Dither(2))
	for _, v := range im.Pix {
		assert.True(t, v == 0 || v == 255)
	}
}
