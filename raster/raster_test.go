package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterizeFilledSquareFullCoverage(t *testing.T) {
	r := New(20, 20)
	r.MoveTo(5, 5)
	r.LineTo(15, 5)
	r.LineTo(15, 15)
	r.LineTo(5, 15)
	r.ClosePath()

	buf, err := NewBuffer(KindGray, 20, 20)
	require.NoError(t, err)
	buf.Fill(Components{255})

	err = r.Rasterize(buf, Components{0})
	require.NoError(t, err)

	for y := 6; y < 14; y++ {
		for x := 6; x < 14; x++ {
			assert.Equal(t, uint8(0), buf.Pix()[y*20+x], "pixel (%d,%d) should be fully painted", x, y)
		}
	}
	assert.Equal(t, uint8(255), buf.Pix()[0])
}

func TestRasterizeZeroWidthStrokeProducesNoPaint(t *testing.T) {
	r := New(10, 10)
	r.StrokePath(nil, 0, false, JoinMiter, CapButt, 4)

	buf, err := NewBuffer(KindGray, 10, 10)
	require.NoError(t, err)
	buf.Fill(Components{255})

	err = r.Rasterize(buf, Components{0})
	require.NoError(t, err)

	for _, v := range buf.Pix() {
		assert.Equal(t, uint8(255), v)
	}
}

func TestNewBufferRejectsUnsupportedKind(t *testing.T) {
	_, err := NewBuffer(Kind(99), 4, 4)
	assert.Error(t, err)
}
