package font

import (
	"testing"

	"github.com/go-paper/paper/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutlineSegmentsLineAndQuad(t *testing.T) {
	o := Outline{Commands: []Command{
		moveTo(0, 0),
		lineTo(10, 0),
		quadTo(10, 10, 0, 10),
		closePath(),
	}}

	segs, err := o.Segments()
	require.NoError(t, err)
	require.Len(t, segs, 3)

	line, ok := segs[0].(geom.Line)
	require.True(t, ok)
	assert.Equal(t, geom.Pt{X: 0, Y: 0}, line.P0)
	assert.Equal(t, geom.Pt{X: 10, Y: 0}, line.P1)

	quad, ok := segs[1].(geom.Quad)
	require.True(t, ok)
	assert.Equal(t, geom.Pt{X: 10, Y: 10}, quad.P1)
	assert.Equal(t, geom.Pt{X: 0, Y: 10}, quad.P2)

	closing, ok := segs[2].(geom.Line)
	require.True(t, ok)
	assert.Equal(t, geom.Pt{X: 0, Y: 10}, closing.P0)
	assert.Equal(t, geom.Pt{X: 0, Y: 0}, closing.P1)
}

func TestOutlineSegmentsClosePathNoOpWhenAlreadyAtStart(t *testing.T) {
	o := Outline{Commands: []Command{
		moveTo(5, 5),
		lineTo(5, 5),
		closePath(),
	}}

	segs, err := o.Segments()
	require.NoError(t, err)
	// The explicit lineTo(5,5) already returns to start, so closePath
	// contributes no additional segment.
	require.Len(t, segs, 1)
}

func TestCffDictPairOperand(t *testing.T) {
	// FontMatrix-style operator (escape 1207) with two operands.
	d := parseCFFDict([]byte{140, 141, 12, 7})
	v, ok := d.pair(1207)
	require.True(t, ok)
	assert.Equal(t, [2]float64{1, 2}, v)
}
