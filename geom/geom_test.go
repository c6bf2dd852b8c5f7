package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubicSplitClosure(t *testing.T) {
	c := Cubic{Pt{0, 0}, Pt{1, 2}, Pt{2, -1}, Pt{3, 0}}
	left, right := c.Split(0.37)

	assert.Equal(t, c.P0, left.P0)
	assert.Equal(t, c.P3, right.P3)
	assert.InDelta(t, left.P3.X, right.P0.X, 1e-12)
	assert.InDelta(t, left.P3.Y, right.P0.Y, 1e-12)

	got := c.Evaluate(0.37)
	assert.InDelta(t, got.X, left.P3.X, 1e-9)
	assert.InDelta(t, got.Y, left.P3.Y, 1e-9)
}

func TestCubicHalveMatchesSplitHalf(t *testing.T) {
	c := Cubic{Pt{0, 0}, Pt{1, 3}, Pt{4, 3}, Pt{5, 0}}
	left, right := c.Halve()
	l2, r2 := c.Split(0.5)
	assert.Equal(t, left, l2)
	assert.Equal(t, right, r2)
}

func TestChopCubicReconstructsOriginal(t *testing.T) {
	c := Cubic{Pt{0, 0}, Pt{1, 2}, Pt{2, -1}, Pt{3, 0}}
	left, right := c.Split(0.37)
	pieces := ChopCubic(c, []float64{0.37})
	require.Len(t, pieces, 2)

	for i := 0; i < 100; i++ {
		tp := float64(i) / 99
		want := c.Evaluate(0.37 + tp*(1-0.37))
		got := right.Evaluate(tp)
		assert.InDelta(t, want.X, got.X, 1e-9)
		assert.InDelta(t, want.Y, got.Y, 1e-9)
	}
	assert.Equal(t, left, pieces[0])
	assert.Equal(t, right, pieces[1])
}

func TestQuadBBoxContainsSamples(t *testing.T) {
	q := Quad{Pt{0, 0}, Pt{5, 10}, Pt{10, 0}}
	box := q.BBox()
	for i := 0; i <= 50; i++ {
		tp := float64(i) / 50
		p := q.Evaluate(tp)
		assert.True(t, box.Contains(p), "t=%v p=%v box=%v", tp, p, box)
	}
}

func TestCubicBBoxContainsSamples(t *testing.T) {
	c := Cubic{Pt{0, 0}, Pt{1, 10}, Pt{9, -10}, Pt{10, 0}}
	box := c.BBox()
	for i := 0; i <= 100; i++ {
		tp := float64(i) / 100
		p := c.Evaluate(tp)
		assert.True(t, box.Contains(p), "t=%v p=%v box=%v", tp, p, box)
	}
}

func TestInflections3WithinRange(t *testing.T) {
	c := Cubic{Pt{0, 0}, Pt{1, 1}, Pt{2, -1}, Pt{3, 0}}
	for _, tp := range c.Inflections3() {
		assert.True(t, tp > 0 && tp < 1)
	}
}

func TestElevateReduceRoundTrip(t *testing.T) {
	q := Quad{Pt{0, 0}, Pt{3, 6}, Pt{6, 0}}
	c := q.Elevate2()
	got := c.Reduce3()
	assert.InDelta(t, q.P0.X, got.P0.X, 1e-9)
	assert.InDelta(t, q.P1.X, got.P1.X, 1e-9)
	assert.InDelta(t, q.P1.Y, got.P1.Y, 1e-9)
	assert.InDelta(t, q.P2.X, got.P2.X, 1e-9)
}

func TestArc3QuarterCircle(t *testing.T) {
	r := 10.0
	p0 := Pt{r, 0}
	p3 := Pt{0, r}
	arc := Arc3(0, 0, p0, p3)

	mid := arc.Evaluate(0.5)
	dist := math.Hypot(mid.X, mid.Y)
	assert.InDelta(t, r, dist, 0.05)
}

func TestOffsetLineTranslatesByDistance(t *testing.T) {
	l := Line{Pt{0, 0}, Pt{10, 0}}
	off := OffsetLine(l, 2)
	assert.InDelta(t, 0, off.P0.X, 1e-9)
	assert.InDelta(t, 2, off.P0.Y, 1e-9)
	assert.InDelta(t, 10, off.P1.X, 1e-9)
	assert.InDelta(t, 2, off.P1.Y, 1e-9)
}

func TestSegments2PositiveForCurvedQuad(t *testing.T) {
	q := Quad{Pt{0, 0}, Pt{50, 100}, Pt{100, 0}}
	n := Segments2(q, 0.25)
	assert.Greater(t, n, 1)
}

func TestSegments2OneForStraightLineLikeQuad(t *testing.T) {
	q := Quad{Pt{0, 0}, Pt{5, 0}, Pt{10, 0}}
	n := Segments2(q, 0.25)
	assert.Equal(t, 1, n)
}

func TestSubdivideCubicSplitsSharpCorner(t *testing.T) {
	c := Cubic{Pt{0, 0}, Pt{10, 0}, Pt{10, 10}, Pt{0, 10}}
	pieces := SubdivideCubic(c, 0)
	assert.Greater(t, len(pieces), 1)
	assert.Equal(t, c.P0, pieces[0].P0)
	assert.Equal(t, c.P3, pieces[len(pieces)-1].P3)
}
