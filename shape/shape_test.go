package shape

import (
	"testing"

	"github.com/go-paper/paper/geom"
	"github.com/stretchr/testify/assert"
)

func TestRectCommandStream(t *testing.T) {
	s := Rect(0, 0, 10, 20, Style{})
	assert.Len(t, s.Commands, 5)
	assert.Equal(t, OpClosePath, s.Commands[len(s.Commands)-1].Op)
}

func TestShapeBBox(t *testing.T) {
	s := Rect(1, 2, 10, 20, Style{})
	box := s.BBox()
	assert.Equal(t, geom.Pt{X: 1, Y: 2}, box.Min)
	assert.Equal(t, geom.Pt{X: 11, Y: 22}, box.Max)
}

func TestGroupFlattenComposesTransforms(t *testing.T) {
	inner := NewGroup().WithTransform(Translate(5, 0))
	inner.Add(Rect(0, 0, 1, 1, Style{}))

	outer := NewGroup().WithTransform(Translate(0, 10))
	outer.Add(inner)

	placed := outer.Flatten()
	assert.Len(t, placed, 1)
	p := placed[0].Transform.Apply(geom.Pt{X: 0, Y: 0})
	assert.Equal(t, geom.Pt{X: 5, Y: 10}, p)
}

func TestMatrixMulIdentity(t *testing.T) {
	m := Translate(3, 4)
	assert.Equal(t, m, m.Mul(Identity))
	assert.Equal(t, m, Identity.Mul(m))
}
