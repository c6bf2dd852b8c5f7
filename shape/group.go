package shape

import "github.com/go-paper/paper/geom"

// Matrix is a 2-D affine transform, in the same [a b c d e f] layout
// the teacher's PDF content-stream writer uses for `cm` operators:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the no-op transform.
var Identity = Matrix{A: 1, D: 1}

// Apply transforms a point by the matrix.
func (m Matrix) Apply(p geom.Pt) geom.Pt {
	return geom.Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Mul composes m then n (n is applied to the already-m-transformed
// point), matching the usual "child transform times parent transform"
// nesting order used when a Group holds nested Groups.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
		E: m.E*n.A + m.F*n.C + n.E,
		F: m.E*n.B + m.F*n.D + n.F,
	}
}

func Translate(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }

func Scale(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// Child is anything a Group can hold: a Shape or another Group.
type Child interface{ isChild() }

func (Shape) isChild() {}
func (*Group) isChild() {}

// Group nests shapes and sub-groups under a shared transform, composed
// with any enclosing group's transform at emission time.
type Group struct {
	Transform Matrix
	Children  []Child
}

func NewGroup() *Group { return &Group{Transform: Identity} }

func (g *Group) Add(c Child) *Group {
	g.Children = append(g.Children, c)
	return g
}

func (g *Group) WithTransform(m Matrix) *Group {
	g.Transform = m
	return g
}

// Flatten walks the group tree, composing transforms, and returns each
// leaf shape paired with its total effective transform.
func (g *Group) Flatten() []PlacedShape {
	return g.flatten(Identity)
}

func (g *Group) flatten(parent Matrix) []PlacedShape {
	effective := g.Transform.Mul(parent)
	var out []PlacedShape
	for _, c := range g.Children {
		switch v := c.(type) {
		case Shape:
			out = append(out, PlacedShape{Shape: v, Transform: effective})
		case *Group:
			out = append(out, v.flatten(effective)...)
		}
	}
	return out
}

// PlacedShape is a leaf shape paired with the fully-composed transform
// of every enclosing group.
type PlacedShape struct {
	Shape     Shape
	Transform Matrix
}
