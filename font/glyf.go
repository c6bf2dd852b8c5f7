package font

import "github.com/go-paper/paper/perr"

const (
	glyfArg1And2AreWords flagGlyf = 1 << iota
	glyfArgsAreXYValues
	glyfRoundXYToGrid
	glyfWeHaveAScale
	glyfObsolete
	glyfMoreComponents
	glyfWeHaveAnXAndYScale
	glyfWeHaveATwoByTwo
	glyfWeHaveInstructions
	glyfUseMyMetrics
	glyfOverlapCompound
	glyfScaledComponentOffset
	glyfUnscaledComponentOffset
)

type flagGlyf u16

func (flag flagGlyf) test(flags u16) bool { return flagGlyf(flags)&flag == flag }

const (
	onCurvePoint = 1 << iota
	xShortVector
	yShortVector
	repeatFlag
	xIsSameOrPositive
	yIsSameOrPositive
)

type affine struct{ a, b, c, d, e, f f32 }

func identity() affine { return affine{a: 1, d: 1} }

func (m affine) apply(x, y f32) (f32, f32) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// decodeGlyf decodes gid's outline from the glyf table, recursing into
// composite glyph components up to a fixed depth to guard against
// reference cycles.
func (f *Font) decodeGlyf(gid u16, depth int) (Outline, error) {
	if depth > 8 {
		return Outline{}, perr.New(perr.Malformed, "font.decodeGlyf", "composite glyph nesting too deep")
	}

	r := NewReader(f.raw)
	r.Tables = f.tables
	offset, length := r.glyfLocation(gid, f.LocaFormat)
	if length == 0 {
		return Outline{}, nil
	}

	r.seekTo(r.Tables.Glyf.Ptr + offset)
	nContours := r.i16()
	if nContours >= 0 {
		return decodeSimpleGlyf(&r, int(nContours))
	}
	return f.decodeCompositeGlyf(&r, depth)
}

func decodeSimpleGlyf(r *Reader, nContours int) (Outline, error) {
	endPts := make([]u16, nContours)
	r.skip(8) // xMin, yMin, xMax, yMax
	for i := range nContours {
		endPts[i] = r.u16()
	}
	numPoints := 0
	if nContours > 0 {
		numPoints = int(endPts[nContours-1]) + 1
	}

	instrLen := r.u16()
	r.skip(u32(instrLen))

	flags := make([]u8, numPoints)
	for i := 0; i < numPoints; {
		flag := r.u8()
		flags[i] = flag
		i++
		if flag&repeatFlag != 0 {
			repeat := r.u8()
			for j := u8(0); j < repeat && i < numPoints; j++ {
				flags[i] = flag
				i++
			}
		}
	}

	xs := make([]i32, numPoints)
	x := i32(0)
	for i := 0; i < numPoints; i++ {
		flag := flags[i]
		switch {
		case flag&xShortVector != 0:
			d := i32(r.u8())
			if flag&xIsSameOrPositive == 0 {
				d = -d
			}
			x += d
		case flag&xIsSameOrPositive == 0:
			x += i32(r.i16())
		}
		xs[i] = x
	}

	ys := make([]i32, numPoints)
	y := i32(0)
	for i := 0; i < numPoints; i++ {
		flag := flags[i]
		switch {
		case flag&yShortVector != 0:
			d := i32(r.u8())
			if flag&yIsSameOrPositive == 0 {
				d = -d
			}
			y += d
		case flag&yIsSameOrPositive == 0:
			y += i32(r.i16())
		}
		ys[i] = y
	}

	var cmds []Command
	start := 0
	for _, end := range endPts {
		cmds = append(cmds, contourCommands(flags[start:end+1], xs[start:end+1], ys[start:end+1])...)
		start = int(end) + 1
	}

	return Outline{Commands: cmds}, nil
}

// contourCommands expands one contour's on/off-curve point list into
// moveto/lineto/quadto commands, synthesising the implicit on-curve
// midpoint between two consecutive off-curve points, and terminates with
// closepath.
func contourCommands(flags []u8, xs, ys []i32) []Command {
	n := len(flags)
	if n == 0 {
		return nil
	}

	pt := func(i int) (f32, f32) { return f32(xs[i]), f32(ys[i]) }
	onCurve := func(i int) bool { return flags[i]&onCurvePoint != 0 }

	// Find a starting on-curve point, synthesising one if none exists.
	startIdx := -1
	for i := range n {
		if onCurve(i) {
			startIdx = i
			break
		}
	}

	var cmds []Command
	var startX, startY f32
	var pendingOffX, pendingOffY f32
	hasPending := false
	if startIdx == -1 {
		// Start at the implied midpoint of the last and first off-curve
		// points; the first point is then the pending control point.
		x0, y0 := pt(0)
		x1, y1 := pt(n - 1)
		startX, startY = (x0+x1)/2, (y0+y1)/2
		startIdx = 0
		pendingOffX, pendingOffY = x0, y0
		hasPending = true
	} else {
		startX, startY = pt(startIdx)
	}
	cmds = append(cmds, moveTo(startX, startY))

	curX, curY := startX, startY

	emit := func(onX, onY f32, isOn bool) {
		if isOn {
			if hasPending {
				cmds = append(cmds, quadTo(pendingOffX, pendingOffY, onX, onY))
				hasPending = false
			} else {
				cmds = append(cmds, lineTo(onX, onY))
			}
			curX, curY = onX, onY
			return
		}
		if hasPending {
			midX, midY := (pendingOffX+onX)/2, (pendingOffY+onY)/2
			cmds = append(cmds, quadTo(pendingOffX, pendingOffY, midX, midY))
			curX, curY = midX, midY
		}
		pendingOffX, pendingOffY = onX, onY
		hasPending = true
	}

	for step := 1; step <= n; step++ {
		i := (startIdx + step) % n
		x, y := pt(i)
		if step == n {
			// Closing back to the synthesized/real start point.
			if hasPending {
				cmds = append(cmds, quadTo(pendingOffX, pendingOffY, startX, startY))
				hasPending = false
			} else if curX != startX || curY != startY {
				cmds = append(cmds, lineTo(startX, startY))
			}
			break
		}
		emit(x, y, onCurve(i))
	}

	cmds = append(cmds, closePath())
	return cmds
}

func (f *Font) decodeCompositeGlyf(r *Reader, depth int) (Outline, error) {
	r.skip(8) // xMin, yMin, xMax, yMax

	var cmds []Command
	for {
		flags := r.u16()
		componentGid := r.u16()

		var dx, dy f32
		var arg1, arg2 i32
		if glyfArg1And2AreWords.test(flags) {
			arg1, arg2 = i32(r.i16()), i32(r.i16())
		} else {
			arg1, arg2 = i32(int8(r.u8())), i32(int8(r.u8()))
		}
		if glyfArgsAreXYValues.test(flags) {
			dx, dy = f32(arg1), f32(arg2)
		}

		m := identity()
		switch {
		case glyfWeHaveAScale.test(flags):
			s := f2dot14(r.i16())
			m.a, m.d = s, s
		case glyfWeHaveAnXAndYScale.test(flags):
			m.a = f2dot14(r.i16())
			m.d = f2dot14(r.i16())
		case glyfWeHaveATwoByTwo.test(flags):
			m.a = f2dot14(r.i16())
			m.b = f2dot14(r.i16())
			m.c = f2dot14(r.i16())
			m.d = f2dot14(r.i16())
		}

		if f.scaledComponentOffset {
			dx, dy = m.a*dx+m.c*dy, m.b*dx+m.d*dy
		}
		m.e, m.f = dx, dy

		sub, err := f.decodeGlyf(componentGid, depth+1)
		if err != nil {
			return Outline{}, err
		}
		cmds = append(cmds, transformCommands(sub.Commands, m)...)

		if !glyfMoreComponents.test(flags) {
			break
		}
	}

	return Outline{Commands: cmds}, nil
}

func f2dot14(v i16) f32 { return f32(v) / (1 << 14) }

func transformCommands(cmds []Command, m affine) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		switch c.Kind {
		case CmdMoveTo, CmdLineTo:
			x, y := m.apply(c.X, c.Y)
			out[i] = Command{Kind: c.Kind, X: x, Y: y}
		case CmdQuadTo:
			x1, y1 := m.apply(c.X1, c.Y1)
			x, y := m.apply(c.X, c.Y)
			out[i] = Command{Kind: c.Kind, X1: x1, Y1: y1, X: x, Y: y}
		case CmdCurveTo:
			x1, y1 := m.apply(c.X1, c.Y1)
			x2, y2 := m.apply(c.X2, c.Y2)
			x, y := m.apply(c.X, c.Y)
			out[i] = Command{Kind: c.Kind, X1: x1, Y1: y1, X2: x2, Y2: y2, X: x, Y: y}
		case CmdClosePath:
			out[i] = c
		}
	}
	return out
}
