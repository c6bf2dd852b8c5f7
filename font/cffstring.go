package font

import "github.com/go-paper/paper/perr"

// cffInterp executes a Type 2 CharString program, accumulating outline
// commands on a moving current point. Width parsing is recognised (an
// odd leading operand on the first stem/moveto/endchar operator) but
// discarded, since advances come from hmtx.
type cffInterp struct {
	global, local   [][]byte
	gbias, lbias    int
	stack           []f32
	x, y            f32
	nStems          int
	widthParsed     bool
	cmds            []Command
	open            bool
	depth           int
}

const cffMaxDepth = 10

func (c *cffInterp) run(code []byte) (Outline, error) {
	if err := c.exec(code); err != nil {
		return Outline{}, err
	}
	if c.open {
		c.cmds = append(c.cmds, closePath())
	}
	return Outline{Commands: c.cmds}, nil
}

func (c *cffInterp) push(v f32) { c.stack = append(c.stack, v) }

func (c *cffInterp) clear() { c.stack = c.stack[:0] }

// takeWidth consumes a leading width operand, present only on the first
// stem/moveto/endchar operator of a CharString, when it carries one more
// operand than the operator's natural arity expects.
func (c *cffInterp) takeWidth(wantParity int) {
	if c.widthParsed {
		return
	}
	c.widthParsed = true
	if len(c.stack)%2 != wantParity {
		c.stack = c.stack[1:]
	}
}

func (c *cffInterp) moveTo(dx, dy f32) {
	if c.open {
		c.cmds = append(c.cmds, closePath())
	}
	c.x += dx
	c.y += dy
	c.cmds = append(c.cmds, moveTo(c.x, c.y))
	c.open = true
}

func (c *cffInterp) lineTo(dx, dy f32) {
	c.x += dx
	c.y += dy
	c.cmds = append(c.cmds, lineTo(c.x, c.y))
}

func (c *cffInterp) curveTo(dx1, dy1, dx2, dy2, dx3, dy3 f32) {
	x1, y1 := c.x+dx1, c.y+dy1
	x2, y2 := x1+dx2, y1+dy2
	c.x, c.y = x2+dx3, y2+dy3
	c.cmds = append(c.cmds, curveTo(x1, y1, x2, y2, c.x, c.y))
}

func (c *cffInterp) exec(code []byte) error {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > cffMaxDepth {
		return perr.New(perr.Malformed, "font.cff.exec", "subroutine nesting too deep")
	}

	i := 0
	for i < len(code) {
		b0 := code[i]

		if b0 >= 32 || b0 == 28 {
			v, n := cffReadOperand(code[i:])
			c.push(v)
			i += n
			continue
		}

		i++
		op := int(b0)
		if b0 == 12 { // two-byte escape: the operator is 1200 + the next byte
			if i >= len(code) {
				return perr.New(perr.Malformed, "font.cff.exec", "truncated escape operator")
			}
			op = 1200 + int(code[i])
			i++
		}
		switch op {
		case 1, 3, 18, 23: // hstem, vstem, hstemhm, vstemhm
			c.takeWidth(0)
			c.nStems += len(c.stack) / 2
			c.clear()

		case 19, 20: // hintmask, cntrmask
			c.takeWidth(0)
			c.nStems += len(c.stack) / 2
			c.clear()
			i += (c.nStems + 7) / 8

		case 21: // rmoveto
			c.takeWidth(0)
			if len(c.stack) < 2 {
				return perr.New(perr.Malformed, "font.cff.exec", "rmoveto: too few operands")
			}
			c.moveTo(c.stack[0], c.stack[1])
			c.clear()

		case 22: // hmoveto
			c.takeWidth(1)
			if len(c.stack) < 1 {
				return perr.New(perr.Malformed, "font.cff.exec", "hmoveto: too few operands")
			}
			c.moveTo(c.stack[0], 0)
			c.clear()

		case 4: // vmoveto
			c.takeWidth(1)
			if len(c.stack) < 1 {
				return perr.New(perr.Malformed, "font.cff.exec", "vmoveto: too few operands")
			}
			c.moveTo(0, c.stack[0])
			c.clear()

		case 5: // rlineto
			for j := 0; j+1 < len(c.stack); j += 2 {
				c.lineTo(c.stack[j], c.stack[j+1])
			}
			c.clear()

		case 6: // hlineto
			c.altLineTo(true)
			c.clear()

		case 7: // vlineto
			c.altLineTo(false)
			c.clear()

		case 8: // rrcurveto
			for j := 0; j+5 < len(c.stack); j += 6 {
				s := c.stack[j:]
				c.curveTo(s[0], s[1], s[2], s[3], s[4], s[5])
			}
			c.clear()

		case 24: // rcurveline
			j := 0
			for ; j+5 < len(c.stack)-2; j += 6 {
				s := c.stack[j:]
				c.curveTo(s[0], s[1], s[2], s[3], s[4], s[5])
			}
			if j+1 < len(c.stack) {
				c.lineTo(c.stack[j], c.stack[j+1])
			}
			c.clear()

		case 25: // rlinecurve
			j := 0
			for ; j+1 < len(c.stack)-6; j += 2 {
				c.lineTo(c.stack[j], c.stack[j+1])
			}
			if j+5 < len(c.stack) {
				s := c.stack[j:]
				c.curveTo(s[0], s[1], s[2], s[3], s[4], s[5])
			}
			c.clear()

		case 26: // vvcurveto
			c.vvCurveTo()
			c.clear()

		case 27: // hhcurveto
			c.hhCurveTo()
			c.clear()

		case 30: // vhcurveto
			c.altCurveTo(false)
			c.clear()

		case 31: // hvcurveto
			c.altCurveTo(true)
			c.clear()

		case 1234: // hflex (12 34)
			c.hflex()
			c.clear()

		case 1235: // flex (12 35)
			c.flex()
			c.clear()

		case 1236: // hflex1 (12 36)
			c.hflex1()
			c.clear()

		case 1237: // flex1 (12 37)
			c.flex1()
			c.clear()

		case 10: // callsubr
			if len(c.stack) == 0 {
				return perr.New(perr.Malformed, "font.cff.exec", "callsubr: empty stack")
			}
			idx := int(c.stack[len(c.stack)-1]) + c.lbias
			c.stack = c.stack[:len(c.stack)-1]
			if idx < 0 || idx >= len(c.local) {
				return perr.New(perr.Malformed, "font.cff.exec", "callsubr: index out of range")
			}
			if err := c.exec(c.local[idx]); err != nil {
				return err
			}

		case 29: // callgsubr
			if len(c.stack) == 0 {
				return perr.New(perr.Malformed, "font.cff.exec", "callgsubr: empty stack")
			}
			idx := int(c.stack[len(c.stack)-1]) + c.gbias
			c.stack = c.stack[:len(c.stack)-1]
			if idx < 0 || idx >= len(c.global) {
				return perr.New(perr.Malformed, "font.cff.exec", "callgsubr: index out of range")
			}
			if err := c.exec(c.global[idx]); err != nil {
				return err
			}

		case 11: // return
			return nil

		case 14: // endchar
			c.takeWidth(0)
			c.clear()
			return nil

		default:
			if op >= 1200 { // other escapes: arithmetic/storage/conditional ops, unsupported
				return perr.New(perr.Unsupported, "font.cff.exec", "arithmetic/storage/conditional operators are not supported")
			}
			return perr.New(perr.Unsupported, "font.cff.exec", "unrecognized CharString operator")
		}
	}
	return nil
}

func (c *cffInterp) altLineTo(startHoriz bool) {
	horiz := startHoriz
	for _, v := range c.stack {
		if horiz {
			c.lineTo(v, 0)
		} else {
			c.lineTo(0, v)
		}
		horiz = !horiz
	}
}

func (c *cffInterp) vvCurveTo() {
	s := c.stack
	dx1 := f32(0)
	if len(s)%4 == 1 {
		dx1 = s[0]
		s = s[1:]
	}
	for j := 0; j+3 < len(s); j += 4 {
		c.curveTo(dx1, s[j], s[j+1], s[j+2], 0, s[j+3])
		dx1 = 0
	}
}

func (c *cffInterp) hhCurveTo() {
	s := c.stack
	dy1 := f32(0)
	if len(s)%4 == 1 {
		dy1 = s[0]
		s = s[1:]
	}
	for j := 0; j+3 < len(s); j += 4 {
		c.curveTo(s[j], dy1, s[j+1], s[j+2], s[j+3], 0)
		dy1 = 0
	}
}

// altCurveTo implements both vhcurveto (startHoriz=false) and hvcurveto
// (startHoriz=true): alternating curve segments whose tangent at the
// start/end is axis-aligned.
func (c *cffInterp) altCurveTo(startHoriz bool) {
	s := c.stack
	horiz := startHoriz
	for len(s) >= 4 {
		last := len(s) == 5
		if horiz {
			dx1, dx2, dy2, dy3 := s[0], s[1], s[2], s[3]
			dx3 := f32(0)
			if last {
				dx3 = s[4]
			}
			c.curveTo(dx1, 0, dx2, dy2, dx3, dy3)
		} else {
			dy1, dx2, dy2, dx3 := s[0], s[1], s[2], s[3]
			dy3 := f32(0)
			if last {
				dy3 = s[4]
			}
			c.curveTo(0, dy1, dx2, dy2, dx3, dy3)
		}
		if last {
			s = s[5:]
		} else {
			s = s[4:]
		}
		horiz = !horiz
	}
}

func (c *cffInterp) hflex() {
	if len(c.stack) < 7 {
		return
	}
	s := c.stack
	y0 := c.y
	c.curveTo(s[0], 0, s[1], s[2], s[3], 0)
	c.curveTo(s[4], 0, s[5], y0-c.y, s[6], 0)
}

func (c *cffInterp) flex() {
	if len(c.stack) < 13 {
		return
	}
	s := c.stack
	c.curveTo(s[0], s[1], s[2], s[3], s[4], s[5])
	c.curveTo(s[6], s[7], s[8], s[9], s[10], s[11])
}

func (c *cffInterp) hflex1() {
	if len(c.stack) < 9 {
		return
	}
	s := c.stack
	y0 := c.y
	c.curveTo(s[0], s[1], s[2], s[3], s[4], 0)
	c.curveTo(s[5], 0, s[6], s[7], s[8], y0-c.y-s[7])
}

func (c *cffInterp) flex1() {
	if len(c.stack) < 11 {
		return
	}
	s := c.stack
	x0, y0 := c.x, c.y
	c.curveTo(s[0], s[1], s[2], s[3], s[4], s[5])
	dxSum := s[0] + s[2] + s[4] + s[6] + s[8]
	dySum := s[1] + s[3] + s[5] + s[7] + s[9]
	if abs32(dxSum) > abs32(dySum) {
		c.curveTo(s[6], s[7], s[8], s[9], s[10], y0-(c.y+s[7]+s[9]))
	} else {
		c.curveTo(s[6], s[7], s[8], s[9], x0-(c.x+s[6]+s[8]), s[10])
	}
}

func abs32(v f32) f32 {
	if v < 0 {
		return -v
	}
	return v
}

// cffReadOperand decodes one operand starting at data[0], returning its
// value and the number of bytes consumed.
func cffReadOperand(data []byte) (f32, int) {
	b0 := data[0]
	switch {
	case b0 == 28:
		v := i16(u16(data[1])<<8 | u16(data[2]))
		return f32(v), 3
	case b0 == 255:
		v := i32(u32(data[1])<<24 | u32(data[2])<<16 | u32(data[3])<<8 | u32(data[4]))
		return f32(v) / 65536, 5
	case b0 >= 32 && b0 <= 246:
		return f32(int(b0) - 139), 1
	case b0 >= 247 && b0 <= 250:
		return f32((int(b0)-247)*256 + int(data[1]) + 108), 2
	case b0 >= 251 && b0 <= 254:
		return f32(-(int(b0)-251)*256 - int(data[1]) - 108), 2
	default:
		return 0, 1
	}
}
