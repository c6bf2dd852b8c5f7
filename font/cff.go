package font

import "github.com/go-paper/paper/perr"

// cffTable holds the parsed INDEX structures needed to decode Type 2
// CharStrings: the CharStrings INDEX itself plus the global and local
// subroutine INDEXes (local subrs come from the top dict's Private dict,
// when present).
type cffTable struct {
	raw         []byte
	charStrings [][]byte
	globalSubrs [][]byte
	localSubrs  [][]byte
	charset     []u16 // gid -> SID/CID, unused beyond charstring indexing
}

func (c *cffTable) decodeGlyph(gid u16) (Outline, error) {
	if int(gid) >= len(c.charStrings) {
		return Outline{}, perr.New(perr.Invalid, "font.cff.decodeGlyph", "glyph index out of range")
	}
	interp := &cffInterp{
		global: c.globalSubrs,
		local:  c.localSubrs,
		gbias:  subrBias(len(c.globalSubrs)),
		lbias:  subrBias(len(c.localSubrs)),
	}
	return interp.run(c.charStrings[gid])
}

func subrBias(n int) int {
	switch {
	case n < 1240:
		return 107
	case n < 33900:
		return 1131
	default:
		return 32768
	}
}

// parseCFF parses just enough of a bare CFF table to locate the
// CharStrings INDEX and its associated global/local subroutine INDEXes:
// header, Name INDEX, Top DICT INDEX, String INDEX, Global Subr INDEX,
// then (via the Top DICT's CharStrings and Private operators) the
// CharStrings INDEX and Local Subr INDEX.
func parseCFF(data []byte) (*cffTable, error) {
	if len(data) < 4 {
		return nil, perr.New(perr.Malformed, "font.parseCFF", "CFF table too short")
	}
	hdrSize := data[2]

	pos := int(hdrSize)
	_, pos = readCFFIndex(data, pos) // Name INDEX
	topDicts, pos := readCFFIndex(data, pos)
	_, pos = readCFFIndex(data, pos) // String INDEX
	globalSubrs, _ := readCFFIndex(data, pos)

	if len(topDicts) == 0 {
		return nil, perr.New(perr.Malformed, "font.parseCFF", "empty Top DICT INDEX")
	}
	dict := parseCFFDict(topDicts[0])

	charStringsOff, ok := dict.intOp(17)
	if !ok {
		return nil, perr.New(perr.Malformed, "font.parseCFF", "Top DICT missing CharStrings operator")
	}
	charStrings, _ := readCFFIndex(data, charStringsOff)

	var localSubrs [][]byte
	if priv, ok := dict.pair(18); ok {
		privSize, privOff := int(priv[0]), int(priv[1])
		if privOff+privSize <= len(data) {
			privDict := parseCFFDict(data[privOff : privOff+privSize])
			if subrsRel, ok := privDict.intOp(19); ok {
				localSubrs, _ = readCFFIndex(data, privOff+subrsRel)
			}
		}
	}

	return &cffTable{
		raw:         data,
		charStrings: charStrings,
		globalSubrs: globalSubrs,
		localSubrs:  localSubrs,
	}, nil
}

// readCFFIndex reads one CFF INDEX structure starting at pos, returning
// its entries and the position immediately following it.
func readCFFIndex(data []byte, pos int) ([][]byte, int) {
	if pos+2 > len(data) {
		return nil, pos
	}
	count := int(data[pos])<<8 | int(data[pos+1])
	pos += 2
	if count == 0 {
		return nil, pos
	}
	offSize := int(data[pos])
	pos++

	offsets := make([]int, count+1)
	for i := range offsets {
		v := 0
		for b := 0; b < offSize; b++ {
			v = v<<8 | int(data[pos])
			pos++
		}
		offsets[i] = v
	}
	base := pos - 1
	entries := make([][]byte, count)
	for i := range count {
		entries[i] = data[base+offsets[i] : base+offsets[i+1]]
	}
	return entries, base + offsets[count]
}

// cffDict is a parsed CFF DICT: operator -> operand list.
type cffDict map[int][]float64

func (d cffDict) intOp(op int) (int, bool) {
	v, ok := d[op]
	if !ok || len(v) == 0 {
		return 0, false
	}
	return int(v[len(v)-1]), true
}

func (d cffDict) pair(op int) ([2]float64, bool) {
	v, ok := d[op]
	if !ok || len(v) < 2 {
		return [2]float64{}, false
	}
	return [2]float64{v[0], v[1]}, true
}

func parseCFFDict(data []byte) cffDict {
	dict := cffDict{}
	var operands []float64
	i := 0
	for i < len(data) {
		b0 := data[i]
		switch {
		case b0 <= 21:
			op := int(b0)
			i++
			if b0 == 12 {
				op = 1200 + int(data[i])
				i++
			}
			dict[op] = operands
			operands = nil
		case b0 == 28:
			v := int16(uint16(data[i+1])<<8 | uint16(data[i+2]))
			operands = append(operands, float64(v))
			i += 3
		case b0 == 29:
			v := int32(uint32(data[i+1])<<24 | uint32(data[i+2])<<16 | uint32(data[i+3])<<8 | uint32(data[i+4]))
			operands = append(operands, float64(v))
			i += 5
		case b0 == 30:
			// Real number, nibble-encoded; skip (unused by the operators we read).
			i++
			for i < len(data) {
				lo := data[i] & 0x0f
				hi := data[i] >> 4
				i++
				if lo == 0x0f || hi == 0x0f {
					break
				}
			}
			operands = append(operands, 0)
		case b0 >= 32 && b0 <= 246:
			operands = append(operands, float64(int(b0)-139))
			i++
		case b0 >= 247 && b0 <= 250:
			b1 := data[i+1]
			operands = append(operands, float64((int(b0)-247)*256+int(b1)+108))
			i += 2
		case b0 >= 251 && b0 <= 254:
			b1 := data[i+1]
			operands = append(operands, float64(-(int(b0)-251)*256-int(b1)-108))
			i += 2
		default:
			i++
		}
	}
	return dict
}
