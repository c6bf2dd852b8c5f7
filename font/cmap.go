package font

import (
	"encoding/binary"

	"github.com/go-paper/paper/perr"
)

// parseCmap builds the in-memory codepoint-to-glyph-index mapping from the
// first format-4 (segmented Unicode BMP) subtable at platform/encoding
// (3,1) or (0,3), expanding the start/end/delta/rangeOffset segment
// arrays exactly as the OpenType spec defines them. Unmapped codepoints
// resolve to glyph 0.
//
// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6cmap.html
func (p *parser) parseCmap() error {
	p.reader.seekTo(p.reader.Tables.Cmap.Ptr + 2) // Skip version

	subtableCount := p.reader.u16()

	var offset u32
	for range subtableCount {
		platform := p.reader.u16()
		code := p.reader.u16()

		if (platform == platformUnicode && code == codeUnicodeExt) ||
			(platform == platformMicrosoft && code == codeMsUnicodeBmp) {
			offset = p.reader.u32()
			break
		}
		p.reader.skip(4)
	}
	if offset == 0 {
		return perr.New(perr.Malformed, "font.parseCmap", "no supported unicode character map subtable found")
	}

	p.reader.seekTo(p.reader.Tables.Cmap.Ptr + offset)

	format := p.reader.u16()
	if format != cmapFormat4 {
		return perr.New(perr.Unsupported, "font.parseCmap", "only cmap format 4 is supported")
	}

	p.reader.skip(4) // length, language

	segCount := p.reader.u16() >> 1

	p.reader.skip(6) // searchRange, entrySelector, rangeShift

	endCodes := make([]u16, segCount)
	startCodes := make([]u16, segCount)
	deltas := make([]u16, segCount)

	for i := range segCount {
		endCodes[i] = p.reader.u16()
	}
	p.reader.skip(2) // reservedPad
	for i := range segCount {
		startCodes[i] = p.reader.u16()
	}
	for i := range segCount {
		deltas[i] = p.reader.u16()
	}

	for i := range segCount {
		posRangeOffset := p.reader.Pos()
		rangeOffset := p.reader.u16()

		if rangeOffset == 0 {
			for char := startCodes[i]; ; char++ {
				gid := char + deltas[i]
				p.font.gids[rune(char)] = gid
				if char == endCodes[i] {
					break
				}
			}
			continue
		}

		for char := startCodes[i]; ; char++ {
			posGlyphIndex := posRangeOffset + u32(rangeOffset) + 2*(u32(char)-u32(startCodes[i]))
			gid := binary.BigEndian.Uint16(p.reader.readAt(posGlyphIndex, 2))
			if gid != 0 {
				gid += deltas[i]
			}
			p.font.gids[rune(char)] = gid
			if char == endCodes[i] {
				break
			}
		}
	}

	return nil
}
