package font

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/go-paper/paper/perr"
)

// Subset re-packages a TrueType font down to the glyphs reachable from
// chars (plus glyph 0 and any composite dependencies), returning the new
// sfnt bytes and a gid-remap table (old gid -> new gid) for callers that
// need to translate previously-resolved glyph indices. CFF-flavoured
// fonts aren't subsettable by this path; embed the whole CFF table
// instead.
func Subset(raw []byte, font *Font, chars *bitset.BitSet) (subset []byte, gidRemap []u16, err error) {
	if font.cff != nil {
		return nil, nil, perr.New(perr.Unsupported, "font.Subset", "CFF-flavoured fonts cannot be subset")
	}

	gen := generator{
		chars:  chars.AsSlice(make([]uint, chars.Count())),
		font:   font,
		reader: NewReader(raw),
		writer: NewWriter(make([]byte, 0, len(raw))),
	}
	return gen.generate()
}

type generator struct {
	chars    []uint
	font     *Font
	gidRemap []u16
	glyphIds []uint
	reader   Reader
	writer   Writer
}

func (g *generator) copy(tableIn *Table, tableOut *Table) {
	if tableIn.Ptr == 0 {
		return
	}

	tableOut.Ptr = g.writer.pos
	tableOut.Len = tableIn.Len
	g.writer.write(g.reader.readAt(tableIn.Ptr, tableIn.Len))
	g.writer.seekTo(tableOut.Ptr + tableOut.LenPadded())
}

func (g *generator) generate() (out []byte, gidRemap []u16, err error) {
	if err = g.reader.parseIndex(); err != nil {
		return
	}
	if g.reader.Tables.Glyf.Ptr == 0 {
		return nil, nil, perr.New(perr.Unsupported, "font.Subset", "font has no 'glyf' table to subset")
	}

	const requiredTableCount u16 = 9
	tableCount := requiredTableCount
	if g.reader.Tables.Cvt.Ptr != 0 {
		tableCount++
	}
	if g.reader.Tables.Fpgm.Ptr != 0 {
		tableCount++
	}
	if g.reader.Tables.Gasp.Ptr != 0 {
		tableCount++
	}
	if g.reader.Tables.Os2.Ptr != 0 {
		tableCount++
	}
	if g.reader.Tables.Prep.Ptr != 0 {
		tableCount++
	}

	lenIndex := 12 + u32(tableCount*16)
	g.writer.ensureCapRemaining(lenIndex +
		g.reader.Tables.Cvt.LenPadded() +
		g.reader.Tables.Fpgm.LenPadded() +
		g.reader.Tables.Gasp.LenPadded() +
		g.reader.Tables.Head.LenPadded() +
		g.reader.Tables.Hhea.LenPadded() +
		g.reader.Tables.Maxp.LenPadded() +
		g.reader.Tables.Name.LenPadded() +
		g.reader.Tables.Os2.LenPadded() +
		g.reader.Tables.Prep.LenPadded(),
	)

	g.writer.seekTo(lenIndex)

	g.copy(&g.reader.Tables.Cvt, &g.writer.Tables.Cvt)
	g.copy(&g.reader.Tables.Fpgm, &g.writer.Tables.Fpgm)
	g.copy(&g.reader.Tables.Gasp, &g.writer.Tables.Gasp)
	g.copy(&g.reader.Tables.Head, &g.writer.Tables.Head)
	g.copy(&g.reader.Tables.Hhea, &g.writer.Tables.Hhea)
	g.copy(&g.reader.Tables.Maxp, &g.writer.Tables.Maxp)
	g.copy(&g.reader.Tables.Name, &g.writer.Tables.Name)
	g.copy(&g.reader.Tables.Os2, &g.writer.Tables.Os2)
	g.copy(&g.reader.Tables.Prep, &g.writer.Tables.Prep)

	indexToLocFormat := g.genGlyfAndLoca()
	g.genCmap()
	g.genPost()
	metricCount := g.genHmtx()

	g.editHead(indexToLocFormat)
	g.editHhea(metricCount)
	g.editMaxp()

	g.genIndex(tableCount)

	return g.writer.Bytes(), g.gidRemap, nil
}

func (g *generator) editHead(indexToLocFormat u16) {
	g.writer.seekTo(g.writer.Tables.Head.Ptr + 8)
	g.writer.u32(0)

	g.writer.seekTo(g.writer.Tables.Head.Ptr + 50)
	g.writer.u16(indexToLocFormat)
}

func (g *generator) editHhea(metricCount u16) {
	g.writer.seekTo(g.writer.Tables.Hhea.Ptr + 34)
	g.writer.u16(metricCount)
}

func (g *generator) editMaxp() {
	g.writer.seekTo(g.writer.Tables.Maxp.Ptr + 4)
	g.writer.u16(u16(len(g.glyphIds)))
}

// genCmap regenerates a minimal format-4 cmap covering only the
// characters actually used, mapped to the subset's remapped glyph IDs.
func (g *generator) genCmap() {
	endCodes := [512]u16{}
	startCodes := [512]u16{u16(g.chars[0])}
	deltas := [512]u16{1 - startCodes[0]}

	seg := u16(0)
	charPrev := u16(g.chars[0])
	for _, c := range g.chars {
		char := u16(c)
		gidOld := g.font.GlyphId(rune(char))
		gidNew := g.gidRemap[gidOld]

		if char-charPrev > 1 {
			endCodes[seg] = charPrev
			seg++
			startCodes[seg] = char
			deltas[seg] = gidNew - startCodes[seg]
		}

		charPrev = char
	}
	endCodes[seg] = charPrev

	seg++
	endCodes[seg] = 0xffff
	startCodes[seg] = 0xffff
	deltas[seg] = 1

	const headerLen = 4
	const subtableLen = 8
	const segArrayCount = 4
	const paddingBytes = 2

	segCount := seg + 1
	segCount2x := 2 * segCount
	mappingTableLen := 14 + segCount2x*segArrayCount + paddingBytes

	g.writer.Tables.Cmap.Ptr = g.writer.pos
	g.writer.Tables.Cmap.Len = u32(headerLen + subtableLen + mappingTableLen)
	tableLenPadded := g.writer.Tables.Cmap.LenPadded()

	g.writer.ensureCapRemaining(tableLenPadded)
	g.writer.u16(0)
	g.writer.u16(1)
	g.writer.u16(platformMicrosoft)
	g.writer.u16(codeMsUnicodeBmp)
	g.writer.u32(headerLen + subtableLen)
	g.writer.u16(cmapFormat4)
	g.writer.u16(mappingTableLen)
	g.writer.u16(0)
	g.writer.u16(segCount2x)

	searchRange := u16(2 * math.Pow(2, math.Floor(math.Log2(float64(segCount)))))
	g.writer.u16(searchRange)
	g.writer.u16(u16(math.Log2(f64(searchRange) / 2)))
	g.writer.u16(u16(segCount2x - searchRange))

	g.writer.u16Array(endCodes[:segCount])
	g.writer.u16(0)
	g.writer.u16Array(startCodes[:segCount])
	g.writer.u16Array(deltas[:segCount])
	g.writer.skip(u32(segCount2x))

	g.writer.seekTo(g.writer.Tables.Cmap.Ptr + tableLenPadded)
}

type glyfEntry struct {
	len u32
	ptr u32
	gid u16
}

func (g *glyfEntry) lenPadded() u32 { return (g.len + 1) &^ 1 }

// genGlyfAndLoca walks the composite-glyph dependency graph reachable
// from the requested characters via breadth-first traversal, then
// copies each surviving glyph's contour data, rewriting composite
// component glyph IDs in place to the subset's renumbering.
func (g *generator) genGlyfAndLoca() u16 {
	g.writer.Tables.Glyf.Ptr = g.writer.pos
	g.writer.Tables.Glyf.Len = 0

	glyphCountEstimate := len(g.chars) + 1
	glyfs := make([]glyfEntry, 0, glyphCountEstimate)
	var seenGids bitset.BitSet

	seenGids.Set(0)

	for _, char := range g.chars {
		gid := g.font.GlyphId(rune(char))
		seenGids.Set(uint(gid))
	}

	gidStack := seenGids.AsSlice(make([]uint, glyphCountEstimate))

	for len(gidStack) > 0 {
		gid := gidStack[0]
		gidStack = gidStack[1:]

		offset, length := g.reader.glyfLocation(u16(gid), g.font.LocaFormat)
		ptr := g.reader.Tables.Glyf.Ptr + offset
		g.reader.seekTo(ptr)
		entry := glyfEntry{gid: u16(gid), len: length, ptr: ptr}
		glyfs = append(glyfs, entry)

		g.writer.Tables.Glyf.Len += entry.lenPadded()

		g.reader.seekTo(ptr)
		if contourCount := g.reader.i16(); contourCount >= 0 {
			continue
		}

		g.reader.skip(2 * 4)

		for {
			flags := g.reader.u16()

			componentGid := g.reader.u16()
			if !seenGids.Test(uint(componentGid)) {
				seenGids.Set(uint(componentGid))
				gidStack = append(gidStack, uint(componentGid))
			}

			if !glyfMoreComponents.test(flags) {
				break
			}

			g.reader.skip(2)
			if glyfArg1And2AreWords.test(flags) {
				g.reader.skip(2)
			}

			switch {
			case glyfWeHaveAScale.test(flags):
				g.reader.skip(2)
			case glyfWeHaveAnXAndYScale.test(flags):
				g.reader.skip(4)
			case glyfWeHaveATwoByTwo.test(flags):
				g.reader.skip(8)
			}
		}
	}

	glyphCountActual := seenGids.Count()
	if int(glyphCountActual) > cap(gidStack) {
		gidStack = slices.Grow(gidStack[:cap(gidStack)], int(glyphCountActual)-cap(gidStack))
	}

	g.glyphIds = seenGids.AsSlice(gidStack)
	g.gidRemap = make([]u16, g.glyphIds[len(g.glyphIds)-1]+1)
	for gidNew, gidOld := range g.glyphIds {
		g.gidRemap[gidOld] = u16(gidNew)
	}

	slices.SortFunc(glyfs, func(a, b glyfEntry) int {
		return int(g.gidRemap[a.gid]) - int(g.gidRemap[b.gid])
	})

	tableLenPadded := g.writer.Tables.Glyf.LenPadded()
	g.writer.ensureCapRemaining(tableLenPadded)
	for _, entry := range glyfs {
		g.reader.seekTo(entry.ptr)

		ptrGlyf := g.writer.pos
		g.writer.write(g.reader.read(entry.len))

		glyfReader := NewReader(g.writer.buf[ptrGlyf : ptrGlyf+entry.len])
		if contourCount := glyfReader.i16(); contourCount >= 0 {
			g.writer.seekTo(ptrGlyf + entry.lenPadded())
			continue
		}

		glyfReader.skip(2 * 4)

		for {
			flags := glyfReader.u16()

			componentGid := glyfReader.u16()
			binary.BigEndian.PutUint16(
				g.writer.buf[ptrGlyf+glyfReader.pos-2:],
				g.gidRemap[componentGid],
			)

			if !glyfMoreComponents.test(flags) {
				break
			}

			glyfReader.skip(2)
			if glyfArg1And2AreWords.test(flags) {
				glyfReader.skip(2)
			}

			switch {
			case glyfWeHaveAScale.test(flags):
				glyfReader.skip(2)
			case glyfWeHaveAnXAndYScale.test(flags):
				glyfReader.skip(4)
			case glyfWeHaveATwoByTwo.test(flags):
				glyfReader.skip(8)
			}
		}

		g.writer.seekTo(ptrGlyf + entry.lenPadded())
	}

	g.writer.seekTo(g.writer.Tables.Glyf.Ptr + tableLenPadded)

	return g.genLoca(glyfs)
}

func (g *generator) genHmtx() (metricCount u16) {
	const stride = 4

	g.writer.Tables.Hmtx.Ptr = g.writer.pos
	g.writer.Tables.Hmtx.Len = u32(len(g.glyphIds)) * stride
	tableLenPadded := g.writer.Tables.Hmtx.LenPadded()
	g.writer.ensureCapRemaining(tableLenPadded)

	var gid uint
	var lastWidth u16
	var i int

	metricCountOrig := g.font.MetricCount

	for i, gid = range g.glyphIds {
		g.reader.seekTo(g.reader.Tables.Hmtx.Ptr + u32(gid)*stride)
		lastWidth = g.reader.u16()

		g.writer.u16(lastWidth)
		g.writer.u16(g.reader.u16())

		if u16(gid) >= metricCountOrig {
			break
		}
	}

	metricCount = u16(i + 1)
	lastWidthGid := gid
	ptrBearingsOrig := g.reader.Tables.Hmtx.Ptr + u32(metricCountOrig)*stride
	for i, gid = range g.glyphIds[metricCount:] {
		g.reader.seekTo(ptrBearingsOrig + u32(gid-lastWidthGid)*2)

		g.writer.u16(lastWidth)
		g.writer.u16(g.reader.u16())
	}

	metricCount += u16(i + 1)

	g.writer.seekTo(g.writer.Tables.Hmtx.Ptr + tableLenPadded)

	return
}

func (g *generator) genIndex(tableCount u16) {
	g.writer.seekTo(0)

	g.writer.u32(0x0001_0000)
	g.writer.u16(tableCount)

	entrySelector := math.Floor(math.Log2(float64(tableCount)))
	searchRange := u16(16 * math.Pow(2, entrySelector))
	rangeShift := tableCount*16 - searchRange

	g.writer.u16(searchRange)
	g.writer.u16(u16(entrySelector))
	g.writer.u16(rangeShift)

	g.genIndexEntry(TableNameCmap, &g.writer.Tables.Cmap)
	g.genIndexEntry(TableNameGlyf, &g.writer.Tables.Glyf)
	g.genIndexEntry(TableNameHead, &g.writer.Tables.Head)
	g.genIndexEntry(TableNameHhea, &g.writer.Tables.Hhea)
	g.genIndexEntry(TableNameHmtx, &g.writer.Tables.Hmtx)
	g.genIndexEntry(TableNameLoca, &g.writer.Tables.Loca)
	g.genIndexEntry(TableNameMaxp, &g.writer.Tables.Maxp)
	g.genIndexEntry(TableNameName, &g.writer.Tables.Name)
	g.genIndexEntry(TableNamePost, &g.writer.Tables.Post)

	g.genIndexEntry(TableNameCvt, &g.writer.Tables.Cvt)
	g.genIndexEntry(TableNameFpgm, &g.writer.Tables.Fpgm)
	g.genIndexEntry(TableNameGasp, &g.writer.Tables.Gasp)
	g.genIndexEntry(TableNameOs2, &g.writer.Tables.Os2)
	g.genIndexEntry(TableNamePrep, &g.writer.Tables.Prep)
}

func (g *generator) genIndexEntry(name tableName, table *Table) {
	if table.Ptr == 0 {
		return
	}

	var checksum u32
	ptrChecksum := table.Ptr
	for nLongs := (table.Len + 3) / 4; nLongs > 0; nLongs-- {
		checksum += binary.BigEndian.Uint32(g.writer.buf[ptrChecksum : ptrChecksum+4])
		ptrChecksum += 4
	}

	g.writer.u32(u32(name))
	g.writer.u32(checksum)
	g.writer.u32(table.Ptr)
	g.writer.u32(table.Len)
}

func (g *generator) genLoca(glyfs []glyfEntry) u16 {
	g.writer.Tables.Loca.Ptr = g.writer.pos

	locaFormat := u16(0)
	if g.writer.Tables.Glyf.Len > 0xffff*2 {
		locaFormat = 1
	}

	if locaFormat == 0 {
		g.writer.Tables.Loca.Len = u32(len(glyfs)+1) * 2
		tableLenPadded := g.writer.Tables.Loca.LenPadded()
		g.writer.ensureCapRemaining(tableLenPadded)

		var nextOffset u16
		for _, entry := range glyfs {
			g.writer.u16(nextOffset)
			nextOffset += u16(entry.lenPadded() >> 1)
		}
		g.writer.u16(nextOffset)

		g.writer.seekTo(g.writer.Tables.Loca.Ptr + tableLenPadded)

		return locaFormat
	}

	g.writer.Tables.Loca.Len = u32(len(glyfs)+1) * 4
	tableLenPadded := g.writer.Tables.Loca.LenPadded()
	g.writer.ensureCapRemaining(tableLenPadded)

	var nextOffset u32
	for _, entry := range glyfs {
		g.writer.u32(nextOffset)
		nextOffset += entry.lenPadded()
	}
	g.writer.u32(nextOffset)

	g.writer.seekTo(g.writer.Tables.Loca.Ptr + tableLenPadded)

	return locaFormat
}

func (g *generator) genPost() {
	g.writer.Tables.Post.Ptr = g.writer.pos
	g.writer.Tables.Post.Len = 4 + 4 + 2 + 2 + 4 + 4 + 4 + 4 + 4
	tableLenPadded := g.writer.Tables.Post.LenPadded()
	g.writer.ensureCapRemaining(tableLenPadded)

	g.writer.u32(0x00030000)

	if g.reader.Tables.Post.Ptr != 0 {
		g.reader.seekTo(g.reader.Tables.Post.Ptr + 4)
		g.writer.write(g.reader.read(4 + 2 + 2 + 4))
	} else {
		g.writer.skip(4 + 2 + 2 + 4)
	}

	g.writer.skip(16)

	g.writer.seekTo(g.writer.Tables.Post.Ptr + tableLenPadded)
}
