package font

import "github.com/go-paper/paper/perr"

func (f *Font) addKern(left, right u16, value i16) {
	row, ok := f.kerning[left]
	if !ok {
		row = map[u16]i16{}
		f.kerning[left] = row
	}
	row[right] = value
}

// parseKern decodes the legacy 'kern' table. Only subtable format 0 is
// accepted; any other subtable format fails.
func (p *parser) parseKern() error {
	base := p.reader.Tables.Kern.Ptr
	p.reader.seekTo(base)

	if version := p.reader.u16(); version != 0 {
		return perr.New(perr.Unsupported, "font.parseKern", "only kern table version 0 is supported")
	}
	nTables := p.reader.u16()

	for range nTables {
		subStart := p.reader.Pos()
		p.reader.skip(2) // sub-table version
		length := p.reader.u16()
		coverage := p.reader.u16()
		format := coverage >> 8

		if format != 0 {
			return perr.New(perr.Unsupported, "font.parseKern", "only kern subtable format 0 is supported")
		}

		nPairs := p.reader.u16()
		p.reader.skip(6) // searchRange, entrySelector, rangeShift

		for range nPairs {
			left := p.reader.u16()
			right := p.reader.u16()
			value := p.reader.i16()
			p.font.addKern(left, right, value)
		}

		p.reader.seekTo(subStart + u32(length))
	}

	return nil
}

func parseCoverage(r *Reader, base u32) []u16 {
	r.seekTo(base)
	format := r.u16()

	var glyphs []u16
	switch format {
	case 1:
		count := r.u16()
		glyphs = make([]u16, count)
		for i := range count {
			glyphs[i] = r.u16()
		}
	case 2:
		rangeCount := r.u16()
		for range rangeCount {
			start := r.u16()
			end := r.u16()
			for g := start; g <= end; g++ {
				glyphs = append(glyphs, g)
			}
		}
	}
	return glyphs
}

func parseClassDef(r *Reader, base u32) map[u16]u16 {
	r.seekTo(base)
	format := r.u16()

	classes := map[u16]u16{}
	switch format {
	case 1:
		start := r.u16()
		count := r.u16()
		for i := range count {
			classes[start+i] = r.u16()
		}
	case 2:
		rangeCount := r.u16()
		for range rangeCount {
			start := r.u16()
			end := r.u16()
			class := r.u16()
			for g := start; g <= end; g++ {
				classes[g] = class
			}
		}
	}
	return classes
}

const (
	gposFeatureKern = 0x6b65726e // 'kern'
	valueFormatXAdv = 0x0004
)

// parseGpos locates the 'kern' feature in the GPOS table's feature list,
// collects the lookups it references, and decodes any LookupType 2
// (pair-adjustment) subtables with ValueFormat1 = XAdvance and
// ValueFormat2 = 0, per the spec's supported subset.
func (p *parser) parseGpos() error {
	base := p.reader.Tables.Gpos.Ptr
	r := &p.reader

	r.seekTo(base + 4) // skip majorVersion, minorVersion; scriptListOffset unused
	r.skip(2)
	featureListOffset := base + u32(r.u16())
	lookupListOffset := base + u32(r.u16())

	r.seekTo(featureListOffset)
	featureCount := r.u16()

	var lookupIdx []u16
	for i := range featureCount {
		recOff := featureListOffset + 2 + u32(i)*6
		r.seekTo(recOff)
		tagVal := r.u32()
		featureOffset := featureListOffset + u32(r.u16())
		if tagVal != gposFeatureKern {
			continue
		}

		r.seekTo(featureOffset + 2)
		lookupCount := r.u16()
		for range lookupCount {
			lookupIdx = append(lookupIdx, r.u16())
		}
	}

	if len(lookupIdx) == 0 {
		return nil
	}

	r.seekTo(lookupListOffset)
	lookupCountTotal := r.u16()
	lookupOffsets := make([]u16, lookupCountTotal)
	for i := range lookupCountTotal {
		lookupOffsets[i] = r.u16()
	}

	for _, idx := range lookupIdx {
		if int(idx) >= len(lookupOffsets) {
			continue
		}
		lookupBase := lookupListOffset + u32(lookupOffsets[idx])
		p.parseGposLookup(lookupBase)
	}

	return nil
}

func (p *parser) parseGposLookup(lookupBase u32) {
	r := &p.reader
	r.seekTo(lookupBase)
	lookupType := r.u16()
	if lookupType != 2 {
		return
	}
	r.skip(2) // lookupFlag
	subtableCount := r.u16()
	subOffsets := make([]u16, subtableCount)
	for i := range subtableCount {
		subOffsets[i] = r.u16()
	}

	for _, off := range subOffsets {
		p.parsePairPos(lookupBase + u32(off))
	}
}

func (p *parser) parsePairPos(base u32) {
	r := &p.reader
	r.seekTo(base)
	format := r.u16()
	coverageOffset := r.u16()
	valueFormat1 := r.u16()
	valueFormat2 := r.u16()

	if valueFormat1 != valueFormatXAdv || valueFormat2 != 0 {
		return
	}

	switch format {
	case 1:
		pairSetCount := r.u16()
		pairSetOffsets := make([]u16, pairSetCount)
		for i := range pairSetCount {
			pairSetOffsets[i] = r.u16()
		}
		coverage := parseCoverage(r, base+u32(coverageOffset))

		for i, off := range pairSetOffsets {
			if i >= len(coverage) {
				break
			}
			left := coverage[i]
			r.seekTo(base + u32(off))
			pairCount := r.u16()
			for range pairCount {
				right := r.u16()
				xAdv := r.i16()
				p.font.addKern(left, right, xAdv)
			}
		}

	case 2:
		classDef1Offset := r.u16()
		classDef2Offset := r.u16()
		class1Count := r.u16()
		class2Count := r.u16()

		records := base + 16
		classes1 := parseClassDef(r, base+u32(classDef1Offset))
		classes2 := parseClassDef(r, base+u32(classDef2Offset))
		coverage := parseCoverage(r, base+u32(coverageOffset))
		coverageSet := map[u16]bool{}
		for _, g := range coverage {
			coverageSet[g] = true
		}

		rightByClass := map[u16][]u16{}
		for g, c := range classes2 {
			rightByClass[c] = append(rightByClass[c], g)
		}

		for left, c1 := range classes1 {
			if !coverageSet[left] || c1 >= class1Count {
				continue
			}
			for c2 := u16(0); c2 < class2Count; c2++ {
				r.seekTo(records + (u32(c1)*u32(class2Count)+u32(c2))*2)
				xAdv := r.i16()
				if xAdv == 0 {
					continue
				}
				for _, right := range rightByClass[c2] {
					p.font.addKern(left, right, xAdv)
				}
			}
		}
	}
}
