package font

import "github.com/go-paper/paper/perr"

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6head.html
func (p *parser) parseHead() error {
	p.reader.seekTo(p.reader.Tables.Head.Ptr + 16)
	headFlags := p.reader.u16()
	p.font.scaledComponentOffset = headFlags&0x0002 != 0

	p.font.Scale = 1000.0 / f32(p.reader.u16())

	p.reader.skip(16) // created date + modified date

	p.font.Bounds = Bounds{
		Min: [2]f32{p.fwordScaled(), p.fwordScaled()},
		Max: [2]f32{p.fwordScaled(), p.fwordScaled()},
	}

	style := macStyle(p.reader.u16())
	if style&MacStyleItalic != 0 {
		p.font.Flags |= FlagItalic
	}

	p.reader.skip(4) // lowestRecPPEM, fontDirectionHint

	p.font.LocaFormat = u8(p.reader.u16())

	if glyphDataFormat := p.reader.u16(); glyphDataFormat != 0 {
		return perr.New(perr.Malformed, "font.parseHead", "invalid glyphDataFormat")
	}

	return nil
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6hhea.html
func (p *parser) parseHhea() error {
	p.reader.seekTo(p.reader.Tables.Hhea.Ptr + 4)

	p.font.Ascent = p.fwordScaled()
	p.font.Descent = p.fwordScaled()

	p.reader.skip(24)

	if metricDataFormat := p.reader.u16(); metricDataFormat != 0 {
		return perr.New(perr.Malformed, "font.parseHhea", "invalid metricDataFormat")
	}

	if p.font.MetricCount = p.reader.u16(); p.font.MetricCount == 0 {
		return perr.New(perr.Malformed, "font.parseHhea", "numOfLongHorMetrics == 0")
	}

	return nil
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6maxp.html
func (p *parser) parseMaxP() {
	p.reader.seekTo(p.reader.Tables.Maxp.Ptr + 4)
	p.font.GlyphCount = p.reader.u16()
	p.font.widths = make([]f32, p.font.GlyphCount)
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6OS2.html
func (p *parser) parseOs2() error {
	if p.reader.Tables.Os2.Ptr == 0 {
		return nil
	}

	p.reader.seekTo(p.reader.Tables.Os2.Ptr)

	version := p.reader.u16()

	p.reader.skip(2) // xAvgCharWidth

	p.font.WeightClass = p.reader.u16()

	p.reader.skip(2) // usWidthClass

	fsType := p.reader.u16()
	const flagLicensed = 0b10
	const flagEmbedBitmapOnly = 0b100000000
	if fsType&(flagLicensed|flagEmbedBitmapOnly) != 0 {
		return perr.New(perr.Unsupported, "font.parseOs2", "font embedding is restricted by fsType")
	}

	p.reader.skip(16) // subscript/superscript metrics

	p.font.StrikeoutSize = p.fwordScaled()
	p.font.StrikeoutPos = p.fwordScaled()

	p.reader.skip(0 +
		2 + // familyClass
		10 + // panose
		16 + // ulUnicodeRange
		4 + // achVendID
		2 + // fsSelection
		2 + // fsFirstCharIndex
		2, // fsLastCharIndex
	)

	typoAscender := p.fwordScaled()
	if p.font.Ascent == 0 {
		p.font.Ascent = typoAscender
	}
	p.font.CapHeight = p.font.Ascent

	typoDescender := p.fwordScaled()
	if p.font.Descent == 0 {
		p.font.Descent = typoDescender
	}

	if version <= 1 {
		return nil
	}

	p.reader.skip(16)
	p.font.CapHeight = p.fwordScaled()

	return nil
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6post.html
func (p *parser) parsePost() {
	if p.reader.Tables.Post.Ptr == 0 {
		return
	}

	p.reader.seekTo(p.reader.Tables.Post.Ptr + 4) // Skip format

	p.font.ItalicAngle = p.reader.fixed().float()
	p.font.UnderlinePos = p.fwordScaled()
	p.font.UnderlineSize = p.fwordScaled()

	if p.reader.u32() != 0 {
		p.font.Flags |= FlagFixedWidth
	}
	if p.font.ItalicAngle != 0 {
		p.font.Flags |= FlagItalic
	}
}
