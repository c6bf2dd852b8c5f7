package font

import (
	"fmt"

	"github.com/go-paper/paper/perr"
)

// Font owns its immutable source bytes and exposes the decoded metrics,
// charmap, advances, kerning and (lazily) glyph outlines.
type Font struct {
	raw []byte

	gids [256 * 256]u16

	widths []f32

	kerning map[u16]map[u16]i16

	outlines []outlineEntry

	cff *cffTable

	Bounds Bounds

	Ascent        f32
	CapHeight     f32
	Descent       f32
	Flags         flag
	ItalicAngle   f32
	Scale         f32
	StrikeoutPos  f32
	StrikeoutSize f32
	UnderlinePos  f32
	UnderlineSize f32

	GlyphCount  u16
	MetricCount u16
	WeightClass u16

	LocaFormat u8

	scaledComponentOffset bool

	tables Tables
}

type outlineEntry struct {
	done    bool
	outline Outline
	err     error
}

// GlyphId returns the glyph index mapped to char, or 0 (".notdef") if the
// font's charmap has no entry for it.
func (f *Font) GlyphId(char rune) u16 {
	if char < 0 || int(char) >= len(f.gids) {
		return 0
	}
	return f.gids[char]
}

// Scaled converts a design-grid fword value to the font's em-scaled unit.
func (f *Font) Scaled(val fword) f32 { return f.Scale * f32(val) }

// AscenderUnits returns the font's ascender in 1000-unit em space, for
// callers (layout) that need it without the Bounds/CapHeight baggage.
func (f *Font) AscenderUnits() f32 { return f.Ascent }

// Width returns the glyph's horizontal advance, scaled to the font's em
// unit. Glyph indices beyond the font's metric count share the last
// metric's advance, per hmtx.
func (f *Font) Width(gid u16) f32 {
	if int(gid) >= len(f.widths) {
		if len(f.widths) == 0 {
			return 0
		}
		return f.widths[len(f.widths)-1]
	}
	return f.widths[gid]
}

// Kern returns the horizontal advance adjustment for the (left, right)
// glyph pair, or 0 if no kerning entry exists.
func (f *Font) Kern(left, right u16) i16 {
	if row, ok := f.kerning[left]; ok {
		return row[right]
	}
	return 0
}

// Glyph decodes (and memoises) the outline for gid, dispatching to the
// glyf or CFF decoder depending on which outline table the font carries.
func (f *Font) Glyph(gid u16) (Outline, error) {
	if int(gid) >= len(f.outlines) {
		return Outline{}, perr.New(perr.Invalid, "font.Glyph", fmt.Sprintf("glyph index %d out of range", gid))
	}
	entry := &f.outlines[gid]
	if entry.done {
		return entry.outline, entry.err
	}

	if f.cff != nil {
		entry.outline, entry.err = f.cff.decodeGlyph(gid)
	} else {
		entry.outline, entry.err = f.decodeGlyf(gid, 0)
	}
	entry.done = true
	return entry.outline, entry.err
}

// Parse decodes a TrueType/OpenType or CFF-flavoured sfnt container into a
// Font. The raw bytes are retained, unmodified, as the Font's backing
// store.
func Parse(raw []byte) (*Font, error) {
	f := &Font{raw: raw}
	p := &parser{font: f, reader: NewReader(raw)}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return f, nil
}

type parser struct {
	font   *Font
	reader Reader
}

func (p *parser) fwordScaled() f32 { return f32(p.reader.fword()) * p.font.Scale }

func (p *parser) parse() error {
	if err := p.reader.parseIndex(); err != nil {
		return err
	}
	p.font.tables = p.reader.Tables

	if err := p.parseHead(); err != nil {
		return err
	}
	if p.font.Scale == 0 {
		return perr.New(perr.Malformed, "font.Parse", "em scale not populated after parsing 'head' table")
	}

	if err := p.parseHhea(); err != nil {
		return err
	}
	if err := p.parseOs2(); err != nil {
		return err
	}
	p.parsePost()
	p.parseMaxP()

	if p.reader.Tables.Glyf.Ptr != 0 {
		// Quadratic outlines.
	} else if p.reader.Tables.CFF.Ptr != 0 {
		cff, err := parseCFF(p.reader.readAt(p.reader.Tables.CFF.Ptr, p.reader.Tables.CFF.Len))
		if err != nil {
			return err
		}
		p.font.cff = cff
	} else {
		return perr.New(perr.Malformed, "font.Parse", "font has neither 'glyf' nor 'CFF ' outlines")
	}

	if err := p.parseCmap(); err != nil {
		return err
	}
	if err := p.parseHmtx(); err != nil {
		return err
	}

	p.font.kerning = map[u16]map[u16]i16{}
	if p.reader.Tables.Kern.Ptr != 0 {
		if err := p.parseKern(); err != nil {
			return err
		}
	}
	if p.reader.Tables.Gpos.Ptr != 0 {
		if err := p.parseGpos(); err != nil {
			return err
		}
	}

	p.font.outlines = make([]outlineEntry, p.font.GlyphCount)

	return nil
}
