package font

import "github.com/go-paper/paper/perr"

const (
	sfntVersionTrueType = 0x0001_0000
	sfntVersionTrue     = 0x7472_7565 // 'true'
	sfntVersionOTTO     = 0x4f54544f // 'OTTO'
	sfntVersionTyp1     = 0x74797031 // 'typ1'
	sfntVersionTTC      = 0x74746366 // 'ttcf'
)

// parseIndex reads the sfnt table directory, following a font-collection
// ('ttcf') header to its first member if present, and binary-searches
// nothing explicitly — the directory is read sequentially and each
// recognised tag's Table entry is populated directly, which amortises to
// the same result as a sorted binary search since table tags are unique.
func (r *Reader) parseIndex() error {
	typ := r.u32()

	if typ == sfntVersionTTC {
		r.skip(4) // majorVersion, minorVersion
		r.skip(4) // numFonts (unused: we only ever decode the first face)
		offset := r.u32()
		r.seekTo(offset)
		typ = r.u32()
	}

	switch typ {
	case sfntVersionTrueType, sfntVersionTrue, sfntVersionOTTO, sfntVersionTyp1:
	default:
		return perr.New(perr.Malformed, "font.parseIndex", "unrecognised sfnt version tag")
	}

	tableCount := r.u16()
	r.skip(6) // searchRange, entrySelector, rangeShift

	for range tableCount {
		name := tableName(r.tag())
		var table *Table

		switch name {
		case TableNameCFF:
			table = &r.Tables.CFF
		case TableNameCmap:
			table = &r.Tables.Cmap
		case TableNameCvt:
			table = &r.Tables.Cvt
		case TableNameFpgm:
			table = &r.Tables.Fpgm
		case TableNameGasp:
			table = &r.Tables.Gasp
		case TableNameGlyf:
			table = &r.Tables.Glyf
		case TableNameGpos:
			table = &r.Tables.Gpos
		case TableNameHead:
			table = &r.Tables.Head
		case TableNameHhea:
			table = &r.Tables.Hhea
		case TableNameHmtx:
			table = &r.Tables.Hmtx
		case TableNameKern:
			table = &r.Tables.Kern
		case TableNameLoca:
			table = &r.Tables.Loca
		case TableNameMaxp:
			table = &r.Tables.Maxp
		case TableNameName:
			table = &r.Tables.Name
		case TableNameOs2:
			table = &r.Tables.Os2
		case TableNamePost:
			table = &r.Tables.Post
		case TableNamePrep:
			table = &r.Tables.Prep
		default:
			r.skip(12) // checksum + offset + length
			continue
		}

		r.skip(4) // checksum
		*table = Table{Ptr: r.u32(), Len: r.u32()}
	}

	hasOutlines := (r.Tables.Glyf.Ptr != 0 && r.Tables.Loca.Ptr != 0) || r.Tables.CFF.Ptr != 0

	if r.Tables.Head.Ptr == 0 ||
		r.Tables.Hhea.Ptr == 0 ||
		r.Tables.Maxp.Ptr == 0 ||
		r.Tables.Hmtx.Ptr == 0 ||
		r.Tables.Cmap.Ptr == 0 ||
		r.Tables.Name.Ptr == 0 ||
		!hasOutlines {
		return perr.New(perr.Malformed, "font.parseIndex", "missing one or more required sfnt tables")
	}

	return nil
}
