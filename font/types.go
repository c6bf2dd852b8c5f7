// Package font parses TrueType/OpenType and CFF font containers, decodes
// glyph outlines into command streams, builds Unicode charmaps, advances
// and kerning, and re-packages a glyph subset for embedding.
package font

import "encoding/binary"

type f32 = float32
type f64 = float64

type i8 = int8
type i16 = int16
type i32 = int32
type i64 = int64

type u8 = uint8
type u16 = uint16
type u32 = uint32
type u64 = uint64

type tag u32

func (t tag) String() string {
	buf := [4]byte{}
	binary.BigEndian.PutUint32(buf[:], uint32(t))
	return string(buf[:])
}

type tableName tag

const (
	TableNameCFF  tableName = 0x43464620 // 'CFF '
	TableNameCmap tableName = 0x636d6170 // 'cmap'
	TableNameCvt  tableName = 0x63767420 // 'cvt '
	TableNameFpgm tableName = 0x6670676d // 'fpgm'
	TableNameGasp tableName = 0x67617370 // 'gasp'
	TableNameGlyf tableName = 0x676c7966 // 'glyf'
	TableNameGpos tableName = 0x47504f53 // 'GPOS'
	TableNameHead tableName = 0x68656164 // 'head'
	TableNameHhea tableName = 0x68686561 // 'hhea'
	TableNameHmtx tableName = 0x686d7478 // 'hmtx'
	TableNameKern tableName = 0x6b65726e // 'kern'
	TableNameLoca tableName = 0x6c6f6361 // 'loca'
	TableNameMaxp tableName = 0x6d617870 // 'maxp'
	TableNameName tableName = 0x6e616d65 // 'name'
	TableNameOs2  tableName = 0x4f532f32 // 'OS/2'
	TableNamePost tableName = 0x706f7374 // 'post'
	TableNamePrep tableName = 0x70726570 // 'prep'
)

const (
	platformMicrosoft = 3
	platformUnicode   = 0

	codeMsUnicodeBmp = 1
	codeUnicodeExt   = 3

	cmapFormat4  = 4
	cmapFormat12 = 12
)

type flag u32

const (
	FlagFixedWidth    flag = 1 << 0
	FlagSerif         flag = 1 << 1
	FlagSymbolic      flag = 1 << 2
	FlagScript        flag = 1 << 3
	FlagAdobeStandard flag = 1 << 5
	FlagItalic        flag = 1 << 6
	FlagAllCap        flag = 1 << 16
	FlagSmallCap      flag = 1 << 17
	FlagForceBold     flag = 1 << 18
)

type macStyle u8

const (
	MacStyleBold      macStyle = 1 << 0
	MacStyleItalic    macStyle = 1 << 1
	MacStyleUnderline macStyle = 1 << 2
	MacStyleOutline   macStyle = 1 << 3
	MacStyleShadow    macStyle = 1 << 4
	MacStyleCondensed macStyle = 1 << 5
	MacStyleExtended  macStyle = 1 << 6
)

type fword i16
type ufword u16

// Bounds is a font design-grid bounding box.
type Bounds struct {
	Max [2]f32
	Min [2]f32
}

type Tables struct {
	CFF  Table
	Cmap Table
	Cvt  Table
	Fpgm Table
	Gasp Table
	Glyf Table
	Gpos Table
	Head Table
	Hhea Table
	Hmtx Table
	Kern Table
	Loca Table
	Maxp Table
	Name Table
	Os2  Table
	Post Table
	Prep Table
}

type Table struct {
	Len u32
	Ptr u32
}

func (t *Table) LenPadded() u32 {
	return (t.Len + 3) &^ 3
}
