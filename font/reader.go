package font

import (
	"encoding/binary"
	"slices"
)

// Reader is a position-tracked big-endian byte cursor over an in-memory
// font container, in the style of a table-driven binary format parser: a
// fixed read position advanced by typed accessors, with random-access
// reads that don't disturb it.
type Reader struct {
	Tables Tables
	buf    []byte
	pos    u32
}

func NewReader(bytes []byte) Reader {
	return Reader{buf: bytes}
}

func (r Reader) Len() u32 { return u32(len(r.buf)) }

func (r *Reader) Pos() u32 { return r.pos }

func (r *Reader) read(count u32) []byte {
	b := r.buf[r.pos:][0:count]
	r.pos += count
	return b
}

func (r *Reader) readAt(pos, count u32) []byte {
	return r.buf[pos:][0:count]
}

func (r *Reader) seekTo(pos u32) { r.pos = pos }

func (r *Reader) skip(count u32) { r.pos += count }

func (r *Reader) tag() tag { return tag(r.u32()) }

func (r *Reader) u8() u8 {
	b := r.read(1)
	return b[0]
}

func (r *Reader) u16() u16 { return binary.BigEndian.Uint16(r.read(2)) }

func (r *Reader) i16() i16 { return i16(r.u16()) }

func (r *Reader) u32() u32 { return binary.BigEndian.Uint32(r.read(4)) }

func (r *Reader) i32() i32 { return i32(r.u32()) }

func (r *Reader) fword() fword { return fword(r.i16()) }

type fixed i32

func (f fixed) float() f32 { return f32(f64(f) / f64(1<<16)) }

func (r *Reader) fixed() fixed { return fixed(r.i32()) }

func (r *Reader) glyfLocation(gid u16, locaFormat u8) (offset, length u32) {
	if locaFormat == 0 {
		r.seekTo(r.Tables.Loca.Ptr + u32(gid)*2)
		offset = u32(r.u16()) * 2
		length = u32(r.u16())*2 - offset
	} else {
		r.seekTo(r.Tables.Loca.Ptr + u32(gid)*4)
		offset = r.u32()
		length = r.u32() - offset
	}
	return
}

// Writer is the write-side counterpart of Reader, used by the embedding
// subsetter to assemble a fresh sfnt fragment.
type Writer struct {
	Tables Tables
	buf    []byte
	len    u32
	pos    u32
}

func NewWriter(bytes []byte) Writer {
	return Writer{buf: bytes}
}

func (w *Writer) Bytes() []byte { return w.buf[:cap(w.buf)] }

func (w *Writer) ensureCapRemaining(byteCount u32) {
	w.buf = slices.Grow(w.buf[:w.len], int(byteCount))
}

func (w Writer) Len() u32 { return u32(len(w.buf)) }

func (w *Writer) seekTo(pos u32) {
	w.pos = pos
	w.buf = w.buf[:w.pos]
	w.len = max(w.len, w.pos)
}

func (w *Writer) skip(count u32) { w.seekTo(w.pos + count) }

func (w *Writer) u16(val u16) {
	binary.BigEndian.PutUint16(w.buf[:w.pos+2][w.pos:], val)
	w.skip(2)
}

func (w *Writer) u16Array(arr []u16) {
	for _, val := range arr {
		w.u16(val)
	}
}

func (w *Writer) u32(val u32) {
	binary.BigEndian.PutUint32(w.buf[:w.pos+4][w.pos:], val)
	w.skip(4)
}

func (w *Writer) write(src []byte) {
	copy(w.buf[:int(w.pos)+len(src)][w.pos:], src)
	w.skip(u32(len(src)))
}
