package font

// parseHmtx reads numberOfHMetrics long-horizontal metrics; glyph indices
// beyond that count share the last metric's advance.
//
// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6hmtx.html
func (p *parser) parseHmtx() error {
	for gid := range p.font.GlyphCount {
		const stride = 4
		ptr := p.reader.Tables.Hmtx.Ptr + stride*u32(min(gid, p.font.MetricCount-1))
		p.reader.seekTo(ptr)
		p.font.widths[gid] = p.fwordScaled()
	}
	return nil
}
