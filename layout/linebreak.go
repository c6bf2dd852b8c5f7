package layout

// End identifies a position in a Text: the paragraph, the span within
// it, and the byte offset within that span's text.
type End struct {
	Paragraph int
	Span      int
	Char      int
}

// tail returns the Text's true final position.
func tail(t *Text) End {
	if len(t.Paragraphs) == 0 {
		return End{}
	}
	last := t.Paragraphs[len(t.Paragraphs)-1]
	span := last.lastSpan()
	charLen := 0
	if len(last.Spans) > 0 {
		charLen = len(last.Spans[span].Text)
	}
	return End{Paragraph: len(t.Paragraphs) - 1, Span: span, Char: charLen}
}

// Line is one committed line of a Layout: its baseline advance, the
// position immediately following its last committed character, the
// width actually consumed by its words (excluding the trailing space
// after the last word, used by callers to compute an alignment offset),
// the ascender distance from the line's top to its pen baseline, and
// the positioned glyph run a rasterizing caller walks to paint text.
type Line struct {
	Height       float64
	End          End
	ContentWidth float64
	Baseline     float64
	Glyphs       []Glyph
}

// Layout holds the line list for one rectangular block of text,
// reflowed in place whenever its frame or start position changes.
type Layout struct {
	Text          *Text
	Width, Height float64

	start End
	end   End
	Lines []Line
}

// NewLayout builds a Layout for the given text, starting from the
// text's beginning, within a width x height frame.
func NewLayout(text *Text, width, height float64) *Layout {
	l := &Layout{Text: text, Width: width, Height: height}
	l.reflow()
	return l
}

// Overflow reports whether this layout's committed lines fail to reach
// the text's true tail.
func (l *Layout) Overflow() bool {
	return l.end != tail(l.Text)
}

// End returns the position immediately following the layout's last
// committed line.
func (l *Layout) End() End { return l.end }

// setFrame resizes the frame and reflows from the same start position.
func (l *Layout) setFrame(width, height float64) {
	l.Width, l.Height = width, height
	l.reflow()
}

// reflow recomputes Lines in place from l.start, per the greedy
// line-break algorithm: words (with their trailing space run) are
// accumulated onto the current line until the next word would overflow
// the frame width, at which point the line commits before that word.
// A line's height is the maximum ascender of its spans if it is the
// very first line produced by this call, otherwise the maximum leading;
// a line that would push the block past its frame height stops layout
// entirely (overflow).
func (l *Layout) reflow() {
	l.Lines = l.Lines[:0]
	pos := l.start
	y := 0.0
	first := true

	for pi := pos.Paragraph; pi < len(l.Text.Paragraphs); pi++ {
		para := l.Text.Paragraphs[pi]

		startIdx := 0
		if pi == pos.Paragraph {
			startIdx = firstWordAt(para, pos.Span, pos.Char)
		}

		lineStartSpan := spanAt(para, startIdx)
		lineStartIdx := startIdx
		lineWidth := 0.0
		committed := false

		idx := startIdx
		for idx < len(para.words) {
			w := para.words[idx]

			if lineWidth > 0 && lineWidth+w.WordAdvance > l.Width {
				toSpan := spanAt(para, idx-1)
				height := lineHeight(para, lineStartSpan, toSpan, first)
				if y+height > l.Height {
					l.end = End{Paragraph: pi, Span: w.Span, Char: w.Char}
					return
				}
				contentWidth := lineWidth - para.words[idx-1].SpaceAdvance
				baseline := para.MaxAscender(lineStartSpan, toSpan)
				glyphs := buildGlyphs(para, para.words[lineStartIdx:idx], baseline)
				l.Lines = append(l.Lines, Line{Height: height, End: End{Paragraph: pi, Span: w.Span, Char: w.Char}, ContentWidth: contentWidth, Baseline: baseline, Glyphs: glyphs})
				y += height
				first = false
				lineStartSpan = w.Span
				lineStartIdx = idx
				lineWidth = 0
				committed = true
			}

			if lineWidth == 0 && w.WordAdvance > l.Width {
				// A single word alone exceeds the frame width: stop,
				// leaving this position as the unreached tail.
				l.end = End{Paragraph: pi, Span: w.Span, Char: w.Char}
				return
			}

			lineWidth += w.WordAdvance + w.SpaceAdvance
			idx++
		}

		lastSpan := para.lastSpan()
		if len(para.words) > 0 {
			lastSpan = para.words[len(para.words)-1].Span
		}
		height := lineHeight(para, lineStartSpan, lastSpan, first)
		if y+height > l.Height {
			if committed {
				l.end = l.Lines[len(l.Lines)-1].End
			} else {
				// Nothing had been committed from this paragraph yet;
				// leave the position at its start.
				l.end = End{Paragraph: pi, Span: pos.Span, Char: pos.Char}
			}
			return
		}

		charLen := 0
		if len(para.Spans) > 0 {
			charLen = len(para.Spans[lastSpan].Text)
		}
		contentWidth := lineWidth
		if len(para.words) > 0 {
			contentWidth -= para.words[len(para.words)-1].SpaceAdvance
		}
		baseline := para.MaxAscender(lineStartSpan, lastSpan)
		glyphs := buildGlyphs(para, para.words[lineStartIdx:len(para.words)], baseline)
		l.Lines = append(l.Lines, Line{Height: height, End: End{Paragraph: pi, Span: lastSpan, Char: charLen}, ContentWidth: contentWidth, Baseline: baseline, Glyphs: glyphs})
		y += height
		first = false
		pos = End{Paragraph: pi + 1}
	}

	l.end = tail(l.Text)
}

// LineOffset returns the x-offset, within the layout's width, at which
// line i's content should start, per its paragraph's Align. Justify is
// not stretched and falls back to left alignment; spreading it would
// mean redistributing extra space across line.Glyphs' pen positions,
// left unimplemented here.
func (l *Layout) LineOffset(i int) float64 {
	line := l.Lines[i]
	para := l.Text.Paragraphs[line.End.Paragraph]
	switch para.Align {
	case AlignRight:
		return l.Width - line.ContentWidth
	case AlignCenter:
		return (l.Width - line.ContentWidth) / 2
	default:
		return 0
	}
}

// firstWordAt returns the index of the first word at or after
// (spanIdx, charOffset) within the paragraph's flattened word list.
func firstWordAt(p *Paragraph, spanIdx, charOffset int) int {
	for i, w := range p.words {
		if w.Span > spanIdx || (w.Span == spanIdx && w.Char >= charOffset) {
			return i
		}
	}
	return len(p.words)
}

// spanAt returns the span index of the word at idx, clamped to the
// paragraph's span range.
func spanAt(p *Paragraph, idx int) int {
	if idx < 0 || idx >= len(p.words) {
		if len(p.Spans) == 0 {
			return 0
		}
		return 0
	}
	return p.words[idx].Span
}

func lineHeight(p *Paragraph, fromSpan, toSpan int, first bool) float64 {
	if toSpan < fromSpan {
		toSpan = fromSpan
	}
	if first {
		return p.MaxAscender(fromSpan, toSpan)
	}
	return p.MaxLeading(fromSpan, toSpan)
}
