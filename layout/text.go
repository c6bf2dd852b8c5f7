// Package layout implements the paragraph/line text model: spans and
// paragraphs, word-boundary scanning, greedy line-breaking into linked
// rectangular blocks with overflow propagation, and the range-maximum
// index used to compute per-line ascender/leading in O(1).
package layout

import (
	"regexp"
	"unicode/utf8"
)

// Style pairs a font/size/leading with a colour. Colour is left as an
// opaque value here; it is filled in by the caller with whichever
// colour representation the document model defines, so this package
// doesn't need to import it.
type Style struct {
	Font    Measurer
	SizePt  float64
	Leading float64
	Color   any
}

// Measurer is the subset of font.Font a span's text needs measuring
// against: glyph lookup, advances, kerning and vertical metrics in
// 1000-unit em space.
type Measurer interface {
	GlyphId(r rune) uint16
	Width(gid uint16) float32
	Kern(left, right uint16) int16
	AscenderUnits() float32
}

// Span pairs a style with a run of characters containing no newline.
type Span struct {
	Style Style
	Text  string
}

// word is a scanned run (word plus its trailing space run) inside a
// single span, with its advances precomputed in user-space points.
type word struct {
	Span         int
	Char         int // byte offset within the span's Text
	WordEnd      int // byte offset where the word itself ends, before trailing space
	Length       int // bytes consumed (word + trailing space run)
	WordAdvance  float64
	SpaceAdvance float64
}

var wordPattern = regexp.MustCompile(`\S+`)

// measure returns the total horizontal advance, in points, of s
// (a substring of one span's text) under the given style, applying
// kerning between consecutive glyphs.
func measure(style Style, s string) float64 {
	if style.Font == nil || s == "" {
		return 0
	}
	total := 0.0
	var prev uint16
	havePrev := false
	for _, r := range s {
		gid := style.Font.GlyphId(r)
		if havePrev {
			total += float64(style.Font.Kern(prev, gid))
		}
		total += float64(style.Font.Width(gid))
		prev = gid
		havePrev = true
	}
	return total * style.SizePt / 1000
}

func isUnicodeSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x85, 0xA0, 0x2028, 0x2029:
		return true
	}
	return false
}

// scanWords splits a span's text into word+trailing-space runs, each
// carrying its own word and trailing-space advances.
func scanWords(spanIdx int, style Style, text string) []word {
	var words []word
	idx := 0
	for idx < len(text) {
		loc := wordPattern.FindStringIndex(text[idx:])
		if loc == nil {
			break
		}
		wordStart := idx + loc[0]
		wordEnd := idx + loc[1]

		spaceEnd := wordEnd
		for spaceEnd < len(text) {
			r, size := utf8.DecodeRuneInString(text[spaceEnd:])
			if !isUnicodeSpace(r) {
				break
			}
			spaceEnd += size
		}

		words = append(words, word{
			Span:         spanIdx,
			Char:         wordStart,
			WordEnd:      wordEnd,
			Length:       spaceEnd - wordStart,
			WordAdvance:  measure(style, text[wordStart:wordEnd]),
			SpaceAdvance: measure(style, text[wordEnd:spaceEnd]),
		})
		idx = spaceEnd
	}
	return words
}

// Glyph is one positioned glyph within a laid-out line: its glyph id,
// its pen position in line-local space (x from the line's left edge, y
// the line's own baseline), and the style it was measured under, so a
// rasterizing caller can resolve both the outline and its paint.
type Glyph struct {
	GID   uint16
	X, Y  float64
	Style Style
}

// buildGlyphs computes the positioned glyph run for a contiguous range
// of a paragraph's words, applying the same per-glyph advance/kerning
// accumulation measure uses for its aggregate totals.
func buildGlyphs(para *Paragraph, words []word, baseline float64) []Glyph {
	var glyphs []Glyph
	x := 0.0
	for _, w := range words {
		style := para.Spans[w.Span].Style
		if style.Font != nil {
			text := para.Spans[w.Span].Text[w.Char:w.WordEnd]
			var prev uint16
			havePrev := false
			for _, r := range text {
				gid := style.Font.GlyphId(r)
				if havePrev {
					x += float64(style.Font.Kern(prev, gid)) * style.SizePt / 1000
				}
				glyphs = append(glyphs, Glyph{GID: gid, X: x, Y: baseline, Style: style})
				x += float64(style.Font.Width(gid)) * style.SizePt / 1000
				prev = gid
				havePrev = true
			}
		}
		x += w.SpaceAdvance
	}
	return glyphs
}

// Align names a paragraph's horizontal line alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
	AlignJustify
)

// Paragraph is a non-empty ordered sequence of spans, with the per-span
// ascender/leading range-maximum indices built eagerly.
type Paragraph struct {
	Spans     []Span
	Align     Align
	words     []word
	ascenders *rangeMax
	leadings  *rangeMax
}

// NewParagraph builds a Paragraph from a non-empty span sequence,
// precomputing its word scan and ascender/leading RMQ indices.
func NewParagraph(spans []Span) *Paragraph {
	p := &Paragraph{Spans: spans}

	var words []word
	for i, s := range spans {
		words = append(words, scanWords(i, s.Style, s.Text)...)
	}
	p.words = words

	ascenders := make([]float64, len(spans))
	leadings := make([]float64, len(spans))
	for i, s := range spans {
		if s.Style.Font != nil {
			ascenders[i] = float64(s.Style.Font.AscenderUnits()) * s.Style.SizePt / 1000
		}
		leadings[i] = s.Style.Leading
	}
	p.ascenders = newRangeMax(ascenders)
	p.leadings = newRangeMax(leadings)
	return p
}

// MaxAscender returns the maximum ascender, in points, of spans [i,j].
func (p *Paragraph) MaxAscender(i, j int) float64 {
	if i > j {
		return 0
	}
	return p.ascenders.Max(i, j)
}

// MaxLeading returns the maximum leading, in points, of spans [i,j].
func (p *Paragraph) MaxLeading(i, j int) float64 {
	if i > j {
		return 0
	}
	return p.leadings.Max(i, j)
}

// lastSpan returns the paragraph's final span index, or 0 if empty.
func (p *Paragraph) lastSpan() int {
	if len(p.Spans) == 0 {
		return 0
	}
	return len(p.Spans) - 1
}

// Text is a non-empty ordered sequence of paragraphs, built by
// splitting the input spans on the universal newline set
// {CR LF, LF, VT, FF, CR, NEL, LS, PS}.
type Text struct {
	Paragraphs []*Paragraph
}

var newlinePattern = regexp.MustCompile("\r\n|[\n\v\f\r  ]")

// NewText splits an ordered run of styled spans into paragraphs. A
// span's text may itself contain newlines; each newline starts a new
// paragraph, and the style of the span containing it carries over to
// the trailing fragment.
func NewText(spans []Span) *Text {
	var paragraphSpans [][]Span
	var current []Span

	for _, span := range spans {
		text := span.Text
		idx := 0
		for {
			loc := newlinePattern.FindStringIndex(text[idx:])
			if loc == nil {
				current = append(current, Span{Style: span.Style, Text: text[idx:]})
				break
			}
			current = append(current, Span{Style: span.Style, Text: text[idx : idx+loc[0]]})
			paragraphSpans = append(paragraphSpans, current)
			current = nil
			idx += loc[1]
		}
	}
	paragraphSpans = append(paragraphSpans, current)

	t := &Text{}
	for _, spans := range paragraphSpans {
		t.Paragraphs = append(t.Paragraphs, NewParagraph(spans))
	}
	return t
}
