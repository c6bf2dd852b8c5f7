package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedFont is a stub Measurer: every glyph has the same advance, no
// kerning, and a fixed ascender.
type fixedFont struct {
	advance float32
	ascent  float32
}

func (f fixedFont) GlyphId(r rune) uint16    { return 1 }
func (f fixedFont) Width(gid uint16) float32 { return f.advance }
func (f fixedFont) Kern(a, b uint16) int16   { return 0 }
func (f fixedFont) AscenderUnits() float32   { return f.ascent }

func plainStyle() Style {
	return Style{Font: fixedFont{advance: 500, ascent: 750}, SizePt: 10, Leading: 12}
}

func TestNewTextSplitsOnNewlines(t *testing.T) {
	text := NewText([]Span{{Style: plainStyle(), Text: "first\nsecond\r\nthird"}})
	require.Len(t, text.Paragraphs, 3)
	assert.Equal(t, "first", text.Paragraphs[0].Spans[0].Text)
	assert.Equal(t, "second", text.Paragraphs[1].Spans[0].Text)
	assert.Equal(t, "third", text.Paragraphs[2].Spans[0].Text)
}

func TestRangeMaxBasic(t *testing.T) {
	rm := newRangeMax([]float64{3, 1, 4, 1, 5, 9, 2, 6})
	assert.Equal(t, 9.0, rm.Max(0, 7))
	assert.Equal(t, 4.0, rm.Max(0, 2))
	assert.Equal(t, 9.0, rm.Max(3, 5))
	assert.Equal(t, 1.0, rm.Max(1, 1))
}

func TestLayoutSingleLineFits(t *testing.T) {
	text := NewText([]Span{{Style: plainStyle(), Text: "Hello world!"}})
	l := NewLayout(text, 1000, 1000)
	assert.False(t, l.Overflow())
	require.Len(t, l.Lines, 1)
	assert.Equal(t, 7.5, l.Lines[0].Height) // ascent 750 * size 10 / 1000
}

func TestLayoutSingleLineGlyphRun(t *testing.T) {
	text := NewText([]Span{{Style: plainStyle(), Text: "Hello world!"}})
	l := NewLayout(text, 1000, 1000)
	require.Len(t, l.Lines, 1)

	line := l.Lines[0]
	assert.Equal(t, 7.5, line.Baseline) // ascent 750 * size 10 / 1000
	require.Len(t, line.Glyphs, 11)     // "Hello" + "world!", space contributes no glyph

	for i, g := range line.Glyphs {
		assert.Equal(t, uint16(1), g.GID)
		assert.Equal(t, 7.5, g.Y)
		wantX := float64(i) * 5 // each glyph advances 5pt, no kerning
		if i >= 5 {
			wantX += 5 // the space after "Hello" advances the pen without a glyph
		}
		assert.InDelta(t, wantX, g.X, 1e-9)
	}
}

func TestLayoutZeroWidthOverflowsImmediately(t *testing.T) {
	text := NewText([]Span{{Style: plainStyle(), Text: "Hello world!"}})
	l := NewLayout(text, 0, 1000)
	assert.True(t, l.Overflow())
	assert.Empty(t, l.Lines)
}

func TestLayoutWrapsLongText(t *testing.T) {
	style := plainStyle() // each glyph advance = 500 * 10/1000 = 5pt
	// word advances: "one"=15, "two"=15, "three"=25, "four"=20, spaces=5 each
	text := NewText([]Span{{Style: style, Text: "one two three four"}})
	l := NewLayout(text, 35, 1000) // "one two" (35pt) fits, "three" (25) wraps
	assert.False(t, l.Overflow())
	assert.True(t, len(l.Lines) >= 2)

	// "one two" is 6 letters; the second line's glyph run restarts at x=0.
	require.Len(t, l.Lines[0].Glyphs, 6)
	require.NotEmpty(t, l.Lines[1].Glyphs)
	assert.Equal(t, 0.0, l.Lines[1].Glyphs[0].X)
}

func TestPlacedTextChainPropagatesOnFrameChange(t *testing.T) {
	style := plainStyle()
	words := ""
	for i := 0; i < 200; i++ {
		words += "word "
	}
	text := NewText([]Span{{Style: style, Text: words}})

	block := NewPlacedText(text, 20, 20)
	require.True(t, block.Overflow())

	next := block.Chained(20, 1000)
	assert.True(t, next.layout.start == block.layout.End())

	block.Frame(20, 1000)
	assert.Equal(t, block.layout.End(), next.layout.start)
}

func TestLayoutLineOffsetPerAlign(t *testing.T) {
	// "Hello"=25pt, space=5pt, "world!"=30pt -> content width 60pt.
	text := NewText([]Span{{Style: plainStyle(), Text: "Hello world!"}})

	text.Paragraphs[0].Align = AlignLeft
	l := NewLayout(text, 1000, 1000)
	require.Len(t, l.Lines, 1)
	assert.Equal(t, 60.0, l.Lines[0].ContentWidth)
	assert.Equal(t, 0.0, l.LineOffset(0))

	text.Paragraphs[0].Align = AlignRight
	l = NewLayout(text, 1000, 1000)
	assert.Equal(t, 940.0, l.LineOffset(0))

	text.Paragraphs[0].Align = AlignCenter
	l = NewLayout(text, 1000, 1000)
	assert.Equal(t, 470.0, l.LineOffset(0))
}

func TestOverflowFalseWhenAllTextFits(t *testing.T) {
	text := NewText([]Span{{Style: plainStyle(), Text: "short"}})
	block := NewPlacedText(text, 1000, 1000)
	assert.False(t, block.Overflow())
}
