package layout

// PlacedText wraps a Layout as a chainable block: when its frame is
// resized it reflows in place, and if the reflow's new end position
// no longer matches the position the next block in the chain started
// from, that next block adopts the new start and reflows in turn. The
// chain is walked iteratively — there is no shared/concurrent mutation
// across blocks.
type PlacedText struct {
	layout *Layout
	next   *PlacedText
}

// NewPlacedText places text into a width x height frame, starting from
// the beginning of the text.
func NewPlacedText(text *Text, width, height float64) *PlacedText {
	return &PlacedText{layout: NewLayout(text, width, height)}
}

// Lines returns the block's committed line list.
func (p *PlacedText) Lines() []Line { return p.layout.Lines }

// LineOffset returns the x-offset, within the block's frame width, at
// which line i's content should start per its paragraph's alignment.
func (p *PlacedText) LineOffset(i int) float64 { return p.layout.LineOffset(i) }

// Overflow reports whether this chain, starting from this block, fails
// to reach the text's true tail: it follows the chain to its last block
// and compares that block's committed end against the tail.
func (p *PlacedText) Overflow() bool {
	last := p
	for last.next != nil {
		last = last.next
	}
	return last.layout.Overflow()
}

// Frame resizes this block and reflows it. If the new end position no
// longer matches the start the next chained block was reflowed from,
// the next block's start is updated and it reflows too, propagating
// down the chain until a block's end doesn't change its successor's
// start.
func (p *PlacedText) Frame(width, height float64) {
	p.layout.setFrame(width, height)
	p.propagate()
}

func (p *PlacedText) propagate() {
	cur := p
	for cur.next != nil {
		newStart := cur.layout.End()
		if cur.next.layout.start == newStart {
			return
		}
		cur.next.layout.start = newStart
		cur.next.layout.reflow()
		cur = cur.next
	}
}

// Chained forks a fresh block whose start is this block's current end,
// sized to width x height, and inserts it as this block's successor.
func (p *PlacedText) Chained(width, height float64) *PlacedText {
	next := &PlacedText{layout: &Layout{Text: p.layout.Text, Width: width, Height: height, start: p.layout.End()}}
	next.layout.reflow()
	p.next = next
	return next
}
