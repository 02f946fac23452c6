package block

import "github.com/lineforge/lineforge/internal/lineio"

// ActiveLines returns this Block's claimed Lines that are active at
// block.timestamp, in order. This is the view get_text, get_active_line_count,
// insert_line_at, and update_line all index into.
func (b *Block) ActiveLines() []*lineio.Line {
	ts := b.Timestamp()

	claimed := b.ClaimedLines()
	active := make([]*lineio.Line, 0, len(claimed))

	for _, line := range claimed {
		if line.HeadAt(ts).IsActive {
			active = append(active, line)
		}
	}

	return active
}

// nthActiveLine returns the 1-based nth active Line, or false if n is out
// of [1, len(active)].
func nthActiveLine(active []*lineio.Line, n int) (*lineio.Line, bool) {
	if n < 1 || n > len(active) {
		return nil, false
	}

	return active[n-1], true
}
