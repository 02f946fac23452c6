package block

import (
	"github.com/lineforge/lineforge/internal/coreerr"
	"github.com/lineforge/lineforge/internal/lineio"
)

// ApplyIndex sets block.timestamp to the Version selected by the timeline
// index i, applying the PRE_INSERTION snap rules: scrubbing across a
// Line's birth reveals or hides it smoothly instead of landing on an
// invisible placeholder.
func (b *Block) ApplyIndex(i int) error {
	entries := b.Timeline()

	if i < 0 || i >= len(entries) {
		return coreerr.OutOfRange(opName("ApplyIndex"), nil)
	}

	currentIdx := b.currentIndexIn(entries)

	sel := entries[i]
	target := sel.Version

	var prev, next *TimelineEntry

	if i > 0 {
		prev = &entries[i-1]
	}

	if i+1 < len(entries) {
		next = &entries[i+1]
	}

	latest := sel.Version
	if currentIdx >= 0 {
		latest = entries[currentIdx].Version
	}

	switch {
	case prev != nil && prev.Version == latest && prev.Version.Kind == lineio.KindPreInsertion && b.lineEngaged(prev):
		if nv, ok := pairedInsertion(prev.Line); ok {
			target = nv
		}
	case next != nil && next.Version == latest && next.Version.Kind == lineio.KindPreInsertion && !b.lineEngaged(next):
		target = next.Version
	case sel.Version.Kind == lineio.KindPreInsertion && b.selOrNextHeads(sel, next):
		if nv, ok := pairedInsertion(sel.Line); ok {
			target = nv
		}
	}

	b.ApplyTimestamp(target.Timestamp)

	return nil
}

// selOrNextHeads reports whether sel's Line currently heads at sel itself
// or at the entry following it (its paired INSERTION). Either way the user
// landed directly on a birth step, and the snap skips the invisible state.
func (b *Block) selOrNextHeads(sel TimelineEntry, next *TimelineEntry) bool {
	head := sel.Line.HeadAt(b.Timestamp())

	if head == sel.Version {
		return true
	}

	return next != nil && next.Version == head
}

// lineEngaged reports whether entry's Line currently heads at its
// PRE_INSERTION Version (still hidden) under this Block's present
// timestamp, i.e. before ApplyIndex moves it.
func (b *Block) lineEngaged(entry *TimelineEntry) bool {
	return entry.Line.HeadAt(b.Timestamp()) == entry.Version
}

// pairedInsertion returns a Line's INSERTION Version, the always-second
// entry on a Line born mid-editing.
func pairedInsertion(line *lineio.Line) (*lineio.Version, bool) {
	versions := line.Versions()
	if len(versions) < 2 {
		return nil, false
	}

	return versions[1], true
}
