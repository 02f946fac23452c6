package block

import "github.com/lineforge/lineforge/internal/coreerr"

// CreateChild resolves a 1-based inclusive {start, end} range against this
// Block's active lines and, unless it overlaps an existing sibling INLINE
// child, creates a new INLINE Block claiming exactly that set of Lines.
func (b *Block) CreateChild(start, end int) (*Block, error) {
	active := b.ActiveLines()

	if start < 1 || end < start || end > len(active) {
		return nil, coreerr.OutOfRange(opName("CreateChild"), nil)
	}

	low := active[start-1].Order
	high := active[end-1].Order

	b.mu.Lock()

	b.refreshSiblingOverlapLocked()

	if len(b.siblingOverlap.QueryOverlap(low, high)) > 0 {
		b.mu.Unlock()

		return nil, coreerr.Overlap(opName("CreateChild"), nil)
	}

	claimed := make([]uint32, 0, end-start+1)
	for _, line := range active[start-1 : end] {
		claimed = append(claimed, line.ID)
	}

	b.mu.Unlock()

	child := newInlineChild(b, claimed)

	b.mu.Lock()
	b.siblingOverlap.Insert(low, high, child.ID)
	b.mu.Unlock()

	b.addChild(child)

	return child, nil
}

// refreshSiblingOverlapLocked rebuilds the sibling interval index from the
// live children's current claimed order ranges. The ranges recorded at
// create_child time go stale three ways: claims grow as insertions
// propagate into a child's span, order keys move when the File renumbers,
// and deleted children leave the child map without visiting the index.
// Rebuilding against current state before each overlap query covers all
// three. Callers hold b.mu for writing.
func (b *Block) refreshSiblingOverlapLocked() {
	b.siblingOverlap.Clear()

	for _, child := range b.children {
		if child.Kind != KindInline {
			continue
		}

		low, high, ok := claimedOrderRange(b.File, child.claimedIDs())
		if !ok {
			continue
		}

		b.siblingOverlap.Insert(low, high, child.ID)
	}
}
