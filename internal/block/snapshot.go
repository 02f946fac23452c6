package block

import (
	"github.com/lineforge/lineforge/internal/lineio"
	"github.com/lineforge/lineforge/pkg/alg/interval"
)

// Snapshot is the on-disk shape of one Block, used by internal/store to
// persist and restore a File's whole Block tree. It mirrors the flat
// id/parent-id shape lineio's own fileSnapshot/lineSnapshot pair uses for
// the order index: no pointers, just ids a rebuild pass can resolve.
type Snapshot struct {
	ID        string   `json:"id"`
	Kind      Kind     `json:"kind"`
	ParentID  string   `json:"parent_id,omitempty"`
	OriginID  string   `json:"origin_id,omitempty"`
	Claims    []uint32 `json:"claims"`
	Timestamp int64    `json:"timestamp"`
	Tags      []TagRef `json:"tags,omitempty"`
}

// Snapshot captures this Block's persistable state.
func (b *Block) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		ID:        b.ID,
		Kind:      b.Kind,
		Claims:    b.claimedIDsLocked(),
		Timestamp: b.timestamp,
		Tags:      append([]TagRef(nil), b.tags...),
	}

	if b.Parent != nil {
		snap.ParentID = b.Parent.ID
	}

	if b.Origin != nil {
		snap.OriginID = b.Origin.ID
	}

	return snap
}

// Flatten walks root and every live descendant, depth-first, returning one
// Snapshot per Block. Deleted Blocks are already unreachable from root (see
// Delete's parent detach), so they are never included.
func Flatten(root *Block) []Snapshot {
	var out []Snapshot

	var walk func(*Block)

	walk = func(blk *Block) {
		out = append(out, blk.Snapshot())

		for _, child := range blk.Children() {
			walk(child)
		}
	}

	walk(root)

	return out
}

// Rebuild reconstructs a File's Block tree from Flatten's output. It
// returns every Block keyed by id, plus the ROOT Block specifically.
func Rebuild(file *lineio.File, snaps []Snapshot) (map[string]*Block, *Block) {
	reg := newRegistry()
	blocks := make(map[string]*Block, len(snaps))

	for _, snap := range snaps {
		blk := &Block{
			ID:             snap.ID,
			Kind:           snap.Kind,
			File:           file,
			claims:         make(map[uint32]bool, len(snap.Claims)),
			children:       make(map[string]*Block),
			siblingOverlap: interval.New[uint32, string](),
			registry:       reg,
			timestamp:      snap.Timestamp,
			tags:           append([]TagRef(nil), snap.Tags...),
		}

		for _, id := range snap.Claims {
			blk.claims[id] = true
		}

		blocks[snap.ID] = blk
	}

	var root *Block

	for _, snap := range snaps {
		blk := blocks[snap.ID]

		switch {
		case snap.ParentID != "":
			parent := blocks[snap.ParentID]
			blk.Parent = parent
			parent.children[blk.ID] = blk

			if blk.Kind == KindInline {
				if low, high, ok := claimedOrderRange(file, snap.Claims); ok {
					parent.siblingOverlap.Insert(low, high, blk.ID)
				}
			}
		default:
			root = blk
		}

		if snap.OriginID != "" {
			blk.Origin = blocks[snap.OriginID]
		}
	}

	for _, blk := range blocks {
		reg.index(blk)
	}

	return blocks, root
}

// claimedOrderRange returns the min/max File order key among the given
// claimed line ids, used to build a parent's sibling-overlap interval
// index. ok is false when none of the ids resolve to a live Line.
func claimedOrderRange(file *lineio.File, ids []uint32) (low, high uint32, ok bool) {
	first := true

	for _, id := range ids {
		line, found := file.Line(id)
		if !found {
			continue
		}

		if first || line.Order < low {
			low = line.Order
		}

		if first || line.Order > high {
			high = line.Order
		}

		first = false
	}

	return low, high, !first
}
