// Package block implements the Block hierarchy (ROOT/INLINE/CLONE), the
// per-block timeline engine, and create_child/copy/delete region
// operations described for the versioning core.
package block

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lineforge/lineforge/internal/lineio"
	"github.com/lineforge/lineforge/pkg/alg/interval"
	"github.com/lineforge/lineforge/pkg/alg/mapx"
)

// Kind distinguishes the three Block variants. Shared operations live
// directly on Block; type-specific behavior branches on Kind rather than
// through an inheritance hierarchy.
type Kind int

const (
	// KindRoot is the Block created at file load; it claims every Line
	// ever belonging to its File.
	KindRoot Kind = iota
	// KindInline is a user-defined child region claiming a fixed-at-creation
	// (but insertion-growable) subset of its parent's claimed lines.
	KindInline
	// KindClone is a fork of another Block, sharing its claimed lines at
	// the moment of the fork but carrying its own edit history from then on.
	KindClone
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "ROOT"
	case KindInline:
		return "INLINE"
	case KindClone:
		return "CLONE"
	default:
		return "UNKNOWN"
	}
}

// Block is a named region of a File with its own timestamp cursor. See
// Kind for the three variants.
type Block struct {
	ID     string
	Kind   Kind
	File   *lineio.File
	Parent *Block
	Origin *Block // set only for KindClone

	mu        sync.RWMutex
	timestamp int64
	claims    map[uint32]bool
	children  map[string]*Block
	deleted   bool
	tags      []TagRef

	// siblingOverlap indexes this Block's INLINE children by their
	// claimed-line order range, so create_child's overlap check against
	// siblings is a logarithmic interval query instead of an O(children)
	// scan over every sibling's claim set.
	siblingOverlap *interval.Tree[uint32, string]

	// registry is shared by every Block of the same File; see registry.go.
	registry *registry
}

// NewRoot creates the ROOT Block for a freshly loaded File, claiming every
// Line currently in it (file import always happens before the ROOT Block
// is constructed, so this is also every Line the File will ever contain
// until further edits, which propagate new lines into this claim set too).
func NewRoot(file *lineio.File) *Block {
	root := &Block{
		ID:             uuid.NewString(),
		Kind:           KindRoot,
		File:           file,
		claims:         make(map[uint32]bool),
		children:       make(map[string]*Block),
		siblingOverlap: interval.New[uint32, string](),
		registry:       newRegistry(),
	}

	var maxTS int64

	for _, line := range file.LinesInOrder() {
		root.claims[line.ID] = true
		if ts := line.Last().Timestamp; ts > maxTS {
			maxTS = ts
		}
	}

	root.timestamp = maxTS
	root.registry.index(root)

	return root
}

// Timestamp returns the Block's current head cursor.
func (b *Block) Timestamp() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.timestamp
}

// ApplyTimestamp sets block.timestamp = t. All read operations re-derive
// content from head_at(t) per line; no eager rewrite happens here.
func (b *Block) ApplyTimestamp(t int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.timestamp = t
}

// advanceTimestampLocked moves the Block's timestamp forward if t is newer.
// Callers already hold b.mu for writing.
func (b *Block) advanceTimestampLocked(t int64) {
	if t > b.timestamp {
		b.timestamp = t
	}
}

// advanceTimestamp moves the Block's timestamp forward if t is newer.
func (b *Block) advanceTimestamp(t int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advanceTimestampLocked(t)
}

// IsDeleted reports whether Delete has been called on this Block.
func (b *Block) IsDeleted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.deleted
}

// claimedIDsLocked returns this Block's claimed line ids. Callers must
// already hold at least a read lock.
func (b *Block) claimedIDsLocked() []uint32 {
	ids := make([]uint32, 0, len(b.claims))
	for id := range b.claims {
		ids = append(ids, id)
	}

	return ids
}

// claimedIDs returns this Block's claimed line ids under its own lock.
func (b *Block) claimedIDs() []uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.claimedIDsLocked()
}

// ClaimedLines returns this Block's claimed Lines, ordered by their
// position in the File.
func (b *Block) ClaimedLines() []*lineio.Line {
	b.mu.RLock()
	ids := b.claimedIDsLocked()
	b.mu.RUnlock()

	lines := make([]*lineio.Line, 0, len(ids))

	for _, id := range ids {
		if line, ok := b.File.Line(id); ok {
			lines = append(lines, line)
		}
	}

	orderedSortByOrder(lines)

	return lines
}

// Claims reports whether this Block currently claims the given line id.
func (b *Block) Claims(lineID uint32) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.claims[lineID]
}

// addClaim adds lineID to this Block's claim set and the shared registry.
// Used both at creation and by the edit engine's insertion propagation.
func (b *Block) addClaim(lineID uint32) {
	b.mu.Lock()
	already := b.claims[lineID]
	b.claims[lineID] = true
	b.mu.Unlock()

	if b.registry != nil {
		b.registry.recordClaim(b, lineID, already)
	}
}

// newInlineChild creates this Block's child (ROOT/INLINE's child is always
// INLINE); not exported, see CreateChild.
func newInlineChild(parent *Block, claimed []uint32) *Block {
	child := &Block{
		ID:             uuid.NewString(),
		Kind:           KindInline,
		File:           parent.File,
		Parent:         parent,
		claims:         make(map[uint32]bool, len(claimed)),
		children:       make(map[string]*Block),
		siblingOverlap: interval.New[uint32, string](),
		registry:       parent.registry,
		timestamp:      parent.Timestamp(),
	}

	for _, id := range claimed {
		child.claims[id] = true
	}

	child.registry.index(child)

	return child
}

// Copy forks this Block into a CLONE sharing the same claimed lines at the
// moment of the fork. Its timestamp is set to the maximum head timestamp
// currently active among those lines.
func (b *Block) Copy() *Block {
	b.mu.RLock()
	ids := b.claimedIDsLocked()
	ts := b.timestamp
	b.mu.RUnlock()

	clone := &Block{
		ID:             uuid.NewString(),
		Kind:           KindClone,
		File:           b.File,
		Origin:         b,
		claims:         make(map[uint32]bool, len(ids)),
		children:       make(map[string]*Block),
		siblingOverlap: interval.New[uint32, string](),
		registry:       b.registry,
	}

	cloned := mapx.CloneSlice(ids)
	for _, id := range cloned {
		clone.claims[id] = true
	}

	var maxHead int64

	for _, id := range ids {
		if line, ok := b.File.Line(id); ok {
			if head := line.HeadAt(ts); head.Timestamp > maxHead {
				maxHead = head.Timestamp
			}
		}
	}

	clone.timestamp = maxHead
	clone.registry.index(clone)

	return clone
}

// Children returns this Block's live (non-deleted) children.
func (b *Block) Children() []*Block {
	b.mu.RLock()
	defer b.mu.RUnlock()

	children := make([]*Block, 0, len(b.children))
	for _, c := range b.children {
		children = append(children, c)
	}

	return children
}

// Delete removes this Block from its parent's child map and deletes its
// own children recursively. Claimed Lines are untouched.
func (b *Block) Delete() {
	b.mu.Lock()
	b.deleted = true

	children := make([]*Block, 0, len(b.children))
	for _, c := range b.children {
		children = append(children, c)
	}

	b.children = make(map[string]*Block)
	b.mu.Unlock()

	for _, c := range children {
		c.Delete()
	}

	if b.registry != nil {
		b.registry.forget(b)
	}

	if b.Parent != nil {
		b.Parent.removeChild(b.ID)
	}
}

func (b *Block) removeChild(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.children, id)
}

func (b *Block) addChild(child *Block) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.children[child.ID] = child
}

// TagRef is a Tag attached to a Block, as reported by as_block_info. The
// tag registry owns the timestamp/text payload; Block only remembers that
// the tag exists.
type TagRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// AttachTag records that a Tag now exists on this Block. Called by the
// tag registry after it persists the tag itself.
func (b *Block) AttachTag(ref TagRef) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tags = append(b.tags, ref)
}

// TagRefs returns the Tags attached to this Block, in creation order.
func (b *Block) TagRefs() []TagRef {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return mapx.CloneSlice(b.tags)
}

// RangeInParent returns this Block's 1-based, inclusive {start, end}
// position within its Parent's current active lines. Unlike a range
// cached at create_child time, this is re-derived on every call: edits
// elsewhere in the parent (insertions before or within this Block's span)
// shift line positions, so a cached range would go stale. Zero values
// mean "not applicable" (ROOT has no parent; CLONE inherits no positional
// range; an empty Block claims nothing to locate).
func (b *Block) RangeInParent() (start, end int) {
	if b.Parent == nil {
		return 0, 0
	}

	parentActive := b.Parent.ActiveLines()
	ownActive := b.ActiveLines()

	if len(ownActive) == 0 {
		return 0, 0
	}

	ownIDs := make(map[uint32]bool, len(ownActive))
	for _, l := range ownActive {
		ownIDs[l.ID] = true
	}

	for i, l := range parentActive {
		if !ownIDs[l.ID] {
			continue
		}

		if start == 0 {
			start = i + 1
		}

		end = i + 1
	}

	return start, end
}

// propagateInsertion is called by the edit engine whenever a new Line is
// inserted adjacent to a Line this Block (or one of its descendants)
// claims. Every Block currently claiming the neighboring line gets the new
// line added to its claim, per the insertion primitive's contract.
func propagateInsertion(blocks []*Block, lineID uint32) {
	for _, blk := range blocks {
		blk.addClaim(lineID)
	}
}

// opName builds a consistent coreerr.Error Op string for this package's
// public methods.
func opName(name string) string { return "block." + name }
