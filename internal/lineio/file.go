package lineio

import (
	"errors"
	"math"
	"sync"

	"github.com/lineforge/lineforge/internal/clock"
	"github.com/lineforge/lineforge/internal/coreerr"
	"github.com/lineforge/lineforge/pkg/rbtree"
	"github.com/lineforge/lineforge/pkg/safeconv"
)

// initialOrderSpacing is the gap left between neighboring order keys when a
// File is first imported or renumbered, matching the dense-key scheme
// described for the File's line list.
const initialOrderSpacing = 1 << 20

// errNoOrderRoom is returned internally when two neighboring order keys
// have no integer strictly between them; callers never see it, since File
// renumbers and retries before giving up.
var errNoOrderRoom = errors.New("lineio: no order-key room between neighbors")

// File owns the ordered sequence of Lines for one editor buffer. The order
// index is kept in an arena-based red-black tree keyed by a dense uint32
// order key, so insertion between two neighbors, and full renumbering on
// key exhaustion, are both straightforward tree operations.
type File struct {
	ID  string
	EOL string

	Clock *clock.Provider

	mu         sync.Mutex
	allocator  *rbtree.Allocator
	tree       *rbtree.RBTree
	lines      map[uint32]*Line
	nextLineID uint32
}

// NewFile creates an empty File. If allocator is nil, a private one is
// created; callers that want several Files to share a pool of shards (see
// pkg/rbtree's ShardedAllocator) pass one in explicitly.
func NewFile(id, eol string, allocator *rbtree.Allocator) *File {
	if allocator == nil {
		allocator = rbtree.NewAllocator()
	}

	return &File{
		ID:        id,
		EOL:       eol,
		Clock:     clock.New(),
		allocator: allocator,
		tree:      rbtree.NewRBTree(allocator),
		lines:     make(map[uint32]*Line),
	}
}

// Import creates one Line per content string, each carrying a single
// IMPORTED Version stamped with the same shared timestamp, evenly spaced
// across the order key space. Import is only valid on an empty File.
func (f *File) Import(contents []string) []*Line {
	f.mu.Lock()
	defer f.mu.Unlock()

	ts := f.Clock.Next()
	lines := make([]*Line, len(contents))
	spacing := orderSpacing(len(contents))

	for i, content := range contents {
		order := spacing * safeconv.MustIntToUint32(i+1)
		id := f.nextLineID
		f.nextLineID++

		line := newLine(id, order, &Version{
			Timestamp: ts,
			Content:   content,
			IsActive:  true,
			Kind:      KindImported,
		})

		f.lines[id] = line
		f.tree.Insert(rbtree.Item{Key: order, Value: id})
		lines[i] = line
	}

	return lines
}

// Line returns the Line with the given id.
func (f *File) Line(id uint32) (*Line, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.lines[id]

	return l, ok
}

// Count returns the number of Lines in the File (including inactive ones).
func (f *File) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.tree.Len()
}

// LinesInOrder returns every Line in the File, ordered by order key.
func (f *File) LinesInOrder() []*Line {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]*Line, 0, f.tree.Len())

	for it := f.tree.Min(); !it.Limit(); it = it.Next() {
		lines = append(lines, f.lines[it.Item().Value])
	}

	return lines
}

// First returns the File's first Line in order, or nil if the File is
// empty.
func (f *File) First() *Line {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.firstLocked()
}

// Last returns the File's last Line in order, or nil if the File is empty.
func (f *File) Last() *Line {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastLocked()
}

func (f *File) firstLocked() *Line {
	it := f.tree.Min()
	if it.Limit() {
		return nil
	}

	return f.lines[it.Item().Value]
}

func (f *File) lastLocked() *Line {
	it := f.tree.Max()
	if it.Limit() {
		return nil
	}

	return f.lines[it.Item().Value]
}

// LineAfter returns the Line immediately following id in order, if any.
func (f *File) LineAfter(id uint32) (*Line, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line, ok := f.lines[id]
	if !ok {
		return nil, false
	}

	it := f.tree.FindGE(line.Order)
	if it.Limit() || it.Item().Value != id {
		return nil, false
	}

	next := it.Next()
	if next.Limit() {
		return nil, false
	}

	return f.lines[next.Item().Value], true
}

// LineBefore returns the Line immediately preceding id in order, if any.
func (f *File) LineBefore(id uint32) (*Line, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line, ok := f.lines[id]
	if !ok {
		return nil, false
	}

	it := f.tree.FindGE(line.Order)
	if it.Limit() || it.Item().Value != id {
		return nil, false
	}

	prev := it.Prev()
	if prev.NegativeLimit() {
		return nil, false
	}

	return f.lines[prev.Item().Value], true
}

// Prepend inserts a new Line before every existing Line.
func (f *File) Prepend(content string) *Line {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.insertBetweenLocked(nil, f.firstLocked(), content)
}

// AppendLine inserts a new Line after every existing Line.
func (f *File) AppendLine(content string) *Line {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.insertBetweenLocked(f.lastLocked(), nil, content)
}

// InsertBetween inserts a new Line strictly between prev and next in order.
// Either may be nil to mean "no neighbor on that side" (append/prepend).
// The new Line is born with a PRE_INSERTION Version followed immediately
// by an INSERTION Version, per the pre-insertion contract.
func (f *File) InsertBetween(prev, next *Line, content string) *Line {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.insertBetweenLocked(prev, next, content)
}

func (f *File) insertBetweenLocked(prev, next *Line, content string) *Line {
	order, err := f.midpointLocked(prev, next)
	if err != nil {
		f.renumberLocked()

		order, err = f.midpointLocked(prev, next)
		if err != nil {
			// Renumbering always frees room between any two distinct
			// neighbors; reaching here means the tree's order-key
			// invariant was already broken before this call.
			coreerr.PanicInvariant("lineio.insert_between", err)
		}
	}

	id := f.nextLineID
	f.nextLineID++

	pre := &Version{Timestamp: f.Clock.Next(), IsActive: false, Kind: KindPreInsertion}
	ins := &Version{Timestamp: f.Clock.Next(), Content: content, IsActive: true, Kind: KindInsertion}

	line := newLine(id, order, pre)
	_ = line.Append(ins)

	f.lines[id] = line
	f.tree.Insert(rbtree.Item{Key: order, Value: id})

	return line
}

func (f *File) midpointLocked(prev, next *Line) (uint32, error) {
	var low, high uint64

	if prev != nil {
		low = uint64(prev.Order) + 1
	}

	if next != nil {
		high = uint64(next.Order)
	} else {
		high = uint64(math.MaxUint32)
	}

	if high <= low {
		return 0, errNoOrderRoom
	}

	mid := low + (high-low)/2

	return uint32(mid), nil //nolint:gosec // bounded above by math.MaxUint32
}

// renumberLocked reassigns evenly-spaced order keys to every Line,
// preserving their relative order, and rebuilds the tree around them. It
// runs when two neighbors' order keys collide (no integer strictly
// between them).
func (f *File) renumberLocked() {
	ids := make([]uint32, 0, f.tree.Len())

	for it := f.tree.Min(); !it.Limit(); it = it.Next() {
		ids = append(ids, it.Item().Value)
	}

	f.tree.Erase()

	spacing := orderSpacing(len(ids))

	for i, id := range ids {
		order := spacing * safeconv.MustIntToUint32(i+1)
		f.lines[id].Order = order
		f.tree.Insert(rbtree.Item{Key: order, Value: id})
	}
}

// orderSpacing picks the gap between neighboring order keys for n lines:
// the default spacing when it fits, otherwise the widest even spacing the
// uint32 key space allows.
func orderSpacing(n int) uint32 {
	spacing := uint64(math.MaxUint32) / uint64(n+1)
	if spacing > initialOrderSpacing {
		spacing = initialOrderSpacing
	}

	if spacing == 0 {
		spacing = 1
	}

	return uint32(spacing) //nolint:gosec // bounded above by initialOrderSpacing
}
