package lineio

import (
	"fmt"

	"github.com/lineforge/lineforge/internal/clock"
	"github.com/lineforge/lineforge/pkg/persist"
	"github.com/lineforge/lineforge/pkg/rbtree"
)

// snapshotNodeByteSize approximates the per-node footprint (key, value,
// left/parent/right/color) kept in the allocator's node storage.
const snapshotNodeByteSize = 4 * 5

// lineSnapshot is the on-disk shape of one Line: its order key plus its
// full, append-only Version history.
type lineSnapshot struct {
	ID       uint32     `json:"id"`
	Order    uint32     `json:"order"`
	Versions []*Version `json:"versions"`
}

// fileSnapshot is the on-disk shape of a File's line metadata. The order
// index's node storage is snapshotted separately via the allocator's own
// Hibernate/Serialize (already a compact lz4-compressed uint32-slice
// format); this snapshot carries the tree's root/min/max pointers (which
// Hibernate/Boot do not preserve on their own) plus every Line's Version
// history.
type fileSnapshot struct {
	EOL        string         `json:"eol"`
	NextLineID uint32         `json:"next_line_id"`
	LastTick   int64          `json:"last_tick"`
	TreeRoot   uint32         `json:"tree_root"`
	TreeMin    uint32         `json:"tree_min"`
	TreeMax    uint32         `json:"tree_max"`
	TreeCount  int32          `json:"tree_count"`
	Lines      []lineSnapshot `json:"lines"`
}

const linesBasename = "lines"

var linesPersister = persist.NewPersister[fileSnapshot](linesBasename, persist.NewJSONCodec())

// SaveSnapshot serializes the File's order index (hibernated, lz4-compressed)
// and every Line's Version history into dir. It implements
// pkg/checkpoint.Snapshotter.
func (f *File) SaveSnapshot(dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.allocator.Hibernate()

	orderPath := dir + "/order.rbtree"

	err := f.allocator.Serialize(orderPath)
	if err == nil {
		// Serialize drops the in-memory compressed buffers that Boot needs;
		// read them back from the file just written.
		err = f.allocator.Deserialize(orderPath)
	}

	f.allocator.Boot()

	if err != nil {
		return fmt.Errorf("lineio: serialize order index: %w", err)
	}

	root, minNode, maxNode, count := f.tree.TreeState()

	snap := fileSnapshot{
		EOL:        f.EOL,
		NextLineID: f.nextLineID,
		LastTick:   f.Clock.Last(),
		TreeRoot:   root,
		TreeMin:    minNode,
		TreeMax:    maxNode,
		TreeCount:  count,
		Lines:      make([]lineSnapshot, 0, len(f.lines)),
	}

	for id, line := range f.lines {
		snap.Lines = append(snap.Lines, lineSnapshot{ID: id, Order: line.Order, Versions: line.versions})
	}

	err = linesPersister.Save(dir, func() *fileSnapshot { return &snap })
	if err != nil {
		return fmt.Errorf("lineio: save line snapshots: %w", err)
	}

	return nil
}

// LoadSnapshot restores a File previously written by SaveSnapshot. The File
// must already exist (via NewFile) with a fresh allocator; its contents are
// replaced.
func (f *File) LoadSnapshot(dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Deserialize requires a not-yet-booted allocator (storage == nil);
	// a File constructed via NewFile already has a live, booted
	// allocator, so swap in a bare one before reading the snapshot.
	f.allocator = &rbtree.Allocator{}

	orderPath := dir + "/order.rbtree"

	err := f.allocator.Deserialize(orderPath)
	if err != nil {
		return fmt.Errorf("lineio: deserialize order index: %w", err)
	}

	f.allocator.Boot()

	var snap fileSnapshot

	err = linesPersister.Load(dir, func(s *fileSnapshot) { snap = *s })
	if err != nil {
		return fmt.Errorf("lineio: load line snapshots: %w", err)
	}

	f.EOL = snap.EOL
	f.nextLineID = snap.NextLineID
	f.Clock = clock.Restore(snap.LastTick)
	f.lines = make(map[uint32]*Line, len(snap.Lines))

	for _, ls := range snap.Lines {
		line := &Line{ID: ls.ID, Order: ls.Order, versions: ls.Versions}
		f.lines[ls.ID] = line
	}

	f.tree = rbtree.NewRBTree(f.allocator)
	f.tree.RestoreTreeState(snap.TreeRoot, snap.TreeMin, snap.TreeMax, snap.TreeCount)

	return nil
}

// SnapshotSize reports the in-memory byte footprint of the order index,
// used by pkg/checkpoint's retention bookkeeping.
func (f *File) SnapshotSize() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return int64(f.allocator.Used()) * snapshotNodeByteSize
}
