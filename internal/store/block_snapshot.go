package store

import (
	"fmt"

	"github.com/lineforge/lineforge/internal/block"
	"github.com/lineforge/lineforge/pkg/persist"
)

// blockByteEstimate approximates one Block's on-disk footprint (id, kind,
// parent/origin ids, claim set, timestamp, tags) for checkpoint retention
// bookkeeping, mirroring lineio's snapshotNodeByteSize estimate.
const blockByteEstimate = 96

const blocksBasename = "blocks"

var blocksPersister = persist.NewPersister[[]block.Snapshot](blocksBasename, persist.NewJSONCodec())

// blockSnapshotter adapts block.Flatten/block.Rebuild to
// pkg/checkpoint.Snapshotter.
type blockSnapshotter struct {
	store *Store
}

func (b *blockSnapshotter) SaveSnapshot(dir string) error {
	snaps := block.Flatten(b.store.Root)

	err := blocksPersister.Save(dir, func() *[]block.Snapshot { return &snaps })
	if err != nil {
		return fmt.Errorf("store: save block snapshot: %w", err)
	}

	return nil
}

func (b *blockSnapshotter) LoadSnapshot(dir string) error {
	var snaps []block.Snapshot

	err := blocksPersister.Load(dir, func(s *[]block.Snapshot) { snaps = *s })
	if err != nil {
		return fmt.Errorf("store: load block snapshot: %w", err)
	}

	blocks, root := block.Rebuild(b.store.File, snaps)

	b.store.Blocks = blocks
	b.store.Root = root

	return nil
}

func (b *blockSnapshotter) SnapshotSize() int64 {
	return int64(len(b.store.Blocks)) * blockByteEstimate
}
