package store

import (
	"fmt"

	"github.com/lineforge/lineforge/internal/tagregistry"
	"github.com/lineforge/lineforge/pkg/persist"
)

// tagByteEstimate approximates one Tag's on-disk footprint (id, block id,
// name, timestamp, cached text) for checkpoint retention bookkeeping.
const tagByteEstimate = 128

const tagsBasename = "tags"

var tagsPersister = persist.NewPersister[[]tagregistry.Tag](tagsBasename, persist.NewJSONCodec())

// tagSnapshotter adapts tagregistry.Registry's Snapshot/Restore to
// pkg/checkpoint.Snapshotter. It must load after blockSnapshotter within the
// same Store.Load call, since Restore re-links each Tag to a live *Block by
// id.
type tagSnapshotter struct {
	store *Store
}

func (t *tagSnapshotter) SaveSnapshot(dir string) error {
	tags := t.store.Tags.Snapshot()

	err := tagsPersister.Save(dir, func() *[]tagregistry.Tag { return &tags })
	if err != nil {
		return fmt.Errorf("store: save tag snapshot: %w", err)
	}

	return nil
}

func (t *tagSnapshotter) LoadSnapshot(dir string) error {
	var tags []tagregistry.Tag

	err := tagsPersister.Load(dir, func(s *[]tagregistry.Tag) { tags = *s })
	if err != nil {
		return fmt.Errorf("store: load tag snapshot: %w", err)
	}

	reg, err := tagregistry.Restore(tags, t.store.Blocks, t.store.bloomEstimate, t.store.bloomFP)
	if err != nil {
		return fmt.Errorf("store: restore tag registry: %w", err)
	}

	t.store.Tags = reg

	return nil
}

func (t *tagSnapshotter) SnapshotSize() int64 {
	return int64(len(t.store.Tags.Snapshot())) * tagByteEstimate
}
