// Package store wires a File's Line/Version history, its Block hierarchy,
// and its Tag registry to on-disk checkpoints through pkg/checkpoint, so a
// Session can resume exactly where a prior process left off.
package store

import (
	"fmt"
	"sort"

	"github.com/lineforge/lineforge/internal/block"
	"github.com/lineforge/lineforge/internal/lineio"
	"github.com/lineforge/lineforge/internal/tagregistry"
	"github.com/lineforge/lineforge/pkg/checkpoint"
)

// defaultBloomFP is used when a Store is restored without an explicit
// Config.Tags.BloomFalsePositiveRate (e.g. a checkpoint written by an older
// build); it matches internal/session's default.
const defaultBloomFP = 0.01

// Store owns one File's full persistable state: its Line/Version history
// (via *lineio.File, already a pkg/checkpoint.Snapshotter), its Block
// hierarchy, and its Tag registry.
type Store struct {
	FilePath string

	File   *lineio.File
	Root   *block.Block
	Blocks map[string]*block.Block
	Tags   *tagregistry.Registry

	manager       *checkpoint.Manager
	bloomEstimate uint
	bloomFP       float64
}

// New builds a Store around an already-constructed File/Root/Tags triple
// (typically produced by internal/session's load_file), ready to Save to or
// Load from baseDir.
func New(baseDir, filePath string, file *lineio.File, root *block.Block, tags *tagregistry.Registry, bloomEstimate uint, bloomFP float64) *Store {
	if bloomFP <= 0 {
		bloomFP = defaultBloomFP
	}

	hash := checkpoint.FileHash(filePath)

	return &Store{
		FilePath:      filePath,
		File:          file,
		Root:          root,
		Blocks:        blockMap(root),
		Tags:          tags,
		manager:       checkpoint.NewManager(baseDir, hash),
		bloomEstimate: bloomEstimate,
		bloomFP:       bloomFP,
	}
}

// Save writes a full checkpoint: the File's own Line/Version snapshot, the
// flattened Block tree, and the Tag registry.
func (s *Store) Save(state checkpoint.SessionState) error {
	s.Blocks = blockMap(s.Root)

	snapshotters := []checkpoint.Snapshotter{
		s.File,
		&blockSnapshotter{store: s},
		&tagSnapshotter{store: s},
	}

	blockIDs := make([]string, 0, len(s.Blocks))
	for id := range s.Blocks {
		blockIDs = append(blockIDs, id)
	}

	sort.Strings(blockIDs)

	err := s.manager.Save(snapshotters, state, s.FilePath, blockIDs)
	if err != nil {
		return fmt.Errorf("store: save checkpoint: %w", err)
	}

	return nil
}

// Exists reports whether a checkpoint for this Store's file already exists.
func (s *Store) Exists() bool { return s.manager.Exists() }

// Load restores the File, Block tree, and Tag registry from the checkpoint
// written by a prior Save, replacing s.File/s.Root/s.Blocks/s.Tags in place.
func (s *Store) Load() (*checkpoint.SessionState, error) {
	blockSnap := &blockSnapshotter{store: s}
	tagSnap := &tagSnapshotter{store: s}

	snapshotters := []checkpoint.Snapshotter{s.File, blockSnap, tagSnap}

	state, err := s.manager.Load(snapshotters)
	if err != nil {
		return nil, fmt.Errorf("store: load checkpoint: %w", err)
	}

	return state, nil
}

// blockMap walks root's live tree into an id-keyed map.
func blockMap(root *block.Block) map[string]*block.Block {
	out := make(map[string]*block.Block)

	var walk func(*block.Block)

	walk = func(blk *block.Block) {
		out[blk.ID] = blk

		for _, child := range blk.Children() {
			walk(child)
		}
	}

	walk(root)

	return out
}
