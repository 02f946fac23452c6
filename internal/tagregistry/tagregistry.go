// Package tagregistry implements named bookmarks over Block timestamps:
// create_tag, load_tag, and the idempotent get_text_for_version peek.
package tagregistry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lineforge/lineforge/internal/block"
	"github.com/lineforge/lineforge/internal/coreerr"
	"github.com/lineforge/lineforge/pkg/alg/bloom"
)

// Tag is a named, recoverable snapshot of a Block's timeline position.
type Tag struct {
	ID         string
	BlockID    string
	Name       string
	Timestamp  int64
	CachedText string
}

// Registry owns every Tag created against a File's Blocks. A bloom filter
// pre-checks name existence in CreateTag, so a fresh name skips the byName
// duplicate lookup; lookups by tag id (load_tag, get_text_for_version) go
// straight to the backing maps.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]*Tag
	byName  map[string]*Tag
	blocks  map[string]*block.Block
	nameDup *bloom.Filter
}

// New builds a Registry sized for an expected number of tags at the given
// false-positive rate (wired from Config.Tags.BloomEstimate).
func New(expectedTags uint, falsePositive float64) (*Registry, error) {
	if expectedTags == 0 {
		expectedTags = 1
	}

	filter, err := bloom.NewWithEstimates(expectedTags, falsePositive)
	if err != nil {
		return nil, coreerr.Storage(opName("New"), err)
	}

	return &Registry{
		byID:    make(map[string]*Tag),
		byName:  make(map[string]*Tag),
		blocks:  make(map[string]*block.Block),
		nameDup: filter,
	}, nil
}

// CreateTag captures blk's current timestamp and text under name, rejecting
// a name already in use. It calls blk.AttachTag so as_block_info's Tags
// field reflects the new tag immediately.
func (r *Registry) CreateTag(blk *block.Block, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameDup.Test([]byte(name)) {
		if _, exists := r.byName[name]; exists {
			return "", coreerr.Conflict(opName("CreateTag"), nil)
		}
	}

	tag := &Tag{
		ID:         uuid.NewString(),
		BlockID:    blk.ID,
		Name:       name,
		Timestamp:  blk.Timestamp(),
		CachedText: blk.GetText(),
	}

	r.byID[tag.ID] = tag
	r.byName[name] = tag
	r.blocks[tag.ID] = blk
	r.nameDup.Add([]byte(name))

	blk.AttachTag(block.TagRef{ID: tag.ID, Name: name})

	return tag.ID, nil
}

// LoadTag sets the owning Block's timestamp to the tag's captured moment
// and returns the full text of the Block at that timestamp.
func (r *Registry) LoadTag(tagID string) (string, error) {
	r.mu.RLock()
	tag, blk, ok := r.lookupLocked(tagID)
	r.mu.RUnlock()

	if !ok {
		return "", coreerr.NotFound(opName("LoadTag"), nil)
	}

	blk.ApplyTimestamp(tag.Timestamp)

	return blk.GetText(), nil
}

// GetTextForVersion is an idempotent peek: it captures the Block's current
// timestamp, loads the tag, reads its text, then restores the Block to the
// timestamp it held before the call.
func (r *Registry) GetTextForVersion(tagID string) (string, error) {
	r.mu.RLock()
	tag, blk, ok := r.lookupLocked(tagID)
	r.mu.RUnlock()

	if !ok {
		return "", coreerr.NotFound(opName("GetTextForVersion"), nil)
	}

	prev := blk.Timestamp()

	blk.ApplyTimestamp(tag.Timestamp)
	text := blk.GetText()
	blk.ApplyTimestamp(prev)

	return text, nil
}

// TagByID returns the Tag record for tagID, if any.
func (r *Registry) TagByID(tagID string) (*Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, ok := r.byID[tagID]

	return tag, ok
}

// Snapshot returns every Tag currently known to the registry, for
// internal/store to persist. Order is unspecified.
func (r *Registry) Snapshot() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tag, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, *t)
	}

	return out
}

// Restore rebuilds a Registry from a prior Snapshot, re-linking each Tag to
// its owning Block via blocks (keyed by Block.ID, as returned by
// block.Rebuild). It does not call Block.AttachTag: the owning Block's own
// persisted Snapshot already carries its TagRefs, so re-attaching here
// would duplicate them.
func Restore(tags []Tag, blocks map[string]*block.Block, expectedTags uint, falsePositive float64) (*Registry, error) {
	reg, err := New(expectedTags, falsePositive)
	if err != nil {
		return nil, err
	}

	for _, t := range tags {
		tag := t

		reg.byID[tag.ID] = &tag
		reg.byName[tag.Name] = &tag
		reg.nameDup.Add([]byte(tag.Name))

		if blk, ok := blocks[tag.BlockID]; ok {
			reg.blocks[tag.ID] = blk
		}
	}

	return reg, nil
}

func (r *Registry) lookupLocked(tagID string) (*Tag, *block.Block, bool) {
	tag, ok := r.byID[tagID]
	if !ok {
		return nil, nil, false
	}

	blk, ok := r.blocks[tagID]
	if !ok {
		return nil, nil, false
	}

	return tag, blk, true
}

func opName(name string) string { return "tagregistry." + name }
