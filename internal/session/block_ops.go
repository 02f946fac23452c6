package session

import (
	"context"

	"github.com/lineforge/lineforge/internal/block"
	"github.com/lineforge/lineforge/internal/editengine"
	"github.com/lineforge/lineforge/internal/store"
)

// GetBlockInfo summarizes blockID: its range within its parent, user-version
// count, current timeline index, and attached tags.
func (s *Session) GetBlockInfo(ctx context.Context, blockID string) (block.Info, error) {
	return instrumentValue(s, ctx, "get_block_info", blockID, func(context.Context) (block.Info, error) {
		st, blk, err := s.resolve(blockID)
		if err != nil {
			return block.Info{}, err
		}

		return blk.AsBlockInfo(st.File.ID), nil
	})
}

// GetChildrenInfo summarizes every live child of blockID.
func (s *Session) GetChildrenInfo(ctx context.Context, blockID string) ([]block.Info, error) {
	return instrumentValue(s, ctx, "get_children_info", blockID, func(context.Context) ([]block.Info, error) {
		st, blk, err := s.resolve(blockID)
		if err != nil {
			return nil, err
		}

		children := blk.Children()
		infos := make([]block.Info, len(children))

		for i, child := range children {
			infos[i] = child.AsBlockInfo(st.File.ID)
		}

		return infos, nil
	})
}

// GetText renders blockID's active content at its current timestamp.
// clonesToConsider names CLONE block ids whose own, possibly later, line
// heads should override blockID's where they share a claimed line;
// unresolvable ids are silently skipped rather than failing the whole
// render, since a stale clone id is harmless to omit.
// Renders with no override set are memoized in the session's render cache.
func (s *Session) GetText(ctx context.Context, blockID string, clonesToConsider []string) (string, error) {
	return instrumentValue(s, ctx, "get_text", blockID, func(context.Context) (string, error) {
		_, blk, err := s.resolve(blockID)
		if err != nil {
			return "", err
		}

		if len(clonesToConsider) == 0 {
			key := cacheKey{BlockID: blockID, Timestamp: blk.Timestamp()}
			if text, ok := s.cachedText(key); ok {
				return text, nil
			}

			text := blk.GetText()
			s.cacheText(key, text)

			return text, nil
		}

		clones := make([]*block.Block, 0, len(clonesToConsider))

		for _, id := range clonesToConsider {
			if _, clone, err := s.resolve(id); err == nil {
				clones = append(clones, clone)
			}
		}

		return blk.GetText(clones...), nil
	})
}

// CreateChild carves an INLINE Block out of blockID's active lines
// [startLine, endLine] (1-based, inclusive).
func (s *Session) CreateChild(ctx context.Context, blockID string, startLine, endLine int) (string, error) {
	return instrumentValue(s, ctx, "create_child", blockID, func(context.Context) (string, error) {
		st, blk, err := s.resolve(blockID)
		if err != nil {
			return "", err
		}

		child, err := blk.CreateChild(startLine, endLine)
		if err != nil {
			return "", err
		}

		s.registerBlock(st, child)

		return child.ID, nil
	})
}

// Copy forks blockID into a CLONE sharing its claimed lines as of now,
// exposed at the session layer so a caller can produce the CLONE ids
// GetText's clonesToConsider parameter expects.
func (s *Session) Copy(ctx context.Context, blockID string) (string, error) {
	return instrumentValue(s, ctx, "copy", blockID, func(context.Context) (string, error) {
		st, blk, err := s.resolve(blockID)
		if err != nil {
			return "", err
		}

		clone := blk.Copy()

		s.registerBlock(st, clone)

		return clone.ID, nil
	})
}

// DeleteBlock removes blockID from its parent's child map. Claimed Lines
// are untouched; callers never see them disappear from a still-live
// ancestor's reads.
func (s *Session) DeleteBlock(ctx context.Context, blockID string) error {
	return s.instrument(ctx, "delete_block", blockID, func(context.Context) error {
		_, blk, err := s.resolve(blockID)
		if err != nil {
			return err
		}

		blk.Delete()

		return nil
	})
}

// ChangeLines applies a classified multi-line edit to blockID and returns
// the ids of every Block (this one and any sibling claimant) whose claimed
// lines were touched.
func (s *Session) ChangeLines(ctx context.Context, blockID string, change editengine.MultiLineChange) ([]string, error) {
	return instrumentValue(s, ctx, "change_lines", blockID, func(context.Context) ([]string, error) {
		_, blk, err := s.resolve(blockID)
		if err != nil {
			return nil, err
		}

		return blk.ChangeLines(change)
	})
}

// ApplyIndex moves blockID to the Version selected by timeline index i,
// applying the pre-insertion snap rules.
func (s *Session) ApplyIndex(ctx context.Context, blockID string, i int) error {
	return s.instrument(ctx, "apply_index", blockID, func(context.Context) error {
		_, blk, err := s.resolve(blockID)
		if err != nil {
			return err
		}

		return blk.ApplyIndex(i)
	})
}

// ApplyTimestamp sets blockID's timestamp directly.
func (s *Session) ApplyTimestamp(ctx context.Context, blockID string, t int64) error {
	return s.instrument(ctx, "apply_timestamp", blockID, func(context.Context) error {
		_, blk, err := s.resolve(blockID)
		if err != nil {
			return err
		}

		blk.ApplyTimestamp(t)

		return nil
	})
}

// resolve looks up blockID's owning Store and live *block.Block.
func (s *Session) resolve(blockID string) (*store.Store, *block.Block, error) {
	st, ok := s.storeFor(blockID)
	if !ok {
		return nil, nil, notFound("resolve")
	}

	blk, ok := st.Blocks[blockID]
	if !ok {
		return nil, nil, notFound("resolve")
	}

	return st, blk, nil
}

// registerBlock records a newly created child's ownership so later
// resolve/storeFor calls find it.
func (s *Session) registerBlock(st *store.Store, blk *block.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fileID := st.File.ID
	s.blockFile[blk.ID] = fileID
	st.Blocks[blk.ID] = blk
}
