package session

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lineforge/lineforge/internal/block"
	"github.com/lineforge/lineforge/internal/lineio"
	"github.com/lineforge/lineforge/internal/store"
	"github.com/lineforge/lineforge/internal/tagregistry"
)

// LoadFile imports content (split on eol) into a fresh File: each line
// becomes a Line with one IMPORTED Version at a shared timestamp, and a
// ROOT Block is created at that timestamp.
func (s *Session) LoadFile(ctx context.Context, path, eol, content string) (string, error) {
	return instrumentValue(s, ctx, "load_file", "", func(ctx context.Context) (string, error) {
		fileID := uuid.NewString()

		file := lineio.NewFile(fileID, eol, nil)
		file.Import(strings.Split(content, eol))

		root := block.NewRoot(file)

		tags, err := tagregistry.New(s.bloomTagEstimate(), s.bloomTagFP())
		if err != nil {
			return "", err
		}

		st := s.newStore(path, file, root, tags)

		s.indexBlocks(fileID, st)

		return fileID, nil
	})
}

// newEmptyFile builds a fresh, empty File/ROOT Block/Tag registry triple, the
// shape Resume needs before handing it to a Store to overwrite via Load.
func (s *Session) newEmptyFile(eol string) (string, *lineio.File, *block.Block, *tagregistry.Registry, error) {
	fileID := uuid.NewString()

	file := lineio.NewFile(fileID, eol, nil)
	root := block.NewRoot(file)

	tags, err := tagregistry.New(s.bloomTagEstimate(), s.bloomTagFP())
	if err != nil {
		return "", nil, nil, nil, err
	}

	return fileID, file, root, tags, nil
}

// newStore builds a Store bound to s's baseDir/bloom settings, for Resume
// to Load a prior checkpoint into.
func (s *Session) newStore(filePath string, file *lineio.File, root *block.Block, tags *tagregistry.Registry) *store.Store {
	return store.New(s.baseDir, filePath, file, root, tags, s.bloomTagEstimate(), s.bloomTagFP())
}

// GetRootBlock returns the ROOT Block id for fileID.
func (s *Session) GetRootBlock(ctx context.Context, fileID string) (string, error) {
	return instrumentValue(s, ctx, "get_root_block", "", func(context.Context) (string, error) {
		s.mu.RLock()
		st, ok := s.files[fileID]
		s.mu.RUnlock()

		if !ok {
			return "", notFound("get_root_block")
		}

		return st.Root.ID, nil
	})
}
