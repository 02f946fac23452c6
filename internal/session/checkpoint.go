package session

import (
	"context"

	"github.com/lineforge/lineforge/pkg/checkpoint"
)

// Checkpoint writes a full on-disk checkpoint for fileID: its Line/Version
// history, Block tree, and Tag registry, so a later process can Resume it.
func (s *Session) Checkpoint(ctx context.Context, fileID string) error {
	return s.instrument(ctx, "checkpoint", "", func(context.Context) error {
		s.mu.RLock()
		st, ok := s.files[fileID]
		s.mu.RUnlock()

		if !ok {
			return notFound("checkpoint")
		}

		state := checkpoint.SessionState{
			LastTimestamp: st.Root.Timestamp(),
			LineCount:     st.File.Count(),
			BlockCount:    len(st.Blocks),
			TagCount:      len(st.Tags.Snapshot()),
			FileEOL:       st.File.EOL,
		}

		return st.Save(state)
	})
}

// Resume restores a File, its Block tree, and its Tag registry from a prior
// Checkpoint written for filePath, returning the restored FileId.
func (s *Session) Resume(ctx context.Context, filePath, eol string) (string, error) {
	return instrumentValue(s, ctx, "resume", "", func(context.Context) (string, error) {
		fileID, file, root, tags, err := s.newEmptyFile(eol)
		if err != nil {
			return "", err
		}

		st := s.newStore(filePath, file, root, tags)

		_, err = st.Load()
		if err != nil {
			return "", err
		}

		s.indexBlocks(fileID, st)

		return fileID, nil
	})
}
