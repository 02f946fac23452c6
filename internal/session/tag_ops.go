package session

import (
	"context"

	"github.com/lineforge/lineforge/internal/store"
)

// CreateTag captures blockID's current timestamp and text under name.
func (s *Session) CreateTag(ctx context.Context, blockID, name string) (string, error) {
	return instrumentValue(s, ctx, "create_tag", blockID, func(context.Context) (string, error) {
		st, blk, err := s.resolve(blockID)
		if err != nil {
			return "", err
		}

		return st.Tags.CreateTag(blk, name)
	})
}

// LoadTag moves the tag's owning Block to the captured timestamp and
// returns the full text of that Block at that moment.
func (s *Session) LoadTag(ctx context.Context, tagID string) (string, error) {
	return instrumentValue(s, ctx, "load_tag", "", func(context.Context) (string, error) {
		st, ok := s.storeForTag(tagID)
		if !ok {
			return "", notFound("load_tag")
		}

		return st.Tags.LoadTag(tagID)
	})
}

// GetTextForVersion is an idempotent peek at a tag's captured text.
func (s *Session) GetTextForVersion(ctx context.Context, tagID string) (string, error) {
	return instrumentValue(s, ctx, "get_text_for_version", "", func(context.Context) (string, error) {
		st, ok := s.storeForTag(tagID)
		if !ok {
			return "", notFound("get_text_for_version")
		}

		return st.Tags.GetTextForVersion(tagID)
	})
}

// storeForTag scans every loaded File's Store for one owning tagID. Tag ids
// aren't indexed the way block ids are (via blockFile), since tags are
// created far less often than blocks and a session rarely holds more than a
// handful of Files open at once.
func (s *Session) storeForTag(tagID string) (*store.Store, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.files {
		if _, ok := st.Tags.TagByID(tagID); ok {
			return st, true
		}
	}

	return nil, false
}
