package session

import (
	"strconv"

	"github.com/lineforge/lineforge/pkg/alg/lru"
	"github.com/lineforge/lineforge/pkg/config"
)

// cacheKey identifies one memoized render: a Block at a specific timestamp,
// the same pairing get_text(block_id, timestamp) scrubbing repeats during
// UI playback.
type cacheKey struct {
	BlockID   string
	Timestamp int64
}

func (k cacheKey) bytes() []byte {
	return []byte(k.BlockID + ":" + strconv.FormatInt(k.Timestamp, 10))
}

// renderCacheBloomEstimate sizes the cache's Bloom pre-filter off its entry
// cap; a render cache is short-lived and low-cardinality compared to the
// tag registry, so a flat multiplier is enough headroom.
const renderCacheBloomEstimate = 4

func newRenderCache(cfg *config.Config) *lru.Cache[cacheKey, string] {
	maxEntries := cfg.Cache.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1
	}

	return lru.New[cacheKey, string](
		lru.WithMaxEntries[cacheKey, string](maxEntries),
		lru.WithMaxBytes[cacheKey, string](int64(cfg.Cache.MaxBytes), func(v string) int64 { return int64(len(v)) }),
		lru.WithBloomFilter[cacheKey, string](cacheKey.bytes, uint(maxEntries*renderCacheBloomEstimate)),
	)
}

// cachedText returns the cached render for key, if the cache is enabled and
// holds it.
func (s *Session) cachedText(key cacheKey) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	return s.cache.Get(key)
}

// cacheText stores a render under key, if the cache is enabled. Renders
// that used a clones_to_consider override are never cached: the override
// set isn't part of the key, so caching them would leak across calls that
// omit it.
func (s *Session) cacheText(key cacheKey, text string) {
	if s.cache == nil {
		return
	}

	s.cache.Put(key, text)
}
