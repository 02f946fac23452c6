// Package session implements the façade the editor surface drives: one
// Session binds a Config, observability Providers, and a render cache to
// any number of loaded Files, and wraps every operation with a span, a RED
// metric, and a structured log line.
package session

import (
	"fmt"
	"sync"

	"github.com/lineforge/lineforge/internal/store"
	"github.com/lineforge/lineforge/pkg/alg/lru"
	"github.com/lineforge/lineforge/pkg/config"
	"github.com/lineforge/lineforge/pkg/observability"
)

// defaultTagBloomFP mirrors pkg/config's own default, used only when a
// caller builds a Session with a zero-value Config.Tags.
const defaultTagBloomFP = 0.01

// Session owns every File loaded in one process and serves the operations
// named in the editor-facing API.
type Session struct {
	mu sync.RWMutex

	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.REDMetrics
	cache     *lru.Cache[cacheKey, string]

	baseDir string

	files     map[string]*store.Store // FileID -> Store
	blockFile map[string]string       // BlockID -> FileID
}

// New builds a Session from cfg and the observability providers produced by
// observability.Init. Passing a zero-value Providers (e.g. in a test) is
// fine: instrument degrades to a no-op wrapper around fn.
func New(cfg *config.Config, providers observability.Providers) (*Session, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	s := &Session{
		cfg:       cfg,
		providers: providers,
		baseDir:   cfg.Storage.Directory,
		files:     make(map[string]*store.Store),
		blockFile: make(map[string]string),
	}

	if providers.Meter != nil {
		metrics, err := observability.NewREDMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("session: build metrics: %w", err)
		}

		s.metrics = metrics
	}

	if cfg.Cache.Enabled {
		s.cache = newRenderCache(cfg)
	}

	return s, nil
}

// bloomTagEstimate resolves Config.Tags.BloomEstimate, defaulting if unset.
func (s *Session) bloomTagEstimate() uint {
	if s.cfg.Tags.BloomEstimate == 0 {
		return 1
	}

	return s.cfg.Tags.BloomEstimate
}

// bloomTagFP resolves Config.Tags.BloomFalsePositiveRate, defaulting if unset.
func (s *Session) bloomTagFP() float64 {
	if s.cfg.Tags.BloomFalsePositiveRate <= 0 {
		return defaultTagBloomFP
	}

	return s.cfg.Tags.BloomFalsePositiveRate
}

// storeFor resolves the Store owning blockID, or ok=false if unknown.
func (s *Session) storeFor(blockID string) (*store.Store, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fileID, ok := s.blockFile[blockID]
	if !ok {
		return nil, false
	}

	st, ok := s.files[fileID]

	return st, ok
}

// indexBlocks records ownership of every block currently in st, so
// storeFor can resolve block ids without a file id.
func (s *Session) indexBlocks(fileID string, st *store.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[fileID] = st

	for id := range st.Blocks {
		s.blockFile[id] = fileID
	}
}
