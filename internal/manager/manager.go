package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
	"github.com/notedwin-dev/storyforge-ai/internal/promptbudget"
	"github.com/notedwin-dev/storyforge-ai/internal/styles"
	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// Service owns all mutable generation state: the residency cache, the
// active handle, and the lazily-built image-conditioned engine. Construct
// at startup, Close at shutdown; there are no package-level globals.
type Service struct {
	device   engine.Device
	factory  engine.Factory
	capacity int
	maxWait  time.Duration
	styles   *styles.Registry
	budgeter *promptbudget.Budgeter
	catalog  []types.CatalogModel
	log      zerolog.Logger

	// switchMu serializes model switches against generations: generations
	// hold the read side for their full duration, Load takes the write
	// side, so a switch waits for in-flight work and blocks new admission.
	switchMu sync.RWMutex

	mu       sync.RWMutex
	state    State
	lastErr  string
	activeID string
	active   *resident
	cache    map[string]*resident

	// Secondary image-conditioned engine. Built lazily against whatever
	// model is active at first use and kept for the process lifetime; a
	// later model switch does not refresh it (documented staleness gap).
	imgEngine      engine.ImageEngine
	imgEngineModel string
	imgGenCh       chan struct{}

	loadsTotal uint64
	gensTotal  uint64
	startTime  time.Time

	closed bool
}

// Device returns the device engines are bound to.
func (s *Service) Device() engine.Device { return s.device }

// Ready reports whether a model is loaded and generation can be admitted.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active != nil && s.state != StateError
}

// ActiveModel returns the active model id, or "" when nothing is loaded.
func (s *Service) ActiveModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Styles lists the available style preset names.
func (s *Service) Styles() []string { return s.styles.Names() }

// Catalog returns the configured model catalog.
func (s *Service) Catalog() []types.CatalogModel {
	out := make([]types.CatalogModel, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Close tears down every engine the service owns. The service is unusable
// afterwards.
func (s *Service) Close() error {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var firstErr error
	for id, r := range s.cache {
		if err := r.engine.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.cache, id)
	}
	if s.active != nil && s.active.transient {
		if err := s.active.engine.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.active = nil
	s.activeID = ""
	if s.imgEngine != nil {
		if err := s.imgEngine.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.imgEngine = nil
	}
	s.state = StateUnloaded
	return firstErr
}
