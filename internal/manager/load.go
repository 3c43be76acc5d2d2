package manager

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
)

// Load makes modelID the active model, constructing an engine if neither
// the active handle nor the residency cache has one. Loading blocks new
// generation admission and waits for in-flight generations to finish on
// the previous handle before the switch commits. On failure the previously
// active handle, if any, stays active and usable.
func (s *Service) Load(ctx context.Context, modelID string) error {
	modelID = strings.TrimSpace(modelID)
	if modelID == "" {
		return ErrInvalidArgument("model_id is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Fast path: already active.
	s.mu.RLock()
	if s.activeID == modelID && s.active != nil {
		s.mu.RUnlock()
		s.touch(modelID)
		return nil
	}
	s.mu.RUnlock()

	start := time.Now()
	s.log.Info().Str("model", modelID).Msg("load start")

	// Block new generation admission and wait for in-flight work.
	s.switchMu.Lock()
	defer s.switchMu.Unlock()

	// Re-check under the switch gate.
	s.mu.Lock()
	if s.activeID == modelID && s.active != nil {
		s.active.lastUsed = time.Now()
		s.mu.Unlock()
		return nil
	}
	prev := s.active

	// Residency cache hit: re-activate without reload cost.
	if r, ok := s.cache[modelID]; ok {
		s.activate(r, prev)
		s.mu.Unlock()
		s.log.Info().Str("model", modelID).Dur("dur", time.Since(start)).Msg("load cache hit")
		loadsMetric.WithLabelValues("cached").Inc()
		return nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	eng, err := s.factory.NewTextEngine(modelID, s.device, engine.OptionsFor(s.device))
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		if s.active != nil {
			s.state = StateReady // previous handle remains usable
		} else {
			s.state = StateError
		}
		s.mu.Unlock()
		s.log.Error().Str("model", modelID).Err(err).Msg("load failed")
		loadsMetric.WithLabelValues("error").Inc()
		return ErrModelLoad(modelID, err)
	}

	r := &resident{
		id:       modelID,
		engine:   eng,
		lastUsed: time.Now(),
		estMB:    s.estimateMB(modelID),
		genCh:    make(chan struct{}, 1),
	}

	s.mu.Lock()
	if len(s.cache) < s.capacity {
		s.cache[modelID] = r
	} else {
		// Cache is full and nothing is ever evicted: the new handle is
		// active but not retained. Switching away tears it down and a
		// later request for this model loads from scratch.
		r.transient = true
	}
	s.activate(r, prev)
	s.loadsTotal++
	s.mu.Unlock()

	s.log.Info().
		Str("model", modelID).
		Bool("retained", !r.transient).
		Dur("dur", time.Since(start)).
		Msg("load ready")
	loadsMetric.WithLabelValues("loaded").Inc()
	return nil
}

// activate commits r as the active handle and tears down a transient
// predecessor. Callers hold both switchMu (write) and mu.
func (s *Service) activate(r *resident, prev *resident) {
	if prev != nil && prev.transient && prev != r {
		// Not in the cache, nobody can reach it again. switchMu write
		// guarantees no generation is in flight on it.
		_ = prev.engine.Close()
	}
	s.active = r
	s.activeID = r.id
	r.lastUsed = time.Now()
	s.state = StateReady
	s.lastErr = ""
}

// touch refreshes lastUsed on the named resident.
func (s *Service) touch(modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.id == modelID {
		s.active.lastUsed = time.Now()
	}
}

// estimateMB estimates the resident size of a model. When the catalog
// carries a local weights path, its file size is used; otherwise a fixed
// pipeline estimate applies.
func (s *Service) estimateMB(modelID string) int {
	for _, m := range s.catalog {
		if m.ID != modelID || m.Path == "" {
			continue
		}
		fi, err := os.Stat(m.Path)
		if err != nil {
			break
		}
		if mb := int(fi.Size() / (1024 * 1024)); mb > 0 {
			return mb
		}
	}
	return defaultEstMB
}
