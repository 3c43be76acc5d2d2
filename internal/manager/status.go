package manager

import (
	"sort"
	"time"

	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// Status builds the observability view for GET /status.
func (s *Service) Status() types.StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := make([]string, 0, len(s.cache))
	residentMB := 0
	inflight := 0
	for id, r := range s.cache {
		cached = append(cached, id)
		residentMB += r.estMB
		inflight += len(r.genCh)
	}
	sort.Strings(cached)
	if s.active != nil && s.active.transient {
		residentMB += s.active.estMB
		inflight += len(s.active.genCh)
	}

	state := s.state
	if state == StateReady && inflight > 0 {
		state = StateGenerating
	}

	return types.StatusResponse{
		Ready:        s.active != nil && s.state != StateError,
		Device:       string(s.device),
		CurrentModel: s.activeID,
		CachedModels: cached,
		State:        string(state),
		LastError:    s.lastErr,
		Memory: types.MemoryUsage{
			ResidentMB:    residentMB,
			ResidentCount: len(s.cache),
			Capacity:      s.capacity,
		},
		LoadsTotal:       s.loadsTotal,
		GenerationsTotal: s.gensTotal,
		UptimeSeconds:    int64(time.Since(s.startTime) / time.Second),
	}
}
