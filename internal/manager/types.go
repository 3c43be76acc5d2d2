package manager

import (
	"time"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
)

// State represents the lifecycle state of the service.
type State string

const (
	StateUnloaded   State = "unloaded"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateGenerating State = "generating"
	StateError      State = "error"
)

// resident is a loaded text engine bound to one model id. A resident may be
// cached (retained across switches) or transient (torn down on the next
// switch away).
type resident struct {
	id       string
	engine   engine.TextEngine
	lastUsed time.Time
	estMB    int
	// genCh size 1: single in-flight generation per engine.
	genCh chan struct{}
	// transient handles are not in the residency cache.
	transient bool
}
