package manager

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
	"github.com/notedwin-dev/storyforge-ai/internal/promptbudget"
	"github.com/notedwin-dev/storyforge-ai/internal/styles"
	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// Defaults applied when corresponding ServiceConfig fields are unset.
const (
	defaultMaxWait = 30 * time.Second
	// defaultEstMB is the residency estimate when a model has no catalog
	// weights file to stat. A fp16 SD 1.x pipeline is roughly this size.
	defaultEstMB = 2048
)

// capacityFor returns the residency-cache capacity for a device: one engine
// on cpu or low-memory setups, two on gpu.
func capacityFor(device engine.Device) int {
	if device == engine.DeviceGPU {
		return 2
	}
	return 1
}

// ServiceConfig encapsulates all tunables for Service construction.
type ServiceConfig struct {
	// Device the service binds engines to ("gpu" or "cpu").
	Device engine.Device
	// Factory constructs engines. Required.
	Factory engine.Factory
	// Capacity overrides the device-derived residency-cache capacity.
	Capacity int
	// MaxWait bounds admission waits before rejecting with too-busy.
	MaxWait time.Duration
	// Styles overrides the built-in preset registry.
	Styles *styles.Registry
	// Budgeter overrides the default 75-unit prompt budgeter.
	Budgeter *promptbudget.Budgeter
	// Catalog lists known models; used for /models and memory estimates.
	Catalog []types.CatalogModel
	// Logger for lifecycle events. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// New constructs a Service from ServiceConfig.
func New(cfg ServiceConfig) *Service {
	s := &Service{
		device:   cfg.Device,
		factory:  cfg.Factory,
		capacity: cfg.Capacity,
		maxWait:  cfg.MaxWait,
		styles:   cfg.Styles,
		budgeter: cfg.Budgeter,
		catalog:  append([]types.CatalogModel(nil), cfg.Catalog...),
		log:      cfg.Logger,
		state:    StateUnloaded,
		cache:    make(map[string]*resident),
	}
	if s.device == "" {
		s.device = engine.DeviceCPU
	}
	if s.capacity <= 0 {
		s.capacity = capacityFor(s.device)
	}
	if s.maxWait <= 0 {
		s.maxWait = defaultMaxWait
	}
	if s.styles == nil {
		s.styles = styles.NewRegistry()
	}
	if s.budgeter == nil {
		s.budgeter = promptbudget.New(0, nil)
	}
	s.startTime = time.Now()
	return s
}
