// Package sdcpp is the stable-diffusion.cpp backed engine factory.
//
// The default build carries no native dependency: construction succeeds and
// binds the model/device/flags so residency and switching behave exactly as
// in production, but Generate reports engine.ErrUnavailable. The cgo
// bindings live in sd.go behind the `sd` build tag; see that file for the
// CGO_CFLAGS/CGO_LDFLAGS the tagged build expects.
package sdcpp

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
)

// Factory implements engine.Factory.
type Factory struct{}

// NewFactory returns the process-wide factory.
func NewFactory() *Factory { return &Factory{} }

func (f *Factory) NewTextEngine(modelID string, device engine.Device, opts engine.Options) (engine.TextEngine, error) {
	h, err := newHandle(modelID, device, opts)
	if err != nil {
		return nil, err
	}
	return &textEngine{handle: h}, nil
}

func (f *Factory) NewImageEngine(modelID string, device engine.Device, opts engine.Options) (engine.ImageEngine, error) {
	h, err := newHandle(modelID, device, opts)
	if err != nil {
		return nil, err
	}
	return &imageEngine{handle: h}, nil
}

// handle carries the per-engine state shared by both pipeline kinds.
type handle struct {
	mu      sync.Mutex
	modelID string
	device  engine.Device
	opts    engine.Options
	closed  bool
}

func newHandle(modelID string, device engine.Device, opts engine.Options) (*handle, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, fmt.Errorf("sdcpp: model id must be non-empty")
	}
	if device != engine.DeviceGPU && device != engine.DeviceCPU {
		return nil, fmt.Errorf("sdcpp: unsupported device %q", device)
	}
	return &handle{modelID: modelID, device: device, opts: opts}, nil
}

func (h *handle) run(ctx context.Context, p engine.TxtParams) (image.Image, error) {
	if err := engine.ValidateTxtParams(p); err != nil {
		return nil, err
	}
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("sdcpp: engine for %s is closed", h.modelID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return generateImpl(ctx, h, p)
}

func (h *handle) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return freeImpl(h)
}

type textEngine struct{ *handle }

func (e *textEngine) Generate(ctx context.Context, p engine.TxtParams) (image.Image, error) {
	return e.run(ctx, p)
}

func (e *textEngine) Close() error { return e.close() }

type imageEngine struct{ *handle }

func (e *imageEngine) Generate(ctx context.Context, p engine.ImgParams) (image.Image, error) {
	if p.Reference == nil {
		return nil, fmt.Errorf("sdcpp: reference image required")
	}
	if p.Strength < 0.1 || p.Strength > 1.0 {
		return nil, fmt.Errorf("sdcpp: strength %.2f outside [0.1, 1.0]", p.Strength)
	}
	return e.run(ctx, p.TxtParams)
}

func (e *imageEngine) Close() error { return e.close() }
