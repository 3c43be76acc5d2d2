//go:build !sd

package sdcpp

import (
	"context"
	"fmt"
	"image"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
)

// generateImpl is the no-library implementation: residency and admission
// logic stay testable while generation itself fails fast.
func generateImpl(_ context.Context, h *handle, _ engine.TxtParams) (image.Image, error) {
	return nil, fmt.Errorf("%w: stable-diffusion.cpp not linked (build with -tags sd), model=%s device=%s",
		engine.ErrUnavailable, h.modelID, h.device)
}

func freeImpl(_ *handle) error { return nil }

// BackendInfo describes the linked backend.
func BackendInfo() string { return "stub (stable-diffusion.cpp not linked)" }
