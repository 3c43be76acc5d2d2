//go:build sd

package sdcpp

import (
	"context"
	"errors"
	"testing"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
)

func TestGenerateImplReportsPendingIntegration(t *testing.T) {
	h, err := newHandle("m1", engine.DeviceCPU, engine.Options{})
	if err != nil {
		t.Fatalf("newHandle: %v", err)
	}
	_, err = generateImpl(context.Background(), h, engine.TxtParams{
		Prompt:        "a dog",
		Steps:         20,
		GuidanceScale: 7.0,
		Width:         512,
		Height:        512,
		Seed:          -1,
	})
	if !errors.Is(err, engine.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFreeImplIsIdempotent(t *testing.T) {
	h, err := newHandle("m1", engine.DeviceCPU, engine.Options{})
	if err != nil {
		t.Fatalf("newHandle: %v", err)
	}
	if err := freeImpl(h); err != nil {
		t.Fatalf("freeImpl: %v", err)
	}
	if err := freeImpl(h); err != nil {
		t.Fatalf("second freeImpl: %v", err)
	}
}

func TestBackendInfoNamesLibrary(t *testing.T) {
	if got := BackendInfo(); got == "" {
		t.Fatalf("expected non-empty backend info")
	}
}
