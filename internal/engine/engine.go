// Package engine defines the inference-engine boundary consumed by the
// orchestration layer. Concrete backends (stable-diffusion.cpp, a remote
// worker) implement Factory; the manager owns the handles it constructs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Device identifies where an engine runs. Optimization flags differ per
// device and are fixed at construction.
type Device string

const (
	DeviceGPU Device = "gpu"
	DeviceCPU Device = "cpu"
)

// Options are backend optimization flags applied once when an engine is
// constructed. They cannot be toggled on a live handle.
type Options struct {
	// AttentionSlicing reduces peak memory during attention at some speed
	// cost. Enabled for memory-constrained GPUs.
	AttentionSlicing bool
	// CPUOffload keeps idle submodules in host memory. Enabled for GPUs
	// that cannot hold the full pipeline.
	CPUOffload bool
}

// OptionsFor returns the flags the service applies on each device.
func OptionsFor(device Device) Options {
	if device == DeviceGPU {
		return Options{AttentionSlicing: true, CPUOffload: true}
	}
	return Options{}
}

// TxtParams drive a prompt-only generation.
type TxtParams struct {
	Prompt         string
	NegativePrompt string
	Steps          int
	GuidanceScale  float64
	Width          int
	Height         int
	// Seed fixes the pseudo-random source; -1 means non-deterministic.
	Seed int64
}

// ImgParams drive a reference-conditioned generation.
type ImgParams struct {
	TxtParams
	// Reference is the decoded conditioning image, already resized to the
	// output resolution.
	Reference image.Image
	// Strength in [0.1, 1.0] is the fraction of the process allowed to
	// deviate from the reference.
	Strength float64
}

// TextEngine is a loaded prompt-to-image pipeline bound to one model and
// one device.
type TextEngine interface {
	Generate(ctx context.Context, p TxtParams) (image.Image, error)
	Close() error
}

// ImageEngine is a loaded image-conditioned pipeline.
type ImageEngine interface {
	Generate(ctx context.Context, p ImgParams) (image.Image, error)
	Close() error
}

// Factory constructs engines. Construction is the expensive step (weights
// load, device transfer); failures are returned, never panicked.
type Factory interface {
	NewTextEngine(modelID string, device Device, opts Options) (TextEngine, error)
	NewImageEngine(modelID string, device Device, opts Options) (ImageEngine, error)
}

// ErrUnavailable reports that the backing inference library is not linked
// into this build. Construction may still succeed so residency logic can
// be exercised end to end.
var ErrUnavailable = errors.New("engine: inference backend not available")

// ValidateTxtParams rejects parameter combinations no backend accepts.
func ValidateTxtParams(p TxtParams) error {
	if p.Prompt == "" {
		return fmt.Errorf("engine: prompt must be non-empty")
	}
	if p.Steps <= 0 {
		return fmt.Errorf("engine: steps must be positive, got %d", p.Steps)
	}
	if p.GuidanceScale <= 0 {
		return fmt.Errorf("engine: guidance scale must be positive, got %g", p.GuidanceScale)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("engine: invalid dimensions %dx%d", p.Width, p.Height)
	}
	return nil
}
