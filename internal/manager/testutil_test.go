package manager

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"sync"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
)

// stubFactory counts constructions and can be told to fail, so tests can
// observe residency behavior without a real backend.
type stubFactory struct {
	mu            sync.Mutex
	textLoads     map[string]int
	imageLoads    map[string]int
	failText      error
	failImage     error
	blockGenerate chan struct{} // when set, engines block until it closes
	generateErr   error
}

func newStubFactory() *stubFactory {
	return &stubFactory{
		textLoads:  make(map[string]int),
		imageLoads: make(map[string]int),
	}
}

func (f *stubFactory) NewTextEngine(modelID string, device engine.Device, opts engine.Options) (engine.TextEngine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failText != nil {
		return nil, f.failText
	}
	f.textLoads[modelID]++
	return &stubTextEngine{stubEngine{factory: f, modelID: modelID}}, nil
}

func (f *stubFactory) NewImageEngine(modelID string, device engine.Device, opts engine.Options) (engine.ImageEngine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failImage != nil {
		return nil, f.failImage
	}
	f.imageLoads[modelID]++
	return &stubImageEngine{stubEngine{factory: f, modelID: modelID}}, nil
}

func (f *stubFactory) textLoadCount(modelID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.textLoads[modelID]
}

func (f *stubFactory) imageLoadCount(modelID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageLoads[modelID]
}

type stubEngine struct {
	factory *stubFactory
	modelID string
	mu      sync.Mutex
	closed  bool
}

func (e *stubEngine) run(ctx context.Context, p engine.TxtParams) (image.Image, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("engine closed")
	}
	e.factory.mu.Lock()
	block := e.factory.blockGenerate
	genErr := e.factory.generateErr
	e.factory.mu.Unlock()
	if genErr != nil {
		return nil, genErr
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return deterministicImage(e.modelID, p), nil
}

func (e *stubEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

type stubTextEngine struct{ stubEngine }

func (e *stubTextEngine) Generate(ctx context.Context, p engine.TxtParams) (image.Image, error) {
	return e.run(ctx, p)
}

type stubImageEngine struct{ stubEngine }

func (e *stubImageEngine) Generate(ctx context.Context, p engine.ImgParams) (image.Image, error) {
	return e.run(ctx, p.TxtParams)
}

// deterministicImage derives pixels from the full parameter set, so a fixed
// (model, prompt, seed) triple reproduces byte-identical output.
func deterministicImage(modelID string, p engine.TxtParams) image.Image {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%s|%d|%g|%d", modelID, p.Prompt, p.NegativePrompt, p.Steps, p.GuidanceScale, p.Seed)
	base := h.Sum32()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := base + uint32(y*8+x)
			img.Set(x, y, color.RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: 255})
		}
	}
	return img
}
