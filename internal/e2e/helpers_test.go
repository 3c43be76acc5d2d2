package e2e

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
	"github.com/notedwin-dev/storyforge-ai/internal/httpapi"
	"github.com/notedwin-dev/storyforge-ai/internal/manager"
	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// fakeFactory builds in-memory engines that render a solid color instead of
// running a diffusion backend. block, when non-nil, stalls generation until
// the channel is closed.
type fakeFactory struct {
	block chan struct{}
}

func (f *fakeFactory) NewTextEngine(modelID string, device engine.Device, opts engine.Options) (engine.TextEngine, error) {
	return &fakeEngine{block: f.block}, nil
}

func (f *fakeFactory) NewImageEngine(modelID string, device engine.Device, opts engine.Options) (engine.ImageEngine, error) {
	return &imgAdapter{&fakeEngine{block: f.block}}, nil
}

type fakeEngine struct {
	block chan struct{}
}

func (e *fakeEngine) render(ctx context.Context, w, h int) (image.Image, error) {
	if e.block != nil {
		select {
		case <-e.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 127, G: 64, B: 200, A: 255})
		}
	}
	return img, nil
}

func (e *fakeEngine) Generate(ctx context.Context, p engine.TxtParams) (image.Image, error) {
	return e.render(ctx, p.Width, p.Height)
}

func (e *fakeEngine) Close() error { return nil }

// imgAdapter exposes the same fake renderer through the image-conditioned
// engine interface.
type imgAdapter struct{ *fakeEngine }

func (a *imgAdapter) Generate(ctx context.Context, p engine.ImgParams) (image.Image, error) {
	return a.fakeEngine.render(ctx, p.Width, p.Height)
}

func newServer(t *testing.T, cfg manager.ServiceConfig) (*httptest.Server, *manager.Service) {
	t.Helper()
	svc := manager.New(cfg)
	t.Cleanup(func() { _ = svc.Close() })
	mux := httpapi.NewMux(svc)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, svc
}

func defaultConfig(f engine.Factory) manager.ServiceConfig {
	return manager.ServiceConfig{
		Device:  engine.DeviceCPU,
		Factory: f,
		MaxWait: 5 * time.Second,
		Catalog: []types.CatalogModel{{ID: "alpha"}, {ID: "beta"}},
	}
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
