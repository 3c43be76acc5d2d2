//go:build sd

// Real cgo bindings for stable-diffusion.cpp.
//
// Prerequisites:
//  1. stable-diffusion.cpp compiled as a shared library
//  2. CGO_CFLAGS pointing at the header: -I/path/to/stable-diffusion.cpp
//  3. CGO_LDFLAGS linking it: -L/path/to/build -lstable-diffusion
//
// Example:
//
//	CGO_CFLAGS="-I${SD_CPP_PATH}" \
//	CGO_LDFLAGS="-L${SD_CPP_PATH}/build -lstable-diffusion -Wl,-rpath,${SD_CPP_PATH}/build" \
//	go build -tags sd ./...

package sdcpp

/*
#cgo CFLAGS: -I${SRCDIR}/../../../vendor/stable-diffusion.cpp
#cgo LDFLAGS: -L${SRCDIR}/../../../vendor/stable-diffusion.cpp/build -lstable-diffusion

// The header include stays commented until the library is vendored. When
// stable-diffusion.cpp is integrated, switch to:
//
// #include <stable-diffusion.h>
// #include <stdlib.h>

#include <stdlib.h>
#include <stdint.h>

// Placeholder type, replaced by the sd_ctx_t from stable-diffusion.h.
typedef void* sd_ctx_t;

// Declarations to restore with the header:
//
// extern sd_ctx_t* new_sd_ctx(const char* model_path, int n_threads);
// extern void free_sd_ctx(sd_ctx_t* ctx);
// extern uint8_t* txt2img(sd_ctx_t* ctx, const char* prompt, const char* negative_prompt,
//                         float cfg_scale, int width, int height, int steps, int64_t seed);
// extern uint8_t* img2img(sd_ctx_t* ctx, const uint8_t* init_image, const char* prompt,
//                         const char* negative_prompt, float cfg_scale, int width, int height,
//                         int steps, float strength, int64_t seed);
*/
import "C"

import (
	"context"
	"fmt"
	"image"
	"sync"
	"unsafe"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
)

// nativeCtxs maps a handle to its C context once construction goes through
// the real library. Guarded by nativeMu.
var (
	nativeMu   sync.Mutex
	nativeCtxs = make(map[*handle]*C.sd_ctx_t)
)

func generateImpl(_ context.Context, h *handle, p engine.TxtParams) (image.Image, error) {
	cPrompt := C.CString(p.Prompt)
	defer C.free(unsafe.Pointer(cPrompt))
	cNegative := C.CString(p.NegativePrompt)
	defer C.free(unsafe.Pointer(cNegative))

	seed := p.Seed
	if seed < 0 {
		seed = engine.RandomSeed()
	}
	cSeed := C.int64_t(seed)

	// TODO(sd): once stable-diffusion.h is vendored, create the context via
	// new_sd_ctx under nativeMu and call txt2img here, converting the raw
	// RGB buffer with image.NewRGBA before returning.
	_ = cSeed
	return nil, fmt.Errorf("%w: stable-diffusion.cpp header integration pending, model=%s device=%s",
		engine.ErrUnavailable, h.modelID, h.device)
}

func freeImpl(h *handle) error {
	nativeMu.Lock()
	defer nativeMu.Unlock()
	if cCtx, ok := nativeCtxs[h]; ok {
		// TODO(sd): call free_sd_ctx(cCtx) with the header restored.
		_ = cCtx
		delete(nativeCtxs, h)
	}
	return nil
}

// BackendInfo describes the linked backend.
func BackendInfo() string { return "stable-diffusion.cpp (cgo, header integration pending)" }
