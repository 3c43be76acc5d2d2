package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
	"github.com/notedwin-dev/storyforge-ai/internal/manager"
	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Load(ctx context.Context, modelID string) error
	Generate(ctx context.Context, req manager.GenerateRequest) (*manager.Result, error)
	GenerateScene(ctx context.Context, req manager.SceneRequest) (*manager.Result, error)
	Status() types.StatusResponse
	Styles() []string
	Catalog() []types.CatalogModel
	ActiveModel() string
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		st := svc.Status()
		resp := types.ModelsResponse{
			Styles:       svc.Styles(),
			CurrentModel: svc.ActiveModel(),
			CachedModels: st.CachedModels,
			Catalog:      svc.Catalog(),
			Device:       st.Device,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		var req types.GenerateRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeGenerateError(w, http.StatusBadRequest, "prompt is required")
			return
		}
		handleGenerate(w, r, "generate", func(ctx context.Context) (*manager.Result, error) {
			return svc.Generate(ctx, manager.GenerateRequest{
				Prompt: req.Prompt,
				Style:  req.Style,
				Seed:   req.Seed,
			})
		})
	})

	r.Post("/generate-scene", func(w http.ResponseWriter, r *http.Request) {
		var req types.SceneRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeGenerateError(w, http.StatusBadRequest, "prompt is required")
			return
		}
		if req.CharacterImage == "" {
			writeGenerateError(w, http.StatusBadRequest, "character_image is required")
			return
		}
		ref, err := base64.StdEncoding.DecodeString(req.CharacterImage)
		if err != nil {
			writeGenerateError(w, http.StatusBadRequest, "character_image is not valid base64")
			return
		}
		strength := 0.7
		if req.Strength != nil {
			strength = *req.Strength
		}
		handleGenerate(w, r, "generate-scene", func(ctx context.Context) (*manager.Result, error) {
			return svc.GenerateScene(ctx, manager.SceneRequest{
				Prompt:         req.Prompt,
				Style:          req.Style,
				Seed:           req.Seed,
				ReferenceImage: ref,
				Strength:       strength,
			})
		})
	})

	r.Post("/switch-model", func(w http.ResponseWriter, r *http.Request) {
		var req types.SwitchModelRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ModelID) == "" {
			writeSwitchError(w, http.StatusBadRequest, "model_id is required")
			return
		}
		start := time.Now()
		logRequestStart(r, "switch start", req.ModelID)
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.Load(joinedCtx, req.ModelID); err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := errorStatus(err)
			writeSwitchError(w, status, err.Error())
			logRequestEnd(r, "switch end", status, time.Since(start), err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.SwitchModelResponse{
			Success: true,
			Message: fmt.Sprintf("Switched to model: %s", req.ModelID),
		})
		logRequestEnd(r, "switch end", http.StatusOK, time.Since(start), nil)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSONBody enforces the JSON content type and body size limit before
// decoding into dst. It writes the error response itself and reports whether
// decoding succeeded.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// An oversized body surfaces here too; keep the message generic.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// handleGenerate runs fn under the joined request/server context and writes
// the generation envelope. Failures of the generation itself come back as
// HTTP 200 with success=false; precondition and admission errors keep their
// status codes.
func handleGenerate(w http.ResponseWriter, r *http.Request, name string, fn func(ctx context.Context) (*manager.Result, error)) {
	start := time.Now()
	logRequestStart(r, name+" start", "")

	joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if generateTimeout > 0 {
		var tcancel context.CancelFunc
		joinedCtx, tcancel = context.WithTimeout(joinedCtx, time.Duration(generateTimeout)*time.Second)
		defer tcancel()
	}

	res, err := fn(joinedCtx)
	if err != nil {
		// Client disconnect or shutdown: nothing useful to write.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		if manager.IsGeneration(err) && !errors.Is(err, engine.ErrUnavailable) {
			// The request was valid and the model ran; report the failure
			// in-band rather than as a transport error.
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(types.GenerateResponse{Success: false, Error: err.Error()})
			logRequestEnd(r, name+" end", http.StatusOK, time.Since(start), err)
			return
		}
		status := errorStatus(err)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure(name)
		}
		writeGenerateError(w, status, err.Error())
		logRequestEnd(r, name+" end", status, time.Since(start), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.GenerateResponse{
		Success:  true,
		Image:    base64.StdEncoding.EncodeToString(res.ImageBytes),
		Format:   res.Format,
		Metadata: &res.Metadata,
	})
	logRequestEnd(r, name+" end", http.StatusOK, time.Since(start), nil)
}

// writeSwitchError writes switch-model failures in that endpoint's envelope.
func writeSwitchError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.SwitchModelResponse{Success: false, Error: msg})
}
