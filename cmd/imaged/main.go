package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/notedwin-dev/storyforge-ai/internal/catalog"
	"github.com/notedwin-dev/storyforge-ai/internal/common/fsutil"
	"github.com/notedwin-dev/storyforge-ai/internal/config"
	"github.com/notedwin-dev/storyforge-ai/internal/engine"
	"github.com/notedwin-dev/storyforge-ai/internal/engine/sdcpp"
	"github.com/notedwin-dev/storyforge-ai/internal/httpapi"
	"github.com/notedwin-dev/storyforge-ai/internal/manager"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var fileCfg config.Config
	if path := os.Getenv("STORYFORGE_CONFIG"); path != "" {
		var err error
		fileCfg, err = config.Load(path)
		if err != nil {
			l := zerolog.New(os.Stderr)
			l.Fatal().Err(err).Str("path", path).Msg("load config file")
		}
	}

	// Flag defaults resolve as: flag > env > config file > built-in.
	addr := flag.String("addr", resolve(os.Getenv("STORYFORGE_ADDR"), fileCfg.Addr, ":8080"), "HTTP listen address, e.g. :8080")
	device := flag.String("device", resolve(os.Getenv("STORYFORGE_DEVICE"), fileCfg.Device, "cpu"), "Inference device: gpu or cpu")
	modelsDir := flag.String("models-dir", resolve(os.Getenv("STORYFORGE_MODELS_DIR"), fileCfg.ModelsDir, ""), "Directory to scan for *.safetensors/*.ckpt checkpoints (empty uses the built-in catalog)")
	cacheDir := flag.String("cache-dir", resolve(os.Getenv("STORYFORGE_CACHE_DIR"), fileCfg.CacheDir, "~/.cache/storyforge"), "Directory for downloaded model weights")
	defaultModel := flag.String("default-model", resolve(os.Getenv("STORYFORGE_DEFAULT_MODEL"), fileCfg.DefaultModel, catalog.DefaultModel), "Model loaded at startup (empty disables)")
	capacity := flag.Int("capacity", resolveInt(os.Getenv("STORYFORGE_CAPACITY"), fileCfg.Capacity, 0), "Residency cache capacity (0 derives from device)")
	maxWaitMS := flag.Int("max-wait-ms", resolveInt(os.Getenv("STORYFORGE_MAX_WAIT_MS"), fileCfg.MaxWaitMS, 0), "Admission wait before 429, in milliseconds (0 uses the built-in default)")
	maxBodyBytes := flag.Int64("max-body-bytes", int64(resolveInt(os.Getenv("STORYFORGE_MAX_BODY_BYTES"), int(fileCfg.MaxBodyBytes), 0)), "Maximum JSON request body size (0 uses the built-in default)")
	logLevel := flag.String("log-level", resolve(os.Getenv("STORYFORGE_LOG_LEVEL"), fileCfg.LogLevel, "info"), "Log level: debug, info, warn, error")
	corsOrigins := flag.String("cors-origins", resolve(os.Getenv("STORYFORGE_CORS_ORIGINS"), strings.Join(fileCfg.CORSOrigins, ","), ""), "Comma-separated allowed CORS origins (empty disables CORS)")
	flag.Parse()

	logger := newLogger(*logLevel)

	if err := fsutil.EnsureDir(*cacheDir); err != nil {
		logger.Fatal().Err(err).Str("dir", *cacheDir).Msg("create cache dir")
	}

	models := catalog.Default()
	if *modelsDir != "" {
		scanned, err := catalog.LoadDir(*modelsDir)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", *modelsDir).Msg("scan models dir")
		}
		models = append(models, scanned...)
	}

	svc := manager.New(manager.ServiceConfig{
		Device:   engine.Device(*device),
		Factory:  sdcpp.NewFactory(),
		Capacity: *capacity,
		MaxWait:  time.Duration(*maxWaitMS) * time.Millisecond,
		Catalog:  models,
		Logger:   logger,
	})

	// Base context canceled on shutdown so in-flight generations stop too.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	httpapi.SetLogger(logger)
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetMaxBodyBytes(*maxBodyBytes)
	if origins := splitCSV(*corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
			[]string{"Content-Type", "X-Log-Level"})
	}

	if *defaultModel != "" {
		loadCtx, cancel := context.WithTimeout(baseCtx, 10*time.Minute)
		if err := svc.Load(loadCtx, *defaultModel); err != nil {
			// Keep serving; /readyz stays unready until a switch succeeds.
			logger.Error().Err(err).Str("model", *defaultModel).Msg("startup model load failed")
		}
		cancel()
	}

	mux := httpapi.MetricsMiddleware(httpapi.NewMux(svc))
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", *addr).Str("device", *device).Int("catalog", len(models)).Msg("imaged listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown")
	}
	if err := svc.Close(); err != nil {
		logger.Warn().Err(err).Msg("service close")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

// resolve returns the first non-empty value.
func resolve(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveInt returns the parsed env value when set, otherwise the first
// non-zero fallback.
func resolveInt(env string, vals ...int) int {
	if env != "" {
		if n, err := strconv.Atoi(env); err == nil {
			return n
		}
	}
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
