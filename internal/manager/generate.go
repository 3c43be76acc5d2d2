package manager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
	"github.com/notedwin-dev/storyforge-ai/internal/styles"
	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// GenerateRequest describes a prompt-only generation.
type GenerateRequest struct {
	Prompt string
	Style  string
	// Seed, when set, makes generation deterministic for a fixed
	// (prompt, style, seed) triple.
	Seed *int64
}

// Result is a successful generation: encoded image bytes plus metadata.
// Failures are returned as errors; a Result never carries partial output.
type Result struct {
	ImageBytes []byte
	Format     string
	Metadata   types.GenerateMetadata
}

// Generate runs prompt-only generation against the active engine. It is
// synchronous and blocks for the duration of inference.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrInvalidArgument("prompt is required")
	}

	// Hold the switch gate open for the whole generation so a concurrent
	// Load cannot tear the handle down under us.
	s.switchMu.RLock()
	defer s.switchMu.RUnlock()

	s.mu.RLock()
	r := s.active
	s.mu.RUnlock()
	if r == nil {
		return nil, ErrNoModelLoaded()
	}

	preset := s.styles.Get(req.Style)
	prompt, truncated := s.budgeter.Budget(preset.PositiveFragment + ", " + req.Prompt)

	release, err := s.acquireGen(ctx, r.genCh, r.id)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	s.log.Info().
		Str("model", r.id).
		Str("style", preset.Name).
		Bool("prompt_truncated", truncated).
		Msg("generate start")

	img, err := r.engine.Generate(ctx, engine.TxtParams{
		Prompt:         prompt,
		NegativePrompt: preset.NegativeFragment,
		Steps:          preset.Steps,
		GuidanceScale:  preset.GuidanceScale,
		Width:          preset.Width,
		Height:         preset.Height,
		Seed:           seedOf(req.Seed),
	})
	observeGeneration("txt2img", err, time.Since(start))
	if err != nil {
		s.log.Error().Str("model", r.id).Err(err).Msg("generate failed")
		return nil, ErrGeneration(err)
	}

	data, err := engine.EncodePNG(img)
	if err != nil {
		return nil, ErrGeneration(err)
	}

	s.mu.Lock()
	r.lastUsed = time.Now()
	s.gensTotal++
	s.mu.Unlock()

	s.log.Info().Str("model", r.id).Dur("dur", time.Since(start)).Msg("generate done")
	return &Result{
		ImageBytes: data,
		Format:     "png",
		Metadata:   s.metadata(r.id, preset, truncated),
	}, nil
}

// seedOf maps an optional caller seed to the engine convention (-1 means
// non-deterministic).
func seedOf(seed *int64) int64 {
	if seed == nil {
		return -1
	}
	return *seed
}

func (s *Service) metadata(modelID string, preset styles.Preset, truncated bool) types.GenerateMetadata {
	return types.GenerateMetadata{
		ID:              uuid.NewString(),
		Model:           modelID,
		Style:           preset.Name,
		Steps:           preset.Steps,
		GuidanceScale:   preset.GuidanceScale,
		Size:            fmt.Sprintf("%dx%d", preset.Width, preset.Height),
		Device:          string(s.device),
		PromptTruncated: truncated,
	}
}
