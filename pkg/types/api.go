package types

// GenerateRequest is the payload for POST /generate.
type GenerateRequest struct {
	// Required prompt text describing the image to generate.
	// example: a boy and his dog walk through a meadow
	Prompt string `json:"prompt" example:"a boy and his dog walk through a meadow"`
	// Style preset name. Unknown styles fall back to the default preset.
	// example: storybook
	Style string `json:"style,omitempty" example:"storybook"`
	// Optional seed for reproducible output; omitted means non-deterministic.
	// example: 42
	Seed *int64 `json:"seed,omitempty" example:"42"`
}

// SceneRequest is the payload for POST /generate-scene. It anchors
// generation to a reference character image for visual consistency.
type SceneRequest struct {
	// Required scene description.
	// example: character standing in a magical forest with glowing trees
	Prompt string `json:"prompt" example:"character standing in a magical forest with glowing trees"`
	// Base64-encoded PNG or JPEG of the reference character.
	CharacterImage string `json:"character_image"`
	// Style preset name.
	// example: cartoon
	Style string `json:"style,omitempty" example:"cartoon"`
	// Fraction of the denoising process allowed to deviate from the
	// reference, in [0.1, 1.0]. Low keeps the reference nearly unchanged.
	// Omitted defaults to 0.7; an explicit out-of-range value is rejected.
	// example: 0.7
	Strength *float64 `json:"strength,omitempty" example:"0.7"`
	// Optional seed for reproducible output.
	// example: 42
	Seed *int64 `json:"seed,omitempty" example:"42"`
}

// GenerateMetadata describes how an image was produced.
type GenerateMetadata struct {
	// Identifier assigned to this generation.
	ID string `json:"id"`
	// Model id that produced the image.
	// example: runwayml/stable-diffusion-v1-5
	Model string `json:"model" example:"runwayml/stable-diffusion-v1-5"`
	// Style preset that was applied.
	// example: cartoon
	Style string `json:"style" example:"cartoon"`
	// Denoising steps used.
	// example: 20
	Steps int `json:"steps" example:"20"`
	// Classifier-free guidance scale used.
	// example: 7.0
	GuidanceScale float64 `json:"guidance_scale" example:"7.0"`
	// Output resolution as WIDTHxHEIGHT.
	// example: 512x512
	Size string `json:"size" example:"512x512"`
	// Device the generation ran on.
	// example: gpu
	Device string `json:"device" example:"gpu"`
	// Whether the composed prompt had to be compressed to fit the
	// downstream token budget.
	PromptTruncated bool `json:"prompt_truncated"`
	// True for reference-conditioned scene generation.
	CharacterBased bool `json:"character_based,omitempty"`
	// Strength used for reference-conditioned generation.
	Strength float64 `json:"strength,omitempty"`
}

// GenerateResponse is returned by /generate and /generate-scene.
// On failure Success is false, Error carries the reason, and Image is empty.
type GenerateResponse struct {
	Success bool `json:"success"`
	// Base64-encoded image bytes (PNG).
	Image string `json:"image,omitempty"`
	// Image encoding; always "png".
	// example: png
	Format string `json:"format,omitempty" example:"png"`
	// Human-readable failure reason when Success is false.
	Error    string            `json:"error,omitempty"`
	Metadata *GenerateMetadata `json:"metadata,omitempty"`
}

// SwitchModelRequest is the payload for POST /switch-model.
type SwitchModelRequest struct {
	// Model identifier to load and activate.
	// example: runwayml/stable-diffusion-v1-5
	ModelID string `json:"model_id" example:"runwayml/stable-diffusion-v1-5"`
}

// SwitchModelResponse is returned by POST /switch-model.
type SwitchModelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ModelsResponse lists the style presets and model residency for GET /models.
type ModelsResponse struct {
	// Available style preset names.
	Styles []string `json:"styles"`
	// Currently active model id, empty when nothing is loaded.
	CurrentModel string `json:"current_model"`
	// Model ids resident in the cache.
	CachedModels []string `json:"cached_models"`
	// Known models from the catalog, if configured.
	Catalog []CatalogModel `json:"catalog,omitempty"`
	// Device the service runs on.
	// example: gpu
	Device string `json:"device" example:"gpu"`
}

// MemoryUsage reports coarse accelerator/host memory numbers for /status.
type MemoryUsage struct {
	// Estimated memory held by resident engines, in MB.
	ResidentMB int `json:"resident_mb"`
	// Number of resident engine handles.
	ResidentCount int `json:"resident_count"`
	// Residency cache capacity.
	Capacity int `json:"capacity"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// True when a model is loaded and the service can generate.
	Ready bool `json:"ready"`
	// Device in use: "gpu" or "cpu".
	// example: gpu
	Device string `json:"device" example:"gpu"`
	// Active model id, empty when nothing is loaded.
	CurrentModel string `json:"current_model"`
	// Model ids held in the residency cache.
	CachedModels []string `json:"cached_models"`
	// Overall lifecycle state (unloaded, loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Last load error observed, if any.
	LastError string `json:"last_error,omitempty"`
	// Memory accounting for resident engines.
	Memory MemoryUsage `json:"memory_usage"`
	// Total engine constructions since start. Cache-hit reactivations are
	// not counted; the prometheus load counter tracks those separately.
	LoadsTotal uint64 `json:"loads_total"`
	// Total completed generations since start.
	GenerationsTotal uint64 `json:"generations_total"`
	// Uptime in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: prompt is required
	Error string `json:"error" example:"prompt is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
