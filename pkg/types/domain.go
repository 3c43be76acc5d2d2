package types

// CatalogModel describes a known model in the configured catalog. The
// catalog is informational: switch-model accepts arbitrary ids and loading
// an uncataloged model is not an error.
type CatalogModel struct {
	// Stable model identifier passed to the engine.
	// example: runwayml/stable-diffusion-v1-5
	ID string `json:"id" example:"runwayml/stable-diffusion-v1-5"`
	// Human-friendly name.
	// example: Stable Diffusion v1.5
	Name string `json:"name,omitempty" example:"Stable Diffusion v1.5"`
	// Optional local weights path; empty means resolved by the engine.
	Path string `json:"path,omitempty"`
}
