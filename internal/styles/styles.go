// Package styles holds the static style presets that drive generation
// parameters. The preset set is fixed at process start; lookup is a total
// function so callers may pass arbitrary style tags without pre-validating.
package styles

// Preset bundles the prompt fragments and sampling parameters for one
// visual style. Presets are immutable after construction.
type Preset struct {
	Name             string
	PositiveFragment string
	NegativeFragment string
	Steps            int
	GuidanceScale    float64
	Width            int
	Height           int
}

// DefaultStyle is returned for unknown style names.
const DefaultStyle = "cartoon"

// Registry maps style names to presets. Construct with NewRegistry; the
// zero value is not usable.
type Registry struct {
	presets map[string]Preset
	order   []string
}

// NewRegistry builds the built-in preset set. Dimensions are 512x512
// across the board to stay inside low-VRAM GPU budgets.
func NewRegistry() *Registry {
	r := &Registry{presets: make(map[string]Preset)}
	for _, p := range []Preset{
		{
			Name:             "cartoon",
			PositiveFragment: "cartoon style, clean lines, bright colors, comic book art, illustration, animated style",
			NegativeFragment: "realistic, photograph, photorealistic, blurry, low quality, distorted, nsfw, dark, scary",
			Steps:            20,
			GuidanceScale:    7.0,
			Width:            512,
			Height:           512,
		},
		{
			Name:             "anime",
			PositiveFragment: "anime style, cel shaded, detailed character design, manga art, japanese animation",
			NegativeFragment: "realistic, photograph, 3d render, blurry, low quality, distorted, nsfw, western style",
			Steps:            25,
			GuidanceScale:    8.0,
			Width:            512,
			Height:           512,
		},
		{
			Name:             "storybook",
			PositiveFragment: "children's book illustration, watercolor style, soft colors, storybook art, whimsical, friendly",
			NegativeFragment: "dark, scary, realistic, photograph, blurry, low quality, nsfw, violent",
			Steps:            30,
			GuidanceScale:    7.5,
			Width:            512,
			Height:           512,
		},
		{
			Name:             "realistic",
			PositiveFragment: "photorealistic, cinematic lighting, professional photography, detailed, high quality",
			NegativeFragment: "cartoon, anime, artistic, painting, blurry, low quality, distorted, nsfw",
			Steps:            35,
			GuidanceScale:    6.0,
			Width:            512,
			Height:           512,
		},
	} {
		r.presets[p.Name] = p
		r.order = append(r.order, p.Name)
	}
	return r
}

// Get returns the preset for name, falling back to the default preset when
// the name is unknown. It never fails.
func (r *Registry) Get(name string) Preset {
	if p, ok := r.presets[name]; ok {
		return p
	}
	return r.presets[DefaultStyle]
}

// Names returns preset names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
