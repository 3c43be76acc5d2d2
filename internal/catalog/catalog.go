package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/notedwin-dev/storyforge-ai/internal/common/fsutil"
	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// DefaultModel is the checkpoint loaded at startup when none is configured.
const DefaultModel = "runwayml/stable-diffusion-v1-5"

// Default returns the built-in catalog of hub-hosted checkpoints. These
// have no local path; the engine resolves them by id.
func Default() []types.CatalogModel {
	return []types.CatalogModel{
		{ID: DefaultModel, Name: "Stable Diffusion v1.5"},
	}
}

// LoadDir scans a directory for *.safetensors and *.ckpt files and builds a
// catalog from filenames. ID is the full filename (including extension);
// Path is the absolute file path.
func LoadDir(dir string) ([]types.CatalogModel, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.CatalogModel
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isCheckpoint(name) {
			continue
		}
		models = append(models, types.CatalogModel{
			ID:   name,
			Name: name,
			Path: filepath.Join(abs, name),
		})
	}
	return models, nil
}

func isCheckpoint(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".safetensors") || strings.HasSuffix(lower, ".ckpt")
}
