package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDirFiltersCheckpoints(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"dreamshaper.safetensors",
		"anything-v4.CKPT", // case-insensitive
		"readme.txt",
		"weights.bin",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(""), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	for _, m := range models {
		if m.Path == "" || !filepath.IsAbs(m.Path) {
			t.Fatalf("model %q has non-absolute path %q", m.ID, m.Path)
		}
		lower := strings.ToLower(m.ID)
		if !strings.HasSuffix(lower, ".safetensors") && !strings.HasSuffix(lower, ".ckpt") {
			t.Fatalf("unexpected id: %s", m.ID)
		}
	}
}

func TestLoadDirSkipsSubdirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "nested.safetensors"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 0 {
		t.Fatalf("expected empty catalog, got %+v", models)
	}
}

func TestLoadDirExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir on this platform: %v", err)
	}
	hTmp, err := os.MkdirTemp(home, "storyforge-catalog-*")
	if err != nil {
		t.Skipf("cannot create temp under home: %v", err)
	}
	defer os.RemoveAll(hTmp)
	if err := os.WriteFile(filepath.Join(hTmp, "x.safetensors"), []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	models, err := LoadDir("~/" + filepath.Base(hTmp))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 1 || models[0].ID != "x.safetensors" {
		t.Fatalf("unexpected models: %+v", models)
	}
}

func TestDefaultCatalog(t *testing.T) {
	models := Default()
	if len(models) == 0 {
		t.Fatal("default catalog is empty")
	}
	if models[0].ID != DefaultModel {
		t.Fatalf("default model = %q", models[0].ID)
	}
}
