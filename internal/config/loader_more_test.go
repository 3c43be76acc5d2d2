package config

import (
	"testing"
)

func TestLoadNonexistentFile(t *testing.T) {
	if _, err := Load("/definitely/not/a/real/storyforge-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
}

func TestLoadMalformedFiles(t *testing.T) {
	d := t.TempDir()
	cases := []struct {
		name    string
		content string
	}{
		{"bad.yaml", "addr: :8080\ncors_origins: [\n"},
		{"bad.json", `{"addr":":8080","max_body_bytes":}`},
		{"bad.toml", "addr=\":8080\"\ncache_dir\n"},
	}
	for _, tc := range cases {
		p := writeTempFile(t, d, tc.name, tc.content)
		if _, err := Load(p); err == nil {
			t.Fatalf("%s: expected unmarshal error", tc.name)
		}
	}
}

func TestLoadBudgetAndBodyLimits(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yml", "max_body_bytes: 33554432\nmax_wait_ms: 250\ncache_dir: ~/.cache/storyforge\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxBodyBytes != 33554432 {
		t.Fatalf("max_body_bytes = %d", cfg.MaxBodyBytes)
	}
	if cfg.MaxWaitMS != 250 {
		t.Fatalf("max_wait_ms = %d", cfg.MaxWaitMS)
	}
	if cfg.CacheDir != "~/.cache/storyforge" {
		t.Fatalf("cache_dir = %q", cfg.CacheDir)
	}
}

func TestLoadTOMLCORSOrigins(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "cors_origins = [\"http://localhost:3000\", \"https://storyforge.example\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://storyforge.example" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CORSOrigins)
	}
}
