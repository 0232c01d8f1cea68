package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GridSizeLimit != 1_000_000_000 {
		t.Fatalf("expected default grid size limit, got %d", cfg.GridSizeLimit)
	}
	if cfg.MinAlphaTokens != 5 {
		t.Fatalf("expected default min alpha tokens 5, got %d", cfg.MinAlphaTokens)
	}
	if !cfg.RequireEndPunctuation {
		t.Fatal("expected RequireEndPunctuation default true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STRANDMINE_MIN_ALPHA_TOKENS", "3")
	t.Setenv("STRANDMINE_REQUIRE_END_PUNCTUATION", "false")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinAlphaTokens != 3 {
		t.Fatalf("expected overridden min alpha tokens 3, got %d", cfg.MinAlphaTokens)
	}
	if cfg.RequireEndPunctuation {
		t.Fatal("expected RequireEndPunctuation overridden to false")
	}
}

func TestLoadYAMLRoutes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	body := "routes:\n  - src: en\n    tgt: fr\n    out_prefix: /tmp/out\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := cfg.RouteFor("EN", "FR")
	if !ok {
		t.Fatal("expected en-fr route to be found case-insensitively")
	}
	if r.OutPrefix != "/tmp/out" {
		t.Fatalf("unexpected out prefix: %q", r.OutPrefix)
	}
}

func TestRouteForMiss(t *testing.T) {
	cfg := defaults()
	if _, ok := cfg.RouteFor("en", "de"); ok {
		t.Fatal("expected no route for unconfigured pair")
	}
}
