package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/jcdickinson/javadocfetch/internal/emit"
	"github.com/jcdickinson/javadocfetch/internal/walk"
)

func TestCacheBase_XDGSet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	got := cacheBase()
	want := filepath.Join("/custom/cache", "javadocfetch")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCacheBase_HomeDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	got := cacheBase()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}
	want := filepath.Join(home, ".cache", "javadocfetch")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCacheBase_TmpFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")
	got := cacheBase()
	// Should use os.TempDir() when HOME is unset
	if !strings.Contains(got, "javadocfetch") {
		t.Errorf("expected javadocfetch in path, got %q", got)
	}
}

func TestDecode_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := decode(map[string]interface{}{
		"extract": map[string]interface{}{"policy": "full", "workers": 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Policy(); got != docs.FullPolicy {
		t.Errorf("Policy() = %+v, want full preset", got)
	}
	if cfg.Naming() != walk.NamingPath {
		t.Errorf("Naming() = %q, want path", cfg.Naming())
	}
	if cfg.Compression() != "" {
		t.Errorf("Compression() = %q, want inferred", cfg.Compression())
	}
}

func TestDecode_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := decode(map[string]interface{}{
		"extract": map[string]interface{}{
			"policy":        "compact",
			"class_budget":  "300",
			"member_budget": 120,
			"naming":        "subtitle",
			"workers":       4,
		},
		"output": map[string]interface{}{"compress": "zstd"},
	})
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Policy()
	if p.Name != "compact" || p.ClassBudget != 300 || p.MemberBudget != 120 {
		t.Errorf("Policy() = %+v", p)
	}
	if p.Weights || p.EmbedConstructors {
		t.Errorf("compact preset lost its flags: %+v", p)
	}
	if cfg.Naming() != walk.NamingSubtitle {
		t.Errorf("Naming() = %q", cfg.Naming())
	}
	if cfg.Compression() != emit.CompressZstd {
		t.Errorf("Compression() = %q", cfg.Compression())
	}
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]interface{}{
		"policy":   {"extract": map[string]interface{}{"policy": "tiny", "workers": 1}},
		"naming":   {"extract": map[string]interface{}{"policy": "full", "naming": "guess", "workers": 1}},
		"compress": {"extract": map[string]interface{}{"policy": "full", "workers": 1}, "output": map[string]interface{}{"compress": "lz4"}},
		"workers":  {"extract": map[string]interface{}{"policy": "full", "workers": 0}},
	}
	for name, settings := range tests {
		if _, err := decode(settings); err == nil {
			t.Errorf("%s: decode succeeded", name)
		}
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("JAVADOCFETCH_EXTRACT_POLICY", "compact")

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[extract]\nworkers = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Policy().Name != "compact" {
		t.Errorf("policy = %q, want compact from env", cfg.Policy().Name)
	}
	if cfg.Extract.Workers != 3 {
		t.Errorf("workers = %d, want 3 from config file", cfg.Extract.Workers)
	}
	if cfg.Output.Path != "javadoc.json" {
		t.Errorf("output path = %q", cfg.Output.Path)
	}
}
