package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jcdickinson/javadocfetch/internal/config"
	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/jcdickinson/javadocfetch/internal/emit"
)

func testTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"pkg/Foo.html":             "Foo.html",
		"java/util/ArrayList.html": "ArrayList.html",
		"pkg/package-summary.html": "overview-frame.html",
	}
	for dst, src := range files {
		data, err := os.ReadFile(filepath.Join("..", "internal", "docs", "testdata", src))
		if err != nil {
			t.Fatal(err)
		}
		p := filepath.Join(root, filepath.FromSlash(dst))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Extract: config.ExtractConfig{
			Policy:  docs.FullPolicy,
			Naming:  "path",
			Ext:     ".html",
			Workers: 2,
		},
		Cache: config.CacheConfig{Dir: filepath.Join(t.TempDir(), "cas")},
	}
}

type document struct {
	Metadata struct {
		Mapping json.RawMessage `json:"mapping"`
	} `json:"metadata"`
	Updates []map[string]any `json:"updates"`
}

func readDocument(t *testing.T, path string) document {
	t.Helper()
	r, err := emit.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		t.Fatalf("output is not well-formed: %v", err)
	}
	return doc
}

func TestExtract(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		out   string
		cache bool
	}{
		{"plain", "javadoc.json", false},
		{"zstd", "javadoc.json.zst", false},
		{"gzip with cache", "javadoc.json.gz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t)
			cfg.Cache.Enabled = tt.cache
			out := filepath.Join(t.TempDir(), tt.out)

			sum, err := extract(context.Background(), cfg, testTree(t), out)
			if err != nil {
				t.Fatal(err)
			}
			if sum.Pages != 2 {
				t.Errorf("pages = %d, want 2", sum.Pages)
			}

			doc := readDocument(t, out)
			if len(doc.Updates) != sum.Records {
				t.Errorf("updates = %d, summary records = %d", len(doc.Updates), sum.Records)
			}
			if len(doc.Metadata.Mapping) == 0 {
				t.Error("mapping missing")
			}
			last := doc.Updates[len(doc.Updates)-1]
			if last["_id"] != "pkg.Foo" {
				t.Errorf("last record = %v, want pkg.Foo", last["_id"])
			}
		})
	}
}

func TestExtract_CanceledStillWellFormed(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "javadoc.json")
	if _, err := extract(ctx, testConfig(t), testTree(t), out); err == nil {
		t.Fatal("expected cancellation error")
	}
	readDocument(t, out)
}

func TestExtract_MissingRoot(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "javadoc.json")
	if _, err := extract(context.Background(), testConfig(t), filepath.Join(t.TempDir(), "nope"), out); err == nil {
		t.Fatal("expected error for missing input directory")
	}
	readDocument(t, out)
}

func TestExtract_UnwritableOutput(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "missing", "javadoc.json")
	if _, err := extract(context.Background(), testConfig(t), testTree(t), out); err == nil {
		t.Fatal("expected error opening output")
	}
}
