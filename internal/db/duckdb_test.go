package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/jcdickinson/javadocfetch/internal/emit"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// document renders the ArrayList and Foo fixtures as an output document.
func document(t *testing.T, c emit.Compression, out string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := emit.NewWriter(&buf, emit.Options{Compression: c})
	if err != nil {
		t.Fatal(err)
	}
	ex := docs.NewExtractor(docs.FullPolicy)
	for _, f := range []struct {
		file string
		id   docs.Identity
	}{
		{"ArrayList.html", docs.Identity{Package: "java.util", SimpleName: "ArrayList", QualifiedName: "java.util.ArrayList", Path: "java/util/ArrayList.html"}},
		{"Foo.html", docs.Identity{Package: "pkg", SimpleName: "Foo", QualifiedName: "pkg.Foo", Path: "pkg/Foo.html"}},
	} {
		src, err := os.Open(filepath.Join("..", "docs", "testdata", f.file))
		if err != nil {
			t.Fatal(err)
		}
		page, err := docs.LoadPage(src, f.id.Path)
		src.Close()
		if err != nil {
			t.Fatal(err)
		}
		res, err := ex.Extract(page, f.id)
		if err != nil {
			t.Fatal(err)
		}
		for _, rec := range res.Records() {
			if err := w.Write(rec); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if out != "" {
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	stats, err := db.Load(ctx, bytes.NewReader(document(t, emit.CompressNone, "")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Classes != 2 || stats.Methods != 5 {
		t.Errorf("stats = %+v, want 2 classes, 5 methods", stats)
	}

	// loading again replaces rather than duplicates
	if _, err := db.Load(ctx, bytes.NewReader(document(t, emit.CompressNone, ""))); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	classes, methods, err := db.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if classes != 2 || methods != 5 {
		t.Errorf("Count() = %d, %d, want 2, 5", classes, methods)
	}
}

func TestLoadFile_Compressed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, tt := range []struct {
		name string
		c    emit.Compression
	}{
		{"out.json", emit.CompressNone},
		{"out.json.zst", emit.CompressZstd},
		{"out.json.gz", emit.CompressGzip},
	} {
		path := filepath.Join(t.TempDir(), tt.name)
		document(t, tt.c, path)
		stats, err := db.LoadFile(ctx, path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", tt.name, err)
		}
		if stats.Classes+stats.Methods != 7 {
			t.Errorf("LoadFile(%s) loaded %+v", tt.name, stats)
		}
	}
}

func TestLoad_Malformed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for name, doc := range map[string]string{
		"not_object": `[1, 2]`,
		"truncated":  `{"metadata": {}, "updates": [{"_id": "a", "kind": "CLASS"}`,
		"no_id":      `{"updates": [{"kind": "CLASS"}]}`,
	} {
		if _, err := db.Load(ctx, strings.NewReader(doc)); err == nil {
			t.Errorf("%s: Load succeeded", name)
		}
	}
	classes, methods, err := db.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if classes != 0 || methods != 0 {
		t.Errorf("failed loads left %d classes, %d methods", classes, methods)
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	if _, err := db.Load(ctx, bytes.NewReader(document(t, emit.CompressNone, ""))); err != nil {
		t.Fatal(err)
	}

	hits, err := db.Search(ctx, "Array", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != "java.util.ArrayList" || hits[0].Kind != "CLASS" {
		t.Fatalf("Search(Array) = %+v", hits)
	}
	if hits[0].Weight != 950 || hits[0].Path != "java/util/ArrayList.html" {
		t.Errorf("hit = %+v", hits[0])
	}

	hits, err = db.Search(ctx, "java.util.arraylist.", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 4 {
		t.Errorf("qualified prefix search returned %d hits, want 4", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i-1].Weight < hits[i].Weight {
			t.Errorf("hits not ordered by weight: %+v", hits)
		}
	}

	hits, err = db.Search(ctx, "", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Errorf("limit ignored: %d hits", len(hits))
	}
}

func TestGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	if _, err := db.Load(ctx, bytes.NewReader(document(t, emit.CompressNone, ""))); err != nil {
		t.Fatal(err)
	}

	raw, err := db.Get(ctx, "pkg.Foo#run()")
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if m["returnType"] != "void" || m["qualifiedName"] != "pkg.Foo.run" {
		t.Errorf("Get() = %s", raw)
	}

	raw, err = db.Get(ctx, "java.util.ArrayList")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"superClass":"java.util.AbstractList"`) {
		t.Errorf("Get() = %s", raw)
	}

	if _, err := db.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrNotFound", err)
	}
}
