package walk

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jcdickinson/javadocfetch/internal/docs"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("<html></html>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCollect(t *testing.T) {
	t.Parallel()

	root := writeTree(t,
		"java/util/ArrayList.html",
		"java/util/Map.Entry.html",
		"java/util/package-summary.html",
		"java/util/class-use/ArrayList.html",
		"java/util/doc-files/Diagram.html",
		"java/lang/Object.html",
		"java/lang/Object.txt",
		"index.html",
		"allclasses-frame.html",
		"pkg/Foo.html",
	)

	pages, err := Collect(root, "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var got []string
	for _, p := range pages {
		got = append(got, p.RelPath)
		if !filepath.IsAbs(p.AbsPath) {
			t.Errorf("AbsPath %q is not absolute", p.AbsPath)
		}
	}
	want := []string{
		"java/lang/Object.html",
		"java/util/ArrayList.html",
		"java/util/Map.Entry.html",
		"pkg/Foo.html",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestCollect_Extension(t *testing.T) {
	t.Parallel()

	root := writeTree(t, "a/Foo.htm", "a/Bar.html")
	pages, err := Collect(root, ".htm")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || pages[0].RelPath != "a/Foo.htm" {
		t.Errorf("Collect(.htm) = %+v", pages)
	}
}

func TestCollect_MissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := Collect(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Error("Collect() on a missing directory succeeded")
	}
}

func TestClassPagePattern(t *testing.T) {
	t.Parallel()

	re := classPagePattern(".html")
	for name, want := range map[string]bool{
		"ArrayList.html":              true,
		"Map.Entry.html":              true,
		"Character.UnicodeBlock.html": true,
		"Foo$Bar.html":                true,
		"package-summary.html":        false,
		"index.html":                  false,
		"Foo.html.bak":                false,
		"Map.entry.html":              false,
	} {
		if got := re.MatchString(name); got != want {
			t.Errorf("match(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestIdentify_Path(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want docs.Identity
	}{
		{
			rel:  "java/util/ArrayList.html",
			want: docs.Identity{Package: "java.util", SimpleName: "ArrayList", QualifiedName: "java.util.ArrayList", Path: "java/util/ArrayList.html"},
		},
		{
			rel:  "java/util/Map.Entry.html",
			want: docs.Identity{Package: "java.util.Map", SimpleName: "Entry", QualifiedName: "java.util.Map.Entry", Path: "java/util/Map.Entry.html"},
		},
		{
			rel:  "Toplevel.html",
			want: docs.Identity{SimpleName: "Toplevel", QualifiedName: "Toplevel", Path: "Toplevel.html"},
		},
	}
	for _, tt := range tests {
		got, err := NamingPath.Identify(tt.rel, nil)
		if err != nil {
			t.Errorf("Identify(%q): %v", tt.rel, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Identify(%q) = %+v, want %+v", tt.rel, got, tt.want)
		}
	}
}

func loadPage(t *testing.T, src string) *docs.Page {
	t.Helper()
	page, err := docs.LoadPage(strings.NewReader(src), "x.html")
	if err != nil {
		t.Fatal(err)
	}
	return page
}

func TestIdentify_Subtitle(t *testing.T) {
	t.Parallel()

	page := loadPage(t, `<div class="header"><div class="subTitle">java.util</div><h2 class="title">Interface Map.Entry&lt;K,V&gt;</h2></div>`)
	got, err := NamingSubtitle.Identify("java/util/Map.Entry.html", page)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	want := docs.Identity{Package: "java.util", SimpleName: "Map.Entry", QualifiedName: "java.util.Map.Entry", Path: "java/util/Map.Entry.html"}
	if got != want {
		t.Errorf("Identify() = %+v, want %+v", got, want)
	}

	bare := loadPage(t, `<div class="header"><h2 class="title">Class Foo</h2></div>`)
	if _, err := NamingSubtitle.Identify("pkg/Foo.html", bare); !errors.Is(err, ErrNoSubtitle) {
		t.Errorf("Identify() without subtitle error = %v, want ErrNoSubtitle", err)
	}
}

func TestParseNaming(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Naming{"": NamingPath, "path": NamingPath, "Subtitle": NamingSubtitle} {
		got, err := ParseNaming(in)
		if err != nil || got != want {
			t.Errorf("ParseNaming(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseNaming("guess"); err == nil {
		t.Error("ParseNaming(guess) succeeded")
	}
}
