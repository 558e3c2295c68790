// Package walk selects class pages from a javadoc output tree and derives
// the class identity of each page.
package walk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultExt is the page extension used when none is configured.
const DefaultExt = ".html"

// Excluded path segments: usage listings and copied resources.
var excludedDirs = []string{"class-use", "doc-files"}

// Page is a candidate class page.
type Page struct {
	RelPath string // root-relative path with forward slashes
	AbsPath string
}

type walkState struct {
	root    string
	namePat *regexp.Regexp
	pages   []Page
}

// classPagePattern matches CamelCase page names, including nested types
// such as Map.Entry.html.
func classPagePattern(ext string) *regexp.Regexp {
	return regexp.MustCompile(`^[A-Z][A-Za-z0-9_$]*(\.[A-Z][A-Za-z0-9_$]*)*` + regexp.QuoteMeta(ext) + `$`)
}

// Collect walks root and returns the class pages under it in lexical
// path order.
func Collect(root, ext string) ([]Page, error) {
	if ext == "" {
		ext = DefaultExt
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", root)
	}

	state := &walkState{root: abs, namePat: classPagePattern(ext)}
	if err := filepath.WalkDir(abs, state.visit); err != nil {
		return nil, err
	}
	sort.Slice(state.pages, func(i, j int) bool { return state.pages[i].RelPath < state.pages[j].RelPath })
	return state.pages, nil
}

func (ws *walkState) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		// unreadable entries are skipped, not fatal
		return nil
	}
	rel, err := filepath.Rel(ws.root, path)
	if err != nil || rel == "." {
		return nil
	}
	rel = filepath.ToSlash(rel)
	if excluded(rel) {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() || !ws.namePat.MatchString(d.Name()) {
		return nil
	}
	ws.pages = append(ws.pages, Page{RelPath: rel, AbsPath: path})
	return nil
}

func excluded(rel string) bool {
	for _, dir := range excludedDirs {
		if strings.Contains(rel, dir) {
			return true
		}
	}
	return false
}
