package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	// errTemplateNotFound marks a page whose resolved template file does
	// not exist. It fails that one page, not the build.
	errTemplateNotFound = errors.New("template not found")

	// errNoRootElement marks a template without a root <html> element.
	// This is a configuration error and aborts the whole build.
	errNoRootElement = errors.New("template has no root <html> element")
)

// templateSet loads template files as mutable documents. Raw bytes are
// cached for the lifetime of one build, but every Load parses a fresh tree
// because each page mutates its own copy.
type templateSet struct {
	dir string

	mu    sync.Mutex
	cache map[string][]byte
}

func newTemplateSet(dir string) *templateSet {
	return &templateSet{dir: dir, cache: make(map[string][]byte)}
}

// Resolve maps front matter to a template path: templates/<name>.html when
// the template key is set, templates/default.html otherwise.
func (ts *templateSet) Resolve(fm FrontMatter) string {
	return filepath.Join(ts.dir, fm.Template()+".html")
}

// Load parses the template at path into a fresh document tree and checks
// that it carries a root <html> element.
func (ts *templateSet) Load(path string) (*document, error) {
	raw, err := ts.raw(path)
	if err != nil {
		return nil, err
	}
	// The parser synthesizes missing document structure, so the root
	// element requirement is checked against the template source.
	if !bytes.Contains(bytes.ToLower(raw), []byte("<html")) {
		return nil, fmt.Errorf("template %s: %w", path, errNoRootElement)
	}
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return doc, nil
}

func (ts *templateSet) raw(path string) ([]byte, error) {
	ts.mu.Lock()
	cached, ok := ts.cache[path]
	ts.mu.Unlock()
	if ok {
		return cached, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", errTemplateNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	ts.mu.Lock()
	ts.cache[path] = raw
	ts.mu.Unlock()
	return raw, nil
}
