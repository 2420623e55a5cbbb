package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// reservedPrefix marks content files the walker does not dispatch as
// pages. The collected index file pages/_index.md is the main user.
const reservedPrefix = '_'

const contentExtension = ".md"

// walker discovers content files depth-first and fans their transforms out
// one directory level at a time. The collected-page accumulator is scoped
// to the walker, never package state, so repeated builds cannot
// cross-contaminate.
type walker struct {
	conf *SiteConf
	tr   *transformer

	mu        sync.Mutex
	collected []*collectedPage
	discovery int
}

func newWalker(conf *SiteConf, tr *transformer) *walker {
	return &walker{conf: conf, tr: tr}
}

// Walk processes the whole pages tree and returns the collected pages in
// discovery order.
func (w *walker) Walk() ([]*collectedPage, error) {
	if err := w.walkDir(w.conf.PagesDir, ""); err != nil {
		return nil, err
	}
	return w.collected, nil
}

func (w *walker) walkDir(dir, rel string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}

	var files []string
	var subdirs []string
	for _, e := range entries {
		name := e.Name()
		if name[0] == reservedPrefix || name[0] == '.' {
			continue
		}
		if e.IsDir() {
			subdirs = append(subdirs, name)
			continue
		}
		if strings.HasSuffix(name, contentExtension) {
			files = append(files, name)
		}
	}

	siblings := make([]string, len(files))
	for i, f := range files {
		siblings[i] = strings.TrimSuffix(f, contentExtension)
	}

	// Within a gallery directory the last name in sort order is the most
	// recent roll; ReadDir returns entries sorted ascending.
	latest := ""
	if w.tr.classify(rel) == kindGallery && len(siblings) > 0 {
		latest = siblings[len(siblings)-1]
	}

	// Sibling transforms run together behind a fan-in barrier. Discovery
	// indices are assigned in listing order before dispatch so completion
	// order cannot leak into the aggregation sort's tie-break.
	var g errgroup.Group
	g.SetLimit(w.conf.MaxConcurrentTransforms)
	for i, f := range files {
		cf := &contentFile{
			path:      filepath.Join(dir, f),
			dir:       rel,
			name:      siblings[i],
			discovery: w.nextDiscovery(),
			siblings:  siblings,
			latest:    siblings[i] == latest,
		}
		g.Go(func() error {
			cp, err := w.tr.transform(cf)
			if err != nil {
				if errors.Is(err, errNoRootElement) {
					return err
				}
				// Other failures are isolated to this page; siblings
				// already in flight keep going.
				slog.Error("page failed", "page", path.Join(rel, cf.name), "error", err)
				return nil
			}
			if cp != nil {
				w.mu.Lock()
				w.collected = append(w.collected, cp)
				w.mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, d := range subdirs {
		if err := w.walkDir(filepath.Join(dir, d), path.Join(rel, d)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) nextDiscovery() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := w.discovery
	w.discovery++
	return n
}
