package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/radovskyb/watcher"
)

const notFoundBody = `<!DOCTYPE html><html><head><title>404</title></head><body><h1>404 Not Found</h1></body></html>`

// runDevelop builds the site once, serves the output root, and rebuilds on
// any change to the input directories. A failed rebuild keeps the previous
// output on disk and keeps serving.
func runDevelop(conf *SiteConf, port int) error {
	if err := runBuild(conf); err != nil {
		slog.Error("initial build failed", "error", err)
	}

	go watchAndRebuild(conf)

	addr := fmt.Sprintf(":%d", port)
	slog.Info("serving site", "dir", conf.OutDir, "url", fmt.Sprintf("http://localhost:%d", port))
	return http.ListenAndServe(addr, siteHandler(conf.OutDir))
}

// siteHandler serves the generated tree: "/" maps to index.html, bare
// paths without an extension get ".html" appended, everything unknown is
// a minimal 404 page.
func siteHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean(r.URL.Path)
		if p == "/" || p == "." {
			p = "/index.html"
		} else if path.Ext(p) == "" {
			p += ".html"
		}

		file := filepath.Join(dir, filepath.FromSlash(p))
		if info, err := os.Stat(file); err != nil || info.IsDir() {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, notFoundBody)
			return
		}
		http.ServeFile(w, r, file)
	})
}

// watchAndRebuild polls the three input directories and runs a full
// rebuild per change batch. SetMaxEvents plus a short debounce timer
// coalesces rapid successive changes into one rebuild.
func watchAndRebuild(conf *SiteConf) {
	w := watcher.New()
	w.SetMaxEvents(1)

	var mu sync.Mutex
	var timer *time.Timer
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(300*time.Millisecond, func() {
			if err := runBuild(conf); err != nil {
				slog.Error("rebuild failed", "error", err)
			}
		})
	}

	go func() {
		for {
			select {
			case <-w.Event:
				rebuild()
			case err := <-w.Error:
				slog.Error("watcher error", "error", err)
			case <-w.Closed:
				return
			}
		}
	}()

	for _, dir := range []string{conf.TemplateDir, conf.PagesDir, conf.StaticDir} {
		if err := w.AddRecursive(dir); err != nil {
			slog.Warn("not watching directory", "dir", dir, "error", err)
		}
	}

	slog.Info("watching for changes", "dirs", []string{conf.TemplateDir, conf.PagesDir, conf.StaticDir})
	if err := w.Start(200 * time.Millisecond); err != nil {
		slog.Error("watcher stopped", "error", err)
	}
}
