package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/otiai10/copy"
)

// runBuild performs one full site build: clear the output root, copy the
// static collaborators, transform every page, aggregate the collected
// posts, and write the fixed auxiliary files. Every build recomputes the
// whole output tree.
func runBuild(conf *SiteConf) error {
	start := time.Now()

	if err := os.RemoveAll(conf.OutDir); err != nil {
		return fmt.Errorf("clearing output: %w", err)
	}
	if err := os.MkdirAll(conf.OutDir, 0o775); err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	copyCollaborators(conf)

	tr := newTransformer(conf)
	collected, err := newWalker(conf, tr).Walk()
	if err != nil {
		return err
	}

	sorted := sortCollected(collected)
	if err := newAggregator(conf, tr).Run(sorted); err != nil {
		return err
	}

	if err := writeFeed(conf, sorted); err != nil {
		slog.Warn("feed not written", "error", err)
	}

	if conf.Domain != "" {
		cname := filepath.Join(conf.OutDir, "CNAME")
		if err := os.WriteFile(cname, []byte(conf.Domain+"\n"), 0o664); err != nil {
			return fmt.Errorf("writing CNAME: %w", err)
		}
	}

	slog.Info("site built", "out", conf.OutDir, "posts", len(sorted), "elapsed", time.Since(start))
	return nil
}

// copyCollaborators mirrors the non-source assets of the three input
// directories into the output root. Copying is advisory: a missing source
// directory or a failed file is logged at debug and skipped, never fatal.
func copyCollaborators(conf *SiteConf) {
	copyFiltered(conf.TemplateDir, conf.OutDir, skipSuffix(".html"))
	copyFiltered(conf.PagesDir, conf.OutDir, skipSuffix(contentExtension))
	copyFiltered(conf.StaticDir, filepath.Join(conf.OutDir, filepath.Base(conf.StaticDir)), nil)
}

func copyFiltered(src, dest string, extraSkip func(string) bool) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		slog.Warn("source directory missing, copy skipped", "dir", src)
		return
	}

	err := copy.Copy(src, dest, copy.Options{
		Skip: func(_ os.FileInfo, srcPath, _ string) (bool, error) {
			name := filepath.Base(srcPath)
			if strings.HasPrefix(name, ".") {
				return true, nil
			}
			if extraSkip != nil && extraSkip(name) {
				return true, nil
			}
			return false, nil
		},
	})
	if err != nil {
		slog.Debug("copy incomplete", "dir", src, "error", err)
	}
}

func skipSuffix(suffix string) func(string) bool {
	return func(name string) bool {
		return strings.HasSuffix(name, suffix)
	}
}
