package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type SiteConf struct {
	SiteTitle string `yaml:"siteTitle"`
	BaseUrl   string `yaml:"baseUrl"`
	Author    string `yaml:"author"`
	AuthorUri string `yaml:"authorUri"`

	// Domain, when set, is written verbatim to <out>/CNAME.
	Domain string `yaml:"domain"`

	TemplateDir string `yaml:"templateDir"`
	PagesDir    string `yaml:"pagesDir"`
	StaticDir   string `yaml:"staticDir"`
	CommentsDir string `yaml:"commentsDir"`
	OutDir      string `yaml:"outDir"`

	// CollectedDir is the pages subdirectory whose entries are deferred to
	// the paginated index instead of being written directly.
	CollectedDir string `yaml:"collectedDir"`
	// GalleryDir is the pages subdirectory rendered as a chronological roll
	// series with a selector header.
	GalleryDir string `yaml:"galleryDir"`

	PostsPerPage int `yaml:"postsPerPage"`

	// Top-level aliases duplicating the most recent gallery entry and the
	// most recent collected post.
	GalleryAlias string `yaml:"galleryAlias"`
	LatestAlias  string `yaml:"latestAlias"`

	// MaxConcurrentTransforms bounds how many sibling pages are transformed
	// at once within one directory level.
	MaxConcurrentTransforms int `yaml:"maxConcurrentTransforms"`
}

func defaultConf() *SiteConf {
	return &SiteConf{
		SiteTitle:               "darkroom",
		BaseUrl:                 "/",
		TemplateDir:             "templates",
		PagesDir:                "pages",
		StaticDir:               "static",
		CommentsDir:             "comments",
		OutDir:                  "public",
		CollectedDir:            "text",
		GalleryDir:              "photo",
		PostsPerPage:            6,
		GalleryAlias:            "photo.html",
		LatestAlias:             "latest.html",
		MaxConcurrentTransforms: 8,
	}
}

// readConf loads the site configuration from path, falling back to defaults
// for any field the file leaves unset. A missing file is not an error; the
// defaults describe a conventional project layout.
func readConf(path string) (*SiteConf, error) {
	conf := defaultConf()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return conf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if conf.PostsPerPage < 1 {
		conf.PostsPerPage = defaultConf().PostsPerPage
	}
	if conf.MaxConcurrentTransforms < 1 {
		conf.MaxConcurrentTransforms = defaultConf().MaxConcurrentTransforms
	}

	// Normalize relative paths against the config file's directory so the
	// executable can be called from anywhere.
	baseDir := filepath.Dir(path)
	conf.TemplateDir = normalizePath(conf.TemplateDir, baseDir)
	conf.PagesDir = normalizePath(conf.PagesDir, baseDir)
	conf.StaticDir = normalizePath(conf.StaticDir, baseDir)
	conf.CommentsDir = normalizePath(conf.CommentsDir, baseDir)
	conf.OutDir = normalizePath(conf.OutDir, baseDir)

	return conf, nil
}

func normalizePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "." {
		return path
	}
	return filepath.Join(baseDir, path)
}
