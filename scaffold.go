package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Seed files written by the init command. The default template documents
// the ids the transform looks for opportunistically: page-content, header,
// nav, and the pagination controls.
const seedTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<title>darkroom</title>
<meta name="keywords" content="photography, film"/>
<meta name="description" content=""/>
</head>
<body>
<header id="header">
<h1><a href="/">darkroom</a></h1>
<nav id="nav"><ul>
<li><a href="/">home</a></li>
<li><a href="/text/1.html">text</a></li>
<li><a href="/photo.html">photo</a></li>
<li><a href="/about.html">about</a></li>
</ul></nav>
</header>
<main id="page-content"></main>
<nav id="pagination">
<a id="page-begin" href="/">&#171;</a>
<a id="page-back" href="/">&#8249;</a>
<span id="page-current"></span>
<a id="page-forward" href="/">&#8250;</a>
<a id="page-end" href="/">&#187;</a>
</nav>
</body>
</html>
`

const seedIndex = `---
title: darkroom
description: notes and negatives
---
`

const seedPost = `---
title: Hello
date: 20240101
---
First post.

[READ MORE]

The rest of the first post.
`

const seedStyle = `body { max-width: 40rem; margin: 0 auto; font-family: serif; }
nav ul { list-style: none; display: flex; gap: 1rem; padding: 0; }
nav li.active a { font-weight: bold; }
#pagination .muted { opacity: 0.4; pointer-events: none; }
.post-date { display: block; color: #666; }
`

// runInit scaffolds a new project: the three input directories plus seed
// files, skipping anything that already exists.
func runInit(conf *SiteConf) error {
	dirs := []string{
		conf.TemplateDir,
		conf.PagesDir,
		filepath.Join(conf.PagesDir, conf.CollectedDir),
		filepath.Join(conf.PagesDir, conf.GalleryDir),
		conf.StaticDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	seeds := []struct {
		path    string
		content string
	}{
		{filepath.Join(conf.TemplateDir, "default.html"), seedTemplate},
		{filepath.Join(conf.PagesDir, string(reservedPrefix)+"index"+contentExtension), seedIndex},
		{filepath.Join(conf.PagesDir, conf.CollectedDir, "2024-01-01-hello"+contentExtension), seedPost},
		{filepath.Join(conf.StaticDir, "style.css"), seedStyle},
	}
	for _, seed := range seeds {
		if _, err := os.Stat(seed.path); err == nil {
			continue
		}
		if err := os.WriteFile(seed.path, []byte(seed.content), 0o664); err != nil {
			return fmt.Errorf("writing %s: %w", seed.path, err)
		}
		slog.Info("created", "file", seed.path)
	}
	return nil
}
