package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func scaffoldConf(t *testing.T) *SiteConf {
	t.Helper()
	root := t.TempDir()
	conf := defaultConf()
	conf.TemplateDir = filepath.Join(root, "templates")
	conf.PagesDir = filepath.Join(root, "pages")
	conf.StaticDir = filepath.Join(root, "static")
	conf.CommentsDir = filepath.Join(root, "comments")
	conf.OutDir = filepath.Join(root, "public")
	return conf
}

func TestInitCreatesProject(t *testing.T) {
	conf := scaffoldConf(t)

	require.NoError(t, runInit(conf))

	require.DirExists(t, conf.TemplateDir)
	require.DirExists(t, filepath.Join(conf.PagesDir, conf.CollectedDir))
	require.DirExists(t, filepath.Join(conf.PagesDir, conf.GalleryDir))
	require.DirExists(t, conf.StaticDir)
	require.FileExists(t, filepath.Join(conf.TemplateDir, "default.html"))
	require.FileExists(t, filepath.Join(conf.PagesDir, "_index.md"))
	require.FileExists(t, filepath.Join(conf.StaticDir, "style.css"))
}

func TestInitKeepsExistingFiles(t *testing.T) {
	conf := scaffoldConf(t)
	custom := "<!DOCTYPE html><html><head></head><body>mine</body></html>"
	writeTestFile(t, filepath.Join(conf.TemplateDir, "default.html"), custom)

	require.NoError(t, runInit(conf))

	raw, err := os.ReadFile(filepath.Join(conf.TemplateDir, "default.html"))
	require.NoError(t, err)
	require.Equal(t, custom, string(raw))
}

func TestInitIsRepeatable(t *testing.T) {
	conf := scaffoldConf(t)
	require.NoError(t, runInit(conf))
	require.NoError(t, runInit(conf))
}

func TestScaffoldedProjectBuilds(t *testing.T) {
	conf := scaffoldConf(t)
	require.NoError(t, runInit(conf))

	require.NoError(t, runBuild(conf))
	require.FileExists(t, filepath.Join(conf.OutDir, "index.html"))
	require.FileExists(t, filepath.Join(conf.OutDir, conf.CollectedDir, "2024-01-01-hello.html"))
}
