package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		tree[rel] = string(raw)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func populateSite(t *testing.T, conf *SiteConf) {
	t.Helper()
	writeTestFile(t, filepath.Join(conf.PagesDir, "_index.md"), "---\ntitle: Home\n---\n")
	writeTestFile(t, filepath.Join(conf.PagesDir, "about.md"), "---\ntitle: About\n---\nAbout.\n")
	writeTestFile(t, filepath.Join(conf.PagesDir, conf.CollectedDir, "post.md"),
		"---\ntitle: Post\ndate: 20230105\n---\nIntro.\n\n[READ MORE]\n\nTail.\n")
	writeTestFile(t, filepath.Join(conf.StaticDir, "style.css"), "body {}\n")
	writeTestFile(t, filepath.Join(conf.PagesDir, "img", "pic.jpg"), "jpegbytes")
}

func TestBuildProducesFullTree(t *testing.T) {
	conf := testSite(t)
	populateSite(t, conf)

	require.NoError(t, runBuild(conf))

	require.FileExists(t, filepath.Join(conf.OutDir, "index.html"))
	require.FileExists(t, filepath.Join(conf.OutDir, "about.html"))
	require.FileExists(t, filepath.Join(conf.OutDir, conf.CollectedDir, "post.html"))
	require.FileExists(t, filepath.Join(conf.OutDir, conf.LatestAlias))
	require.FileExists(t, filepath.Join(conf.OutDir, "feed.xml"))
}

func TestBuildIsIdempotent(t *testing.T) {
	conf := testSite(t)
	populateSite(t, conf)

	require.NoError(t, runBuild(conf))
	first := snapshotTree(t, conf.OutDir)

	require.NoError(t, runBuild(conf))
	second := snapshotTree(t, conf.OutDir)

	require.Equal(t, first, second)
}

func TestBuildCopiesCollaborators(t *testing.T) {
	conf := testSite(t)
	populateSite(t, conf)

	require.NoError(t, runBuild(conf))

	// Non-source assets are mirrored; sources are not.
	require.FileExists(t, filepath.Join(conf.OutDir, "static", "style.css"))
	require.FileExists(t, filepath.Join(conf.OutDir, "img", "pic.jpg"))
	require.NoFileExists(t, filepath.Join(conf.OutDir, "about.md"))
	require.NoFileExists(t, filepath.Join(conf.OutDir, "default.html"))
}

func TestBuildClearsStaleOutput(t *testing.T) {
	conf := testSite(t)
	populateSite(t, conf)
	writeTestFile(t, filepath.Join(conf.OutDir, "stale.html"), "old")

	require.NoError(t, runBuild(conf))
	require.NoFileExists(t, filepath.Join(conf.OutDir, "stale.html"))
}

func TestBuildWritesCNAME(t *testing.T) {
	conf := testSite(t)
	populateSite(t, conf)
	conf.Domain = "photos.example.test"

	require.NoError(t, runBuild(conf))

	raw, err := os.ReadFile(filepath.Join(conf.OutDir, "CNAME"))
	require.NoError(t, err)
	require.Equal(t, "photos.example.test\n", string(raw))
}

func TestBuildSurvivesMissingStaticDir(t *testing.T) {
	conf := testSite(t)
	populateSite(t, conf)
	require.NoError(t, os.RemoveAll(conf.StaticDir))

	require.NoError(t, runBuild(conf))
	require.FileExists(t, filepath.Join(conf.OutDir, "index.html"))
}

func TestFeedListsPosts(t *testing.T) {
	conf := testSite(t)
	populateSite(t, conf)

	require.NoError(t, runBuild(conf))

	raw, err := os.ReadFile(filepath.Join(conf.OutDir, "feed.xml"))
	require.NoError(t, err)
	feed := string(raw)
	require.Contains(t, feed, "Post")
	require.Contains(t, feed, "https://example.test/text/post.html")
}

func TestUnknownCommand(t *testing.T) {
	conf := testSite(t)

	cmd := rootCommand()
	cmd.SetArgs([]string{"frobnicate"})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "frobnicate")

	// The output directory was never touched.
	require.NoDirExists(t, conf.OutDir)
}
