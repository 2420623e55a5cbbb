package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<title>site</title>
<meta name="keywords" content="photography, film"/>
</head>
<body>
<nav id="nav"><ul>
<li><a href="/">home</a></li>
<li><a href="/text/1.html">text</a></li>
<li><a href="/photo.html">photo</a></li>
<li><a href="/about.html">about</a></li>
</ul></nav>
<main id="page-content"></main>
<nav id="pagination">
<a id="page-begin" href="/">begin</a>
<a id="page-back" href="/">back</a>
<span id="page-current"></span>
<a id="page-forward" href="/">forward</a>
<a id="page-end" href="/">end</a>
</nav>
</body>
</html>
`

// testSite lays out an empty project under a temp root with the default
// template in place.
func testSite(t *testing.T) *SiteConf {
	t.Helper()
	root := t.TempDir()

	conf := defaultConf()
	conf.SiteTitle = "testsite"
	conf.BaseUrl = "https://example.test/"
	conf.Author = "Test Author"
	conf.AuthorUri = "https://example.test/"
	conf.TemplateDir = filepath.Join(root, "templates")
	conf.PagesDir = filepath.Join(root, "pages")
	conf.StaticDir = filepath.Join(root, "static")
	conf.CommentsDir = filepath.Join(root, "comments")
	conf.OutDir = filepath.Join(root, "public")

	for _, dir := range []string{conf.TemplateDir, conf.PagesDir, conf.StaticDir} {
		require.NoError(t, os.MkdirAll(dir, 0o775))
	}
	writeTestFile(t, filepath.Join(conf.TemplateDir, "default.html"), testTemplate)
	return conf
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o775))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o664))
}

func parseOutput(t *testing.T, path string) *document {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := parseDocument(raw)
	require.NoError(t, err)
	return doc
}
