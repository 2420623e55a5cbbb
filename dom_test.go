package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testDoc = `<!DOCTYPE html><html><head><title>t</title></head><body><div id="a"><p>one</p></div><div class="b"></div></body></html>`

func mustParse(t *testing.T, raw string) *document {
	t.Helper()
	doc, err := parseDocument([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestByID(t *testing.T) {
	doc := mustParse(t, testDoc)
	require.NotNil(t, doc.ByID("a"))
	require.Nil(t, doc.ByID("missing"))
}

func TestSetInnerHTMLRoundTrip(t *testing.T) {
	doc := mustParse(t, testDoc)
	div := doc.ByID("a")

	require.NoError(t, setInnerHTML(div, "<p>two</p><p>three</p>"))
	inner, err := innerHTML(div)
	require.NoError(t, err)
	require.Equal(t, "<p>two</p><p>three</p>", inner)
}

func TestAppendHTML(t *testing.T) {
	doc := mustParse(t, testDoc)
	div := doc.ByID("a")

	require.NoError(t, appendHTML(div, "<span>extra</span>"))
	inner, err := innerHTML(div)
	require.NoError(t, err)
	require.Equal(t, "<p>one</p><span>extra</span>", inner)
}

func TestCloneIsIndependent(t *testing.T) {
	doc := mustParse(t, testDoc)
	clone := doc.Clone()

	setText(clone.ByID("a"), "changed")

	inner, err := innerHTML(doc.ByID("a"))
	require.NoError(t, err)
	require.Equal(t, "<p>one</p>", inner)
}

func TestInsertAfter(t *testing.T) {
	doc := mustParse(t, testDoc)
	div := doc.ByID("a")
	p := findFirst(div, "p")

	span := newElement("span")
	insertAfter(p, span)

	require.Equal(t, span, p.NextSibling)
	require.Equal(t, div, span.Parent)
}

func TestRemoveFollowingSiblings(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a"><p>1</p><p>2</p><p>3</p></div></body></html>`)
	div := doc.ByID("a")

	removeFollowingSiblings(div.FirstChild)

	inner, err := innerHTML(div)
	require.NoError(t, err)
	require.Equal(t, "<p>1</p>", inner)
}

func TestAddClass(t *testing.T) {
	n := newElement("li", html.Attribute{Key: "class", Val: "first"})
	addClass(n, "active")
	require.Equal(t, "first active", attrVal(n, "class"))

	// Adding again is a no-op.
	addClass(n, "active")
	require.Equal(t, "first active", attrVal(n, "class"))
}

func TestClosest(t *testing.T) {
	doc := mustParse(t, `<html><body><ul><li><a id="x" href="/">x</a></li></ul></body></html>`)
	a := doc.ByID("x")
	li := closest(a, "li")
	require.NotNil(t, li)
	require.Equal(t, "li", li.Data)
	require.Nil(t, closest(a, "table"))
}

func TestWrapChildren(t *testing.T) {
	doc := mustParse(t, `<html><body><h2 id="h">Title</h2></body></html>`)
	h2 := doc.ByID("h")

	wrapChildren(h2, newElement("a", html.Attribute{Key: "href", Val: "/p.html"}))

	inner, err := innerHTML(h2)
	require.NoError(t, err)
	require.Equal(t, `<a href="/p.html">Title</a>`, inner)
}

func TestRenderKeepsDoctype(t *testing.T) {
	doc := mustParse(t, testDoc)
	out, err := doc.Render()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "<!DOCTYPE html>"))
}
