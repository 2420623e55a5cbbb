package main

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// pageKind classifies a content file once, during transform, instead of
// re-comparing directory names throughout the pipeline.
type pageKind int

const (
	kindStandalone pageKind = iota
	kindCollected
	kindGallery
)

// contentFile is one Markdown source file discovered by the walker.
// Immutable once built; it lives for a single transform call.
type contentFile struct {
	path string // source file path
	dir  string // target directory relative to the output root, slash-separated, "" for root
	name string // page name, no extension

	// discovery is a stable index assigned in listing order before sibling
	// transforms are dispatched concurrently; it is the sort tie-break.
	discovery int

	// siblings are the page names sharing this file's directory, used by
	// the gallery selector header.
	siblings []string

	// latest marks the most recent entry of a gallery series.
	latest bool
}

// collectedPage is a transformed page deferred to aggregation.
type collectedPage struct {
	fm        FrontMatter
	doc       *document
	name      string
	discovery int
}

// headSnippet is the shared meta/link block spliced into every page head.
const headSnippet = `<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<link rel="stylesheet" href="/static/style.css"/>
<link rel="icon" href="/static/favicon.ico"/>
<link rel="alternate" type="application/atom+xml" title="Posts" href="/feed.xml"/>`

// readMoreLink replaces the literal [READ MORE] token in post bodies. The
// aggregation engine later truncates excerpts at this anchor and strips it
// from full posts.
const readMoreToken = "[READ MORE]"
const readMoreLink = `<a class="read-more" href="/">Read more</a>`

type transformer struct {
	conf      *SiteConf
	templates *templateSet
}

func newTransformer(conf *SiteConf) *transformer {
	return &transformer{conf: conf, templates: newTemplateSet(conf.TemplateDir)}
}

// classify maps a target directory to a page kind by its top-level segment.
func (t *transformer) classify(dir string) pageKind {
	top := dir
	if i := strings.IndexByte(dir, '/'); i >= 0 {
		top = dir[:i]
	}
	switch top {
	case t.conf.CollectedDir:
		return kindCollected
	case t.conf.GalleryDir:
		return kindGallery
	default:
		return kindStandalone
	}
}

// transform turns one content file into either a written output page or a
// collected page deferred to aggregation. A (nil, nil) return means the
// page was written, or suppressed via publish: no.
func (t *transformer) transform(cf *contentFile) (*collectedPage, error) {
	raw, err := os.ReadFile(cf.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", cf.path, err)
	}
	fm, body := splitFrontMatter(raw)

	if fm.Suppressed() {
		slog.Debug("page suppressed", "page", cf.name)
		return nil, nil
	}

	kind := t.classify(cf.dir)

	doc, err := t.templates.Load(t.templates.Resolve(fm))
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", cf.name, err)
	}

	t.spliceHead(doc, fm)

	// Enrichments that run ahead of Markdown rendering prepend literal
	// HTML to the Markdown source, so later prepends end up first.
	body = t.prependFigure(body, fm)
	body = t.prependHeading(body, doc, fm, cf, kind)
	body = []byte(strings.ReplaceAll(string(body), readMoreToken, readMoreLink))

	content := doc.ByID("page-content")
	if content == nil {
		slog.Warn("template has no page-content insertion point", "page", cf.name)
	} else {
		if err := setInnerHTML(content, renderMarkdown(body)); err != nil {
			return nil, fmt.Errorf("page %s: %w", cf.name, err)
		}
	}

	if kind == kindGallery && content != nil {
		t.preloadFirstImage(doc, content)
	}
	t.insertDateSpan(doc, fm)
	t.highlightNav(doc, cf)

	if kind == kindCollected {
		return &collectedPage{fm: fm, doc: doc, name: cf.name, discovery: cf.discovery}, nil
	}

	out := filepath.Join(t.conf.OutDir, filepath.FromSlash(cf.dir), cf.name+".html")
	if err := writeDocument(doc, out); err != nil {
		return nil, err
	}
	if kind == kindGallery && cf.latest {
		if err := writeDocument(doc, filepath.Join(t.conf.OutDir, t.conf.GalleryAlias)); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// spliceHead injects the shared head snippet and folds front-matter
// keywords/description into the head's meta tags.
func (t *transformer) spliceHead(doc *document, fm FrontMatter) {
	head := doc.Head()
	if head == nil {
		return
	}
	if err := appendHTML(head, headSnippet); err != nil {
		slog.Warn("could not splice head snippet", "error", err)
	}

	if kw := fm.Str("keywords"); kw != "" {
		if meta := metaByName(head, "keywords"); meta != nil {
			existing := attrVal(meta, "content")
			if existing != "" {
				setAttr(meta, "content", existing+", "+kw)
			} else {
				setAttr(meta, "content", kw)
			}
		} else {
			head.AppendChild(newElement("meta",
				html.Attribute{Key: "name", Val: "keywords"},
				html.Attribute{Key: "content", Val: kw}))
		}
	}

	if desc := fm.Str("description"); desc != "" {
		meta := metaByName(head, "description")
		if meta == nil {
			meta = newElement("meta", html.Attribute{Key: "name", Val: "description"})
			head.AppendChild(meta)
		}
		setAttr(meta, "content", desc)
	}
}

func metaByName(head *html.Node, name string) *html.Node {
	for _, meta := range findAll(head, "meta") {
		if attrVal(meta, "name") == name {
			return meta
		}
	}
	return nil
}

// prependFigure puts the cover figure ahead of the Markdown source as
// literal HTML so the whole body renders in one pass.
func (t *transformer) prependFigure(body []byte, fm FrontMatter) []byte {
	src := fm.Str("image")
	if src == "" {
		return body
	}
	var b strings.Builder
	b.WriteString(`<figure><img src="`)
	b.WriteString(html.EscapeString(src))
	b.WriteString(`" alt="`)
	b.WriteString(html.EscapeString(fm.Str("imageAlt")))
	b.WriteString(`"/>`)
	if caption := fm.Str("imageCaption"); caption != "" {
		b.WriteString("<figcaption>")
		b.WriteString(html.EscapeString(caption))
		b.WriteString("</figcaption>")
	}
	b.WriteString("</figure>\n\n")
	return append([]byte(b.String()), body...)
}

// prependHeading sets the document title and puts a heading ahead of the
// body. Gallery pages get a roll selector instead of a plain <h2>.
func (t *transformer) prependHeading(body []byte, doc *document, fm FrontMatter, cf *contentFile, kind pageKind) []byte {
	title := fm.Str("title")
	if title == "" {
		return body
	}
	t.setTitle(doc, title)

	var heading string
	if kind == kindGallery {
		heading = t.rollSelector(cf)
	} else {
		heading = "<h2>" + html.EscapeString(title) + "</h2>"
	}
	return append([]byte(heading+"\n\n"), body...)
}

func (t *transformer) setTitle(doc *document, title string) {
	titleEl := findFirst(doc.root, "title")
	if titleEl == nil {
		head := doc.Head()
		if head == nil {
			return
		}
		titleEl = newElement("title")
		head.AppendChild(titleEl)
	}
	setText(titleEl, title)
}

// rollSelector builds the gallery header: a dropdown over all sibling roll
// entries in reverse-sorted order, the current one selected. Choosing an
// entry navigates to it.
func (t *transformer) rollSelector(cf *contentFile) string {
	names := append([]string(nil), cf.siblings...)
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var b strings.Builder
	b.WriteString(`<h2 class="roll-select"><select onchange="window.location.href=this.value">`)
	for _, name := range names {
		b.WriteString(`<option value="`)
		b.WriteString(html.EscapeString("/" + path.Join(cf.dir, name) + ".html"))
		b.WriteString(`"`)
		if name == cf.name {
			b.WriteString(` selected="selected"`)
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(name))
		b.WriteString("</option>")
	}
	b.WriteString("</select></h2>")
	return b.String()
}

// preloadFirstImage adds a preload hint for the first content image, which
// on roll pages is the scan the visitor came for.
func (t *transformer) preloadFirstImage(doc *document, content *html.Node) {
	img := findFirst(content, "img")
	if img == nil {
		return
	}
	src := attrVal(img, "src")
	if src == "" {
		return
	}
	head := doc.Head()
	if head == nil {
		return
	}
	head.AppendChild(newElement("link",
		html.Attribute{Key: "rel", Val: "preload"},
		html.Attribute{Key: "as", Val: "image"},
		html.Attribute{Key: "href", Val: src}))
}

// insertDateSpan places the formatted date right after the first <h2>.
func (t *transformer) insertDateSpan(doc *document, fm FrontMatter) {
	formatted := fm.FormattedDate()
	if formatted == "" {
		return
	}
	h2 := findFirst(doc.root, "h2")
	if h2 == nil {
		return
	}
	span := newElement("span", html.Attribute{Key: "class", Val: "post-date"})
	span.AppendChild(&html.Node{Type: html.TextNode, Data: "Posted " + formatted})
	insertAfter(h2, span)
}

// highlightNav marks as active every nav list item whose link mentions the
// current page or its directory.
func (t *transformer) highlightNav(doc *document, cf *contentFile) {
	nav := doc.ByID("nav")
	if nav == nil {
		return
	}
	top := cf.dir
	if i := strings.IndexByte(top, '/'); i >= 0 {
		top = top[:i]
	}
	for _, a := range findAll(nav, "a") {
		href := attrVal(a, "href")
		if href == "" {
			continue
		}
		if strings.Contains(href, cf.name) || (top != "" && strings.Contains(href, top)) {
			if li := closest(a, "li"); li != nil {
				addClass(li, "active")
			}
		}
	}
}

// writeDocument serializes doc, doctype first, into path.
func writeDocument(doc *document, path string) error {
	rendered, err := doc.Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, rendered, 0o664); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
