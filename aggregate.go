package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// aggregator folds collected pages into paginated index pages and writes
// each one's standalone permalink page.
type aggregator struct {
	conf *SiteConf
	tr   *transformer
}

func newAggregator(conf *SiteConf, tr *transformer) *aggregator {
	return &aggregator{conf: conf, tr: tr}
}

// sortCollected orders pages by date descending. Pages with equal dates
// keep their discovery order; the discovery index was fixed before the
// concurrent transforms ran, so completion order cannot reorder ties.
func sortCollected(pages []*collectedPage) []*collectedPage {
	sorted := append([]*collectedPage(nil), pages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].fm.DateKey(), sorted[j].fm.DateKey()
		if di != dj {
			return di > dj
		}
		return sorted[i].discovery < sorted[j].discovery
	})
	return sorted
}

// Run writes every individual post and ceil(n/postsPerPage) index pages;
// zero collected pages still produce one empty index page. The pages slice
// must already be sorted.
func (a *aggregator) Run(pages []*collectedPage) error {
	idxFM, idxBody := a.indexSource()

	perPage := a.conf.PostsPerPage
	pageCount := (len(pages) + perPage - 1) / perPage
	if pageCount == 0 {
		pageCount = 1
	}

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		start := (pageNum - 1) * perPage
		end := min(start+perPage, len(pages))
		if err := a.writeIndexPage(pageNum, pageCount, pages[start:end], pages, idxFM, idxBody); err != nil {
			return err
		}
	}
	return nil
}

// indexSource reads pages/_index.md, which carries the aggregate page's
// own metadata and optional lead-in body. Missing file means defaults.
func (a *aggregator) indexSource() (FrontMatter, []byte) {
	raw, err := os.ReadFile(filepath.Join(a.conf.PagesDir, string(reservedPrefix)+"index"+contentExtension))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read index source", "error", err)
		}
		return FrontMatter{}, nil
	}
	return splitFrontMatter(raw)
}

func (a *aggregator) writeIndexPage(pageNum, pageCount int, batch, all []*collectedPage, idxFM FrontMatter, idxBody []byte) error {
	doc, err := a.tr.templates.Load(a.tr.templates.Resolve(idxFM))
	if err != nil {
		return fmt.Errorf("index page %d: %w", pageNum, err)
	}

	a.tr.spliceHead(doc, idxFM)
	title := idxFM.Str("title")
	if title == "" {
		title = a.conf.SiteTitle
	}
	a.tr.setTitle(doc, title)

	var agg strings.Builder
	if len(idxBody) > 0 {
		agg.WriteString(renderMarkdown(idxBody))
	}
	for _, cp := range batch {
		agg.WriteString(a.excerpt(cp))
		if err := a.writePost(cp, all); err != nil {
			return err
		}
	}

	content := doc.ByID("page-content")
	if content == nil {
		slog.Warn("index template has no page-content insertion point", "page", pageNum)
	} else if err := setInnerHTML(content, agg.String()); err != nil {
		return fmt.Errorf("index page %d: %w", pageNum, err)
	}

	a.applyPagination(doc, pageNum, pageCount)

	out := filepath.Join(a.conf.OutDir, "index.html")
	if pageNum > 1 {
		out = filepath.Join(a.conf.OutDir, a.conf.CollectedDir, strconv.Itoa(pageNum)+".html")
	}
	return writeDocument(doc, out)
}

// excerpt clones a collected page's document, links its heading and cover
// image to the permalink, and truncates everything after the read-more
// marker. Returns the wrapped fragment HTML.
func (a *aggregator) excerpt(cp *collectedPage) string {
	clone := cp.doc.Clone()
	content := clone.ByID("page-content")
	if content == nil {
		return ""
	}
	permalink := a.permalink(cp.name)

	if h2 := findFirst(content, "h2"); h2 != nil {
		link := newElement("a", html.Attribute{Key: "href", Val: permalink})
		wrapChildren(h2, link)
	}
	if fig := findFirst(content, "figure"); fig != nil {
		if img := findFirst(fig, "img"); img != nil {
			link := newElement("a", html.Attribute{Key: "href", Val: permalink})
			img.Parent.InsertBefore(link, img)
			detach(img)
			link.AppendChild(img)
		}
	}

	if rm := findReadMore(content); rm != nil {
		if top := childOf(content, rm); top != nil {
			removeFollowingSiblings(top)
		}
	}

	inner, err := innerHTML(content)
	if err != nil {
		slog.Warn("could not serialize excerpt", "page", cp.name, "error", err)
		return ""
	}
	return `<article class="post-excerpt">` + inner + `</article>`
}

// writePost finishes a collected page's own document and writes it:
// read-more control removed, newer/older navigation, post container,
// threaded comments, submission form. The most recent post is duplicated
// at the latest alias.
func (a *aggregator) writePost(cp *collectedPage, all []*collectedPage) error {
	idx := 0
	for i, other := range all {
		if other == cp {
			idx = i
			break
		}
	}
	permalink := a.permalink(cp.name)

	content := cp.doc.ByID("page-content")
	if content != nil {
		if rm := findReadMore(content); rm != nil {
			detach(rm)
		}

		nav := newElement("nav", html.Attribute{Key: "class", Val: "post-nav"})
		if idx > 0 {
			nav.AppendChild(a.navLink("newer", all[idx-1]))
		}
		if idx < len(all)-1 {
			nav.AppendChild(a.navLink("older", all[idx+1]))
		}
		if nav.FirstChild != nil {
			content.AppendChild(nav)
		}

		wrapChildren(content, newElement("article", html.Attribute{Key: "class", Val: "post"}))

		comments, err := readComments(a.conf.CommentsDir, cp.name)
		if err != nil {
			slog.Warn("could not read comments", "page", cp.name, "error", err)
		}
		section := newElement("section", html.Attribute{Key: "class", Val: "comments"})
		section.AppendChild(commentThread(comments))
		if err := appendHTML(section, commentForm(permalink, cp.name)); err != nil {
			slog.Warn("could not render comment form", "page", cp.name, "error", err)
		}
		content.AppendChild(section)
	}

	out := filepath.Join(a.conf.OutDir, a.conf.CollectedDir, cp.name+".html")
	if err := writeDocument(cp.doc, out); err != nil {
		return err
	}
	if idx == 0 {
		return writeDocument(cp.doc, filepath.Join(a.conf.OutDir, a.conf.LatestAlias))
	}
	return nil
}

func (a *aggregator) navLink(direction string, target *collectedPage) *html.Node {
	link := newElement("a",
		html.Attribute{Key: "class", Val: direction},
		html.Attribute{Key: "href", Val: a.permalink(target.name)})
	label := target.fm.Str("title")
	if label == "" {
		label = target.name
	}
	link.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	return link
}

// applyPagination fills the index template's pagination controls. First
// and last pages mute the controls that would walk off either end; every
// page shows "<page> of <total>". Missing controls are skipped.
func (a *aggregator) applyPagination(doc *document, pageNum, pageCount int) {
	if cur := doc.ByID("page-current"); cur != nil {
		setText(cur, fmt.Sprintf("%d of %d", pageNum, pageCount))
	}
	a.setControl(doc, "page-begin", pageNum == 1, a.pageURL(1))
	a.setControl(doc, "page-back", pageNum == 1, a.pageURL(pageNum-1))
	a.setControl(doc, "page-forward", pageNum == pageCount, a.pageURL(pageNum+1))
	a.setControl(doc, "page-end", pageNum == pageCount, a.pageURL(pageCount))
}

func (a *aggregator) setControl(doc *document, id string, muted bool, href string) {
	control := doc.ByID(id)
	if control == nil {
		return
	}
	if muted {
		addClass(control, "muted")
		removeAttr(control, "href")
		return
	}
	setAttr(control, "href", href)
}

func (a *aggregator) pageURL(n int) string {
	if n <= 1 {
		return "/"
	}
	return "/" + a.conf.CollectedDir + "/" + strconv.Itoa(n) + ".html"
}

func (a *aggregator) permalink(name string) string {
	return "/" + a.conf.CollectedDir + "/" + name + ".html"
}

func findReadMore(n *html.Node) *html.Node {
	return findNode(n, func(c *html.Node) bool {
		if c.Type != html.ElementNode || c.Data != "a" {
			return false
		}
		for _, class := range strings.Fields(attrVal(c, "class")) {
			if class == "read-more" {
				return true
			}
		}
		return false
	})
}
