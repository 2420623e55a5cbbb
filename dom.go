package main

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// document wraps a parsed HTML tree. All page enrichment happens as
// mutations on this tree; serialization happens once, at write time.
type document struct {
	root *html.Node
}

func parseDocument(raw []byte) (*document, error) {
	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &document{root: root}, nil
}

func (d *document) Head() *html.Node { return findFirst(d.root, "head") }

func (d *document) ByID(id string) *html.Node { return findByID(d.root, id) }

func (d *document) Clone() *document {
	return &document{root: cloneNode(d.root)}
}

// Render serializes the whole tree, doctype included.
func (d *document) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return buf.Bytes(), nil
}

func findByID(n *html.Node, id string) *html.Node {
	return findNode(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && attrVal(c, "id") == id
	})
}

func findFirst(n *html.Node, tag string) *html.Node {
	return findNode(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && c.Data == tag
	})
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walkNodes(n, func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	})
	return out
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walkNodes(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, visit)
	}
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func addClass(n *html.Node, class string) {
	existing := attrVal(n, "class")
	if existing == "" {
		setAttr(n, "class", class)
		return
	}
	for _, c := range strings.Fields(existing) {
		if c == class {
			return
		}
	}
	setAttr(n, "class", existing+" "+class)
}

// textContent concatenates all text beneath n.
func textContent(n *html.Node) string {
	var b strings.Builder
	walkNodes(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

// setText replaces n's children with a single text node.
func setText(n *html.Node, s string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// parseFragment parses an HTML fragment in the context of an element with
// the given tag name. Returned nodes are detached.
func parseFragment(fragment, contextTag string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     contextTag,
		DataAtom: atom.Lookup([]byte(contextTag)),
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return nodes, nil
}

// setInnerHTML replaces n's children with the parsed fragment.
func setInnerHTML(n *html.Node, fragment string) error {
	nodes, err := parseFragment(fragment, n.Data)
	if err != nil {
		return err
	}
	removeChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// appendHTML parses the fragment and appends it to n's children.
func appendHTML(n *html.Node, fragment string) error {
	nodes, err := parseFragment(fragment, n.Data)
	if err != nil {
		return err
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// innerHTML serializes n's children without n itself.
func innerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering fragment: %w", err)
		}
	}
	return buf.String(), nil
}

// insertAfter places newChild immediately after ref among ref's siblings.
func insertAfter(ref, newChild *html.Node) {
	if ref.Parent == nil {
		return
	}
	ref.Parent.InsertBefore(newChild, ref.NextSibling)
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// removeFollowingSiblings drops every sibling after n.
func removeFollowingSiblings(n *html.Node) {
	if n.Parent == nil {
		return
	}
	for n.NextSibling != nil {
		n.Parent.RemoveChild(n.NextSibling)
	}
}

// closest walks up from n to the nearest ancestor with the given tag,
// n itself included.
func closest(n *html.Node, tag string) *html.Node {
	for c := n; c != nil; c = c.Parent {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// childOf returns the ancestor of n (or n itself) that is a direct child
// of parent, or nil when n is not beneath parent.
func childOf(parent, n *html.Node) *html.Node {
	for c := n; c != nil; c = c.Parent {
		if c.Parent == parent {
			return c
		}
	}
	return nil
}

func newElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// wrapChildren moves all of n's children into wrapper and appends wrapper
// back as n's sole child.
func wrapChildren(n, wrapper *html.Node) {
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		wrapper.AppendChild(c)
	}
	n.AppendChild(wrapper)
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}
