package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// comment is one reader comment, stored as a single YAML file under
// comments/<slug>/.
type comment struct {
	UID     string `yaml:"uid"`
	Name    string `yaml:"name"`
	Message string `yaml:"message"`
	Date    string `yaml:"date"`

	// ReplyingTo threads this comment under an earlier one by uid.
	ReplyingTo string `yaml:"replying_to_uid"`
}

// readComments loads every comment file for a post slug, in directory
// listing order. A missing directory means no comments.
func readComments(commentsDir, slug string) ([]comment, error) {
	dir := filepath.Join(commentsDir, slug)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing comments for %s: %w", slug, err)
	}

	var comments []comment
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			slog.Warn("skipping unreadable comment", "slug", slug, "file", e.Name(), "error", err)
			continue
		}
		var c comment
		if err := yaml.Unmarshal(raw, &c); err != nil {
			slog.Warn("skipping malformed comment", "slug", slug, "file", e.Name(), "error", err)
			continue
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// commentThread renders comments as a list with replies placed directly
// after their parents. A reply whose parent uid was never rendered is
// appended at top level instead; the thread never drops a comment over a
// dangling reference.
func commentThread(comments []comment) *html.Node {
	list := newElement("ol", html.Attribute{Key: "class", Val: "comments"})
	byUID := make(map[string]*html.Node, len(comments))

	for _, c := range comments {
		item := commentItem(c)
		if c.UID != "" {
			byUID[c.UID] = item
		}

		if c.ReplyingTo == "" {
			list.AppendChild(item)
			continue
		}
		parent, ok := byUID[c.ReplyingTo]
		if !ok {
			slog.Warn("comment replies to unknown parent, keeping at top level",
				"uid", c.UID, "replying_to", c.ReplyingTo)
			list.AppendChild(item)
			continue
		}
		addClass(item, "reply")
		insertAfter(parent, item)
	}
	return list
}

func commentItem(c comment) *html.Node {
	li := newElement("li",
		html.Attribute{Key: "id", Val: "comment-" + c.UID},
		html.Attribute{Key: "class", Val: "comment"})

	var b strings.Builder
	b.WriteString(`<p class="comment-meta"><span class="comment-author">`)
	b.WriteString(html.EscapeString(c.Name))
	b.WriteString("</span>")
	if c.Date != "" {
		b.WriteString(` <span class="comment-date">`)
		b.WriteString(html.EscapeString(c.Date))
		b.WriteString("</span>")
	}
	b.WriteString("</p>")
	b.WriteString(`<div class="comment-body">`)
	b.WriteString(renderCommentMarkdown([]byte(c.Message)))
	b.WriteString("</div>")

	if err := setInnerHTML(li, b.String()); err != nil {
		slog.Warn("could not render comment", "uid", c.UID, "error", err)
	}
	return li
}

// commentForm is the submission form appended after every thread, with the
// post's permalink and slug carried as hidden fields.
func commentForm(permalink, slug string) string {
	var b strings.Builder
	b.WriteString(`<form class="comment-form" method="post" action="/comment">`)
	b.WriteString(`<input type="hidden" name="permalink" value="`)
	b.WriteString(html.EscapeString(permalink))
	b.WriteString(`"/>`)
	b.WriteString(`<input type="hidden" name="slug" value="`)
	b.WriteString(html.EscapeString(slug))
	b.WriteString(`"/>`)
	b.WriteString(`<label>Name <input type="text" name="name"/></label>`)
	b.WriteString(`<label>Comment <textarea name="message"></textarea></label>`)
	b.WriteString(`<button type="submit">Post comment</button>`)
	b.WriteString(`</form>`)
	return b.String()
}
