package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestReadCommentsMissingDirectory(t *testing.T) {
	comments, err := readComments(t.TempDir(), "no-such-post")
	require.NoError(t, err)
	require.Empty(t, comments)
}

func TestReadCommentsListingOrder(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "slug", "001.yml"), "uid: a\nname: Ann\nmessage: first\n")
	writeTestFile(t, filepath.Join(dir, "slug", "002.yml"), "uid: b\nname: Ben\nmessage: second\n")

	comments, err := readComments(dir, "slug")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "a", comments[0].UID)
	require.Equal(t, "b", comments[1].UID)
}

func TestReadCommentsSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "slug", "001.yml"), "uid: a\nname: Ann\nmessage: fine\n")
	writeTestFile(t, filepath.Join(dir, "slug", "002.yml"), "::: not yaml {{{\n\tbroken")

	comments, err := readComments(dir, "slug")
	require.NoError(t, err)
	require.Len(t, comments, 1)
}

func threadIDs(list *html.Node) []string {
	var ids []string
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		ids = append(ids, attrVal(li, "id"))
	}
	return ids
}

func TestCommentThreadNesting(t *testing.T) {
	list := commentThread([]comment{
		{UID: "1", Name: "Ann", Message: "top one"},
		{UID: "2", Name: "Ben", Message: "top two"},
		{UID: "3", Name: "Cat", Message: "reply to one", ReplyingTo: "1"},
	})

	// The reply lands directly after its parent, ahead of the second
	// top-level comment.
	require.Equal(t, []string{"comment-1", "comment-3", "comment-2"}, threadIDs(list))
}

func TestCommentThreadDanglingReplyKeptAtTopLevel(t *testing.T) {
	list := commentThread([]comment{
		{UID: "1", Name: "Ann", Message: "top"},
		{UID: "2", Name: "Ben", Message: "orphan reply", ReplyingTo: "ghost"},
	})

	require.Equal(t, []string{"comment-1", "comment-2"}, threadIDs(list))
}

func TestCommentBodyRendersMarkdownWithLineBreaks(t *testing.T) {
	list := commentThread([]comment{
		{UID: "1", Name: "Ann", Message: "line one\nline two with *emphasis*"},
	})

	inner, err := innerHTML(list)
	require.NoError(t, err)
	require.Contains(t, inner, "<br")
	require.Contains(t, inner, "<em>emphasis</em>")
	require.Contains(t, inner, "Ann")
}

func TestCommentFormInterpolation(t *testing.T) {
	form := commentForm("/text/slug.html", "slug")
	require.Contains(t, form, `value="/text/slug.html"`)
	require.Contains(t, form, `value="slug"`)
	require.Contains(t, form, "<textarea")
}
