package main

import (
	"github.com/russross/blackfriday/v2"
)

// Markdown rendering is a pure text transform. Blackfriday renderers carry
// per-run state, so a fresh renderer is built per call; transforms of
// sibling pages run concurrently.

const markdownExtensions = blackfriday.CommonExtensions

// renderMarkdown converts a Markdown body to an HTML fragment.
func renderMarkdown(in []byte) string {
	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	return string(blackfriday.Run(in,
		blackfriday.WithRenderer(r),
		blackfriday.WithExtensions(markdownExtensions)))
}

// renderCommentMarkdown renders comment bodies. Single newlines become
// <br> so pasted plain text keeps its line shape.
func renderCommentMarkdown(in []byte) string {
	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	return string(blackfriday.Run(in,
		blackfriday.WithRenderer(r),
		blackfriday.WithExtensions(markdownExtensions|blackfriday.HardLineBreak)))
}
