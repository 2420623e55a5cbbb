package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	atom "github.com/thomas11/atomgenerator"
)

// writeFeed generates an Atom feed over the collected posts, most recent
// first. The pages slice must already be sorted. Posts without a date are
// left out; the feed validator rejects entries with no publication time.
func writeFeed(conf *SiteConf, pages []*collectedPage) error {
	feed := atom.Feed{
		Title: conf.SiteTitle,
		Link:  conf.BaseUrl,
	}
	if conf.Author != "" {
		feed.AddAuthor(atom.Author{
			Name: conf.Author,
			Uri:  conf.AuthorUri,
		})
	}

	for _, cp := range pages {
		date, ok := cp.fm.Date()
		if !ok {
			slog.Debug("post left out of feed, no date", "post", cp.name)
			continue
		}
		if feed.PubDate.Before(date) {
			feed.PubDate = date
		}
		feed.AddEntry(&atom.Entry{
			Title:       cp.fm.Str("title"),
			Description: cp.fm.Str("description"),
			Link:        strings.TrimSuffix(conf.BaseUrl, "/") + "/" + conf.CollectedDir + "/" + cp.name + ".html",
			PubDate:     date,
		})
	}

	if errs := feed.Validate(); len(errs) > 0 {
		for _, e := range errs {
			slog.Warn("atom feed problem", "error", e)
		}
		return fmt.Errorf("atom feed: %w", errs[0])
	}

	xml, err := feed.GenXml()
	if err != nil {
		return fmt.Errorf("atom feed: %w", err)
	}
	return os.WriteFile(filepath.Join(conf.OutDir, "feed.xml"), xml, 0o664)
}
