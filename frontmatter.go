package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block parsed from the top of a content file.
// Values come out of the YAML decoder with mixed scalar types, so access
// goes through the typed getters below. Unrecognized keys are kept but
// ignored by the pipeline.
type FrontMatter map[string]any

// splitFrontMatter separates the leading front-matter block from the body.
// It never fails: a missing delimiter block yields empty metadata and the
// input unchanged, and a malformed block degrades the same way.
func splitFrontMatter(raw []byte) (FrontMatter, []byte) {
	fm := FrontMatter{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		slog.Debug("ignoring malformed front matter", "error", err)
		return FrontMatter{}, raw
	}
	if fm == nil {
		fm = FrontMatter{}
	}
	return fm, body
}

func (f FrontMatter) Str(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Template returns the template name to render with, "default" if unset.
func (f FrontMatter) Template() string {
	if name := f.Str("template"); name != "" {
		return name
	}
	return "default"
}

// Suppressed reports whether the page opted out of publishing. An unquoted
// `publish: no` decodes as the YAML 1.1 boolean false, a quoted "no" as a
// string; both forms suppress.
func (f FrontMatter) Suppressed() bool {
	if v, ok := f["publish"].(bool); ok {
		return !v
	}
	return f.Str("publish") == "no"
}

// Date returns the front-matter date (YYYYMMDD integer or string form).
// ok is false when the key is absent or unparseable.
func (f FrontMatter) Date() (time.Time, bool) {
	s := f.Str("date")
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		slog.Debug("ignoring unparseable date", "date", s)
		return time.Time{}, false
	}
	return t, true
}

// DateKey returns the date as a sortable integer, 0 when absent.
func (f FrontMatter) DateKey() int {
	n, err := strconv.Atoi(f.Str("date"))
	if err != nil {
		return 0
	}
	return n
}

// formatDate renders a date the way post headers show it, with no leading
// zero on the day: "January 5, 2023".
func formatDate(d time.Time) string {
	return d.Format("January 2, 2006")
}

// FormattedDate is the display form of Date, empty when no date is set.
func (f FrontMatter) FormattedDate() string {
	d, ok := f.Date()
	if !ok {
		return ""
	}
	return formatDate(d)
}

func (f FrontMatter) String() string {
	return fmt.Sprintf("FrontMatter(template=%s, title=%q, date=%s)", f.Template(), f.Str("title"), f.Str("date"))
}
