package templates

import (
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
	"github.com/yatube/yatube/internal/gravatar"
)

// Funcs returns the template helpers. avatars may be nil.
func Funcs(avatars *gravatar.Resolver) template.FuncMap {
	return template.FuncMap{
		"timesince":    FormatRelativeTime,
		"date":         FormatDate,
		"intcomma":     humanize.Comma,
		"linebreaksbr": LineBreaks,
		"truncate":     Truncate,
		"avatar":       avatars.URL,
	}
}

// FormatRelativeTime formats a time.Time as a relative time string like "3 days ago".
func FormatRelativeTime(t time.Time) string {
	return timediff.TimeDiff(t)
}

// FormatDate formats t the way post dates are shown on listing pages.
func FormatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

// LineBreaks escapes s and turns its newlines into <br> tags.
func LineBreaks(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")) //nolint:gosec
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
