package view

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/user/notecards/internal/content"
)

var icons = map[content.Type]string{
	content.TypeYouTube:    "📹",
	content.TypeArticle:    "📄",
	content.TypeReddit:     "💬",
	content.TypeTwitter:    "🐦",
	content.TypeSpotify:    "🎵",
	content.TypeSoundCloud: "☁️",
	content.TypeMovie:      "🎬",
	content.TypeBook:       "📚",
	content.TypeImage:      "🖼️",
	content.TypeVideo:      "🎥",
}

var tags = map[content.Type]string{
	content.TypeYouTube:    "[YT]",
	content.TypeArticle:    "[A]",
	content.TypeReddit:     "[R]",
	content.TypeTwitter:    "[X]",
	content.TypeSpotify:    "[SP]",
	content.TypeSoundCloud: "[SC]",
	content.TypeMovie:      "[M]",
	content.TypeBook:       "[B]",
	content.TypeImage:      "[I]",
	content.TypeVideo:      "[V]",
}

const (
	fallbackIcon = "❓"
	fallbackTag  = "[?]"
	totalIcon    = "📊"
)

// Icon returns the glyph for t, or a question mark for types without one.
func Icon(t content.Type) string {
	if icon, ok := icons[t]; ok {
		return icon
	}
	return fallbackIcon
}

// Tag is the ASCII counterpart of Icon for plain terminals.
func Tag(t content.Type) string {
	if tag, ok := tags[t]; ok {
		return tag
	}
	return fallbackTag
}

// Label is the display name of a filter option.
func Label(t content.Type) string {
	if t == All || t == "" {
		return "All"
	}
	s := string(t)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// StatLine is one row of the stats panel.
type StatLine struct {
	Label string
	Icon  string
	Value int
}

// StatLines renders s as the Total row followed by one row per facet.
func StatLines(s Stats) []StatLine {
	lines := make([]StatLine, 0, len(s.ByType)+1)
	lines = append(lines, StatLine{Label: "Total", Icon: totalIcon, Value: s.Total})
	for _, tc := range s.ByType {
		lines = append(lines, StatLine{Label: Label(tc.Type), Icon: Icon(tc.Type), Value: tc.Count})
	}
	return lines
}

// ResultSummary is the "N results for “q”" line; empty for a blank query.
func ResultSummary(n int, query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	noun := "results"
	if n == 1 {
		noun = "result"
	}
	return fmt.Sprintf("%d %s for “%s”", n, noun, query)
}

// ViewState is what the list area should show.
type ViewState int

const (
	StateLoading ViewState = iota
	StateFailed
	StateEmpty
	StateNoResults
	StateReady
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFailed:
		return "failed"
	case StateEmpty:
		return "empty"
	case StateNoResults:
		return "no-results"
	default:
		return "ready"
	}
}

// Status keeps loading, failure, an empty library and an empty filter
// result apart.
func Status(loading bool, err error, all, visible int) ViewState {
	switch {
	case loading:
		return StateLoading
	case err != nil:
		return StateFailed
	case all == 0:
		return StateEmpty
	case visible == 0:
		return StateNoResults
	default:
		return StateReady
	}
}
