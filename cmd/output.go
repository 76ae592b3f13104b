package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/view"
)

func outputJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputPlaintext(w io.Writer, items []content.Item) error {
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.Type, it.Title, it.URL)
	}
	return nil
}

func outputDefault(w io.Writer, items []content.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}
	for i, it := range items {
		fmt.Fprintf(w, "%d. %s %s\n   %s\n", i+1, view.Icon(it.Type), it.Title, it.URL)
		fmt.Fprintf(w, "   %s\n", meta(it))
		if it.Note != "" {
			fmt.Fprintf(w, "   %s\n", truncate(it.Note, 100))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func outputItem(w io.Writer, it *content.Item) error {
	fmt.Fprintf(w, "%s %s\n", view.Icon(it.Type), it.Title)
	fmt.Fprintf(w, "  id:       %s\n", it.ID)
	fmt.Fprintf(w, "  type:     %s\n", it.Type)
	fmt.Fprintf(w, "  url:      %s\n", it.URL)
	for _, f := range []struct {
		label string
		value *string
	}{
		{"author", it.Author},
		{"duration", it.Duration},
		{"location", it.Location},
		{"thumbnail", it.Thumbnail},
	} {
		if f.value != nil {
			fmt.Fprintf(w, "  %-9s %s\n", f.label+":", *f.value)
		}
	}
	fmt.Fprintf(w, "  added:    %s (%s)\n", it.CreatedAt.Local().Format("2006-01-02 15:04"), humanize.Time(it.CreatedAt))
	if it.Note != "" {
		fmt.Fprintf(w, "\n%s\n", it.Note)
	}
	return nil
}

func outputStats(w io.Writer, stats view.Stats) error {
	for _, l := range view.StatLines(stats) {
		fmt.Fprintf(w, "%s %-12s %d\n", l.Icon, l.Label, l.Value)
	}
	return nil
}

func meta(it content.Item) string {
	parts := []string{view.Label(it.Type)}
	if it.Author != nil {
		parts = append(parts, *it.Author)
	}
	if it.Duration != nil {
		parts = append(parts, *it.Duration)
	}
	if it.Location != nil {
		parts = append(parts, *it.Location)
	}
	parts = append(parts, humanize.Time(it.CreatedAt))
	return strings.Join(parts, " · ")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// typeFilter turns a --type value into a view filter; blank means all.
func typeFilter(s string) content.Type {
	t, _ := content.ParseType(s)
	if t == "" {
		return view.All
	}
	return t
}
