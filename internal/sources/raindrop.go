package sources

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/enrich"
)

const raindropPageSize = 50

// Raindrop reads bookmarks through the raindrop CLI.
type Raindrop struct {
	run runFunc
}

func NewRaindrop() *Raindrop {
	return &Raindrop{run: runCommand}
}

func (r *Raindrop) Name() string {
	return "raindrop"
}

func (r *Raindrop) Available() bool {
	return lookPath("raindrop")
}

type raindropItem struct {
	ID      int      `json:"_id"`
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	Excerpt string   `json:"excerpt"`
	Note    string   `json:"note"`
	Cover   string   `json:"cover"`
	Type    string   `json:"type"`
	Tags    []string `json:"tags"`
}

// Fetch pages through every bookmark, newest first.
func (r *Raindrop) Fetch(ctx context.Context) ([]content.Draft, error) {
	var all []raindropItem
	for page := 0; ; page++ {
		output, err := r.run(ctx, "raindrop", "list", "--json",
			"--limit", strconv.Itoa(raindropPageSize), "--page", strconv.Itoa(page))
		if err != nil {
			if page == 0 {
				return nil, err
			}
			break // keep what the earlier pages gave
		}

		items, err := parseRaindrop(output)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			break
		}

		all = append(all, items...)
		if len(items) < raindropPageSize {
			break
		}
	}

	drafts := make([]content.Draft, 0, len(all))
	for _, item := range all {
		drafts = append(drafts, item.draft())
	}
	return drafts, nil
}

// parseRaindrop accepts both a bare array and the {"items": [...]} wrapper.
func parseRaindrop(output []byte) ([]raindropItem, error) {
	var items []raindropItem
	if err := json.Unmarshal(output, &items); err == nil {
		return items, nil
	}
	var resp struct {
		Items []raindropItem `json:"items"`
	}
	if err := json.Unmarshal(output, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (item raindropItem) draft() content.Draft {
	t := enrich.DetectType(item.Link)
	if t == content.TypeArticle {
		switch item.Type {
		case "image":
			t = content.TypeImage
		case "video":
			t = content.TypeVideo
		}
	}

	note := item.Note
	if note == "" {
		note = item.Excerpt
	}

	d := content.Draft{
		Type:  t,
		URL:   item.Link,
		Title: item.Title,
		Note:  note,
	}
	if item.Cover != "" {
		d.Thumbnail = &item.Cover
	}
	return d
}
