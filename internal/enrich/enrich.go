// Package enrich fills in metadata a user left out when saving a link: the
// content type from the URL, a YouTube thumbnail, and the page title.
package enrich

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/user/notecards/internal/content"
)

// hostTypes maps a registrable host to the type of links on it.
var hostTypes = map[string]content.Type{
	"youtube.com":     content.TypeYouTube,
	"youtu.be":        content.TypeYouTube,
	"reddit.com":      content.TypeReddit,
	"redd.it":         content.TypeReddit,
	"twitter.com":     content.TypeTwitter,
	"x.com":           content.TypeTwitter,
	"spotify.com":     content.TypeSpotify,
	"soundcloud.com":  content.TypeSoundCloud,
	"imdb.com":        content.TypeMovie,
	"letterboxd.com":  content.TypeMovie,
	"themoviedb.org":  content.TypeMovie,
	"goodreads.com":   content.TypeBook,
	"openlibrary.org": content.TypeBook,
	"vimeo.com":       content.TypeVideo,
	"twitch.tv":       content.TypeVideo,
	"imgur.com":       content.TypeImage,
	"flickr.com":      content.TypeImage,
	"unsplash.com":    content.TypeImage,
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true}
var videoExts = map[string]bool{".mp4": true, ".webm": true, ".mov": true, ".mkv": true}

// DetectType guesses the type of rawURL from its host and file extension.
// Anything unrecognized is an article.
func DetectType(rawURL string) content.Type {
	u, err := url.Parse(rawURL)
	if err != nil {
		return content.TypeArticle
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for h := host; h != ""; {
		if t, ok := hostTypes[h]; ok {
			return t
		}
		i := strings.IndexByte(h, '.')
		if i < 0 {
			break
		}
		h = h[i+1:]
	}

	ext := strings.ToLower(path.Ext(u.Path))
	switch {
	case imageExts[ext]:
		return content.TypeImage
	case videoExts[ext]:
		return content.TypeVideo
	}
	return content.TypeArticle
}

// YouTubeID extracts the video id from watch, short, embed and youtu.be links.
func YouTubeID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		switch {
		case parts[0] == "watch":
			id = u.Query().Get("v")
		case len(parts) >= 2 && (parts[0] == "embed" || parts[0] == "shorts" || parts[0] == "live" || parts[0] == "v"):
			id = parts[1]
		}
	}

	if id == "" || strings.ContainsAny(id, "/?&") {
		return "", false
	}
	return id, true
}

// YouTubeThumbnail is the high-quality still for a video id.
func YouTubeThumbnail(id string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id)
}

// TitleSource looks up the title of a page.
type TitleSource interface {
	Title(ctx context.Context, url string) (string, error)
}

// Enricher fills the blanks of a draft. A nil titles source disables page
// fetches; the URL then stands in for a missing title.
type Enricher struct {
	titles TitleSource
}

func New(titles TitleSource) *Enricher {
	return &Enricher{titles: titles}
}

// Draft fills d in place: a missing type, a YouTube thumbnail and a missing
// title. Fields the user set are never overwritten. A failed title lookup is
// returned after falling back to the URL, so callers may treat it as a warning.
func (e *Enricher) Draft(ctx context.Context, d *content.Draft) error {
	if d.Type == "" {
		d.Type = DetectType(d.URL)
	}
	if d.Thumbnail == nil && d.Type == content.TypeYouTube {
		if id, ok := YouTubeID(d.URL); ok {
			thumb := YouTubeThumbnail(id)
			d.Thumbnail = &thumb
		}
	}
	if strings.TrimSpace(d.Title) != "" {
		return nil
	}

	d.Title = d.URL
	if e.titles == nil || !content.ValidURL(d.URL) {
		return nil
	}
	title, err := e.titles.Title(ctx, d.URL)
	if err != nil {
		return fmt.Errorf("fetch title: %w", err)
	}
	d.Title = title
	return nil
}

// Patch computes the metadata an existing item is missing: a thumbnail for
// YouTube links and a real title where the URL stands in for one. The patch
// is empty when there is nothing to fill.
func (e *Enricher) Patch(ctx context.Context, it content.Item) (content.Patch, error) {
	var p content.Patch

	if it.Thumbnail == nil && it.Type == content.TypeYouTube {
		if id, ok := YouTubeID(it.URL); ok {
			p.Thumbnail = content.Ptr(YouTubeThumbnail(id))
		}
	}

	if it.Title == it.URL && e.titles != nil {
		title, err := e.titles.Title(ctx, it.URL)
		if err != nil {
			return p, fmt.Errorf("fetch title: %w", err)
		}
		if title != it.URL {
			p.Title = &title
		}
	}
	return p, nil
}
