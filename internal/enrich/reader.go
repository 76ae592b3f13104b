package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultReaderURL is the Jina Reader endpoint. It returns a page as plain
// text whose first line is "Title: ...".
const DefaultReaderURL = "https://r.jina.ai/"

// maxTitleLen caps titles taken from page text.
const maxTitleLen = 200

// Reader fetches page text through a reader service.
type Reader struct {
	baseURL string
	client  *http.Client
}

func NewReader(baseURL string, timeout time.Duration) *Reader {
	if baseURL == "" {
		baseURL = DefaultReaderURL
	}
	return &Reader{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		client:  &http.Client{Timeout: timeout},
	}
}

// Read returns the text of targetURL, truncated to 50k bytes.
func (r *Reader) Read(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+url.QueryEscape(targetURL), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reader returned status %d", resp.StatusCode)
	}

	const maxContentLen = 50000
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentLen))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Title reads targetURL and returns its title, or targetURL when the page has none.
func (r *Reader) Title(ctx context.Context, targetURL string) (string, error) {
	text, err := r.Read(ctx, targetURL)
	if err != nil {
		return "", err
	}
	return extractTitleFromContent(text, targetURL), nil
}

// extractTitleFromContent takes the first non-blank line, minus a "Title:"
// prefix. fallback is returned when nothing is left.
func extractTitleFromContent(text, fallback string) string {
	var line string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	line = strings.TrimSpace(line)
	if len(line) >= 6 && strings.EqualFold(line[:6], "title:") {
		line = strings.TrimSpace(line[6:])
	}
	if line == "" {
		return fallback
	}

	if utf8.RuneCountInString(line) > maxTitleLen {
		line = string([]rune(line)[:maxTitleLen])
	}
	return line
}
