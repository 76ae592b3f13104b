package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/notecards/internal/content"
)

const maxTweetTitle = 100

// Twitter reads X bookmarks through the bird CLI.
type Twitter struct {
	run runFunc
}

func NewTwitter() *Twitter {
	return &Twitter{run: runCommand}
}

func (t *Twitter) Name() string {
	return "x"
}

func (t *Twitter) Available() bool {
	return lookPath("bird")
}

// birdBookmark matches the JSON schema from bird CLI --json output
type birdBookmark struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"author"`
}

// birdResponse handles paginated response: { tweets: [...], nextCursor: "..." }
type birdResponse struct {
	Tweets     []birdBookmark `json:"tweets"`
	NextCursor string         `json:"nextCursor"`
}

func (t *Twitter) Fetch(ctx context.Context) ([]content.Draft, error) {
	output, err := t.run(ctx, "bird", "bookmarks", "--all", "--json")
	if err != nil {
		return nil, err
	}

	var resp birdResponse
	if err := json.Unmarshal(output, &resp); err != nil {
		// Older bird versions print a bare array.
		var tweets []birdBookmark
		if arrErr := json.Unmarshal(output, &tweets); arrErr != nil {
			return nil, fmt.Errorf("failed to parse bird output: %w", err)
		}
		resp.Tweets = tweets
	}

	drafts := make([]content.Draft, 0, len(resp.Tweets))
	for _, tweet := range resp.Tweets {
		if tweet.ID == "" || tweet.Author.Username == "" {
			continue
		}

		title := tweet.Text
		if r := []rune(title); len(r) > maxTweetTitle {
			title = string(r[:maxTweetTitle]) + "..."
		}
		if title == "" {
			title = "Post by @" + tweet.Author.Username
		}

		drafts = append(drafts, content.Draft{
			Type:   content.TypeTwitter,
			URL:    fmt.Sprintf("https://x.com/%s/status/%s", tweet.Author.Username, tweet.ID),
			Title:  title,
			Note:   tweet.Text,
			Author: content.Ptr("@" + tweet.Author.Username),
		})
	}
	return drafts, nil
}
