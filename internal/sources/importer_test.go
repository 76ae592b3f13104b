package sources

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/notecards/internal/access"
	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/db/memory"
	"github.com/user/notecards/internal/enrich"
	"github.com/user/notecards/internal/logging"
	"github.com/user/notecards/internal/rpc"
)

type staticSource struct {
	drafts []content.Draft
	err    error
}

func (s staticSource) Name() string    { return "static" }
func (s staticSource) Available() bool { return true }
func (s staticSource) Fetch(ctx context.Context) ([]content.Draft, error) {
	return s.drafts, s.err
}

func newTarget(t *testing.T, publicMode bool) *rpc.Procedures {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { store.Close() })
	return rpc.NewProcedures(store, access.ReadOnly(publicMode), logging.Discard(), time.Second)
}

func draft(url, title string) content.Draft {
	return content.Draft{Type: content.TypeArticle, URL: url, Title: title}
}

func TestImporter_SkipsKnownURLs(t *testing.T) {
	ctx := context.Background()
	target := newTarget(t, false)
	_, err := target.Create(ctx, draft("https://example.com/a", "A"))
	require.NoError(t, err)

	src := staticSource{drafts: []content.Draft{
		draft("https://example.com/a", "A again"),
		draft(" https://example.com/b ", "B"),
		draft("https://example.com/b", "B twice"),
		draft("not-a-url", "Broken"),
		{URL: "https://youtu.be/abc123"},
	}}

	var out bytes.Buffer
	res, err := NewImporter(target, enrich.New(nil), &out).Import(ctx, src, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, ImportResult{Source: "static", Found: 5, Added: 2, Skipped: 2, Failed: 1}, res)
	assert.Contains(t, out.String(), "Added 2 new static items, skipped 2 existing, 1 failed")

	items, err := target.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	// Newest first: the enriched youtube draft was created last.
	assert.Equal(t, content.TypeYouTube, items[0].Type)
	assert.Equal(t, "https://youtu.be/abc123", items[0].Title)
	assert.NotNil(t, items[0].Thumbnail)
	assert.Equal(t, "https://example.com/b", items[1].URL)
}

func TestImporter_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	target := newTarget(t, false)
	src := staticSource{drafts: []content.Draft{draft("https://example.com/a", "A"), draft("not-a-url", "bad")}}

	res, err := NewImporter(target, nil, nil).Import(ctx, src, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Failed)

	items, err := target.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestImporter_PublicModeStops(t *testing.T) {
	target := newTarget(t, true)
	src := staticSource{drafts: []content.Draft{draft("https://example.com/a", "A"), draft("https://example.com/b", "B")}}

	res, err := NewImporter(target, nil, nil).Import(context.Background(), src, ImportOptions{Silent: true})
	require.ErrorIs(t, err, content.ErrForbidden)
	assert.Zero(t, res.Added)
}

func TestImporter_FetchError(t *testing.T) {
	src := staticSource{err: errors.New("bird failed")}
	_, err := NewImporter(newTarget(t, false), nil, nil).Import(context.Background(), src, ImportOptions{Silent: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch static")
}

func TestProgressLine(t *testing.T) {
	assert.Equal(t, "Importing [███████████████░░░░░░░░░░░░░░░] 1/2 (50%)", progressLine(1, 2, "Importing"))
}
