package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/notecards/internal/access"
	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/db/memory"
	"github.com/user/notecards/internal/logging"
	"github.com/user/notecards/internal/rpc"
)

func newRemote(t *testing.T, publicMode bool) (*HTTP, *memory.Store) {
	t.Helper()
	store := memory.New()
	procs := rpc.NewProcedures(store, access.ReadOnly(publicMode), logging.Discard(), time.Second)
	srv := httptest.NewServer(rpc.Routes(procs, store, logging.Discard(), nil))
	t.Cleanup(srv.Close)
	return NewHTTP(srv.URL+"/", time.Second), store
}

func TestHTTP_RoundTrip(t *testing.T) {
	c, _ := newRemote(t, false)
	ctx := context.Background()

	created, err := c.Create(ctx, content.Draft{
		Type:     content.TypeBook,
		URL:      "https://books.example/dune",
		Title:    "Dune",
		Author:   content.Ptr("Frank Herbert"),
		Location: content.Ptr("Arrakis"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := c.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", *got.Author)
	assert.Nil(t, got.Thumbnail)

	byType, err := c.GetByType(ctx, content.TypeBook)
	require.NoError(t, err)
	assert.Len(t, byType, 1)

	updated, err := c.Update(ctx, created.ID, content.Patch{Note: content.Ptr("reread")})
	require.NoError(t, err)
	assert.Equal(t, "reread", updated.Note)

	require.NoError(t, c.Delete(ctx, created.ID))

	all, err := c.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestHTTP_DecodesTaxonomy(t *testing.T) {
	c, _ := newRemote(t, false)
	ctx := context.Background()

	_, err := c.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, content.ErrNotFound)

	_, err = c.Create(ctx, content.Draft{Type: content.TypeArticle, URL: "not-a-url", Title: "x"})
	var ve *content.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "url", ve.Errors[0].Field)
	assert.ErrorIs(t, err, content.ErrValidation)

	err = c.Delete(ctx, "missing")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestHTTP_PublicMode(t *testing.T) {
	c, store := newRemote(t, true)
	ctx := context.Background()

	_, err := c.Create(ctx, content.Draft{Type: content.TypeArticle, URL: "https://a.example", Title: "x"})
	assert.ErrorIs(t, err, content.ErrForbidden)
	assert.Equal(t, "this action is not available in public mode", err.Error())

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	d, err := c.Describe(ctx)
	require.NoError(t, err)
	assert.True(t, d.PublicMode)
	assert.False(t, d.Features.DeleteContent)
}

func TestHTTP_TransportFailureIsStoreUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTP(url, time.Second).ListAll(context.Background())
	assert.ErrorIs(t, err, content.ErrStoreUnavailable)
}

func TestHTTP_NonEnvelopeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := NewHTTP(srv.URL, time.Second).ListAll(context.Background())
	assert.ErrorIs(t, err, content.ErrStoreUnavailable)
}
