package rpc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/notecards/internal/access"
	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/db"
	"github.com/user/notecards/internal/db/memory"
	"github.com/user/notecards/internal/logging"
)

// countingStore counts calls that reach the store.
type countingStore struct {
	db.Store
	calls atomic.Int32
}

func (s *countingStore) List(ctx context.Context) ([]content.Item, error) {
	s.calls.Add(1)
	return s.Store.List(ctx)
}

func (s *countingStore) Get(ctx context.Context, id string) (*content.Item, error) {
	s.calls.Add(1)
	return s.Store.Get(ctx, id)
}

func (s *countingStore) Create(ctx context.Context, d content.Draft) (*content.Item, error) {
	s.calls.Add(1)
	return s.Store.Create(ctx, d)
}

func (s *countingStore) Update(ctx context.Context, id string, p content.Patch) (*content.Item, error) {
	s.calls.Add(1)
	return s.Store.Update(ctx, id, p)
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.calls.Add(1)
	return s.Store.Delete(ctx, id)
}

// brokenStore fails every call with a driver-looking error.
type brokenStore struct{ db.Store }

var errDriver = errors.New("dial tcp 10.0.0.7:5432: connect: connection refused (user=admin)")

func (brokenStore) List(context.Context) ([]content.Item, error) { return nil, errDriver }
func (brokenStore) Get(context.Context, string) (*content.Item, error) {
	return nil, errDriver
}
func (brokenStore) Create(context.Context, content.Draft) (*content.Item, error) {
	return nil, errDriver
}
func (brokenStore) Ping(context.Context) error { return errDriver }

// slowStore blocks until the context is done.
type slowStore struct{ db.Store }

func (slowStore) List(ctx context.Context) ([]content.Item, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func article(title string) content.Draft {
	return content.Draft{
		Type:  content.TypeArticle,
		URL:   "https://example.com/" + title,
		Title: title,
	}
}

func newProcedures(store db.Store, publicMode bool) *Procedures {
	return NewProcedures(store, access.ReadOnly(publicMode), logging.Discard(), time.Second)
}

func TestProcedures_CreateThenGetByID(t *testing.T) {
	p := newProcedures(memory.New(), false)
	ctx := context.Background()

	created, err := p.Create(ctx, content.Draft{
		Type:   content.TypeYouTube,
		URL:    "https://youtube.com/watch?v=abc",
		Title:  "Bar Talk",
		Author: content.Ptr("Alice"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := p.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	items, err := p.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *created, items[0])
}

func TestProcedures_PublicModeBlocksMutations(t *testing.T) {
	inner := memory.New()
	seeded, err := inner.Create(context.Background(), article("seed"))
	require.NoError(t, err)

	store := &countingStore{Store: inner}
	p := newProcedures(store, true)
	ctx := context.Background()

	_, err = p.Create(ctx, article("new"))
	assert.ErrorIs(t, err, content.ErrForbidden)

	_, err = p.Update(ctx, seeded.ID, content.Patch{Title: content.Ptr("changed")})
	assert.ErrorIs(t, err, content.ErrForbidden)

	err = p.Delete(ctx, seeded.ID)
	assert.ErrorIs(t, err, content.ErrForbidden)

	assert.Equal(t, int32(0), store.calls.Load(), "no mutation may reach the store")

	items, err := p.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "seed", items[0].Title)
}

func TestProcedures_PublicModeAllowsReads(t *testing.T) {
	inner := memory.New()
	seeded, err := inner.Create(context.Background(), article("seed"))
	require.NoError(t, err)
	p := newProcedures(inner, true)

	got, err := p.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	items, err := p.GetByType(context.Background(), content.TypeArticle)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestProcedures_ForbiddenBeforeValidation(t *testing.T) {
	p := newProcedures(memory.New(), true)

	_, err := p.Create(context.Background(), content.Draft{URL: "not-a-url"})
	assert.ErrorIs(t, err, content.ErrForbidden)
	assert.NotErrorIs(t, err, content.ErrValidation)
}

func TestProcedures_GetByIDUnknown(t *testing.T) {
	p := newProcedures(memory.New(), false)

	_, err := p.GetByID(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestProcedures_InvalidURLNeverReachesStore(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	p := newProcedures(store, false)

	_, err := p.Create(context.Background(), content.Draft{
		Type:  content.TypeArticle,
		URL:   "not-a-url",
		Title: "Broken",
	})

	var ve *content.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "url", ve.Errors[0].Field)
	assert.Equal(t, int32(0), store.calls.Load())
}

func TestProcedures_InvalidInputs(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	p := newProcedures(store, false)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
	}{
		{"getById blank id", func() error { _, err := p.GetByID(ctx, "  "); return err }},
		{"getByType unknown type", func() error { _, err := p.GetByType(ctx, "podcast"); return err }},
		{"create blank title", func() error {
			_, err := p.Create(ctx, content.Draft{Type: content.TypeBook, URL: "https://a.example", Title: " "})
			return err
		}},
		{"create unknown type", func() error {
			_, err := p.Create(ctx, content.Draft{Type: "podcast", URL: "https://a.example", Title: "x"})
			return err
		}},
		{"update empty patch", func() error { _, err := p.Update(ctx, "id", content.Patch{}); return err }},
		{"update blank id", func() error {
			_, err := p.Update(ctx, "", content.Patch{Title: content.Ptr("x")})
			return err
		}},
		{"delete blank id", func() error { return p.Delete(ctx, "") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), content.ErrValidation)
		})
	}
	assert.Equal(t, int32(0), store.calls.Load())
}

func TestProcedures_UpdateAndDelete(t *testing.T) {
	p := newProcedures(memory.New(), false)
	ctx := context.Background()

	created, err := p.Create(ctx, article("before"))
	require.NoError(t, err)

	updated, err := p.Update(ctx, created.ID, content.Patch{Title: content.Ptr("after")})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, created.URL, updated.URL)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, p.Delete(ctx, created.ID))
	assert.ErrorIs(t, p.Delete(ctx, created.ID), content.ErrNotFound)

	_, err = p.Update(ctx, created.ID, content.Patch{Title: content.Ptr("again")})
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestProcedures_StoreFailureIsOpaque(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	p := NewProcedures(brokenStore{}, access.ReadOnly(false), logger, time.Second)

	_, err := p.ListAll(context.Background())
	require.ErrorIs(t, err, content.ErrStoreUnavailable)
	assert.Equal(t, "content store unavailable", err.Error())
	assert.NotContains(t, err.Error(), "10.0.0.7")

	_, err = p.Create(context.Background(), article("x"))
	assert.ErrorIs(t, err, content.ErrStoreUnavailable)

	assert.Contains(t, logs.String(), "10.0.0.7", "full detail is logged server-side")
}

func TestProcedures_TimeoutIsStoreUnavailable(t *testing.T) {
	p := NewProcedures(slowStore{}, access.ReadOnly(false), logging.Discard(), 10*time.Millisecond)

	_, err := p.ListAll(context.Background())
	assert.ErrorIs(t, err, content.ErrStoreUnavailable)
}

func TestProcedures_Describe(t *testing.T) {
	d, err := newProcedures(memory.New(), true).Describe(context.Background())
	require.NoError(t, err)
	assert.True(t, d.PublicMode)
	assert.False(t, d.Features.AddContent)
	assert.False(t, d.Features.DeleteContent)
	assert.Equal(t, content.Types(), d.Types)

	d, err = newProcedures(memory.New(), false).Describe(context.Background())
	require.NoError(t, err)
	assert.False(t, d.PublicMode)
	assert.True(t, d.Features.EditContent)
}
