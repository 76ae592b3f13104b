// Package dbtest holds the behaviour every db.Store implementation must share.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/db"
)

// Draft returns a valid draft of type t titled title.
func Draft(t content.Type, title string) content.Draft {
	return content.Draft{
		Type:  t,
		URL:   "https://example.com/" + string(t),
		Title: title,
		Note:  "",
	}
}

// RunContract runs the store contract against stores built by newStore.
// Each subtest gets a fresh, empty store.
func RunContract(t *testing.T, newStore func(t *testing.T) db.Store) {
	t.Run("CreateGetRoundTrip", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		d := content.Draft{
			Type:     content.TypeYouTube,
			URL:      "https://youtube.com/watch?v=abc",
			Title:    "Bar Talk",
			Note:     "watch later",
			Author:   content.Ptr("Someone"),
			Duration: content.Ptr("12:34"),
		}
		created, err := st.Create(ctx, d)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.False(t, created.CreatedAt.IsZero())

		got, err := st.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, d.Type, got.Type)
		assert.Equal(t, d.URL, got.URL)
		assert.Equal(t, d.Title, got.Title)
		assert.Equal(t, d.Note, got.Note)
		assert.Equal(t, d.Author, got.Author)
		assert.Equal(t, d.Duration, got.Duration)
		assert.Nil(t, got.Thumbnail)
		assert.Nil(t, got.Location)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "createdAt %v != %v", created.CreatedAt, got.CreatedAt)
	})

	t.Run("IDsAreUnique", func(t *testing.T) {
		st := newStore(t)
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			it, err := st.Create(context.Background(), Draft(content.TypeBook, "Book"))
			require.NoError(t, err)
			require.False(t, seen[it.ID], "duplicate id %s", it.ID)
			seen[it.ID] = true
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		var ids []string
		for _, title := range []string{"first", "second", "third"} {
			it, err := st.Create(ctx, Draft(content.TypeArticle, title))
			require.NoError(t, err)
			ids = append(ids, it.ID)
		}

		items, err := st.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{items[0].ID, items[1].ID, items[2].ID})
	})

	t.Run("ListEmptyIsNotNil", func(t *testing.T) {
		st := newStore(t)
		items, err := st.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("ListByType", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		_, err := st.Create(ctx, Draft(content.TypeArticle, "Foo"))
		require.NoError(t, err)
		_, err = st.Create(ctx, Draft(content.TypeYouTube, "Bar Talk"))
		require.NoError(t, err)
		_, err = st.Create(ctx, Draft(content.TypeArticle, "Baz"))
		require.NoError(t, err)

		items, err := st.ListByType(ctx, content.TypeArticle)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Baz", items[0].Title)
		assert.Equal(t, "Foo", items[1].Title)

		none, err := st.ListByType(ctx, content.TypeSpotify)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("GetMissing", func(t *testing.T) {
		st := newStore(t)
		_, err := st.Get(context.Background(), "does-not-exist")
		assert.ErrorIs(t, err, content.ErrNotFound)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		d := Draft(content.TypeMovie, "Old")
		d.Author = content.Ptr("Director")
		created, err := st.Create(ctx, d)
		require.NoError(t, err)

		updated, err := st.Update(ctx, created.ID, content.Patch{
			Title:    content.Ptr("New"),
			Author:   content.Ptr(""),
			Location: content.Ptr("Paris"),
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, created.URL, updated.URL)
		assert.Nil(t, updated.Author)
		require.NotNil(t, updated.Location)
		assert.Equal(t, "Paris", *updated.Location)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

		got, err := st.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		st := newStore(t)
		_, err := st.Update(context.Background(), "nope", content.Patch{Title: content.Ptr("x")})
		assert.ErrorIs(t, err, content.ErrNotFound)
	})

	t.Run("UpdateRejectsInvalidPatch", func(t *testing.T) {
		st := newStore(t)
		created, err := st.Create(context.Background(), Draft(content.TypeImage, "Pic"))
		require.NoError(t, err)

		_, err = st.Update(context.Background(), created.ID, content.Patch{URL: content.Ptr("not-a-url")})
		assert.ErrorIs(t, err, content.ErrValidation)
	})

	t.Run("CreateRejectsInvalidDraft", func(t *testing.T) {
		st := newStore(t)
		_, err := st.Create(context.Background(), content.Draft{Type: content.TypeArticle, URL: "not-a-url", Title: "x"})
		assert.ErrorIs(t, err, content.ErrValidation)

		items, err := st.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Delete", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		created, err := st.Create(ctx, Draft(content.TypeReddit, "Thread"))
		require.NoError(t, err)

		require.NoError(t, st.Delete(ctx, created.ID))

		_, err = st.Get(ctx, created.ID)
		assert.ErrorIs(t, err, content.ErrNotFound)

		// deleting again is an error, not a silent success
		assert.ErrorIs(t, st.Delete(ctx, created.ID), content.ErrNotFound)
	})

	t.Run("Ping", func(t *testing.T) {
		st := newStore(t)
		assert.NoError(t, st.Ping(context.Background()))
	})
}
