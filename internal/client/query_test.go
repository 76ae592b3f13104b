package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/notecards/internal/content"
)

type listerFunc func(ctx context.Context) ([]content.Item, error)

func (f listerFunc) ListAll(ctx context.Context) ([]content.Item, error) { return f(ctx) }

func TestQuery_StartsLoading(t *testing.T) {
	q := NewQuery(listerFunc(func(context.Context) ([]content.Item, error) { return nil, nil }))

	s := q.Snapshot()
	assert.True(t, s.IsLoading)
	assert.NotNil(t, s.Data)
	assert.Empty(t, s.Data)
	assert.NoError(t, s.Err)
}

func TestQuery_Success(t *testing.T) {
	items := []content.Item{{ID: "1", Type: content.TypeArticle, Title: "Foo", CreatedAt: time.Now()}}
	q := NewQuery(listerFunc(func(context.Context) ([]content.Item, error) { return items, nil }))

	s := q.Fetch(context.Background())
	assert.False(t, s.IsLoading)
	assert.NoError(t, s.Err)
	assert.Equal(t, items, s.Data)
	assert.Equal(t, s, q.Snapshot())
}

func TestQuery_EmptyResultIsNotAnError(t *testing.T) {
	q := NewQuery(listerFunc(func(context.Context) ([]content.Item, error) { return nil, nil }))

	s := q.Fetch(context.Background())
	assert.False(t, s.IsLoading)
	assert.NoError(t, s.Err)
	assert.NotNil(t, s.Data)
	assert.Empty(t, s.Data)
}

func TestQuery_FailureClearsData(t *testing.T) {
	fail := false
	q := NewQuery(listerFunc(func(context.Context) ([]content.Item, error) {
		if fail {
			return nil, content.ErrStoreUnavailable
		}
		return []content.Item{{ID: "1"}}, nil
	}))

	require.Len(t, q.Fetch(context.Background()).Data, 1)

	fail = true
	s := q.Refetch(context.Background())
	assert.False(t, s.IsLoading)
	assert.True(t, errors.Is(s.Err, content.ErrStoreUnavailable))
	assert.NotNil(t, s.Data)
	assert.Empty(t, s.Data)
}

func TestQuery_LoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	q := NewQuery(listerFunc(func(context.Context) ([]content.Item, error) {
		close(started)
		<-release
		return []content.Item{}, nil
	}))

	done := make(chan State)
	go func() { done <- q.Fetch(context.Background()) }()

	<-started
	assert.True(t, q.Snapshot().IsLoading)
	close(release)

	s := <-done
	assert.False(t, s.IsLoading)
}
