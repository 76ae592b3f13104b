package client

import (
	"context"
	"sync"

	"github.com/user/notecards/internal/content"
)

// Lister is the one procedure Query needs.
type Lister interface {
	ListAll(ctx context.Context) ([]content.Item, error)
}

// State is a snapshot of the listAll query. Data is never nil.
type State struct {
	Data      []content.Item
	IsLoading bool
	Err       error
}

// Query binds listAll to a State. It fetches once per Fetch call; there is no
// retry, polling or cache invalidation.
type Query struct {
	api Lister

	mu    sync.Mutex
	state State
}

// NewQuery returns a query in the loading state.
func NewQuery(api Lister) *Query {
	return &Query{
		api:   api,
		state: State{Data: []content.Item{}, IsLoading: true},
	}
}

// Fetch runs listAll and returns the resulting state.
func (q *Query) Fetch(ctx context.Context) State {
	q.mu.Lock()
	q.state.IsLoading = true
	q.mu.Unlock()

	items, err := q.api.ListAll(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		q.state = State{Data: []content.Item{}, Err: err}
		return q.state
	}
	if items == nil {
		items = []content.Item{}
	}
	q.state = State{Data: items}
	return q.state
}

// Refetch reloads after a mutation.
func (q *Query) Refetch(ctx context.Context) State {
	return q.Fetch(ctx)
}

// Snapshot returns the current state without fetching.
func (q *Query) Snapshot() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}
