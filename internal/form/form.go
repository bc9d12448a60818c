package form

import (
	"context"
	"errors"
	"sync"

	"userlens-bot/internal/model"
)

// ErrBusy is returned by Submit while an earlier submission is still in
// flight. Only one lookup per form runs at a time.
var ErrBusy = errors.New("lookup already in flight")

// Fetcher resolves a login to a user record.
type Fetcher interface {
	LookupUser(ctx context.Context, login string) (*model.User, error)
}

type View int

const (
	ViewIdle View = iota
	ViewLoading
	ViewLoaded
)

// Snapshot is a read-only copy of the form state, taken under the lock.
type Snapshot struct {
	Query   string
	Result  *model.User
	Loading bool
}

func (s Snapshot) View() View {
	if s.Loading {
		return ViewLoading
	}
	if s.Result != nil {
		return ViewLoaded
	}
	return ViewIdle
}

// Form holds the lookup state for one chat: the current query, the last
// successfully fetched result and a loading flag spanning one in-flight
// request.
type Form struct {
	mu      sync.Mutex
	fetcher Fetcher

	query   string
	result  *model.User
	loading bool
}

func New(fetcher Fetcher) *Form {
	return &Form{fetcher: fetcher}
}

// SetQuery replaces the query unconditionally. No validation.
func (f *Form) SetQuery(q string) {
	f.mu.Lock()
	f.query = q
	f.mu.Unlock()
}

// Submit runs one lookup for the current query.
//
// The loading flag is set for exactly the span of the fetch. On success the
// result is overwritten. On failure the previous result is kept as is and
// the error is returned for the caller to log. If ctx is cancelled while
// the fetch is out, a late success is discarded instead of being applied.
func (f *Form) Submit(ctx context.Context) (*model.User, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.loading = true
	query := f.query
	f.mu.Unlock()

	user, err := f.fetcher.LookupUser(ctx, query)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.result = user
	return user, nil
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Query:   f.query,
		Result:  f.result,
		Loading: f.loading,
	}
}
