package cache

import "context"

// Result is what UI consumers render from: the last-known data, whether a
// fetch is in flight, and the error of the last failed fetch.
type Result[T any] struct {
	Data      T
	IsLoading bool
	Err       error
}

type FetchFunc[T any] func(ctx context.Context) (T, error)

// Lookup reads key through the store. A fresh cached value is returned
// without touching the network; otherwise fn fetches, and the result is
// applied with last-acknowledged-fetch-wins ordering. When a newer fetch
// landed while ours was in flight, the newer value is returned.
func Lookup[T any](ctx context.Context, s *Store, key Key, fn FetchFunc[T]) (T, error) {
	if v, ok := s.Fresh(key); ok {
		return v.(T), nil
	}

	seq := s.BeginFetch(key)

	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if !s.CompleteFetch(key, seq, v) {
		if cur, ok := s.Get(key); ok {
			return cur.(T), nil
		}
	}
	return v, nil
}

// Query binds a key to its fetcher, giving consumers a subscription-style
// read handle.
type Query[T any] struct {
	store *Store
	key   Key
	fetch FetchFunc[T]
}

func NewQuery[T any](store *Store, key Key, fetch FetchFunc[T]) *Query[T] {
	return &Query[T]{store: store, key: key, fetch: fetch}
}

// Result resolves the current state of the query.
func (q *Query[T]) Result(ctx context.Context) Result[T] {
	data, err := Lookup(ctx, q.store, q.key, q.fetch)
	if err != nil {
		// Keep showing the last-known value alongside the error.
		if v, ok := q.store.Get(q.key); ok {
			data = v.(T)
		}
		return Result[T]{Data: data, Err: err}
	}
	return Result[T]{Data: data}
}

// Subscribe invokes fn with a refreshed result after every change under the
// query's key. The refetch error, if any, is reported through the result.
func (q *Query[T]) Subscribe(ctx context.Context, fn func(Result[T])) func() {
	return q.store.Subscribe(q.key, func(Key) error {
		res := q.Result(ctx)
		fn(res)
		return res.Err
	})
}
