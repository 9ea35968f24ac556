package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Run("NewKey joins parts", func(t *testing.T) {
		assert.Equal(t, Key("order/list/PENDING"), NewKey("order", "list", "PENDING"))
	})

	t.Run("Kind is first segment", func(t *testing.T) {
		assert.Equal(t, "order", NewKey("order", "7").Kind())
		assert.Equal(t, "budget", Key("budget").Kind())
	})

	t.Run("HasPrefix matches whole segments only", func(t *testing.T) {
		assert.True(t, NewKey("order", "7").HasPrefix(Key("order")))
		assert.True(t, Key("order").HasPrefix(Key("order")))
		assert.False(t, Key("orders").HasPrefix(Key("order")))
		assert.False(t, Key("budget").HasPrefix(Key("order")))
	})
}

func newClockedStore(start time.Time) (*Store, *time.Time) {
	now := start
	s := NewStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStore_Staleness(t *testing.T) {
	s, now := newClockedStore(time.Unix(1000, 0))
	s.SetClass("budget", Class{StaleAfter: 10 * time.Second, GCAfter: time.Minute})

	key := NewKey("budget")
	s.Set(key, 42)

	t.Run("Fresh within window", func(t *testing.T) {
		v, ok := s.Fresh(key)
		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("Stale past window but still Gettable", func(t *testing.T) {
		*now = now.Add(11 * time.Second)

		_, ok := s.Fresh(key)
		assert.False(t, ok)

		v, ok := s.Get(key)
		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("Invalidate forces staleness regardless of age", func(t *testing.T) {
		s.Set(key, 43)
		_ = s.Invalidate(key)

		_, ok := s.Fresh(key)
		assert.False(t, ok)
	})
}

func TestStore_InvalidatePrefix(t *testing.T) {
	s, _ := newClockedStore(time.Unix(1000, 0))

	s.Set(NewKey("order", "1"), "a")
	s.Set(NewKey("order", "2"), "b")
	s.Set(NewKey("budget"), "c")

	_ = s.Invalidate(Key("order"))

	_, ok := s.Fresh(NewKey("order", "1"))
	assert.False(t, ok)
	_, ok = s.Fresh(NewKey("order", "2"))
	assert.False(t, ok)
	_, ok = s.Fresh(NewKey("budget"))
	assert.True(t, ok)
}

func TestStore_SubscribeNotify(t *testing.T) {
	s := NewStore()

	var seen []Key
	cancel := s.Subscribe(Key("order"), func(k Key) error {
		seen = append(seen, k)
		return nil
	})

	s.Set(NewKey("order", "1"), "a")
	s.Set(NewKey("budget"), "b")
	_ = s.Invalidate(Key("order"))

	require.Len(t, seen, 2)
	assert.Equal(t, NewKey("order", "1"), seen[0])
	assert.Equal(t, NewKey("order", "1"), seen[1])

	cancel()
	s.Set(NewKey("order", "1"), "c")
	assert.Len(t, seen, 2)
}

func TestStore_InvalidateAggregatesSubscriberErrors(t *testing.T) {
	s := NewStore()
	s.Set(NewKey("order", "1"), "a")
	s.Set(NewKey("order", "2"), "b")

	refetchErr := errors.New("refetch failed")
	defer s.Subscribe(Key("order"), func(Key) error { return refetchErr })()

	err := s.Invalidate(Key("order"))
	assert.ErrorIs(t, err, refetchErr)
}

func TestStore_FetchOrdering(t *testing.T) {
	s := NewStore()
	key := NewKey("order", "list")

	t.Run("Later-acknowledged fetch wins", func(t *testing.T) {
		first := s.BeginFetch(key)
		second := s.BeginFetch(key)

		// Second mutation's fetch is acknowledged first.
		assert.True(t, s.CompleteFetch(key, second, "newer"))

		// First fetch straggles in afterwards and must be discarded.
		assert.False(t, s.CompleteFetch(key, first, "older"))

		v, ok := s.Get(key)
		require.True(t, ok)
		assert.Equal(t, "newer", v)
	})
}

func TestStore_OptimisticRestore(t *testing.T) {
	t.Run("Restore rolls back a failed write", func(t *testing.T) {
		s := NewStore()
		key := NewKey("favorite", "7")
		s.Set(key, false)

		tok := s.OptimisticUpdate(key, func(old any, ok bool) any {
			return !old.(bool)
		})

		v, _ := s.Get(key)
		assert.Equal(t, true, v)

		assert.True(t, s.Restore(tok))
		v, _ = s.Get(key)
		assert.Equal(t, false, v)
	})

	t.Run("Restore is a no-op past the token generation", func(t *testing.T) {
		s := NewStore()
		key := NewKey("favorite", "7")
		s.Set(key, false)

		// First toggle: false -> true.
		tok1 := s.OptimisticUpdate(key, func(old any, ok bool) any {
			return !old.(bool)
		})

		// Second toggle lands before the first resolves: true -> false.
		s.OptimisticUpdate(key, func(old any, ok bool) any {
			return !old.(bool)
		})

		// First toggle's remote call fails; its rollback must not clobber
		// the second toggle's newer state.
		assert.False(t, s.Restore(tok1))

		v, _ := s.Get(key)
		assert.Equal(t, false, v)
	})

	t.Run("Restore on an absent key re-deletes it", func(t *testing.T) {
		s := NewStore()
		key := NewKey("favorite", "9")

		tok := s.OptimisticUpdate(key, func(old any, ok bool) any {
			assert.False(t, ok)
			return true
		})

		assert.True(t, s.Restore(tok))
		_, ok := s.Get(key)
		assert.False(t, ok)
	})

	t.Run("Authoritative fetch blocks later rollback", func(t *testing.T) {
		s := NewStore()
		key := NewKey("favorite", "7")
		s.Set(key, false)

		tok := s.OptimisticUpdate(key, func(old any, ok bool) any {
			return true
		})

		// Server truth arrives before the rollback.
		s.Set(key, true)

		assert.False(t, s.Restore(tok))
		v, _ := s.Get(key)
		assert.Equal(t, true, v)
	})
}

func TestStore_GC(t *testing.T) {
	s, now := newClockedStore(time.Unix(1000, 0))
	s.SetClass("product", Class{StaleAfter: time.Second, GCAfter: time.Minute})

	old := NewKey("product", "1")
	young := NewKey("product", "2")
	watched := NewKey("product", "3")

	s.Set(old, "a")
	s.Set(watched, "c")

	*now = now.Add(2 * time.Minute)
	s.Set(young, "b")

	defer s.Subscribe(watched, func(Key) error { return nil })()

	s.sweep()

	_, ok := s.Get(old)
	assert.False(t, ok, "expired entry should be evicted")
	_, ok = s.Get(young)
	assert.True(t, ok, "young entry survives")
	_, ok = s.Get(watched)
	assert.True(t, ok, "subscribed entry counts as in use")
}

func TestLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("Fresh hit skips fetch", func(t *testing.T) {
		s := NewStore()
		key := NewKey("budget")
		s.Set(key, 7)

		calls := 0
		v, err := Lookup(ctx, s, key, func(context.Context) (int, error) {
			calls++
			return 0, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 7, v)
		assert.Zero(t, calls)
	})

	t.Run("Miss fetches and caches", func(t *testing.T) {
		s := NewStore()
		key := NewKey("budget")

		v, err := Lookup(ctx, s, key, func(context.Context) (int, error) {
			return 9, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 9, v)

		cached, ok := s.Fresh(key)
		require.True(t, ok)
		assert.Equal(t, 9, cached)
	})

	t.Run("Fetch error propagates", func(t *testing.T) {
		s := NewStore()
		fetchErr := errors.New("boom")

		_, err := Lookup(ctx, s, NewKey("budget"), func(context.Context) (int, error) {
			return 0, fetchErr
		})
		assert.ErrorIs(t, err, fetchErr)
	})

	t.Run("Superseded fetch returns the newer value", func(t *testing.T) {
		s := NewStore()
		key := NewKey("order", "list")

		v, err := Lookup(ctx, s, key, func(context.Context) (int, error) {
			// A concurrent fetch is acknowledged while ours is in flight.
			seq := s.BeginFetch(key)
			s.CompleteFetch(key, seq, 99)
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 99, v)
	})
}

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("Result carries data", func(t *testing.T) {
		s := NewStore()
		q := NewQuery(s, NewKey("budget"), func(context.Context) (int, error) {
			return 5, nil
		})

		res := q.Result(ctx)
		assert.NoError(t, res.Err)
		assert.Equal(t, 5, res.Data)
	})

	t.Run("Result keeps last-known data on error", func(t *testing.T) {
		s := NewStore()
		key := NewKey("budget")
		s.Set(key, 5)
		_ = s.Invalidate(key)

		q := NewQuery(s, key, func(context.Context) (int, error) {
			return 0, errors.New("down")
		})

		res := q.Result(ctx)
		assert.Error(t, res.Err)
		assert.Equal(t, 5, res.Data)
	})

	t.Run("Subscribe refreshes on change", func(t *testing.T) {
		s := NewStore()
		key := NewKey("budget")
		s.Set(key, 1)

		q := NewQuery(s, key, func(context.Context) (int, error) {
			v, _ := s.Get(key)
			return v.(int), nil
		})

		var got []int
		cancel := q.Subscribe(ctx, func(r Result[int]) {
			got = append(got, r.Data)
		})
		defer cancel()

		s.Set(key, 2)
		require.NotEmpty(t, got)
		assert.Equal(t, 2, got[len(got)-1])
	})
}
