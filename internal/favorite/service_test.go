package favorite

import (
	"context"
	"testing"
	"time"

	"snackhub/internal/cache"
	"snackhub/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FetchFavorites(ctx context.Context) ([]Favorite, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Favorite), args.Error(1)
}

func (m *MockRepository) AddFavorite(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockRepository) RemoveFavorite(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func newTestService(t *testing.T) (Service, *MockRepository, *cache.Store) {
	t.Helper()
	repo := new(MockRepository)
	store := cache.NewStore()
	return NewService(repo, store), repo, store
}

func serverDown() error {
	return &remote.Error{Kind: remote.ErrServer, Status: 500}
}

// --- Tests ---

func TestService_IsFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid product id is rejected locally", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		_, err := svc.IsFavorite(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidProductID)
		repo.AssertNotCalled(t, "FetchFavorites")
	})

	t.Run("Seeds flags from the list", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.On("FetchFavorites", mock.Anything).
			Return([]Favorite{{ID: 1, UserID: 5, ProductID: 7}}, nil).Once()

		fav, err := svc.IsFavorite(ctx, 7)
		require.NoError(t, err)
		assert.True(t, fav)

		// Both flags now answer from cache.
		fav, err = svc.IsFavorite(ctx, 7)
		require.NoError(t, err)
		assert.True(t, fav)

		other, err := svc.IsFavorite(ctx, 8)
		require.NoError(t, err)
		assert.False(t, other)
		repo.AssertExpectations(t)
	})
}

func TestService_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("Off to on calls add and refetches", func(t *testing.T) {
		svc, repo, store := newTestService(t)
		store.Set(FlagKey(7), false)
		repo.On("AddFavorite", mock.Anything, int64(7)).Return(nil)

		got, err := svc.Toggle(ctx, 7)
		require.NoError(t, err)
		assert.True(t, got)

		v, ok := store.Get(FlagKey(7))
		require.True(t, ok)
		assert.Equal(t, true, v)

		// The optimistic value is provisional: the next read refetches.
		_, fresh := store.Fresh(FlagKey(7))
		assert.False(t, fresh)
	})

	t.Run("On to off calls remove", func(t *testing.T) {
		svc, repo, store := newTestService(t)
		store.Set(FlagKey(7), true)
		repo.On("RemoveFavorite", mock.Anything, int64(7)).Return(nil)

		got, err := svc.Toggle(ctx, 7)
		require.NoError(t, err)
		assert.False(t, got)
		repo.AssertNotCalled(t, "AddFavorite")
	})

	t.Run("Failure restores the pre-toggle state", func(t *testing.T) {
		svc, repo, store := newTestService(t)
		store.Set(FlagKey(7), false)
		repo.On("AddFavorite", mock.Anything, int64(7)).Return(serverDown())

		got, err := svc.Toggle(ctx, 7)
		assert.ErrorIs(t, err, remote.ErrServer)
		assert.False(t, got)

		v, ok := store.Get(FlagKey(7))
		require.True(t, ok)
		assert.Equal(t, false, v, "rollback must restore the snapshot exactly")
	})

	t.Run("Stale rollback cannot clobber a newer toggle", func(t *testing.T) {
		svc, repo, store := newTestService(t)
		key := FlagKey(7)
		store.Set(key, false)

		// First toggle flips false -> true, but its remote call hangs
		// until we release it, after the second toggle has landed.
		release := make(chan struct{})
		firstDone := make(chan struct{})
		repo.On("AddFavorite", mock.Anything, int64(7)).
			Run(func(mock.Arguments) { <-release }).
			Return(serverDown()).Once()

		go func() {
			defer close(firstDone)
			_, err := svc.Toggle(ctx, 7)
			assert.Error(t, err)
		}()

		// Wait for the first optimistic flip to land.
		require.Eventually(t, func() bool {
			v, ok := store.Get(key)
			return ok && v.(bool)
		}, time.Second, time.Millisecond)

		// Second toggle: true -> false, succeeds immediately.
		repo.On("RemoveFavorite", mock.Anything, int64(7)).Return(nil).Once()
		got, err := svc.Toggle(ctx, 7)
		require.NoError(t, err)
		assert.False(t, got)

		// Now the first toggle's failure arrives; its rollback must be a
		// no-op because the key moved past its snapshot's generation.
		close(release)
		<-firstDone

		v, ok := store.Get(key)
		require.True(t, ok)
		assert.Equal(t, false, v, "second toggle's newer state must survive")
	})
}
