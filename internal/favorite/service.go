package favorite

import (
	"context"
	"errors"
	"fmt"

	"snackhub/internal/cache"
	"snackhub/internal/logger"

	"go.uber.org/zap"
)

var ErrInvalidProductID = errors.New("invalid product id")

// Service is the optimistic-toggle controller: the cached flag flips before
// the remote call is issued, so consumers render the new state with zero
// perceived latency. The same snapshot/restore machinery in the cache
// package serves any small-state mutation; this service is its
// favorite-shaped instance.
type Service interface {
	List(ctx context.Context) ([]Favorite, error)
	IsFavorite(ctx context.Context, productID int64) (bool, error)
	// Toggle returns the state the toggle settled on.
	Toggle(ctx context.Context, productID int64) (bool, error)
}

type service struct {
	repo  Repository
	store *cache.Store
}

func NewService(repo Repository, store *cache.Store) Service {
	return &service{repo: repo, store: store}
}

func (s *service) List(ctx context.Context) ([]Favorite, error) {
	return cache.Lookup(ctx, s.store, ListKey, func(ctx context.Context) ([]Favorite, error) {
		favorites, err := s.repo.FetchFavorites(ctx)
		if err != nil {
			return nil, err
		}
		// Seed the per-product flags while we have authoritative truth.
		for _, f := range favorites {
			s.store.Set(FlagKey(f.ProductID), true)
		}
		return favorites, nil
	})
}

func (s *service) IsFavorite(ctx context.Context, productID int64) (bool, error) {
	if productID <= 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidProductID, productID)
	}

	if v, ok := s.store.Fresh(FlagKey(productID)); ok {
		return v.(bool), nil
	}

	favorites, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, f := range favorites {
		if f.ProductID == productID {
			return true, nil
		}
	}
	s.store.Set(FlagKey(productID), false)
	return false, nil
}

func (s *service) Toggle(ctx context.Context, productID int64) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Toggle"),
		zap.Int64("product_id", productID),
	)

	if productID <= 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidProductID, productID)
	}

	// 1. Establish the baseline. The last-known cached value is the right
	// one to flip: it already includes earlier optimistic toggles still in
	// flight. Only a cold cache goes to the server first.
	var before bool
	if v, ok := s.store.Get(FlagKey(productID)); ok {
		if b, isBool := v.(bool); isBool {
			before = b
		}
	} else {
		var err error
		before, err = s.IsFavorite(ctx, productID)
		if err != nil {
			return false, err
		}
	}

	// 2. Optimistic flip: subscribers see the new state immediately. The
	// token is generation-tagged so a rollback cannot clobber a newer
	// toggle that lands while our remote call is in flight.
	next := !before
	tok := s.store.OptimisticUpdate(FlagKey(productID), func(old any, ok bool) any {
		if b, isBool := old.(bool); ok && isBool {
			return !b
		}
		return next
	})

	// 3. Remote mutation.
	var err error
	if next {
		err = s.repo.AddFavorite(ctx, productID)
	} else {
		err = s.repo.RemoveFavorite(ctx, productID)
	}

	// 4. Failure: restore the step-1 snapshot exactly. A blind re-flip
	// would mishandle out-of-order concurrent toggles.
	if err != nil {
		restored := s.store.Restore(tok)
		log.Warn("favorite toggle failed",
			zap.Bool("rolled_back", restored),
			zap.Error(err),
		)
		return before, err
	}

	// 5. Success: the optimistic value was provisional; pull authoritative
	// state on the next read.
	_ = s.store.Invalidate(ListKey)
	log.Debug("favorite toggled", zap.Bool("favorited", next))
	return next, nil
}
