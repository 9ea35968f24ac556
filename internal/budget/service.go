package budget

import (
	"context"

	"snackhub/internal/cache"
	"snackhub/internal/logger"
	"snackhub/internal/order"

	"go.uber.org/zap"
)

type Service interface {
	Current(ctx context.Context) (Budget, error)
	// Headroom resolves the current budget and the PENDING orders, then
	// computes available headroom fresh from both.
	Headroom(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	orderSvc order.Service
	store    *cache.Store
}

func NewService(repo Repository, orderSvc order.Service, store *cache.Store) Service {
	return &service{repo: repo, orderSvc: orderSvc, store: store}
}

func (s *service) Current(ctx context.Context) (Budget, error) {
	return cache.Lookup(ctx, s.store, Key, func(ctx context.Context) (Budget, error) {
		b, err := s.repo.FetchBudget(ctx)
		if err != nil {
			logger.FromCtx(ctx).Error("failed to fetch budget",
				zap.String("layer", "service"),
				zap.Error(err),
			)
			return Budget{}, err
		}
		return b, nil
	})
}

func (s *service) Headroom(ctx context.Context) (int64, error) {
	b, err := s.Current(ctx)
	if err != nil {
		return 0, err
	}

	pending := order.StatusPending
	pendingOrders, err := s.orderSvc.List(ctx, &pending)
	if err != nil {
		return 0, err
	}

	return Headroom(b, pendingOrders), nil
}
