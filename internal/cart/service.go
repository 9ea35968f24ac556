package cart

import (
	"context"
	"fmt"

	"snackhub/internal/cache"
	"snackhub/internal/logger"
	"snackhub/internal/order"

	"go.uber.org/zap"
)

// Service manages the user's pending selections and turns the checked ones
// into a purchase request.
type Service interface {
	Items(ctx context.Context) ([]*Item, error)
	Add(ctx context.Context, productID int64, quantity int) (*Item, error)
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) error
	SetChecked(ctx context.Context, itemID int64, checked bool) error
	Remove(ctx context.Context, itemID int64) error
	Clear(ctx context.Context) error
	// Submit sends the checked items off as a purchase request and clears
	// them from the cart.
	Submit(ctx context.Context, requestMessage string) (*order.Order, error)
}

type service struct {
	repo     Repository
	orderSvc order.Service
	store    *cache.Store
}

func NewService(repo Repository, orderSvc order.Service, store *cache.Store) Service {
	return &service{repo: repo, orderSvc: orderSvc, store: store}
}

func (s *service) Items(ctx context.Context) ([]*Item, error) {
	return cache.Lookup(ctx, s.store, Key, func(ctx context.Context) ([]*Item, error) {
		return s.repo.FetchCart(ctx)
	})
}

func (s *service) Add(ctx context.Context, productID int64, quantity int) (*Item, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidProductID, productID)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	// The backend merges quantities when the product is already carted.
	item, err := s.repo.AddItem(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}

	_ = s.store.Invalidate(Key)
	return item, nil
}

func (s *service) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	// Zero or less means the selection is gone.
	if quantity < 1 {
		return s.Remove(ctx, itemID)
	}

	item, err := s.find(ctx, itemID)
	if err != nil {
		return err
	}

	if _, err := s.repo.UpdateItem(ctx, itemID, quantity, item.IsChecked); err != nil {
		return err
	}

	_ = s.store.Invalidate(Key)
	return nil
}

func (s *service) SetChecked(ctx context.Context, itemID int64, checked bool) error {
	item, err := s.find(ctx, itemID)
	if err != nil {
		return err
	}

	if _, err := s.repo.UpdateItem(ctx, itemID, item.Quantity, checked); err != nil {
		return err
	}

	_ = s.store.Invalidate(Key)
	return nil
}

func (s *service) Remove(ctx context.Context, itemID int64) error {
	if err := s.repo.RemoveItem(ctx, itemID); err != nil {
		return err
	}

	_ = s.store.Invalidate(Key)
	return nil
}

func (s *service) Clear(ctx context.Context) error {
	if err := s.repo.ClearCart(ctx); err != nil {
		return err
	}

	_ = s.store.Invalidate(Key)
	return nil
}

func (s *service) Submit(ctx context.Context, requestMessage string) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
	)

	// 1. Only checked items go into the request.
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	var submitItems []order.SubmitItem
	for _, item := range items {
		if item.IsChecked {
			submitItems = append(submitItems, order.SubmitItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
	}
	if len(submitItems) == 0 {
		return nil, ErrNothingChecked
	}

	// 2. The order service owns submission side effects (list and budget
	// invalidation).
	created, err := s.orderSvc.Submit(ctx, order.SubmitRequest{
		RequestMessage: requestMessage,
		Items:          submitItems,
	})
	if err != nil {
		log.Error("failed to submit cart", zap.Error(err))
		return nil, err
	}

	log.Info("cart submitted",
		zap.Int64("order_id", created.ID),
		zap.Int("item_count", len(submitItems)),
	)

	// 3. The checked selections are consumed by the submission.
	if err := s.repo.ClearCart(ctx); err != nil {
		log.Warn("failed to clear cart after submit", zap.Error(err))
	}
	_ = s.store.Invalidate(Key)

	return created, nil
}

func (s *service) find(ctx context.Context, itemID int64) (*Item, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
}
