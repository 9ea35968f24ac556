package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"snackhub/internal/cache"
	"snackhub/internal/logger"
	"snackhub/internal/remote"

	"go.uber.org/zap"
)

// Service drives the purchase-request lifecycle: PENDING is the only state
// with exits, the server is the single source of truth for racing
// transitions, and every expense-changing transition invalidates the budget
// instead of patching it locally.
type Service interface {
	List(ctx context.Context, status *Status) ([]*Order, error)
	Detail(ctx context.Context, rawID string) (*Order, error)
	Submit(ctx context.Context, req SubmitRequest) (*Order, error)
	Approve(ctx context.Context, id int64) (*Order, error)
	Reject(ctx context.Context, id int64, reason string) (*Order, error)
	Cancel(ctx context.Context, id int64) error
}

type service struct {
	repo      Repository
	store     *cache.Store
	budgetKey cache.Key
}

// NewService creates the order lifecycle service. budgetKey is the cache key
// the budget lives under; it is injected so this package stays upstream of
// the budget package.
func NewService(repo Repository, store *cache.Store, budgetKey cache.Key) Service {
	return &service{repo: repo, store: store, budgetKey: budgetKey}
}

func (s *service) List(ctx context.Context, status *Status) ([]*Order, error) {
	return cache.Lookup(ctx, s.store, ListKey(status), func(ctx context.Context) ([]*Order, error) {
		return s.repo.FetchOrders(ctx, status)
	})
}

// Detail fetches one order. A malformed id is rejected locally and no
// request is issued.
func (s *service) Detail(ctx context.Context, rawID string) (*Order, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	return cache.Lookup(ctx, s.store, DetailKey(id), func(ctx context.Context) (*Order, error) {
		o, err := s.repo.FetchOrderDetail(ctx, id)
		if errors.Is(err, remote.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
		}
		return o, err
	})
}

// Submit creates a purchase request from the given items. The response
// status may come back INSTANT_APPROVED when the server's auto-approval
// policy applies; that is the server's call, never computed here.
func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.Int("item_count", len(req.Items)),
	)

	// 1. Validate locally; invalid submissions never reach the wire.
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ProductID)
		}
	}

	// 2. Remote call.
	created, err := s.repo.SubmitOrder(ctx, req)
	if err != nil {
		log.Error("failed to submit order", zap.Error(err))
		return nil, err
	}

	log.Info("order submitted",
		zap.Int64("order_id", created.ID),
		zap.String("status", string(created.Status)),
		zap.Int64("total_price", created.TotalPrice),
	)

	// 3. Drop stale lists; an instant approval also moved the budget.
	s.store.Set(DetailKey(created.ID), created)
	_ = s.store.Invalidate(cache.NewKey("order", "list"))
	if created.Status.CountsAsExpense() {
		_ = s.store.Invalidate(s.budgetKey)
	}

	return created, nil
}

// Approve moves a PENDING order to APPROVED and the month's expense with it.
func (s *service) Approve(ctx context.Context, id int64) (*Order, error) {
	return s.resolve(ctx, id, StatusApproved, "")
}

// Reject moves a PENDING order to REJECTED. The reason becomes the order's
// admin message; expense is untouched.
func (s *service) Reject(ctx context.Context, id int64, reason string) (*Order, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	return s.resolve(ctx, id, StatusRejected, reason)
}

// Cancel withdraws the caller's own PENDING order. The backend enforces
// ownership through the session; a stranger's attempt maps to the session
// error taxonomy.
func (s *service) Cancel(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.Int64("order_id", id),
	)

	if err := s.precheck(id, StatusCanceled); err != nil {
		return err
	}

	tok, patched := s.patchStatus(id, StatusCanceled, "")

	if err := s.repo.CancelOrder(ctx, id); err != nil {
		if patched {
			s.store.Restore(tok)
		}
		if errors.Is(err, remote.ErrConflict) {
			log.Warn("cancel lost to a concurrent transition", zap.Error(err))
			_ = s.store.Invalidate(KeyPrefix)
		} else {
			log.Error("failed to cancel order", zap.Error(err))
		}
		return err
	}

	log.Info("order canceled")

	// No budget invalidation: a PENDING order was never counted as expense.
	_ = s.store.Invalidate(KeyPrefix)
	return nil
}

// resolve performs an admin transition out of PENDING.
func (s *service) resolve(ctx context.Context, id int64, target Status, adminMessage string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "resolve"),
		zap.Int64("order_id", id),
		zap.String("target", string(target)),
	)

	// 1. Terminal pre-check. Terminal states never change, so a cached
	// terminal status is safe to trust without a wire call; a cached
	// PENDING (or nothing cached) defers to the server.
	if err := s.precheck(id, target); err != nil {
		return nil, err
	}

	// 2. Optimistic patch so the actor sees the transition immediately.
	tok, patched := s.patchStatus(id, target, adminMessage)

	// 3. Remote call. The server decides races; a losing transition is
	// rolled back and surfaced, never retried.
	updated, err := s.repo.UpdateStatus(ctx, id, target, adminMessage)
	if err != nil {
		if patched {
			s.store.Restore(tok)
		}
		if errors.Is(err, remote.ErrConflict) {
			log.Warn("transition lost to a concurrent resolution", zap.Error(err))
			_ = s.store.Invalidate(KeyPrefix)
		} else {
			log.Error("failed to update order status", zap.Error(err))
		}
		return nil, err
	}

	log.Info("order resolved", zap.String("status", string(updated.Status)))

	// 4. Authoritative copy in, derived caches out. The budget is
	// invalidated rather than patched: concurrent orders this client never
	// saw may have moved the total too.
	s.store.Set(DetailKey(id), updated)
	_ = s.store.Invalidate(cache.NewKey("order", "list"))
	if updated.Status.CountsAsExpense() {
		_ = s.store.Invalidate(s.budgetKey)
	}

	return updated, nil
}

func (s *service) precheck(id int64, target Status) error {
	v, ok := s.store.Get(DetailKey(id))
	if !ok {
		return nil
	}
	cached, ok := v.(*Order)
	if !ok || cached == nil {
		return nil
	}
	if !CanTransition(cached.Status, target) {
		return &remote.Error{
			Kind:    remote.ErrConflict,
			Message: fmt.Sprintf("order %d is already %s", id, cached.Status),
		}
	}
	return nil
}

func (s *service) patchStatus(id int64, target Status, adminMessage string) (cache.Token, bool) {
	key := DetailKey(id)

	v, ok := s.store.Get(key)
	if !ok {
		return cache.Token{}, false
	}
	cached, ok := v.(*Order)
	if !ok || cached == nil {
		return cache.Token{}, false
	}

	tok := s.store.OptimisticUpdate(key, func(any, bool) any {
		next := *cached
		next.Status = target
		if adminMessage != "" {
			next.AdminMessage = adminMessage
		}
		return &next
	})
	return tok, true
}
