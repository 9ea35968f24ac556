package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"snackhub/internal/cache"
	"snackhub/internal/category"
	"snackhub/internal/logger"
	"snackhub/internal/remote"

	"go.uber.org/zap"
)

type Service interface {
	// List returns the catalog, optionally filtered by category id (0 for
	// all). Soft-deleted products never appear.
	List(ctx context.Context, categoryID int) ([]*Product, error)
	Detail(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, params CreateParams) (*Product, error)
	Update(ctx context.Context, id int64, params CreateParams) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo  Repository
	store *cache.Store
}

func NewService(repo Repository, store *cache.Store) Service {
	return &service{repo: repo, store: store}
}

func (s *service) List(ctx context.Context, categoryID int) ([]*Product, error) {
	if categoryID != 0 {
		if _, ok := category.ResolvePath(categoryID); !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, categoryID)
		}
	}

	products, err := cache.Lookup(ctx, s.store, ListKey(categoryID), func(ctx context.Context) ([]*Product, error) {
		return s.repo.FetchProducts(ctx, categoryID)
	})
	if err != nil {
		return nil, err
	}

	live := make([]*Product, 0, len(products))
	for _, p := range products {
		if !p.Deleted() {
			live = append(live, p)
		}
	}
	return live, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidProductID, id)
	}

	p, err := cache.Lookup(ctx, s.store, DetailKey(id), func(ctx context.Context) (*Product, error) {
		p, err := s.repo.FetchProduct(ctx, id)
		if errors.Is(err, remote.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		return p, err
	})
	if err != nil {
		return nil, err
	}
	if p.Deleted() {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.String("name", params.Name),
	)

	if err := validateParams(params); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateProduct(ctx, params)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Int64("product_id", created.ID))

	s.store.Set(DetailKey(created.ID), created)
	_ = s.store.Invalidate(cache.NewKey("product", "list"))
	return created, nil
}

func (s *service) Update(ctx context.Context, id int64, params CreateParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.Int64("product_id", id),
	)

	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidProductID, id)
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, id, params)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	log.Info("product updated")

	s.store.Set(DetailKey(id), updated)
	_ = s.store.Invalidate(cache.NewKey("product", "list"))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidProductID, id)
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	// Soft delete on the server; drop our copy and refetch listings.
	s.store.Remove(DetailKey(id))
	_ = s.store.Invalidate(cache.NewKey("product", "list"))
	return nil
}

func validateParams(params CreateParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return ErrNameRequired
	}
	if params.Price <= 0 {
		return ErrInvalidPrice
	}
	if _, ok := category.ResolvePath(params.CategoryID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, params.CategoryID)
	}
	return nil
}
