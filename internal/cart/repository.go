package cart

import (
	"context"
	"fmt"

	"snackhub/internal/remote"
)

type Repository interface {
	FetchCart(ctx context.Context) ([]*Item, error)
	AddItem(ctx context.Context, productID int64, quantity int) (*Item, error)
	UpdateItem(ctx context.Context, itemID int64, quantity int, isChecked bool) (*Item, error)
	RemoveItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context) error
}

type remoteRepository struct {
	api *remote.Client
}

func NewRepository(api *remote.Client) Repository {
	return &remoteRepository{api: api}
}

type itemDTO struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	IsChecked bool  `json:"isChecked"`
}

func toItem(dto itemDTO) *Item {
	return &Item{
		ID:        dto.ID,
		UserID:    dto.UserID,
		ProductID: dto.ProductID,
		Quantity:  dto.Quantity,
		IsChecked: dto.IsChecked,
	}
}

type addBody struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateBody struct {
	Quantity  int  `json:"quantity"`
	IsChecked bool `json:"isChecked"`
}

func (r *remoteRepository) FetchCart(ctx context.Context) ([]*Item, error) {
	var dtos []itemDTO
	if err := r.api.Get(ctx, "/cart", nil, &dtos); err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, toItem(dto))
	}
	return items, nil
}

func (r *remoteRepository) AddItem(ctx context.Context, productID int64, quantity int) (*Item, error) {
	var dto itemDTO
	if err := r.api.Post(ctx, "/cart", addBody{ProductID: productID, Quantity: quantity}, &dto); err != nil {
		return nil, err
	}
	return toItem(dto), nil
}

func (r *remoteRepository) UpdateItem(ctx context.Context, itemID int64, quantity int, isChecked bool) (*Item, error) {
	var dto itemDTO
	body := updateBody{Quantity: quantity, IsChecked: isChecked}
	if err := r.api.Patch(ctx, fmt.Sprintf("/cart/%d", itemID), body, &dto); err != nil {
		return nil, err
	}
	return toItem(dto), nil
}

func (r *remoteRepository) RemoveItem(ctx context.Context, itemID int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("/cart/%d", itemID))
}

func (r *remoteRepository) ClearCart(ctx context.Context) error {
	return r.api.Delete(ctx, "/cart")
}
