package order

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"snackhub/internal/remote"
)

// SubmitRequest is the submission payload. The server computes the price
// snapshot and decides whether the auto-approval policy applies.
type SubmitRequest struct {
	RequestMessage string
	Items          []SubmitItem
}

type SubmitItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Repository is the order surface of the portal backend.
type Repository interface {
	FetchOrders(ctx context.Context, status *Status) ([]*Order, error)
	FetchOrderDetail(ctx context.Context, id int64) (*Order, error)
	SubmitOrder(ctx context.Context, req SubmitRequest) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status, adminMessage string) (*Order, error)
	CancelOrder(ctx context.Context, id int64) error
}

type remoteRepository struct {
	api *remote.Client
}

func NewRepository(api *remote.Client) Repository {
	return &remoteRepository{api: api}
}

type orderDTO struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"userId"`
	RequestMessage string            `json:"requestMessage"`
	AdminMessage   string            `json:"adminMessage"`
	TotalPrice     int64             `json:"totalPrice"`
	Status         string            `json:"status"`
	Products       []orderProductDTO `json:"products"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type orderProductDTO struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

type submitBody struct {
	RequestMessage string       `json:"requestMessage"`
	Items          []SubmitItem `json:"items"`
}

type patchBody struct {
	Status       string `json:"status"`
	AdminMessage string `json:"adminMessage,omitempty"`
}

func (r *remoteRepository) FetchOrders(ctx context.Context, status *Status) ([]*Order, error) {
	var query url.Values
	if status != nil {
		query = url.Values{"status": []string{string(*status)}}
	}

	var dtos []orderDTO
	if err := r.api.Get(ctx, "/orders", query, &dtos); err != nil {
		return nil, err
	}

	orders := make([]*Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toOrder(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *remoteRepository) FetchOrderDetail(ctx context.Context, id int64) (*Order, error) {
	var dto orderDTO
	if err := r.api.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &dto); err != nil {
		return nil, err
	}
	return toOrder(dto)
}

func (r *remoteRepository) SubmitOrder(ctx context.Context, req SubmitRequest) (*Order, error) {
	var dto orderDTO
	body := submitBody{RequestMessage: req.RequestMessage, Items: req.Items}
	if err := r.api.Post(ctx, "/orders", body, &dto); err != nil {
		return nil, err
	}
	return toOrder(dto)
}

func (r *remoteRepository) UpdateStatus(ctx context.Context, id int64, status Status, adminMessage string) (*Order, error) {
	var dto orderDTO
	body := patchBody{Status: string(status), AdminMessage: adminMessage}
	if err := r.api.Patch(ctx, fmt.Sprintf("/orders/%d", id), body, &dto); err != nil {
		return nil, err
	}
	return toOrder(dto)
}

func (r *remoteRepository) CancelOrder(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("/orders/%d", id))
}
