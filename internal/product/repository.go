package product

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"snackhub/internal/remote"
)

type CreateParams struct {
	CategoryID int    `json:"categoryId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	ImageURL   string `json:"imageUrl"`
	LinkURL    string `json:"linkUrl"`
}

type Repository interface {
	FetchProducts(ctx context.Context, categoryID int) ([]*Product, error)
	FetchProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, params CreateParams) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, params CreateParams) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type remoteRepository struct {
	api *remote.Client
}

func NewRepository(api *remote.Client) Repository {
	return &remoteRepository{api: api}
}

type productDTO struct {
	ID         int64      `json:"id"`
	CategoryID int        `json:"categoryId"`
	CreatorID  int64      `json:"creatorId"`
	Name       string     `json:"name"`
	Price      int64      `json:"price"`
	ImageURL   string     `json:"imageUrl"`
	LinkURL    string     `json:"linkUrl"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"deletedAt"`
}

func toProduct(dto productDTO) *Product {
	return &Product{
		ID:         dto.ID,
		CategoryID: dto.CategoryID,
		CreatorID:  dto.CreatorID,
		Name:       dto.Name,
		Price:      dto.Price,
		ImageURL:   dto.ImageURL,
		LinkURL:    dto.LinkURL,
		CreatedAt:  dto.CreatedAt,
		UpdatedAt:  dto.UpdatedAt,
		DeletedAt:  dto.DeletedAt,
	}
}

func (r *remoteRepository) FetchProducts(ctx context.Context, categoryID int) ([]*Product, error) {
	var query url.Values
	if categoryID != 0 {
		query = url.Values{"categoryId": []string{strconv.Itoa(categoryID)}}
	}

	var dtos []productDTO
	if err := r.api.Get(ctx, "/products", query, &dtos); err != nil {
		return nil, err
	}

	products := make([]*Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, toProduct(dto))
	}
	return products, nil
}

func (r *remoteRepository) FetchProduct(ctx context.Context, id int64) (*Product, error) {
	var dto productDTO
	if err := r.api.Get(ctx, fmt.Sprintf("/products/%d", id), nil, &dto); err != nil {
		return nil, err
	}
	return toProduct(dto), nil
}

func (r *remoteRepository) CreateProduct(ctx context.Context, params CreateParams) (*Product, error) {
	var dto productDTO
	if err := r.api.Post(ctx, "/products", params, &dto); err != nil {
		return nil, err
	}
	return toProduct(dto), nil
}

func (r *remoteRepository) UpdateProduct(ctx context.Context, id int64, params CreateParams) (*Product, error) {
	var dto productDTO
	if err := r.api.Patch(ctx, fmt.Sprintf("/products/%d", id), params, &dto); err != nil {
		return nil, err
	}
	return toProduct(dto), nil
}

func (r *remoteRepository) DeleteProduct(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("/products/%d", id))
}
