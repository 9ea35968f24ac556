package favorite

import (
	"context"
	"fmt"

	"snackhub/internal/remote"
)

type Repository interface {
	FetchFavorites(ctx context.Context) ([]Favorite, error)
	AddFavorite(ctx context.Context, productID int64) error
	RemoveFavorite(ctx context.Context, productID int64) error
}

type remoteRepository struct {
	api *remote.Client
}

func NewRepository(api *remote.Client) Repository {
	return &remoteRepository{api: api}
}

type favoriteDTO struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
}

func (r *remoteRepository) FetchFavorites(ctx context.Context) ([]Favorite, error) {
	var dtos []favoriteDTO
	if err := r.api.Get(ctx, "/favorites", nil, &dtos); err != nil {
		return nil, err
	}

	favorites := make([]Favorite, 0, len(dtos))
	for _, dto := range dtos {
		favorites = append(favorites, Favorite{
			ID:        dto.ID,
			UserID:    dto.UserID,
			ProductID: dto.ProductID,
		})
	}
	return favorites, nil
}

func (r *remoteRepository) AddFavorite(ctx context.Context, productID int64) error {
	return r.api.Post(ctx, fmt.Sprintf("/favorites/%d", productID), nil, nil)
}

func (r *remoteRepository) RemoveFavorite(ctx context.Context, productID int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("/favorites/%d", productID))
}
