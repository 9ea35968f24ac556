package budget

import (
	"context"

	"snackhub/internal/remote"
)

type Repository interface {
	FetchBudget(ctx context.Context) (Budget, error)
}

type remoteRepository struct {
	api *remote.Client
}

func NewRepository(api *remote.Client) Repository {
	return &remoteRepository{api: api}
}

type budgetDTO struct {
	CurrentMonthBudget  int64 `json:"currentMonthBudget"`
	CurrentMonthExpense int64 `json:"currentMonthExpense"`
}

func (r *remoteRepository) FetchBudget(ctx context.Context) (Budget, error) {
	var dto budgetDTO
	if err := r.api.Get(ctx, "/budgets", nil, &dto); err != nil {
		return Budget{}, err
	}
	return Budget{
		CurrentMonthBudget:  dto.CurrentMonthBudget,
		CurrentMonthExpense: dto.CurrentMonthExpense,
	}, nil
}
