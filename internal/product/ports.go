package product

import (
	"context"

	"orderdesk/internal/domain"
)

type SearchUseCase interface {
	SearchProducts(ctx context.Context, req SearchProductsRequest) (*SearchProductsResponse, error)
}

type Service interface {
	GetProductsBySKUs(ctx context.Context, skus []string) (found []domain.Product, notFoundSKUs []string, err error)
}

type Repository interface {
	FindBySKUs(ctx context.Context, skus []string) ([]domain.Product, error)
}
