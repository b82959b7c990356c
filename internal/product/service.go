package product

import (
	"context"
	"strings"

	"orderdesk/internal/domain"
)

type productService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &productService{repo: repo}
}

// GetProductsBySKUs looks the SKUs up in the catalog. Blank and repeated SKUs
// are ignored; notFoundSKUs keeps the caller's order.
func (s *productService) GetProductsBySKUs(ctx context.Context, skus []string) ([]domain.Product, []string, error) {
	unique := make([]string, 0, len(skus))
	seen := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		sku = strings.TrimSpace(sku)
		if sku == "" {
			continue
		}
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		unique = append(unique, sku)
	}

	if len(unique) == 0 {
		return nil, nil, nil
	}

	found, err := s.repo.FindBySKUs(ctx, unique)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[string]struct{}, len(found))
	for _, p := range found {
		foundSet[p.SKU] = struct{}{}
	}

	var notFoundSKUs []string
	for _, sku := range unique {
		if _, ok := foundSet[sku]; !ok {
			notFoundSKUs = append(notFoundSKUs, sku)
		}
	}

	return found, notFoundSKUs, nil
}
