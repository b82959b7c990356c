package product

import (
	"context"
)

type searchUseCase struct {
	service Service
}

func NewSearchUseCase(service Service) SearchUseCase {
	return &searchUseCase{service: service}
}

func (uc *searchUseCase) SearchProducts(ctx context.Context, req SearchProductsRequest) (*SearchProductsResponse, error) {
	found, notFoundSKUs, err := uc.service.GetProductsBySKUs(ctx, req.SKUs)
	if err != nil {
		return nil, err
	}

	products := make([]ProductDTO, 0, len(found))
	for _, p := range found {
		products = append(products, ProductDTO{
			ID:          p.ID,
			CategoryID:  p.CategoryID,
			Name:        p.Name,
			Slug:        p.Slug,
			SKU:         p.SKU,
			Price:       p.Price,
			IsAvailable: p.IsAvailable,
		})
	}

	if notFoundSKUs == nil {
		notFoundSKUs = []string{}
	}

	return &SearchProductsResponse{
		Products: products,
		NotFound: notFoundSKUs,
	}, nil
}
