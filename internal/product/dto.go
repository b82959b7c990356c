package product

import "github.com/shopspring/decimal"

type SearchProductsRequest struct {
	SKUs []string `json:"skus"`
}

type SearchProductsResponse struct {
	Products []ProductDTO `json:"products"`
	NotFound []string     `json:"notFound"`
}

type ProductDTO struct {
	ID          int                 `json:"id"`
	CategoryID  int                 `json:"categoryId"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	SKU         string              `json:"sku"`
	Price       decimal.NullDecimal `json:"price"`
	IsAvailable bool                `json:"isAvailable"`
}
