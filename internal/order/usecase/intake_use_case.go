package usecase

import (
	"context"

	"go.uber.org/zap"

	"orderdesk/internal/domain"
)

type OrderValidator interface {
	Validate(payload any) (*domain.Order, error)
}

type OrderLifecycle interface {
	Create(ctx context.Context, draft *domain.Order) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Confirm(ctx context.Context, id string) (*domain.Order, error)
	Cancel(ctx context.Context, id string) (*domain.Order, error)
}

type Catalog interface {
	GetProductsBySKUs(ctx context.Context, skus []string) (found []domain.Product, notFoundSKUs []string, err error)
}

type IntakeUseCase struct {
	validator     OrderValidator
	lifecycle     OrderLifecycle
	catalog       Catalog
	enforcePrices bool
	logger        *zap.Logger
}

// NewIntakeUseCase wires the web intake flow. catalog may be nil, in which
// case carts are accepted as sent.
func NewIntakeUseCase(
	validator OrderValidator,
	lifecycle OrderLifecycle,
	catalog Catalog,
	enforcePrices bool,
	logger *zap.Logger,
) *IntakeUseCase {
	return &IntakeUseCase{
		validator:     validator,
		lifecycle:     lifecycle,
		catalog:       catalog,
		enforcePrices: enforcePrices,
		logger:        logger,
	}
}

func (uc *IntakeUseCase) CreateOrder(ctx context.Context, payload any) (*domain.Order, error) {
	draft, err := uc.validator.Validate(payload)
	if err != nil {
		return nil, err
	}

	if uc.catalog != nil {
		uc.checkCatalog(ctx, draft)
	}

	return uc.lifecycle.Create(ctx, draft)
}

func (uc *IntakeUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.lifecycle.Get(ctx, id)
}

func (uc *IntakeUseCase) ConfirmOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.lifecycle.Confirm(ctx, id)
}

func (uc *IntakeUseCase) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.lifecycle.Cancel(ctx, id)
}

// checkCatalog compares the cart against the catalog. Unknown SKUs and price
// mismatches are only logged unless prices are enforced, in which case known
// items take the catalog price. A catalog outage never blocks an order.
func (uc *IntakeUseCase) checkCatalog(ctx context.Context, draft *domain.Order) {
	skus := make([]string, 0, len(draft.Items))
	for _, item := range draft.Items {
		skus = append(skus, item.SKU)
	}

	found, notFound, err := uc.catalog.GetProductsBySKUs(ctx, skus)
	if err != nil {
		uc.logger.Warn("catalog lookup failed, accepting cart as sent", zap.Error(err))
		return
	}

	if len(notFound) > 0 {
		uc.logger.Warn("cart contains unknown skus", zap.Strings("skus", notFound))
	}

	bySKU := make(map[string]domain.Product, len(found))
	for _, p := range found {
		bySKU[p.SKU] = p
	}

	repriced := false
	for i, item := range draft.Items {
		product, ok := bySKU[item.SKU]
		if !ok {
			continue
		}
		if !product.IsAvailable {
			uc.logger.Warn("cart contains unavailable product", zap.String("sku", item.SKU))
		}

		price, ok := product.UnitPrice()
		if !ok || price < 0 || price == item.UnitPrice {
			continue
		}

		uc.logger.Warn("cart price differs from catalog",
			zap.String("sku", item.SKU),
			zap.Int64("cartPrice", item.UnitPrice),
			zap.Int64("catalogPrice", price),
			zap.Bool("enforced", uc.enforcePrices),
		)
		if uc.enforcePrices {
			previous := draft.Items[i].UnitPrice
			draft.Items[i].UnitPrice = price
			if _, ok := domain.CheckedTotal(draft.Items); !ok {
				uc.logger.Warn("catalog price overflows order total, keeping cart price", zap.String("sku", item.SKU))
				draft.Items[i].UnitPrice = previous
				continue
			}
			repriced = true
		}
	}

	if repriced {
		draft.RecomputeTotal()
	}
}
