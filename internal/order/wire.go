package order

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"orderdesk/internal/config"
	"orderdesk/internal/order/controller"
	orderrepo "orderdesk/internal/order/repository"
	"orderdesk/internal/order/service"
	"orderdesk/internal/order/usecase"
	"orderdesk/internal/order/validator"
)

type Module struct {
	Controller *controller.OrderController
	Lifecycle  *service.LifecycleService
}

// Deps are the optional collaborators of the order module; nil fields fall
// back to no-ops.
type Deps struct {
	Catalog   usecase.Catalog
	Notifier  service.StaffNotifier
	Publisher service.EventPublisher
	Recorder  service.TransitionRecorder
}

// NewRepository picks the order store configured by ORDER_STORE. db is only
// used by the mysql store.
func NewRepository(cfg config.OrderConfig, db *sql.DB) (service.OrderRepository, error) {
	opts := orderrepo.StoreOptions{
		TTL:           cfg.TTL,
		IDLength:      cfg.IDLength,
		MaxIDAttempts: cfg.MaxIDAttempts,
	}

	switch cfg.Store {
	case config.StoreFile, "":
		return orderrepo.NewFileOrderRepository(cfg.Dir, opts)
	case config.StoreMySQL:
		if db == nil {
			return nil, fmt.Errorf("order store %q needs a database connection", cfg.Store)
		}
		return orderrepo.NewMySQLOrderRepository(db, opts), nil
	}

	return nil, fmt.Errorf("unknown order store %q", cfg.Store)
}

func NewModule(repo service.OrderRepository, cfg *config.Config, deps Deps, logger *zap.Logger) *Module {
	lifecycle := service.NewLifecycleService(repo, deps.Notifier, deps.Publisher, deps.Recorder, logger)

	var catalog usecase.Catalog
	if cfg.Catalog.Enabled {
		catalog = deps.Catalog
	}

	intake := usecase.NewIntakeUseCase(validator.New(), lifecycle, catalog, cfg.Catalog.EnforcePrices, logger)

	return &Module{
		Controller: controller.NewOrderController(intake, logger),
		Lifecycle:  lifecycle,
	}
}
