package product

import (
	"database/sql"

	"go.uber.org/zap"

	"orderdesk/internal/product/repository"
)

// Module bundles the catalog pieces other modules depend on.
type Module struct {
	Controller *Controller
	Service    Service
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := NewService(repo)
	uc := NewSearchUseCase(svc)
	return &Module{
		Controller: NewController(uc, logger),
		Service:    svc,
	}
}
