package order

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderdesk/internal/config"
	orderrepo "orderdesk/internal/order/repository"
)

func TestNewRepository(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "orders")

	fileRepo, err := NewRepository(config.OrderConfig{Store: config.StoreFile, Dir: dir, TTL: time.Hour}, nil)
	require.NoError(t, err)
	assert.IsType(t, &orderrepo.FileOrderRepository{}, fileRepo)

	mysqlRepo, err := NewRepository(config.OrderConfig{Store: config.StoreMySQL}, &sql.DB{})
	require.NoError(t, err)
	assert.IsType(t, &orderrepo.MySQLOrderRepository{}, mysqlRepo)

	_, err = NewRepository(config.OrderConfig{Store: config.StoreMySQL}, nil)
	assert.Error(t, err)

	_, err = NewRepository(config.OrderConfig{Store: "redis"}, nil)
	assert.ErrorContains(t, err, "unknown order store")
}

func TestNewModule(t *testing.T) {
	repo, err := NewRepository(config.OrderConfig{Dir: t.TempDir()}, nil)
	require.NoError(t, err)

	module := NewModule(repo, config.Defaults(), Deps{}, zap.NewNop())

	assert.NotNil(t, module.Controller)
	assert.NotNil(t, module.Lifecycle)
}
