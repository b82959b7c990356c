package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/testutil"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestRepository_FindBySKUs_EmptyListSkipsQuery(t *testing.T) {
	repo := NewMySQLRepository(&sql.DB{})

	products, err := repo.FindBySKUs(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, products)
}

// Integration Tests

func TestRepository_FindBySKUs_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	_, err := db.Exec(`
		INSERT INTO Product (categoryId, name, slug, sku, price, isAvailable)
		VALUES (1, 'Widget', 'widget', 'A1', 100.00, 1),
		       (1, 'Gadget', 'gadget', 'B2', 49.50, 0),
		       (2, 'Gizmo', 'gizmo', 'C3', 5.00, 1)
	`)
	require.NoError(t, err)

	products, err := repo.FindBySKUs(context.Background(), []string{"A1", "B2", "ZZ"})
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "A1", products[0].SKU)
	assert.Equal(t, "Widget", products[0].Name)
	assert.True(t, products[0].IsAvailable)
	assert.True(t, products[0].Price.Valid)
	assert.True(t, decimal.NewFromInt(100).Equal(products[0].Price.Decimal))

	assert.Equal(t, "B2", products[1].SKU)
	assert.False(t, products[1].IsAvailable)
	assert.True(t, decimal.RequireFromString("49.50").Equal(products[1].Price.Decimal))
}

func TestRepository_FindBySKUs_NullPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	_, err := db.Exec(`INSERT INTO Product (name, sku, price) VALUES ('Sample', 'S1', NULL)`)
	require.NoError(t, err)

	products, err := repo.FindBySKUs(context.Background(), []string{"S1"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.False(t, products[0].Price.Valid)

	_, ok := products[0].UnitPrice()
	assert.False(t, ok)
}
