package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"orderdesk/internal/domain"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindBySKUs(ctx context.Context, skus []string) ([]domain.Product, error) {
	if len(skus) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(skus))
	args := make([]interface{}, len(skus))
	for i, sku := range skus {
		placeholders[i] = "?"
		args[i] = sku
	}

	query := fmt.Sprintf(`
		SELECT id, categoryId, name, slug, sku, price, isAvailable, createdAt, updatedAt
		FROM Product
		WHERE sku IN (%s)
		ORDER BY id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.SKU, &p.Price,
			&p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}
