package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS Orders (
	id VARCHAR(12) NOT NULL PRIMARY KEY,
	status VARCHAR(32) NOT NULL,
	payload JSON NOT NULL,
	version INT UNSIGNED NOT NULL DEFAULT 1,
	createdAt DATETIME(6) NOT NULL,
	updatedAt DATETIME(6) NOT NULL,
	INDEX idx_updated (updatedAt)
)`

const createProductTable = `
CREATE TABLE IF NOT EXISTS Product (
	id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	categoryId INT NOT NULL DEFAULT 0,
	name VARCHAR(255) NOT NULL,
	slug VARCHAR(255) NOT NULL DEFAULT '',
	sku VARCHAR(50) NOT NULL,
	price DECIMAL(10,2),
	isAvailable TINYINT(1) NOT NULL DEFAULT 1,
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE INDEX idx_sku (sku)
)`

// EnsureSchema creates the Orders and Product tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tables := []struct {
		name  string
		query string
	}{
		{"Orders", createOrdersTable},
		{"Product", createProductTable},
	}

	for _, tbl := range tables {
		if _, err := db.ExecContext(ctx, tbl.query); err != nil {
			return fmt.Errorf("creating table %s: %w", tbl.name, err)
		}
	}

	return nil
}
