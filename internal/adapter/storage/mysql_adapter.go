package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// MySQLStore is the hosted-backend persistence adapter. The DSN must
// carry parseTime=true so created_at scans into time.Time.
type MySQLStore struct {
	sqlStore
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{sqlStore{db: db}}
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price BIGINT NOT NULL,
		category VARCHAR(64) NOT NULL,
		description TEXT,
		image VARCHAR(512),
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		rating DOUBLE NOT NULL DEFAULT 0,
		reviews INT NOT NULL DEFAULT 0,
		in_stock BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		total BIGINT NOT NULL,
		status VARCHAR(16) NOT NULL,
		payment_method VARCHAR(16) NOT NULL,
		address TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		INDEX idx_orders_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		product_image VARCHAR(512),
		price BIGINT NOT NULL,
		quantity INT NOT NULL,
		INDEX idx_items_order (order_id)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		role VARCHAR(32) NOT NULL,
		UNIQUE KEY uq_user_role (user_id, role)
	)`,
}

// EnsureSchema creates the storefront tables if they are missing.
func (m *MySQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range mysqlSchema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
