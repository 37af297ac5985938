package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/woodhaven/storefront/internal/core/domain"
)

// sqlStore implements port.Store over database/sql with SQL portable
// between the MySQL and SQLite backends. The backend adapters embed it
// and add connection setup and schema bootstrap.
type sqlStore struct {
	db *sql.DB
}

func (s *sqlStore) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, price, category, description, image, featured, rating, reviews, in_stock)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, int64(p.Price), p.Category, p.Description, p.Image, p.Featured, p.Rating, p.Reviews, p.InStock,
	)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("product id: %w", err)
	}
	return id, nil
}

func (s *sqlStore) UpdateProduct(ctx context.Context, p domain.Product) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, price = ?, category = ?, description = ?, image = ?, featured = ?, rating = ?, reviews = ?, in_stock = ?
		WHERE id = ?`,
		p.Name, int64(p.Price), p.Category, p.Description, p.Image, p.Featured, p.Rating, p.Reviews, p.InStock, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (s *sqlStore) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (s *sqlStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, price, category, description, image, featured, rating, reviews, in_stock
		FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (s *sqlStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, category, description, image, featured, rating, reviews, in_stock
		FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var price int64
	err := row.Scan(&p.ID, &p.Name, &price, &p.Category, &p.Description, &p.Image, &p.Featured, &p.Rating, &p.Reviews, &p.InStock)
	if err != nil {
		return nil, err
	}
	p.Price = domain.Amount(price)
	return &p, nil
}

// CreateOrder inserts the order header only. Line items follow through
// AddOrderItems; there is deliberately no wrapping transaction, so an
// item-insert failure leaves the header behind.
func (s *sqlStore) CreateOrder(ctx context.Context, o domain.Order) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (user_id, total, status, payment_method, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.UserID, int64(o.Total), string(o.Status), string(o.PaymentMethod), o.Address, o.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order id: %w", err)
	}
	return id, nil
}

func (s *sqlStore) AddOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	for _, it := range items {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_image, price, quantity)
			VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, it.ProductID, it.ProductName, it.ProductImage, int64(it.Price), it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (s *sqlStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, total, status, payment_method, address, created_at
		FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	if err := s.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *sqlStore) ListOrdersByOwner(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.listOrders(ctx, `
		SELECT id, user_id, total, status, payment_method, address, created_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (s *sqlStore) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.listOrders(ctx, `
		SELECT id, user_id, total, status, payment_method, address, created_at
		FROM orders ORDER BY created_at DESC, id DESC`)
}

func (s *sqlStore) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var total int64
	var status, method string
	err := row.Scan(&o.ID, &o.UserID, &total, &status, &method, &o.Address, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Total = domain.Amount(total)
	o.Status = domain.OrderStatus(status)
	o.PaymentMethod = domain.PaymentMethod(method)
	return &o, nil
}

func (s *sqlStore) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, product_image, price, quantity
		FROM order_items WHERE order_id = ?`, o.ID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		var price int64
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.ProductName, &it.ProductImage, &price, &it.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		it.Price = domain.Amount(price)
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (s *sqlStore) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, string(status), id); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (s *sqlStore) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, email) VALUES (?, ?, ?)`,
		p.UserID, p.Name, p.Email,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *sqlStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, name, email FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Name, &p.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return &p, nil
}

func (s *sqlStore) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, name, email FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.UserID, &p.Name, &p.Email); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *sqlStore) DeleteProfile(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete roles: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (s *sqlStore) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_roles WHERE user_id = ? AND role = ?`, userID, role,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query role: %w", err)
	}
	return n > 0, nil
}

func (s *sqlStore) GrantRole(ctx context.Context, userID, role string) error {
	has, err := s.HasRole(ctx, userID, role)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO user_roles (user_id, role) VALUES (?, ?)`, userID, role); err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (s *sqlStore) RevokeRole(ctx context.Context, userID, role string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ? AND role = ?`, userID, role); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}
