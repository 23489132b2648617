package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/dbx"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/products"
)

const orderColumns = `id, order_number, user_id, customer_name, email, phone, address_line1, address_line2,
		city, state, pincode, total_amount::float8, status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order and its items. Run it inside a transaction.
func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	query :=
		`INSERT INTO orders (order_number, user_id, customer_name, email, phone, address_line1, address_line2,
		 city, state, pincode, total_amount, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at
		 `

	s := order.ShippingDetails
	err := r.db.QueryRowContext(ctx, query,
		order.OrderNumber, order.UserID, s.CustomerName, s.Email, s.Phone, s.AddressLine1, s.AddressLine2,
		s.City, s.State, s.Pincode, order.TotalAmount, order.Status).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	itemQuery :=
		`INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `
	for i := range order.Items {
		it := &order.Items[i]
		it.OrderID = order.ID
		if err := r.db.QueryRowContext(ctx, itemQuery, order.ID, it.ProductID, it.Quantity, it.PriceAtPurchase).Scan(&it.ID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return order, nil
}

func (r *PostgresRepository) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first, with their items.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	rows.Close()

	for i := range out {
		if out[i].Items, err = r.items(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresRepository) items(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	query := `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase::float8, ` + products.Columns + `
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		p, err := products.ScanProduct(rows, &it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		it.Product = p
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*models.Order, error) {
	o := &models.Order{}
	s := &o.ShippingDetails
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &s.CustomerName, &s.Email, &s.Phone,
		&s.AddressLine1, &s.AddressLine2, &s.City, &s.State, &s.Pincode, &o.TotalAmount, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = []models.OrderItem{}
	return o, nil
}
