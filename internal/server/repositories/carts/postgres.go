package carts

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrCreate returns the session's cart, creating an empty one on first
// use.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, sessionID string) (*models.Cart, error) {
	query :=
		`INSERT INTO carts (session_id) VALUES ($1)
		 ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		 RETURNING id
		 `

	cart := &models.Cart{SessionID: sessionID, Items: []models.CartItem{}}
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&cart.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cart, nil
}

func (r *PostgresRepository) FindBySession(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart := &models.Cart{SessionID: sessionID, Items: []models.CartItem{}}
	err := r.db.QueryRowContext(ctx, `SELECT id FROM carts WHERE session_id = $1`, sessionID).Scan(&cart.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cart, nil
}

// Items lists the cart's lines with their products, oldest first.
func (r *PostgresRepository) Items(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	query := `SELECT ci.id, ci.product_id, ci.quantity, ` + products.Columns + `
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var it models.CartItem
		p, err := products.ScanProduct(rows, &it.ID, &it.ProductID, &it.Quantity)
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

// AddItem adds quantity of a product; an existing line is merged.
func (r *PostgresRepository) AddItem(ctx context.Context, cartID, productID int64, quantity int) error {
	query :=
		`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		 `

	if _, err := r.db.ExecContext(ctx, query, cartID, productID, quantity); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	return r.execOne(ctx, `UPDATE cart_items SET quantity = $3 WHERE id = $2 AND cart_id = $1`, cartID, itemID, quantity)
}

func (r *PostgresRepository) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	return r.execOne(ctx, `DELETE FROM cart_items WHERE id = $2 AND cart_id = $1`, cartID, itemID)
}

func (r *PostgresRepository) Clear(ctx context.Context, cartID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// execOne runs a statement that must touch a row of the cart, mapping zero
// affected rows to common.ErrorNotFound.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
