package carts

import (
	"context"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

// Repository stores guest carts keyed by session id. Returned carts carry
// no items; Items loads them.
type Repository interface {
	GetOrCreate(ctx context.Context, sessionID string) (*models.Cart, error)
	FindBySession(ctx context.Context, sessionID string) (*models.Cart, error)
	Items(ctx context.Context, cartID int64) ([]models.CartItem, error)
	AddItem(ctx context.Context, cartID, productID int64, quantity int) error
	SetQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
}
