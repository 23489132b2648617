package wishlist

import (
	"context"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

type Repository interface {
	// Find returns the id of the user's entry for productID, or
	// common.ErrorNotFound.
	Find(ctx context.Context, userID, productID int64) (int64, error)
	Add(ctx context.Context, userID, productID int64) (int64, error)
	Remove(ctx context.Context, userID, productID int64) error
	ProductIDs(ctx context.Context, userID int64) ([]int64, error)
	List(ctx context.Context, userID int64) ([]models.WishlistItem, error)
}
