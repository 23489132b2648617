package httpapi

import (
	"context"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type CatalogService interface {
	ListProducts(ctx context.Context, f models.ProductFilter) (*models.ProductList, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	GetProductByASIN(ctx context.Context, asin string) (*models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	RequestImageUpload(ctx context.Context, productID int64, contentType string, primary bool) (*models.ImageUpload, error)
}

type CartService interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, sessionID string, itemID int64, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, itemID int64) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) (string, error)
}

type OrderService interface {
	Checkout(ctx context.Context, userID int64, sessionID string, shipping models.ShippingDetails) (*models.Order, error)
	BuyNow(ctx context.Context, userID, productID int64, quantity int, shipping models.ShippingDetails) (*models.Order, error)
	Get(ctx context.Context, number string) (*models.Order, error)
	ListMine(ctx context.Context, userID int64) ([]models.Order, error)
}

type WishlistService interface {
	Add(ctx context.Context, userID, productID int64) (int64, bool, error)
	Remove(ctx context.Context, userID, productID int64) error
	Contains(ctx context.Context, userID, productID int64) (bool, error)
	ProductIDs(ctx context.Context, userID int64) ([]int64, error)
	List(ctx context.Context, userID int64) ([]models.WishlistItem, error)
}

// Services groups what the handlers call.
type Services struct {
	Users    UserService
	Catalog  CatalogService
	Carts    CartService
	Orders   OrderService
	Wishlist WishlistService
}
