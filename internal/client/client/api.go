package client

import (
	"context"

	"github.com/dmitrijs2005/vamazon/internal/client/models"
)

// TokenSource yields the current bearer token, ok is false when logged out.
type TokenSource interface {
	Get(ctx context.Context) (string, bool)
}

type AuthAPI interface {
	Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	Check(ctx context.Context) (*models.User, error)
}

type CartAPI interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	AddCartItem(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, sessionID string, itemID int64, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, sessionID string, itemID int64) (*models.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type WishlistAPI interface {
	WishlistIDs(ctx context.Context) ([]int64, error)
	AddToWishlist(ctx context.Context, productID int64) error
	RemoveFromWishlist(ctx context.Context, productID int64) error
	InWishlist(ctx context.Context, productID int64) (bool, error)
	Wishlist(ctx context.Context) ([]models.WishlistItem, error)
}

type CatalogAPI interface {
	Products(ctx context.Context, f models.ProductFilter) (*models.ProductList, error)
	Product(ctx context.Context, id int64) (*models.Product, error)
	ProductByASIN(ctx context.Context, asin string) (*models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Category(ctx context.Context, slug string) (*models.Category, error)
	RequestImageUpload(ctx context.Context, productID int64, contentType string, primary bool) (*models.ImageUpload, error)
}

type OrdersAPI interface {
	CreateOrder(ctx context.Context, req models.CheckoutRequest) (*models.Order, error)
	BuyNow(ctx context.Context, req models.BuyNowRequest) (*models.Order, error)
	Orders(ctx context.Context) ([]models.Order, error)
	Order(ctx context.Context, number string) (*models.Order, error)
}

// API is the whole storefront surface.
type API interface {
	AuthAPI
	CartAPI
	WishlistAPI
	CatalogAPI
	OrdersAPI
}
