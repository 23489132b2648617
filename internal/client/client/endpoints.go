package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/vamazon/internal/client/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error) {
	in := map[string]string{"email": email, "password": password, "name": name}
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	in := map[string]string{"email": email, "password": password}
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Check returns the user the current token belongs to, or nil when the
// server does not consider the client logged in.
func (c *HTTPClient) Check(ctx context.Context) (*models.User, error) {
	var out struct {
		Authenticated bool         `json:"authenticated"`
		User          *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/check", nil, &out, false); err != nil {
		return nil, err
	}
	if !out.Authenticated {
		return nil, nil
	}
	return out.User, nil
}

func cartPath(sessionID string) string {
	return "/api/cart/" + url.PathEscape(sessionID)
}

func (c *HTTPClient) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	var out models.Cart
	if err := c.do(ctx, http.MethodGet, cartPath(sessionID), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AddCartItem(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error) {
	in := map[string]any{"product_id": productID, "quantity": quantity}
	var out models.Cart
	if err := c.do(ctx, http.MethodPost, cartPath(sessionID)+"/items", in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, sessionID string, itemID int64, quantity int) (*models.Cart, error) {
	in := map[string]int{"quantity": quantity}
	var out models.Cart
	path := fmt.Sprintf("%s/items/%d", cartPath(sessionID), itemID)
	if err := c.do(ctx, http.MethodPut, path, in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RemoveCartItem(ctx context.Context, sessionID string, itemID int64) (*models.Cart, error) {
	var out models.Cart
	path := fmt.Sprintf("%s/items/%d", cartPath(sessionID), itemID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ClearCart(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, cartPath(sessionID), nil, &messageResponse{}, false)
}

func (c *HTTPClient) WishlistIDs(ctx context.Context) ([]int64, error) {
	var out struct {
		ProductIDs []int64 `json:"product_ids"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/wishlist/ids", nil, &out, true); err != nil {
		return nil, err
	}
	return out.ProductIDs, nil
}

func (c *HTTPClient) AddToWishlist(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/wishlist/add/%d", productID), nil, nil, true)
}

func (c *HTTPClient) RemoveFromWishlist(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/wishlist/remove/%d", productID), nil, nil, true)
}

func (c *HTTPClient) InWishlist(ctx context.Context, productID int64) (bool, error) {
	var out struct {
		InWishlist bool `json:"in_wishlist"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/wishlist/check/%d", productID), nil, &out, true); err != nil {
		return false, err
	}
	return out.InWishlist, nil
}

func (c *HTTPClient) Wishlist(ctx context.Context) ([]models.WishlistItem, error) {
	var out []models.WishlistItem
	if err := c.do(ctx, http.MethodGet, "/api/wishlist/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func productsQuery(f models.ProductFilter) string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		q.Set("min_price", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("max_price", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *HTTPClient) Products(ctx context.Context, f models.ProductFilter) (*models.ProductList, error) {
	var out models.ProductList
	if err := c.do(ctx, http.MethodGet, "/api/products"+productsQuery(f), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Product(ctx context.Context, id int64) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ProductByASIN(ctx context.Context, asin string) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/by-asin/"+url.PathEscape(asin), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Category(ctx context.Context, slug string) (*models.Category, error) {
	var out models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/"+url.PathEscape(slug), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RequestImageUpload(ctx context.Context, productID int64, contentType string, primary bool) (*models.ImageUpload, error) {
	in := map[string]any{"content_type": contentType, "is_primary": primary}
	var out models.ImageUpload
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/products/%d/images", productID), in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateOrder(ctx context.Context, req models.CheckoutRequest) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) BuyNow(ctx context.Context, req models.BuyNowRequest) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/buy-now", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Orders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Order(ctx context.Context, number string) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(number), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}
