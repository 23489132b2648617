// Package models holds the storefront resources as the REST API returns
// them. Prices are in the store currency with two decimals.
package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductImage struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

type Product struct {
	ID             int64          `json:"id"`
	ASIN           string         `json:"asin,omitempty"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Price          float64        `json:"price"`
	MRP            *float64       `json:"mrp,omitempty"`
	Rating         float64        `json:"rating,omitempty"`
	ReviewCount    int            `json:"review_count,omitempty"`
	Stock          int            `json:"stock"`
	ImageURL       string         `json:"image_url,omitempty"`
	Features       string         `json:"features,omitempty"`
	Specifications string         `json:"specifications,omitempty"`
	CategoryID     *int64         `json:"category_id,omitempty"`
	Category       *Category      `json:"category,omitempty"`
	Images         []ProductImage `json:"images,omitempty"`
}

type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	PerPage  int
}

type CartItem struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product"`
}

type Cart struct {
	ID         int64      `json:"id"`
	SessionID  string     `json:"session_id"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
}

type WishlistItem struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Product   *Product `json:"product"`
}

// ShippingDetails is the address block shared by checkout and buy-now.
type ShippingDetails struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

type CheckoutRequest struct {
	SessionID string `json:"session_id"`
	ShippingDetails
}

type BuyNowRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	ShippingDetails
}

type OrderItem struct {
	ID              int64    `json:"id"`
	ProductID       int64    `json:"product_id"`
	Quantity        int      `json:"quantity"`
	PriceAtPurchase float64  `json:"price_at_purchase"`
	Product         *Product `json:"product,omitempty"`
}

type Order struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`
	ShippingDetails
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderItem `json:"items"`
}

// ImageUpload is the server's answer to an image upload request: the client
// PUTs the bytes to UploadURL.
type ImageUpload struct {
	ImageID   int64  `json:"image_id"`
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}
