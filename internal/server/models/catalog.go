package models

import "time"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductImage is either an external URL or an object in the image bucket.
// StorageKey is set for uploaded images and resolved to a presigned URL on
// read.
type ProductImage struct {
	ID         int64  `json:"id"`
	ProductID  int64  `json:"-"`
	ImageURL   string `json:"image_url"`
	IsPrimary  bool   `json:"is_primary"`
	StorageKey string `json:"-"`
}

type Product struct {
	ID             int64          `json:"id"`
	ASIN           string         `json:"asin"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Price          float64        `json:"price"`
	MRP            *float64       `json:"mrp,omitempty"`
	Rating         float64        `json:"rating"`
	ReviewCount    int            `json:"review_count"`
	Stock          int            `json:"stock"`
	ImageURL       string         `json:"image_url,omitempty"`
	Features       string         `json:"features,omitempty"`
	Specifications string         `json:"specifications,omitempty"`
	CategoryID     *int64         `json:"category_id,omitempty"`
	Category       *Category      `json:"category,omitempty"`
	Images         []ProductImage `json:"images"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ProductFilter narrows a product listing. Nil and empty fields do not
// filter. Page is 1-based.
type ProductFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	PerPage  int
}

type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
}

// ImageUpload tells the client where to PUT a new product image.
type ImageUpload struct {
	ImageID   int64  `json:"image_id"`
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}
