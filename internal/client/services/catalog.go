package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/netx"
)

// CatalogService reads products and categories and uploads product images.
type CatalogService struct {
	api  client.CatalogAPI
	auth Authenticator
	hc   *http.Client
}

func NewCatalogService(api client.CatalogAPI, auth Authenticator, hc *http.Client) *CatalogService {
	return &CatalogService{api: api, auth: auth, hc: hc}
}

func (c *CatalogService) Products(ctx context.Context, f models.ProductFilter) (*models.ProductList, error) {
	return c.api.Products(ctx, f)
}

func (c *CatalogService) Product(ctx context.Context, id int64) (*models.Product, error) {
	return c.api.Product(ctx, id)
}

func (c *CatalogService) ProductByASIN(ctx context.Context, asin string) (*models.Product, error) {
	return c.api.ProductByASIN(ctx, asin)
}

func (c *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return c.api.Categories(ctx)
}

func (c *CatalogService) Category(ctx context.Context, slug string) (*models.Category, error) {
	return c.api.Category(ctx, slug)
}

// UploadImage asks the server for a presigned URL and PUTs data there.
func (c *CatalogService) UploadImage(ctx context.Context, productID int64, data []byte, primary bool) (*models.ImageUpload, error) {
	if !c.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	contentType := http.DetectContentType(data)

	up, err := c.api.RequestImageUpload(ctx, productID, contentType, primary)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			c.auth.Expire(ctx)
		}
		return nil, err
	}

	if err := netx.UploadToPresignedURL(ctx, c.hc, up.UploadURL, contentType, data); err != nil {
		return nil, fmt.Errorf("image upload: %w", err)
	}
	return up, nil
}
