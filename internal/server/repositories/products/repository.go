package products

import (
	"context"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	GetByASIN(ctx context.Context, asin string) (*models.Product, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Images(ctx context.Context, productID int64) ([]models.ProductImage, error)
	AddImage(ctx context.Context, img *models.ProductImage) (*models.ProductImage, error)
	DecrementStock(ctx context.Context, id int64, quantity int) error
}
