package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/products"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vamazon/internal/server/storage"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 50
)

type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   storage.Presigner
	logger      logging.Logger
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, p storage.Presigner, l logging.Logger) *CatalogService {
	return &CatalogService{db: db, repomanager: m, presigner: p, logger: l}
}

func (s *CatalogService) ListProducts(ctx context.Context, f models.ProductFilter) (*models.ProductList, error) {
	if f.Page < 1 {
		return nil, validationError("page must be at least 1")
	}
	if f.PerPage < 1 || f.PerPage > MaxPerPage {
		return nil, validationError(fmt.Sprintf("per_page must be between 1 and %d", MaxPerPage))
	}
	if (f.MinPrice != nil && *f.MinPrice < 0) || (f.MaxPrice != nil && *f.MaxPrice < 0) {
		return nil, validationError("price filters must not be negative")
	}

	items, total, err := s.repomanager.Products(s.db).List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	if items == nil {
		items = []models.Product{}
	}

	return &models.ProductList{Products: items, Total: total, Page: f.Page, PerPage: f.PerPage}, nil
}

// GetProduct returns the product with its images. Uploaded images get a
// short-lived download URL.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	repo := s.repomanager.Products(s.db)
	return s.withImages(ctx, repo, func() (*models.Product, error) { return repo.Get(ctx, id) })
}

// GetProductByASIN looks a product up by its Amazon identifier.
func (s *CatalogService) GetProductByASIN(ctx context.Context, asin string) (*models.Product, error) {
	asin = strings.TrimSpace(asin)
	if asin == "" {
		return nil, validationError("asin is required")
	}
	repo := s.repomanager.Products(s.db)
	return s.withImages(ctx, repo, func() (*models.Product, error) { return repo.GetByASIN(ctx, asin) })
}

func (s *CatalogService) withImages(ctx context.Context, repo products.Repository, load func() (*models.Product, error)) (*models.Product, error) {
	p, err := load()
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("error getting product: %w", err)
	}
	id := p.ID

	images, err := repo.Images(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting product images: %w", err)
	}

	p.Images = make([]models.ProductImage, 0, len(images))
	for _, img := range images {
		if img.StorageKey != "" {
			url, err := s.presigner.PresignGet(ctx, img.StorageKey)
			if err != nil {
				s.logger.Warn(ctx, "image url not resolved", "product_id", id, "key", img.StorageKey, "error", err)
				continue
			}
			img.ImageURL = url
		}
		p.Images = append(p.Images, img)
	}

	return p, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.repomanager.Categories(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.repomanager.Categories(s.db).GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return c, nil
}

// RequestImageUpload registers a new image for the product and returns a
// presigned PUT URL the caller uploads the bytes to.
func (s *CatalogService) RequestImageUpload(ctx context.Context, productID int64, contentType string, primary bool) (*models.ImageUpload, error) {
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, validationError("content_type must be an image type")
	}

	repo := s.repomanager.Products(s.db)

	if _, err := repo.Get(ctx, productID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("error getting product: %w", err)
	}

	key := storage.ProductImageKey(productID)
	url, err := s.presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	img, err := repo.AddImage(ctx, &models.ProductImage{ProductID: productID, IsPrimary: primary, StorageKey: key})
	if err != nil {
		return nil, fmt.Errorf("error saving image: %w", err)
	}

	s.logger.Info(ctx, "image upload issued", "product_id", productID, "image_id", img.ID, "key", key)
	return &models.ImageUpload{ImageID: img.ID, Key: key, UploadURL: url}, nil
}
