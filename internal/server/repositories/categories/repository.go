package categories

import (
	"context"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Upsert(ctx context.Context, name, slug string) (*models.Category, error)
}
