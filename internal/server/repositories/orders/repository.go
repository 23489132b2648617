package orders

import (
	"context"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
}
