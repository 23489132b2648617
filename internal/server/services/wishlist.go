package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/repomanager"
)

const (
	MessageWishlistAdded   = "Added to wishlist"
	MessageWishlistAlready = "Already in wishlist"
	MessageWishlistRemoved = "Removed from wishlist"
)

type WishlistService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWishlistService(db *sql.DB, m repomanager.RepositoryManager) *WishlistService {
	return &WishlistService{db: db, repomanager: m}
}

// Add is idempotent. It returns the entry id and whether the product was
// already present.
func (s *WishlistService) Add(ctx context.Context, userID, productID int64) (int64, bool, error) {
	if _, err := s.repomanager.Products(s.db).Get(ctx, productID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, false, ErrProductNotFound
		}
		return 0, false, fmt.Errorf("error getting product: %w", err)
	}

	repo := s.repomanager.Wishlist(s.db)

	id, err := repo.Find(ctx, userID, productID)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return 0, false, fmt.Errorf("error searching wishlist: %w", err)
	}

	id, err = repo.Add(ctx, userID, productID)
	if err != nil {
		// lost a race with a concurrent add
		if errors.Is(err, common.ErrorAlreadyExists) {
			if id, err := repo.Find(ctx, userID, productID); err == nil {
				return id, true, nil
			}
		}
		return 0, false, fmt.Errorf("error adding to wishlist: %w", err)
	}
	return id, false, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.repomanager.Wishlist(s.db).Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrNotInWishlist
		}
		return fmt.Errorf("error removing from wishlist: %w", err)
	}
	return nil
}

func (s *WishlistService) Contains(ctx context.Context, userID, productID int64) (bool, error) {
	_, err := s.repomanager.Wishlist(s.db).Find(ctx, userID, productID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("error searching wishlist: %w", err)
}

func (s *WishlistService) ProductIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.repomanager.Wishlist(s.db).ProductIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing wishlist: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	items, err := s.repomanager.Wishlist(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing wishlist: %w", err)
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	return items, nil
}
