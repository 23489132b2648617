package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/server/cache"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/repomanager"
	"golang.org/x/sync/singleflight"
)

const (
	MessageCartCleared      = "Cart cleared"
	MessageCartAlreadyEmpty = "Cart already empty"
)

// CartService serves guest carts keyed by session id. Reads go through the
// cache; concurrent misses for one session share a single database load.
type CartService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.CartCache
	logger      logging.Logger
	sfg         singleflight.Group

	// loads tracks sessions with a database load in flight. Invalidate bumps
	// the version so a load that read the old cart does not leave it cached.
	mu    sync.Mutex
	loads map[string]*pendingLoad
}

type pendingLoad struct {
	version uint64
	count   int
}

func NewCartService(db *sql.DB, m repomanager.RepositoryManager, c cache.CartCache, l logging.Logger) *CartService {
	return &CartService{db: db, repomanager: m, cache: c, logger: l, loads: map[string]*pendingLoad{}}
}

// Get returns the session's cart, creating an empty one if absent.
func (s *CartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	if sessionID == "" {
		return nil, validationError("session id is required")
	}

	cart, err := s.cache.Get(ctx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn(ctx, "cart cache get failed", "session_id", sessionID, "error", err)
	}

	v, err, _ := s.sfg.Do(sessionID, func() (any, error) {
		version := s.beginLoad(sessionID)
		defer s.endLoad(sessionID)

		c, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, sessionID, version, c)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart), nil
}

// AddItem adds quantity of a product, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}

	if _, err := s.repomanager.Products(s.db).Get(ctx, productID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("error getting product: %w", err)
	}

	repo := s.repomanager.Carts(s.db)
	cart, err := repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting cart: %w", err)
	}
	if err := repo.AddItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, fmt.Errorf("error adding item: %w", err)
	}

	return s.reload(ctx, sessionID)
}

// UpdateItem sets the line quantity. A quantity of zero or less removes it.
func (s *CartService) UpdateItem(ctx context.Context, sessionID string, itemID int64, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, itemID)
	}

	repo := s.repomanager.Carts(s.db)
	cart, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := repo.SetQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("error updating item: %w", err)
	}

	return s.reload(ctx, sessionID)
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, itemID int64) (*models.Cart, error) {
	repo := s.repomanager.Carts(s.db)
	cart, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("error removing item: %w", err)
	}

	return s.reload(ctx, sessionID)
}

// Clear empties the cart and returns a status message.
func (s *CartService) Clear(ctx context.Context, sessionID string) (string, error) {
	cart, err := s.find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return MessageCartAlreadyEmpty, nil
		}
		return "", err
	}
	if err := s.repomanager.Carts(s.db).Clear(ctx, cart.ID); err != nil {
		return "", fmt.Errorf("error clearing cart: %w", err)
	}
	s.Invalidate(ctx, sessionID)
	return MessageCartCleared, nil
}

// fill caches c unless the session was invalidated after the load began.
// An invalidation racing the write itself is caught by the second check,
// which deletes whatever the write left behind.
func (s *CartService) fill(ctx context.Context, sessionID string, version uint64, c *models.Cart) {
	if !s.loadCurrent(sessionID, version) {
		s.logger.Debug(ctx, "stale cart not cached", "session_id", sessionID)
		return
	}
	if err := s.cache.Set(ctx, sessionID, c); err != nil {
		s.logger.Warn(ctx, "cart cache set failed", "session_id", sessionID, "error", err)
		return
	}
	if !s.loadCurrent(sessionID, version) {
		s.dropCached(ctx, sessionID)
	}
}

func (s *CartService) beginLoad(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.loads[sessionID]
	if !ok {
		p = &pendingLoad{}
		s.loads[sessionID] = p
	}
	p.count++
	return p.version
}

func (s *CartService) endLoad(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.loads[sessionID]
	if !ok {
		return
	}
	if p.count--; p.count <= 0 {
		delete(s.loads, sessionID)
	}
}

func (s *CartService) loadCurrent(sessionID string, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.loads[sessionID]
	return ok && p.version == version
}

// Invalidate drops the cached copy of the session's cart and marks loads
// already in flight as stale.
func (s *CartService) Invalidate(ctx context.Context, sessionID string) {
	s.mu.Lock()
	if p, ok := s.loads[sessionID]; ok {
		p.version++
	}
	s.mu.Unlock()

	s.dropCached(ctx, sessionID)
	s.sfg.Forget(sessionID)
}

func (s *CartService) dropCached(ctx context.Context, sessionID string) {
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.logger.Warn(ctx, "cart cache delete failed", "session_id", sessionID, "error", err)
	}
}

func (s *CartService) find(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart, err := s.repomanager.Carts(s.db).FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("error getting cart: %w", err)
	}
	return cart, nil
}

// reload is called after a mutation. The fresh cart is returned but not
// cached; the next Get fills the cache.
func (s *CartService) reload(ctx context.Context, sessionID string) (*models.Cart, error) {
	s.Invalidate(ctx, sessionID)
	return s.load(ctx, sessionID)
}

func (s *CartService) load(ctx context.Context, sessionID string) (*models.Cart, error) {
	repo := s.repomanager.Carts(s.db)

	cart, err := repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting cart: %w", err)
	}

	items, err := repo.Items(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting cart items: %w", err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	cart.Items = items
	cart.Recount()
	return cart, nil
}
