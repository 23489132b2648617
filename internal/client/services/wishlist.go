package services

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/logging"
)

// Authenticator is the part of AuthService other containers depend on.
type Authenticator interface {
	IsAuthenticated() bool
	Expire(ctx context.Context)
}

type WishlistSnapshot struct {
	IDs []int64
}

// WishlistService caches which products the user has wishlisted. Add and
// Remove update the cache only after the server confirmed the change.
//
// Every Refresh and every logout starts a new generation. A response is
// applied only if no new generation began while it was in flight, so a
// request issued for the previous user cannot repopulate the set.
type WishlistService struct {
	api  client.WishlistAPI
	auth Authenticator
	log  logging.Logger

	mu  sync.Mutex
	ids map[int64]struct{}
	gen uint64

	subs Broadcaster[WishlistSnapshot]
}

func NewWishlistService(api client.WishlistAPI, auth Authenticator, log logging.Logger) *WishlistService {
	return &WishlistService{api: api, auth: auth, log: log, ids: map[int64]struct{}{}}
}

func (w *WishlistService) IsMember(productID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.ids[productID]
	return ok
}

// IDs returns the cached product ids in ascending order.
func (w *WishlistService) IDs() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sortedLocked()
}

func (w *WishlistService) sortedLocked() []int64 {
	out := make([]int64, 0, len(w.ids))
	for id := range w.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (w *WishlistService) generation() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gen
}

// next starts a new generation and returns it.
func (w *WishlistService) next() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	return w.gen
}

// clear empties the set and starts a new generation.
func (w *WishlistService) clear() {
	w.mu.Lock()
	w.gen++
	w.ids = map[int64]struct{}{}
	w.mu.Unlock()

	w.subs.Publish(WishlistSnapshot{IDs: []int64{}})
}

// replace installs ids if gen is still current.
func (w *WishlistService) replace(gen uint64, ids []int64) bool {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return false
	}
	w.ids = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		w.ids[id] = struct{}{}
	}
	snap := WishlistSnapshot{IDs: w.sortedLocked()}
	w.mu.Unlock()

	w.subs.Publish(snap)
	return true
}

// update records a confirmed add or remove if gen is still current.
func (w *WishlistService) update(gen uint64, productID int64, member bool) bool {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return false
	}
	if member {
		w.ids[productID] = struct{}{}
	} else {
		delete(w.ids, productID)
	}
	snap := WishlistSnapshot{IDs: w.sortedLocked()}
	w.mu.Unlock()

	w.subs.Publish(snap)
	return true
}

func (w *WishlistService) failed(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		w.auth.Expire(ctx)
		w.clear()
	}
	return err
}

func (w *WishlistService) Add(ctx context.Context, productID int64) error {
	if !w.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	gen := w.generation()
	if err := w.api.AddToWishlist(ctx, productID); err != nil {
		return w.failed(ctx, err)
	}
	if !w.update(gen, productID, true) {
		w.log.Debug(ctx, "stale wishlist add dropped", "product_id", productID)
	}
	return nil
}

func (w *WishlistService) Remove(ctx context.Context, productID int64) error {
	if !w.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	gen := w.generation()
	if err := w.api.RemoveFromWishlist(ctx, productID); err != nil {
		return w.failed(ctx, err)
	}
	if !w.update(gen, productID, false) {
		w.log.Debug(ctx, "stale wishlist remove dropped", "product_id", productID)
	}
	return nil
}

// Check asks the server whether productID is wishlisted and reconciles the
// cache with the answer.
func (w *WishlistService) Check(ctx context.Context, productID int64) (bool, error) {
	if !w.auth.IsAuthenticated() {
		return false, ErrNotAuthenticated
	}
	gen := w.generation()
	member, err := w.api.InWishlist(ctx, productID)
	if err != nil {
		return false, w.failed(ctx, err)
	}
	if !w.update(gen, productID, member) {
		w.log.Debug(ctx, "stale wishlist check dropped", "product_id", productID)
	}
	return member, nil
}

// Toggle flips membership and reports the resulting state. On error the
// state is unchanged.
func (w *WishlistService) Toggle(ctx context.Context, productID int64) (bool, error) {
	if w.IsMember(productID) {
		if err := w.Remove(ctx, productID); err != nil {
			return w.IsMember(productID), err
		}
		return false, nil
	}
	if err := w.Add(ctx, productID); err != nil {
		return w.IsMember(productID), err
	}
	return true, nil
}

// Refresh replaces the cache with the server's list. When logged out the
// cache is emptied without a request.
func (w *WishlistService) Refresh(ctx context.Context) error {
	if !w.auth.IsAuthenticated() {
		w.clear()
		return nil
	}
	gen := w.next()
	ids, err := w.api.WishlistIDs(ctx)
	if err != nil {
		return w.failed(ctx, err)
	}
	if !w.replace(gen, ids) {
		w.log.Debug(ctx, "stale wishlist refresh dropped")
	}
	return nil
}

// Items fetches the full wishlist, keeping only products still in the cache
// so a removal racing the fetch does not reappear.
func (w *WishlistService) Items(ctx context.Context) ([]models.WishlistItem, error) {
	if !w.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	items, err := w.api.Wishlist(ctx)
	if err != nil {
		return nil, w.failed(ctx, err)
	}
	out := items[:0]
	for _, it := range items {
		if w.IsMember(it.ProductID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (w *WishlistService) Snapshot() WishlistSnapshot {
	return WishlistSnapshot{IDs: w.IDs()}
}

func (w *WishlistService) Subscribe(fn func(WishlistSnapshot)) (unsubscribe func()) {
	return w.subs.Subscribe(fn)
}
