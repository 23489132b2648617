package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"golang.org/x/sync/singleflight"
)

// SessionStorage hands out the guest-cart session id.
type SessionStorage interface {
	GetOrCreate(ctx context.Context) string
	Reset(ctx context.Context)
}

type CartSnapshot struct {
	Cart      *models.Cart
	Loading   bool
	Err       error
	ItemCount int
	Subtotal  float64
}

// CartService mirrors the server cart of the current session. It never
// edits the cart locally: every mutation is sent to the server and the cart
// in the response replaces the local one.
//
// Each request gets a sequence number. A successful response is applied only
// when its number is above the last applied one, so a slow response cannot
// overwrite the result of a later request.
type CartService struct {
	api      client.CartAPI
	sessions SessionStorage
	log      logging.Logger
	group    singleflight.Group

	mu      sync.Mutex
	cart    *models.Cart
	err     error
	issued  uint64
	applied uint64
	pending int

	subs Broadcaster[CartSnapshot]
}

func NewCartService(api client.CartAPI, sessions SessionStorage, log logging.Logger) *CartService {
	return &CartService{api: api, sessions: sessions, log: log}
}

func (s *CartService) SessionID(ctx context.Context) string {
	return s.sessions.GetOrCreate(ctx)
}

func (s *CartService) begin() uint64 {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.pending++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subs.Publish(snap)
	return seq
}

// finish records the outcome of request seq and returns err unchanged.
// Failures never replace the cart and never advance the applied sequence.
func (s *CartService) finish(ctx context.Context, seq uint64, cart *models.Cart, err error) error {
	s.mu.Lock()
	if s.pending > 0 {
		s.pending--
	}
	switch {
	case seq <= s.applied:
		s.log.Debug(ctx, "stale cart response dropped", "seq", seq, "applied", s.applied)
	case err != nil:
		s.err = err
	default:
		s.applied = seq
		s.cart = cart
		s.err = nil
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subs.Publish(snap)
	return err
}

// Load fetches the cart. Concurrent calls for the same session share one
// request; a Load after Reset never joins a request for the old session.
func (s *CartService) Load(ctx context.Context) error {
	sid := s.sessions.GetOrCreate(ctx)
	_, err, _ := s.group.Do(sid, func() (any, error) {
		seq := s.begin()
		cart, err := s.api.GetCart(ctx, sid)
		return nil, s.finish(ctx, seq, cart, err)
	})
	return err
}

func (s *CartService) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	sid := s.sessions.GetOrCreate(ctx)
	seq := s.begin()
	cart, err := s.api.AddCartItem(ctx, sid, productID, quantity)
	return s.finish(ctx, seq, cart, err)
}

// UpdateQuantity sets an item's quantity. Zero and below are refused
// locally; use Remove to drop an item.
func (s *CartService) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	sid := s.sessions.GetOrCreate(ctx)
	seq := s.begin()
	cart, err := s.api.UpdateCartItem(ctx, sid, itemID, quantity)
	return s.finish(ctx, seq, cart, err)
}

func (s *CartService) Increment(ctx context.Context, itemID int64) error {
	q, ok := s.quantityOf(itemID)
	if !ok {
		return ErrItemNotInCart
	}
	return s.UpdateQuantity(ctx, itemID, q+1)
}

// Decrement lowers the quantity by one, removing the item instead of
// sending a zero quantity.
func (s *CartService) Decrement(ctx context.Context, itemID int64) error {
	q, ok := s.quantityOf(itemID)
	if !ok {
		return ErrItemNotInCart
	}
	if q <= 1 {
		return s.Remove(ctx, itemID)
	}
	return s.UpdateQuantity(ctx, itemID, q-1)
}

func (s *CartService) Remove(ctx context.Context, itemID int64) error {
	sid := s.sessions.GetOrCreate(ctx)
	seq := s.begin()
	cart, err := s.api.RemoveCartItem(ctx, sid, itemID)
	return s.finish(ctx, seq, cart, err)
}

// Clear empties the cart on the server, then re-reads it.
func (s *CartService) Clear(ctx context.Context) error {
	sid := s.sessions.GetOrCreate(ctx)
	seq := s.begin()
	if err := s.api.ClearCart(ctx, sid); err != nil {
		return s.finish(ctx, seq, nil, err)
	}
	cart, err := s.api.GetCart(ctx, sid)
	return s.finish(ctx, seq, cart, err)
}

// Reset starts a fresh guest session without a server call. Responses to
// requests issued before Reset are dropped.
func (s *CartService) Reset(ctx context.Context) {
	s.sessions.Reset(ctx)

	s.mu.Lock()
	s.applied = s.issued
	s.cart = nil
	s.err = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subs.Publish(snap)
}

func (s *CartService) quantityOf(itemID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0, false
	}
	for _, it := range s.cart.Items {
		if it.ID == itemID {
			return it.Quantity, true
		}
	}
	return 0, false
}

func (s *CartService) ItemCount() int {
	return s.Snapshot().ItemCount
}

func (s *CartService) Subtotal() float64 {
	return s.Snapshot().Subtotal
}

func (s *CartService) Snapshot() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CartService) snapshotLocked() CartSnapshot {
	snap := CartSnapshot{Loading: s.pending > 0, Err: s.err}
	if s.cart == nil {
		return snap
	}
	c := *s.cart
	c.Items = append([]models.CartItem(nil), s.cart.Items...)
	snap.Cart = &c
	snap.ItemCount, snap.Subtotal = totals(c.Items)
	return snap
}

// totals counts an unresolved product as price 0.
func totals(items []models.CartItem) (count int, subtotal float64) {
	for _, it := range items {
		count += it.Quantity
		if it.Product != nil {
			subtotal += it.Product.Price * float64(it.Quantity)
		}
	}
	return count, subtotal
}

func (s *CartService) Subscribe(fn func(CartSnapshot)) (unsubscribe func()) {
	return s.subs.Subscribe(fn)
}
