package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/logging"
)

// Storefront bundles the containers of one client profile.
type Storefront struct {
	Auth     *AuthService
	Cart     *CartService
	Wishlist *WishlistService
	Catalog  *CatalogService
	Checkout *CheckoutService

	log logging.Logger
}

func NewStorefront(api client.API, tokens TokenStorage, sessions SessionStorage, hc *http.Client, log logging.Logger) *Storefront {
	auth := NewAuthService(api, tokens, log.With("component", "auth"))
	cart := NewCartService(api, sessions, log.With("component", "cart"))
	wishlist := NewWishlistService(api, auth, log.With("component", "wishlist"))

	sf := &Storefront{
		Auth:     auth,
		Cart:     cart,
		Wishlist: wishlist,
		Catalog:  NewCatalogService(api, auth, hc),
		Checkout: NewCheckoutService(api, auth, cart, log.With("component", "checkout")),
		log:      log,
	}

	// A token rejected anywhere leaves nothing to show in the wishlist.
	auth.Subscribe(func(s AuthSnapshot) {
		if s.Status == AuthUnauthenticated {
			wishlist.clear()
		}
	})

	return sf
}

// Start restores the auth state, then loads the cart and the wishlist.
func (s *Storefront) Start(ctx context.Context) error {
	s.Auth.Init(ctx)
	return errors.Join(s.Cart.Load(ctx), s.Wishlist.Refresh(ctx))
}

// SignIn logs in and refreshes the wishlist for the new user. A failed
// refresh is logged; the login itself stands.
func (s *Storefront) SignIn(ctx context.Context, email, password string) error {
	if err := s.Auth.Login(ctx, email, password); err != nil {
		return err
	}
	s.refreshWishlist(ctx)
	return nil
}

func (s *Storefront) SignUp(ctx context.Context, email, password, name string) error {
	if err := s.Auth.Register(ctx, email, password, name); err != nil {
		return err
	}
	s.refreshWishlist(ctx)
	return nil
}

// SignOut clears auth, then starts a new guest cart, then empties the
// wishlist. The order matters: the wishlist refresh must see the user as
// logged out.
func (s *Storefront) SignOut(ctx context.Context) {
	s.Auth.Logout(ctx)
	s.Cart.Reset(ctx)
	s.refreshWishlist(ctx)
}

func (s *Storefront) refreshWishlist(ctx context.Context) {
	if err := s.Wishlist.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "wishlist refresh failed", "error", err)
	}
}
