package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/logging"
)

// PendingPurchase is a single product bought without going through the
// cart. It is passed straight to BuyNow and never stored.
type PendingPurchase struct {
	ProductID int64
	Quantity  int
}

type CheckoutService struct {
	api  client.OrdersAPI
	auth Authenticator
	cart *CartService
	log  logging.Logger
}

func NewCheckoutService(api client.OrdersAPI, auth Authenticator, cart *CartService, log logging.Logger) *CheckoutService {
	return &CheckoutService{api: api, auth: auth, cart: cart, log: log}
}

func (c *CheckoutService) failed(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		c.auth.Expire(ctx)
	}
	return err
}

// PlaceOrder turns the current cart into an order. The server empties the
// cart, so it is reloaded afterwards.
func (c *CheckoutService) PlaceOrder(ctx context.Context, ship models.ShippingDetails) (*models.Order, error) {
	if !c.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	order, err := c.api.CreateOrder(ctx, models.CheckoutRequest{
		SessionID:       c.cart.SessionID(ctx),
		ShippingDetails: ship,
	})
	if err != nil {
		return nil, c.failed(ctx, err)
	}

	if err := c.cart.Load(ctx); err != nil {
		c.log.Warn(ctx, "cart reload after checkout failed", "error", err)
	}
	return order, nil
}

func (c *CheckoutService) BuyNow(ctx context.Context, p PendingPurchase, ship models.ShippingDetails) (*models.Order, error) {
	if !c.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if p.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	order, err := c.api.BuyNow(ctx, models.BuyNowRequest{
		ProductID:       p.ProductID,
		Quantity:        p.Quantity,
		ShippingDetails: ship,
	})
	if err != nil {
		return nil, c.failed(ctx, err)
	}
	return order, nil
}

func (c *CheckoutService) Orders(ctx context.Context) ([]models.Order, error) {
	if !c.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	orders, err := c.api.Orders(ctx)
	if err != nil {
		return nil, c.failed(ctx, err)
	}
	return orders, nil
}

func (c *CheckoutService) Order(ctx context.Context, number string) (*models.Order, error) {
	return c.api.Order(ctx, number)
}
