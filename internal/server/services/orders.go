package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
	"time"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/dbx"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/server/events"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	carts       *CartService
	publisher   events.Publisher
	logger      logging.Logger
	now         func() time.Time
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager, carts *CartService, p events.Publisher, l logging.Logger) *OrderService {
	return &OrderService{db: db, repomanager: m, carts: carts, publisher: p, logger: l, now: time.Now}
}

// newOrderNumber returns ORD-YYYYMMDD-XXXXXXXX with eight upper-case hex digits.
func (s *OrderService) newOrderNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ORD-%s-%s", s.now().Format("20060102"), strings.ToUpper(id[:8]))
}

type fieldRule struct {
	name     string
	value    string
	min, max int
}

// validateShipping applies the length limits of the shipping form. Limits
// are in characters, after trimming.
func validateShipping(d models.ShippingDetails) error {
	if !strings.Contains(d.Email, "@") {
		return validationError("Invalid email address")
	}
	rules := []fieldRule{
		{"customer_name", d.CustomerName, 2, 200},
		{"phone", d.Phone, 1, 20},
		{"address_line1", d.AddressLine1, 5, 300},
		{"address_line2", d.AddressLine2, 0, 300},
		{"city", d.City, 2, 100},
		{"state", d.State, 2, 100},
		{"pincode", d.Pincode, 5, 20},
	}
	for _, r := range rules {
		n := utf8.RuneCountInString(strings.TrimSpace(r.value))
		switch {
		case n < r.min && r.min == 1:
			return validationError(r.name + " is required")
		case n < r.min:
			return validationError(fmt.Sprintf("%s must be at least %d characters", r.name, r.min))
		case n > r.max:
			return validationError(fmt.Sprintf("%s must be at most %d characters", r.name, r.max))
		}
	}
	return nil
}

// Checkout turns the session's cart into a confirmed order for userID and
// empties the cart. Prices are the products' current prices.
func (s *OrderService) Checkout(ctx context.Context, userID int64, sessionID string, shipping models.ShippingDetails) (*models.Order, error) {
	if err := validateShipping(shipping); err != nil {
		return nil, err
	}

	var order *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		carts := s.repomanager.Carts(tx)

		cart, err := carts.FindBySession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrCartIsEmpty
			}
			return fmt.Errorf("error getting cart: %w", err)
		}

		items, err := carts.Items(ctx, cart.ID)
		if err != nil {
			return fmt.Errorf("error getting cart items: %w", err)
		}
		if len(items) == 0 {
			return ErrCartIsEmpty
		}

		o := s.newOrder(userID, shipping)
		for _, it := range items {
			o.Items = append(o.Items, models.OrderItem{
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				PriceAtPurchase: it.Product.Price,
				Product:         it.Product,
			})
			o.TotalAmount += it.Product.Price * float64(it.Quantity)
		}

		if order, err = s.repomanager.Orders(tx).Create(ctx, o); err != nil {
			return fmt.Errorf("error creating order: %w", err)
		}

		if err := carts.Clear(ctx, cart.ID); err != nil {
			return fmt.Errorf("error clearing cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.carts.Invalidate(ctx, sessionID)
	s.logger.Info(ctx, "order placed", "order_number", order.OrderNumber, "user_id", userID, "total", order.TotalAmount)
	s.publishPlaced(ctx, order)
	return order, nil
}

// BuyNow orders a single product directly, bypassing the cart, and takes
// the quantity out of stock.
func (s *OrderService) BuyNow(ctx context.Context, userID, productID int64, quantity int, shipping models.ShippingDetails) (*models.Order, error) {
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	if err := validateShipping(shipping); err != nil {
		return nil, err
	}

	var order *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		products := s.repomanager.Products(tx)

		p, err := products.Get(ctx, productID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("error getting product: %w", err)
		}
		if p.Stock < quantity {
			return ErrOutOfStock
		}

		o := s.newOrder(userID, shipping)
		o.Items = []models.OrderItem{{ProductID: p.ID, Quantity: quantity, PriceAtPurchase: p.Price, Product: p}}
		o.TotalAmount = p.Price * float64(quantity)

		if order, err = s.repomanager.Orders(tx).Create(ctx, o); err != nil {
			return fmt.Errorf("error creating order: %w", err)
		}

		if err := products.DecrementStock(ctx, p.ID, quantity); err != nil {
			if errors.Is(err, common.ErrInsufficientStock) {
				return ErrOutOfStock
			}
			return fmt.Errorf("error updating stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "order placed", "order_number", order.OrderNumber, "user_id", userID, "total", order.TotalAmount)
	s.publishPlaced(ctx, order)
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, number string) (*models.Order, error) {
	o, err := s.repomanager.Orders(s.db).GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("error getting order: %w", err)
	}
	return o, nil
}

// ListMine returns the user's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]models.Order, error) {
	list, err := s.repomanager.Orders(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	if list == nil {
		list = []models.Order{}
	}
	return list, nil
}

func (s *OrderService) newOrder(userID int64, shipping models.ShippingDetails) *models.Order {
	return &models.Order{
		OrderNumber:     s.newOrderNumber(),
		UserID:          userID,
		ShippingDetails: shipping,
		Status:          models.OrderStatusConfirmed,
	}
}

// publishPlaced runs after commit. A failed publish does not fail the order.
func (s *OrderService) publishPlaced(ctx context.Context, o *models.Order) {
	err := s.publisher.Publish(ctx, o.OrderNumber, events.EventOrderPlaced, events.NewOrderPlaced(o))
	if err != nil {
		s.logger.Error(ctx, "order event not published", "order_number", o.OrderNumber, "error", err)
	}
}
