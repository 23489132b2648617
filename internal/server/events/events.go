// Package events carries order events from the API server to the notifier
// over Kafka.
package events

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

const EventOrderPlaced = "order.placed"

// Envelope is the message value on the topic. Data holds the typed event.
type Envelope struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type OrderPlacedItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

// OrderPlaced has everything the confirmation email needs, so the notifier
// never reads the database.
type OrderPlaced struct {
	OrderNumber  string                 `json:"order_number"`
	Email        string                 `json:"email"`
	CustomerName string                 `json:"customer_name"`
	Items        []OrderPlacedItem      `json:"items"`
	TotalAmount  float64                `json:"total_amount"`
	Shipping     models.ShippingDetails `json:"shipping"`
}

// NewOrderPlaced builds the event from a stored order. Item prices are line
// totals. Items without a loaded product fall back to a generic name.
func NewOrderPlaced(o *models.Order) OrderPlaced {
	e := OrderPlaced{
		OrderNumber:  o.OrderNumber,
		Email:        o.Email,
		CustomerName: o.CustomerName,
		TotalAmount:  o.TotalAmount,
		Shipping:     o.ShippingDetails,
		Items:        make([]OrderPlacedItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		item := OrderPlacedItem{
			Name:     "Product",
			Quantity: it.Quantity,
			Price:    it.PriceAtPurchase * float64(it.Quantity),
		}
		if it.Product != nil {
			item.Name = it.Product.Name
			item.ImageURL = it.Product.ImageURL
		}
		e.Items = append(e.Items, item)
	}
	return e
}

// Publisher sends an event keyed by key. Ordering is per key.
type Publisher interface {
	Publish(ctx context.Context, key string, eventType string, event any) error
	Close() error
}

// Noop drops events. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }
func (Noop) Close() error                                       { return nil }
