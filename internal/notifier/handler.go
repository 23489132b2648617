// Package notifier consumes order events and emails order confirmations.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/server/events"
)

type envelope struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

type Handler struct {
	mailer    Mailer
	ordersURL string
	logger    logging.Logger
}

func NewHandler(mailer Mailer, ordersURL string, logger logging.Logger) *Handler {
	return &Handler{mailer: mailer, ordersURL: ordersURL, logger: logger}
}

// HandleEvent matches events.MessageHandler. Events other than
// order.placed are ignored.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	if env.EventType != events.EventOrderPlaced {
		h.logger.Debug(ctx, "skipping event", "event_type", env.EventType, "key", string(key))
		return nil
	}

	var e events.OrderPlaced
	if err := json.Unmarshal(env.Data, &e); err != nil {
		return fmt.Errorf("unmarshal %s: %w", env.EventType, err)
	}
	return h.handleOrderPlaced(ctx, e)
}

func (h *Handler) handleOrderPlaced(ctx context.Context, e events.OrderPlaced) error {
	if e.Email == "" {
		h.logger.Warn(ctx, "order has no email, skipping", "order_number", e.OrderNumber)
		return nil
	}

	html, err := renderConfirmation(e, h.ordersURL)
	if err != nil {
		return err
	}

	err = h.mailer.Send(ctx, Message{
		To:      e.Email,
		Subject: confirmationSubject(e.OrderNumber),
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("order %s: %w", e.OrderNumber, err)
	}

	h.logger.Info(ctx, "order confirmation sent", "order_number", e.OrderNumber, "to", e.Email)
	return nil
}
