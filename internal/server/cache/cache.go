// Package cache keeps assembled carts in Redis, keyed by session id.
package cache

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

type CartCache interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Set(ctx context.Context, sessionID string, cart *models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop is used when no Redis address is configured. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.Cart, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, string, *models.Cart) error    { return nil }
func (Noop) Delete(context.Context, string) error              { return nil }
