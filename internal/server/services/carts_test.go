package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/server/cache"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (*CartService, *memStore, *miniredis.Miniredis) {
	t.Helper()
	s := newMemStore()
	s.addProduct(42, "Stapler", 500, 10)
	s.addProduct(43, "Pen", 20, 10)
	db, _ := newMockDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCartService(db, fakeManager{s}, cache.NewRedisCache(client, time.Minute), logging.Discard()), s, mr
}

func TestCartService_GetCreatesEmptyCart(t *testing.T) {
	svc, s, _ := newCartService(t)

	c, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", c.SessionID)
	assert.NotNil(t, c.Items)
	assert.Zero(t, c.TotalItems)
	assert.Contains(t, s.carts, "s1")
}

func TestCartService_GetServedFromCache(t *testing.T) {
	svc, s, mr := newCartService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("cart:s1"))
	loads := s.loads

	_, err = svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, loads, s.loads)
}

func TestCartService_ConcurrentMissesShareOneLoad(t *testing.T) {
	svc, s, _ := newCartService(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	s.loadHook = func(string) {
		once.Do(func() { close(started) })
		<-release
	}

	var wg sync.WaitGroup
	get := func() {
		defer wg.Done()
		c, err := svc.Get(context.Background(), "s1")
		assert.NoError(t, err)
		assert.Equal(t, "s1", c.SessionID)
	}

	wg.Add(1)
	go get()
	<-started
	for range 5 {
		wg.Add(1)
		go get()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, 1, s.loads)
}

// gatedCache holds the first Set until released.
type gatedCache struct {
	cache.CartCache
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedCache) Set(ctx context.Context, sessionID string, c *models.Cart) error {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.CartCache.Set(ctx, sessionID, c)
}

func TestCartService_ReadRacingWriteDoesNotCacheStaleCart(t *testing.T) {
	_, s, mr := newCartService(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	db, _ := newMockDB(t)

	gc := &gatedCache{
		CartCache: cache.NewRedisCache(client, time.Minute),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	svc := NewCartService(db, fakeManager{s}, gc, logging.Discard())
	ctx := context.Background()

	done := make(chan *models.Cart)
	go func() {
		c, err := svc.Get(ctx, "s1")
		assert.NoError(t, err)
		done <- c
	}()
	<-gc.entered

	added, err := svc.AddItem(ctx, "s1", 42, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, added.TotalItems)

	close(gc.release)
	stale := <-done
	assert.Zero(t, stale.TotalItems)

	got, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalItems)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(42), got.Items[0].ProductID)
}

func TestCartService_InvalidateMarksOnlyInFlightLoads(t *testing.T) {
	svc, _, _ := newCartService(t)

	v := svc.beginLoad("s1")
	assert.True(t, svc.loadCurrent("s1", v))
	svc.Invalidate(context.Background(), "s1")
	assert.False(t, svc.loadCurrent("s1", v))
	svc.endLoad("s1")

	// no load in flight: nothing is tracked
	svc.Invalidate(context.Background(), "s2")
	assert.Empty(t, svc.loads)
}

func TestCartService_AddMergesAndTotals(t *testing.T) {
	svc, _, mr := newCartService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "s1")
	require.NoError(t, err)

	c, err := svc.AddItem(ctx, "s1", 42, 2)
	require.NoError(t, err)
	assert.False(t, mr.Exists("cart:s1"))
	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, 1000.0, c.Subtotal)

	c, err = svc.AddItem(ctx, "s1", 42, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	c, err = svc.AddItem(ctx, "s1", 43, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, c.TotalItems)
	assert.Equal(t, 1600.0, c.Subtotal)

	// a read after a mutation sees the new state
	got, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 8, got.TotalItems)
}

func TestCartService_AddRejects(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 42, 0)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = svc.AddItem(ctx, "s1", 999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "s1", 42, 2)
	require.NoError(t, err)
	itemID := c.Items[0].ID

	c, err = svc.UpdateItem(ctx, "s1", itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.TotalItems)

	c, err = svc.UpdateItem(ctx, "s1", itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = svc.RemoveItem(ctx, "s1", itemID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	_, err = svc.UpdateItem(ctx, "nope", itemID, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Equal(t, "Cart not found", err.Error())
}

func TestCartService_Clear(t *testing.T) {
	svc, _, mr := newCartService(t)
	ctx := context.Background()

	msg, err := svc.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, MessageCartAlreadyEmpty, msg)

	_, err = svc.AddItem(ctx, "s1", 42, 2)
	require.NoError(t, err)
	_, err = svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, mr.Exists("cart:s1"))

	msg, err = svc.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, MessageCartCleared, msg)
	assert.False(t, mr.Exists("cart:s1"))

	c, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, c.TotalItems)
}

func TestCartService_CacheDownFallsBackToDatabase(t *testing.T) {
	svc, _, mr := newCartService(t)
	mr.Close()

	c, err := svc.AddItem(context.Background(), "s1", 42, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalItems)

	c, err = svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalItems)
}

func TestCartService_RepoError(t *testing.T) {
	svc, s, _ := newCartService(t)
	s.err = errors.New("db down")

	_, err := svc.Get(context.Background(), "s1")
	assert.Error(t, err)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}
