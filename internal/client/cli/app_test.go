package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/client/services"
	"github.com/dmitrijs2005/vamazon/internal/client/stores"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is a minimal storefront API: one product, carts per session,
// one user with password "secret".
type backend struct {
	mu       sync.Mutex
	carts    map[string]*models.Cart
	requests []string
	auth     []string
}

func (b *backend) cart(sid string) *models.Cart {
	c, ok := b.carts[sid]
	if !ok {
		c = &models.Cart{ID: int64(len(b.carts) + 1), SessionID: sid, Items: []models.CartItem{}}
		b.carts[sid] = c
	}
	c.TotalItems, c.Subtotal = 0, 0
	for _, it := range c.Items {
		c.TotalItems += it.Quantity
		c.Subtotal += it.Product.Price * float64(it.Quantity)
	}
	return c
}

func (b *backend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	user := models.User{ID: 1, Email: "ann@example.com", Name: "Ann"}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret" {
			reply(w, 401, map[string]string{"detail": "Invalid email or password"})
			return
		}
		reply(w, 200, models.AuthResponse{AccessToken: "t1", TokenType: "bearer", User: user})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			reply(w, 401, map[string]string{"detail": "Not authenticated"})
			return
		}
		reply(w, 200, user)
	})
	mux.HandleFunc("GET /api/auth/check", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			reply(w, 200, map[string]any{"authenticated": false, "user": nil})
			return
		}
		reply(w, 200, map[string]any{"authenticated": true, "user": user})
	})
	stapler := models.Product{ID: 42, ASIN: "B0STAPLER", Name: "Stapler", Price: 500, Stock: 3}
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "42" {
			reply(w, 404, map[string]string{"detail": "Product not found"})
			return
		}
		reply(w, 200, stapler)
	})
	mux.HandleFunc("GET /api/products/by-asin/{asin}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("asin") != stapler.ASIN {
			reply(w, 404, map[string]string{"detail": "Product not found"})
			return
		}
		reply(w, 200, stapler)
	})
	mux.HandleFunc("GET /api/wishlist/check/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, map[string]bool{"in_wishlist": r.PathValue("id") == "42"})
	})
	mux.HandleFunc("GET /api/wishlist/ids", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, map[string]any{"product_ids": []int64{42}})
	})
	mux.HandleFunc("GET /api/cart/{sid}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, b.cart(r.PathValue("sid")))
	})
	mux.HandleFunc("POST /api/cart/{sid}/items", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.ProductID != 42 {
			reply(w, 404, map[string]string{"detail": "Product not found"})
			return
		}
		c := b.cart(r.PathValue("sid"))
		if len(c.Items) == 0 {
			c.Items = append(c.Items, models.CartItem{ID: 5, ProductID: 42, Product: &models.Product{ID: 42, Name: "Stapler", Price: 500}})
		}
		c.Items[0].Quantity += in.Quantity
		reply(w, 200, b.cart(r.PathValue("sid")))
	})
	mux.HandleFunc("PUT /api/cart/{sid}/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Quantity int `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		c := b.cart(r.PathValue("sid"))
		c.Items[0].Quantity = in.Quantity
		reply(w, 200, b.cart(r.PathValue("sid")))
	})
	mux.HandleFunc("DELETE /api/cart/{sid}/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		c := b.cart(r.PathValue("sid"))
		c.Items = c.Items[:0]
		reply(w, 200, b.cart(r.PathValue("sid")))
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.auth = append(b.auth, r.Header.Get("Authorization"))
		mux.ServeHTTP(w, r)
	})
}

func newTestApp(t *testing.T, input string) (*App, *backend, *bytes.Buffer, *stores.SessionStore) {
	t.Helper()
	b := &backend{carts: map[string]*models.Cart{}}
	ts := httptest.NewServer(b.handler(t))
	t.Cleanup(ts.Close)

	oldTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = oldTerm })

	log := logging.Discard()
	repo := stores.NewMemoryRepository()
	tokens := stores.NewTokenStore(repo, log)
	sessions := stores.NewSessionStore(repo, log)
	api := client.NewHTTPClient(ts.URL, time.Second, tokens, log)
	sf := services.NewStorefront(api, tokens, sessions, api.HTTP(), log)

	var out bytes.Buffer
	return newApp(sf, rdr(input), &out, log), b, &out, sessions
}

func TestApp_GuestCartAddAndDecrementToRemove(t *testing.T) {
	app, b, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, app.Add(ctx, []string{"42", "2"}))
	assert.Equal(t, 2, app.sf.Cart.ItemCount())
	assert.Equal(t, 1000.0, app.sf.Cart.Subtotal())
	assert.Contains(t, out.String(), "Added to cart (2 items)")

	require.NoError(t, app.Dec(ctx, []string{"5"}))
	require.NoError(t, app.Dec(ctx, []string{"5"}))
	assert.Equal(t, 0, app.sf.Cart.ItemCount())
	assert.Contains(t, out.String(), "Your cart is empty")

	var methods []string
	for _, r := range b.requests {
		methods = append(methods, strings.Fields(r)[0])
	}
	assert.Equal(t, []string{"POST", "PUT", "DELETE"}, methods, "zero quantity is never sent")
}

func TestApp_QtyZeroRefused(t *testing.T) {
	app, b, _, _ := newTestApp(t, "")

	err := app.Qty(context.Background(), []string{"5", "0"})
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	assert.Empty(t, b.requests)
}

func TestApp_AddUnknownProductShowsServerDetail(t *testing.T) {
	app, _, _, _ := newTestApp(t, "")

	err := app.Add(context.Background(), []string{"7"})
	assert.EqualError(t, err, "Product not found")
}

func TestApp_LoginAttachesTokenAndLogoutResetsSession(t *testing.T) {
	app, b, out, sessions := newTestApp(t, "ann@example.com\nsecret\n")
	ctx := context.Background()

	require.NoError(t, app.Login(ctx))
	assert.Contains(t, out.String(), "Signed in as ann@example.com")
	assert.True(t, app.sf.Wishlist.IsMember(42))
	assert.Equal(t, "Bearer t1", b.auth[len(b.auth)-1])
	assert.Equal(t, "ann@example.com, cart 0", app.status())

	before := sessions.GetOrCreate(ctx)
	require.NoError(t, app.Logout(ctx))

	assert.False(t, app.isLoggedIn())
	assert.False(t, app.sf.Wishlist.IsMember(42))
	assert.NotEqual(t, before, sessions.GetOrCreate(ctx))
	assert.Equal(t, "guest, cart 0", app.status())
}

func TestApp_LoginRejected(t *testing.T) {
	app, _, _, _ := newTestApp(t, "ann@example.com\nwrong\n")

	err := app.Login(context.Background())
	assert.EqualError(t, err, "Invalid email or password")
	assert.False(t, app.isLoggedIn())
}

func TestApp_MemberCommandsNeedLogin(t *testing.T) {
	app, _, _, _ := newTestApp(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, app.Checkout(ctx), services.ErrNotAuthenticated)
	assert.ErrorIs(t, app.BuyNow(ctx, []string{"42"}), services.ErrNotAuthenticated)
	assert.ErrorIs(t, app.Wish(ctx, []string{"42"}), services.ErrNotAuthenticated)
	assert.ErrorIs(t, app.Orders(ctx), services.ErrNotAuthenticated)
}

func TestApp_WhoAmI(t *testing.T) {
	app, _, out, _ := newTestApp(t, "")

	require.NoError(t, app.WhoAmI(context.Background()))
	assert.Contains(t, out.String(), "Not signed in")
}

func TestApp_WhoAmIConfirmsWithServer(t *testing.T) {
	app, b, out, _ := newTestApp(t, "ann@example.com\nsecret\n")
	ctx := context.Background()
	require.NoError(t, app.Login(ctx))

	require.NoError(t, app.WhoAmI(ctx))
	assert.Contains(t, out.String(), "Ann <ann@example.com> (id 1)")
	assert.Equal(t, "GET /api/auth/check", b.requests[len(b.requests)-1])
}

func TestApp_ProductByIDOrASIN(t *testing.T) {
	app, b, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, app.Product(ctx, []string{"B0STAPLER"}))
	assert.Contains(t, out.String(), "#42 Stapler\n")
	assert.Contains(t, out.String(), "asin: B0STAPLER")
	assert.Equal(t, []string{"GET /api/products/by-asin/B0STAPLER"}, b.requests, "guests skip the wishlist check")

	assert.EqualError(t, app.Product(ctx, []string{"7"}), "Product not found")
	assert.Error(t, app.Product(ctx, []string{"-1"}))
	assert.Error(t, app.Product(ctx, nil))
}

func TestApp_ProductShowsServerWishlistState(t *testing.T) {
	app, b, out, _ := newTestApp(t, "ann@example.com\nsecret\n")
	ctx := context.Background()
	require.NoError(t, app.Login(ctx))

	require.NoError(t, app.Product(ctx, []string{"42"}))
	assert.Contains(t, out.String(), "#42 Stapler ♥")
	assert.Equal(t, "GET /api/wishlist/check/42", b.requests[len(b.requests)-1])
}
