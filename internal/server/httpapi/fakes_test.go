package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/services"
	"github.com/stretchr/testify/require"
)

var (
	ann  = &models.User{ID: 7, Email: "ann@example.com", Name: "Ann"}
	root = &models.User{ID: 1, Email: "root@example.com", Name: "Root", IsAdmin: true}
)

// fakeUsers accepts the token "t1" for ann and "t0" for the admin root.
type fakeUsers struct {
	registerErr error
}

func (f *fakeUsers) Register(_ context.Context, email, _, name string) (*models.AuthResult, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.AuthResult{AccessToken: "t1", TokenType: "bearer", User: models.User{ID: 7, Email: email, Name: name}}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*models.AuthResult, error) {
	if email != ann.Email || password != "secret" {
		return nil, services.ErrInvalidCredentials
	}
	return &models.AuthResult{AccessToken: "t1", TokenType: "bearer", User: *ann}, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	switch token {
	case "t1":
		return ann, nil
	case "t0":
		return root, nil
	}
	return nil, services.ErrNotAuthenticated
}

type fakeCatalog struct {
	filters []models.ProductFilter
	upload  struct {
		contentType string
		primary     bool
	}
}

func (f *fakeCatalog) ListProducts(_ context.Context, flt models.ProductFilter) (*models.ProductList, error) {
	f.filters = append(f.filters, flt)
	if flt.PerPage > services.MaxPerPage {
		return nil, &services.Error{Kind: common.ErrorValidation, Detail: "per_page must be between 1 and 50"}
	}
	return &models.ProductList{Products: []models.Product{{ID: 42, Name: "Stapler", Price: 500}}, Total: 1, Page: flt.Page, PerPage: flt.PerPage}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	if id != 42 {
		return nil, services.ErrProductNotFound
	}
	return &models.Product{ID: 42, Name: "Stapler", Price: 500, Images: []models.ProductImage{}}, nil
}

func (f *fakeCatalog) GetProductByASIN(_ context.Context, asin string) (*models.Product, error) {
	if asin != "B0STAPLER1" {
		return nil, services.ErrProductNotFound
	}
	return &models.Product{ID: 42, ASIN: asin, Name: "Stapler", Price: 500, Images: []models.ProductImage{}}, nil
}

func (f *fakeCatalog) Categories(context.Context) ([]models.Category, error) {
	return []models.Category{{ID: 1, Name: "Office", Slug: "office"}}, nil
}

func (f *fakeCatalog) CategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	if slug != "office" {
		return nil, services.ErrCategoryNotFound
	}
	return &models.Category{ID: 1, Name: "Office", Slug: "office"}, nil
}

func (f *fakeCatalog) RequestImageUpload(_ context.Context, productID int64, contentType string, primary bool) (*models.ImageUpload, error) {
	f.upload.contentType, f.upload.primary = contentType, primary
	return &models.ImageUpload{ImageID: 3, Key: "products/42/k", UploadURL: "http://s3/put"}, nil
}

type cartCall struct {
	op        string
	sessionID string
	id        int64
	quantity  int
}

type fakeCarts struct {
	calls []cartCall
	err   error
}

func (f *fakeCarts) cart(sid string) (*models.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Cart{ID: 1, SessionID: sid, Items: []models.CartItem{}}, nil
}

func (f *fakeCarts) Get(_ context.Context, sid string) (*models.Cart, error) {
	f.calls = append(f.calls, cartCall{"get", sid, 0, 0})
	return f.cart(sid)
}

func (f *fakeCarts) AddItem(_ context.Context, sid string, productID int64, q int) (*models.Cart, error) {
	f.calls = append(f.calls, cartCall{"add", sid, productID, q})
	return f.cart(sid)
}

func (f *fakeCarts) UpdateItem(_ context.Context, sid string, itemID int64, q int) (*models.Cart, error) {
	f.calls = append(f.calls, cartCall{"update", sid, itemID, q})
	return f.cart(sid)
}

func (f *fakeCarts) RemoveItem(_ context.Context, sid string, itemID int64) (*models.Cart, error) {
	f.calls = append(f.calls, cartCall{"remove", sid, itemID, 0})
	return f.cart(sid)
}

func (f *fakeCarts) Clear(_ context.Context, sid string) (string, error) {
	f.calls = append(f.calls, cartCall{"clear", sid, 0, 0})
	return services.MessageCartCleared, f.err
}

type fakeOrders struct {
	userID   int64
	session  string
	shipping models.ShippingDetails
	err      error
}

func (f *fakeOrders) order() (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Order{ID: 1, OrderNumber: "ORD-20261017-ABCDEF12", ShippingDetails: f.shipping, Status: models.OrderStatusConfirmed, Items: []models.OrderItem{}}, nil
}

func (f *fakeOrders) Checkout(_ context.Context, userID int64, sid string, sh models.ShippingDetails) (*models.Order, error) {
	f.userID, f.session, f.shipping = userID, sid, sh
	return f.order()
}

func (f *fakeOrders) BuyNow(_ context.Context, userID, _ int64, _ int, sh models.ShippingDetails) (*models.Order, error) {
	f.userID, f.shipping = userID, sh
	return f.order()
}

func (f *fakeOrders) Get(_ context.Context, number string) (*models.Order, error) {
	if number != "ORD-20261017-ABCDEF12" {
		return nil, services.ErrOrderNotFound
	}
	return f.order()
}

func (f *fakeOrders) ListMine(_ context.Context, userID int64) ([]models.Order, error) {
	f.userID = userID
	return []models.Order{}, nil
}

type fakeWishlist struct {
	ids map[int64]bool
}

func (f *fakeWishlist) Add(_ context.Context, _, productID int64) (int64, bool, error) {
	if productID == 999 {
		return 0, false, services.ErrProductNotFound
	}
	already := f.ids[productID]
	f.ids[productID] = true
	return 11, already, nil
}

func (f *fakeWishlist) Remove(_ context.Context, _, productID int64) error {
	if !f.ids[productID] {
		return services.ErrNotInWishlist
	}
	delete(f.ids, productID)
	return nil
}

func (f *fakeWishlist) Contains(_ context.Context, _, productID int64) (bool, error) {
	return f.ids[productID], nil
}

func (f *fakeWishlist) ProductIDs(context.Context, int64) ([]int64, error) {
	out := []int64{}
	for id := range f.ids {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeWishlist) List(context.Context, int64) ([]models.WishlistItem, error) {
	return []models.WishlistItem{}, nil
}

type fixture struct {
	srv      *httptest.Server
	catalog  *fakeCatalog
	carts    *fakeCarts
	orders   *fakeOrders
	wishlist *fakeWishlist
	users    *fakeUsers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    &fakeUsers{},
		catalog:  &fakeCatalog{},
		carts:    &fakeCarts{},
		orders:   &fakeOrders{},
		wishlist: &fakeWishlist{ids: map[int64]bool{}},
	}
	s := NewHTTPServer("127.0.0.1:0", logging.Discard(), Services{
		Users:    f.users,
		Catalog:  f.catalog,
		Carts:    f.carts,
		Orders:   f.orders,
		Wishlist: f.wishlist,
	}, 0)
	f.srv = httptest.NewServer(s.Handler())
	t.Cleanup(f.srv.Close)
	return f
}

// call sends a request and decodes a JSON response into out when non-nil.
func (f *fixture) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rdr)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type detail struct {
	Detail string `json:"detail"`
}
