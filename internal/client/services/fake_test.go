package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/client/stores"
	"github.com/dmitrijs2005/vamazon/internal/logging"
)

// fakeAPI is an in-memory storefront server. Tokens map to users; carts are
// keyed by session id. Hooks override single endpoints.
type fakeAPI struct {
	mu sync.Mutex

	products map[int64]models.Product
	carts    map[string]*models.Cart
	nextItem int64
	wishlist map[int64]bool
	tokens   map[string]models.User

	// seenTokens records the token source value on each authenticated call.
	tokenSource client.TokenSource
	seenTokens  []string
	calls       []string

	loginErr    error
	meErr       error
	wishlistErr error
	// respondHook, when set, runs after a wishlist call was served and
	// before its result is returned, outside mu.
	respondHook func(op string)
	addCartHook func(sessionID string, productID int64, quantity int) (*models.Cart, error)
	getCartHook func(sessionID string) (*models.Cart, error)
	orderErr    error
}

var _ client.API = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		products: map[int64]models.Product{
			42: {ID: 42, Name: "Stapler", Price: 500, Stock: 10},
			7:  {ID: 7, Name: "Pen", Price: 12.5, Stock: 100},
		},
		carts:    map[string]*models.Cart{},
		wishlist: map[int64]bool{},
		tokens:   map[string]models.User{},
	}
}

func (f *fakeAPI) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) authorized(ctx context.Context) error {
	tok, _ := f.tokenSource.Get(ctx)
	f.seenTokens = append(f.seenTokens, tok)
	if _, ok := f.tokens[tok]; !ok {
		return &client.APIError{StatusCode: 401, Detail: "Not authenticated"}
	}
	return nil
}

// unauthorized builds the error HTTPClient returns for a 401 on an
// authenticated endpoint.
func unauthorized() error {
	return client.ErrUnauthorized
}

func (f *fakeAPI) Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("register")
	for _, u := range f.tokens {
		if u.Email == email {
			return nil, &client.APIError{StatusCode: 400, Detail: "Email already registered"}
		}
	}
	u := models.User{ID: int64(len(f.tokens) + 1), Email: email, Name: name}
	tok := "tok-" + email
	f.tokens[tok] = u
	return &models.AuthResponse{AccessToken: tok, TokenType: "bearer", User: u}, nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if password != "secret" {
		return nil, &client.APIError{StatusCode: 401, Detail: "Invalid email or password"}
	}
	u := models.User{ID: 1, Email: email, Name: "Ann"}
	tok := "t1"
	f.tokens[tok] = u
	return &models.AuthResponse{AccessToken: tok, TokenType: "bearer", User: u}, nil
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("me")
	if f.meErr != nil {
		return nil, f.meErr
	}
	tok, _ := f.tokenSource.Get(ctx)
	u, ok := f.tokens[tok]
	if !ok {
		return nil, unauthorized()
	}
	return &u, nil
}

// Check mirrors /api/auth/check: an unknown token is not an error.
func (f *fakeAPI) Check(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("check")
	if f.meErr != nil {
		return nil, f.meErr
	}
	tok, _ := f.tokenSource.Get(ctx)
	u, ok := f.tokens[tok]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeAPI) cartLocked(sessionID string) *models.Cart {
	c, ok := f.carts[sessionID]
	if !ok {
		c = &models.Cart{ID: int64(len(f.carts) + 1), SessionID: sessionID}
		f.carts[sessionID] = c
	}
	return c
}

func (f *fakeAPI) snapshotLocked(c *models.Cart) *models.Cart {
	out := *c
	out.Items = append([]models.CartItem(nil), c.Items...)
	out.TotalItems, out.Subtotal = totals(out.Items)
	return &out
}

func (f *fakeAPI) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	f.mu.Lock()
	f.record("get_cart")
	hook := f.getCartHook
	f.mu.Unlock()
	if hook != nil {
		return hook(sessionID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked(f.cartLocked(sessionID)), nil
}

func (f *fakeAPI) AddCartItem(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error) {
	f.mu.Lock()
	f.record("add_item")
	hook := f.addCartHook
	f.mu.Unlock()
	if hook != nil {
		return hook(sessionID, productID, quantity)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Detail: "Product not found"}
	}
	c := f.cartLocked(sessionID)
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return f.snapshotLocked(c), nil
		}
	}
	f.nextItem++
	c.Items = append(c.Items, models.CartItem{ID: f.nextItem, ProductID: productID, Quantity: quantity, Product: &p})
	return f.snapshotLocked(c), nil
}

func (f *fakeAPI) UpdateCartItem(ctx context.Context, sessionID string, itemID int64, quantity int) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_item")
	c := f.cartLocked(sessionID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return f.snapshotLocked(c), nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Detail: "Cart item not found"}
}

func (f *fakeAPI) RemoveCartItem(ctx context.Context, sessionID string, itemID int64) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("remove_item")
	c := f.cartLocked(sessionID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return f.snapshotLocked(c), nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Detail: "Cart item not found"}
}

func (f *fakeAPI) ClearCart(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("clear_cart")
	f.cartLocked(sessionID).Items = nil
	return nil
}

func (f *fakeAPI) respond(op string) {
	f.mu.Lock()
	hook := f.respondHook
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
}

func (f *fakeAPI) WishlistIDs(ctx context.Context) ([]int64, error) {
	ids, err := f.wishlistIDs(ctx)
	f.respond("wishlist_ids")
	return ids, err
}

func (f *fakeAPI) wishlistIDs(ctx context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("wishlist_ids")
	if f.wishlistErr != nil {
		return nil, f.wishlistErr
	}
	if err := f.authorized(ctx); err != nil {
		return nil, unauthorized()
	}
	var ids []int64
	for id := range f.wishlist {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeAPI) AddToWishlist(ctx context.Context, productID int64) error {
	err := f.addToWishlist(ctx, productID)
	f.respond("wishlist_add")
	return err
}

func (f *fakeAPI) addToWishlist(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("wishlist_add")
	if f.wishlistErr != nil {
		return f.wishlistErr
	}
	if err := f.authorized(ctx); err != nil {
		return unauthorized()
	}
	if _, ok := f.products[productID]; !ok {
		return &client.APIError{StatusCode: 404, Detail: "Product not found"}
	}
	f.wishlist[productID] = true
	return nil
}

func (f *fakeAPI) RemoveFromWishlist(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("wishlist_remove")
	if f.wishlistErr != nil {
		return f.wishlistErr
	}
	if err := f.authorized(ctx); err != nil {
		return unauthorized()
	}
	if !f.wishlist[productID] {
		return &client.APIError{StatusCode: 404, Detail: "Item not in wishlist"}
	}
	delete(f.wishlist, productID)
	return nil
}

func (f *fakeAPI) InWishlist(ctx context.Context, productID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("wishlist_check")
	if f.wishlistErr != nil {
		return false, f.wishlistErr
	}
	if err := f.authorized(ctx); err != nil {
		return false, unauthorized()
	}
	return f.wishlist[productID], nil
}

func (f *fakeAPI) Wishlist(ctx context.Context) ([]models.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("wishlist")
	if err := f.authorized(ctx); err != nil {
		return nil, unauthorized()
	}
	var out []models.WishlistItem
	for id := range f.wishlist {
		p := f.products[id]
		out = append(out, models.WishlistItem{ID: id, ProductID: id, Product: &p})
	}
	return out, nil
}

func (f *fakeAPI) Products(ctx context.Context, _ models.ProductFilter) (*models.ProductList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := &models.ProductList{Page: 1, PerPage: 12}
	for _, p := range f.products {
		list.Products = append(list.Products, p)
	}
	list.Total = len(list.Products)
	return list, nil
}

func (f *fakeAPI) Product(ctx context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Detail: "Product not found"}
	}
	return &p, nil
}

func (f *fakeAPI) ProductByASIN(ctx context.Context, asin string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ASIN == asin {
			return &p, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Detail: "Product not found"}
}

func (f *fakeAPI) Categories(ctx context.Context) ([]models.Category, error) {
	return []models.Category{{ID: 1, Name: "Office", Slug: "office"}}, nil
}

func (f *fakeAPI) Category(ctx context.Context, slug string) (*models.Category, error) {
	return &models.Category{ID: 1, Name: "Office", Slug: slug}, nil
}

func (f *fakeAPI) RequestImageUpload(ctx context.Context, productID int64, contentType string, primary bool) (*models.ImageUpload, error) {
	return nil, &client.APIError{StatusCode: 503, Detail: "Image storage is not configured"}
}

func (f *fakeAPI) CreateOrder(ctx context.Context, req models.CheckoutRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_order")
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	if err := f.authorized(ctx); err != nil {
		return nil, unauthorized()
	}
	c := f.cartLocked(req.SessionID)
	if len(c.Items) == 0 {
		return nil, &client.APIError{StatusCode: 400, Detail: "Cart is empty"}
	}
	_, total := totals(c.Items)
	c.Items = nil
	return &models.Order{ID: 1, OrderNumber: "ORD-20250101-ABCDEF12", ShippingDetails: req.ShippingDetails, TotalAmount: total, Status: "confirmed"}, nil
}

func (f *fakeAPI) BuyNow(ctx context.Context, req models.BuyNowRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("buy_now")
	if err := f.authorized(ctx); err != nil {
		return nil, unauthorized()
	}
	p, ok := f.products[req.ProductID]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Detail: "Product not found"}
	}
	if p.Stock < req.Quantity {
		return nil, &client.APIError{StatusCode: 400, Detail: "Insufficient stock"}
	}
	return &models.Order{ID: 2, OrderNumber: "ORD-20250101-00000002", TotalAmount: p.Price * float64(req.Quantity), Status: "confirmed"}, nil
}

func (f *fakeAPI) Orders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorized(ctx); err != nil {
		return nil, unauthorized()
	}
	return []models.Order{{OrderNumber: "ORD-20250101-ABCDEF12"}}, nil
}

func (f *fakeAPI) Order(ctx context.Context, number string) (*models.Order, error) {
	return &models.Order{OrderNumber: number}, nil
}

type fixture struct {
	api      *fakeAPI
	repo     *stores.MemoryRepository
	tokens   *stores.TokenStore
	sessions *stores.SessionStore
	sf       *Storefront
}

func newFixture() *fixture {
	api := newFakeAPI()
	repo := stores.NewMemoryRepository()
	log := logging.Discard()
	tokens := stores.NewTokenStore(repo, log)
	sessions := stores.NewSessionStore(repo, log)
	api.tokenSource = tokens
	return &fixture{
		api:      api,
		repo:     repo,
		tokens:   tokens,
		sessions: sessions,
		sf:       NewStorefront(api, tokens, sessions, nil, log),
	}
}
