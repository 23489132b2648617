package services

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/dbx"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/carts"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/categories"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/orders"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/products"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/users"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/wishlist"
)

// memStore backs the fake repositories. err, when set, is returned by every
// repository call.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	err        error
	users      []models.User
	categories []models.Category
	products   map[int64]*models.Product
	images     []models.ProductImage
	carts      map[string]*models.Cart
	orders     []models.Order
	wishlist   []wishEntry
	loads      int
	// loadHook, when set, runs at the start of every cart load, outside mu.
	loadHook func(sessionID string)
}

type wishEntry struct {
	id, userID, productID int64
}

func newMemStore() *memStore {
	return &memStore{products: map[int64]*models.Product{}, carts: map[string]*models.Cart{}, nextID: 100}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addProduct(id int64, name string, price float64, stock int) {
	m.products[id] = &models.Product{ID: id, Name: name, Price: price, Stock: stock}
}

type fakeManager struct{ s *memStore }

func (f fakeManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (f fakeManager) Users(dbx.DBTX) users.Repository                { return fakeUsers(f) }
func (f fakeManager) Categories(dbx.DBTX) categories.Repository      { return fakeCategories(f) }
func (f fakeManager) Products(dbx.DBTX) products.Repository          { return fakeProducts(f) }
func (f fakeManager) Carts(dbx.DBTX) carts.Repository                { return fakeCarts(f) }
func (f fakeManager) Orders(dbx.DBTX) orders.Repository              { return fakeOrders(f) }
func (f fakeManager) Wishlist(dbx.DBTX) wishlist.Repository          { return fakeWishlist(f) }

type fakeUsers struct{ s *memStore }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, x := range f.s.users {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = f.s.id()
	u.CreatedAt = time.Now()
	f.s.users = append(f.s.users, *u)
	return u, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Email == email })
}

func (f fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.ID == id })
}

func (f fakeUsers) SetAdmin(_ context.Context, email string, admin bool) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i := range f.s.users {
		if f.s.users[i].Email == email {
			f.s.users[i].IsAdmin = admin
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f fakeUsers) find(match func(models.User) bool) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, u := range f.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeCategories struct{ s *memStore }

func (f fakeCategories) List(context.Context) ([]models.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return slices.Clone(f.s.categories), f.s.err
}

func (f fakeCategories) Upsert(_ context.Context, name, slug string) (*models.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i := range f.s.categories {
		if f.s.categories[i].Slug == slug {
			f.s.categories[i].Name = name
			c := f.s.categories[i]
			return &c, nil
		}
	}
	c := models.Category{ID: f.s.id(), Name: name, Slug: slug}
	f.s.categories = append(f.s.categories, c)
	return &c, nil
}

func (f fakeCategories) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, c := range f.s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeProducts struct{ s *memStore }

func (f fakeProducts) List(_ context.Context, flt models.ProductFilter) ([]models.Product, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, 0, f.s.err
	}
	var ids []int64
	for id := range f.s.products {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	var out []models.Product
	start := (flt.Page - 1) * flt.PerPage
	for i := start; i < len(ids) && i < start+flt.PerPage; i++ {
		out = append(out, *f.s.products[ids[i]])
	}
	return out, len(ids), nil
}

func (f fakeProducts) Get(_ context.Context, id int64) (*models.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	p, ok := f.s.products[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakeProducts) Count(context.Context) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return len(f.s.products), f.s.err
}

func (f fakeProducts) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, x := range f.s.products {
		if x.ASIN == p.ASIN {
			return nil, common.ErrorAlreadyExists
		}
	}
	p.ID = f.s.id()
	cp := *p
	f.s.products[p.ID] = &cp
	return p, nil
}

func (f fakeProducts) GetByASIN(_ context.Context, asin string) (*models.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, p := range f.s.products {
		if p.ASIN == asin {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeProducts) Images(_ context.Context, productID int64) ([]models.ProductImage, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.ProductImage
	for _, img := range f.s.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	return out, f.s.err
}

func (f fakeProducts) AddImage(_ context.Context, img *models.ProductImage) (*models.ProductImage, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	img.ID = f.s.id()
	f.s.images = append(f.s.images, *img)
	return img, nil
}

func (f fakeProducts) DecrementStock(_ context.Context, id int64, quantity int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	p := f.s.products[id]
	if p == nil || p.Stock < quantity {
		return common.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

type fakeCarts struct{ s *memStore }

func (f fakeCarts) GetOrCreate(_ context.Context, sessionID string) (*models.Cart, error) {
	f.s.mu.Lock()
	hook := f.s.loadHook
	f.s.mu.Unlock()
	if hook != nil {
		hook(sessionID)
	}

	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	f.s.loads++
	c, ok := f.s.carts[sessionID]
	if !ok {
		c = &models.Cart{ID: f.s.id(), SessionID: sessionID}
		f.s.carts[sessionID] = c
	}
	return &models.Cart{ID: c.ID, SessionID: c.SessionID}, nil
}

func (f fakeCarts) FindBySession(_ context.Context, sessionID string) (*models.Cart, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	c, ok := f.s.carts[sessionID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Cart{ID: c.ID, SessionID: c.SessionID}, nil
}

func (f fakeCarts) byID(id int64) *models.Cart {
	for _, c := range f.s.carts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f fakeCarts) Items(_ context.Context, cartID int64) ([]models.CartItem, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	var out []models.CartItem
	for _, it := range f.byID(cartID).Items {
		p := *f.s.products[it.ProductID]
		it.Product = &p
		out = append(out, it)
	}
	return out, nil
}

func (f fakeCarts) AddItem(_ context.Context, cartID, productID int64, quantity int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	c := f.byID(cartID)
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, models.CartItem{ID: f.s.id(), ProductID: productID, Quantity: quantity})
	return nil
}

func (f fakeCarts) SetQuantity(_ context.Context, cartID, itemID int64, quantity int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	c := f.byID(cartID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f fakeCarts) RemoveItem(_ context.Context, cartID, itemID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	c := f.byID(cartID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = slices.Delete(c.Items, i, i+1)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f fakeCarts) Clear(_ context.Context, cartID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	f.byID(cartID).Items = nil
	return nil
}

type fakeOrders struct{ s *memStore }

func (f fakeOrders) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	o.ID = f.s.id()
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].ID = f.s.id()
		o.Items[i].OrderID = o.ID
	}
	f.s.orders = append(f.s.orders, *o)
	return o, nil
}

func (f fakeOrders) GetByNumber(_ context.Context, number string) (*models.Order, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, o := range f.s.orders {
		if o.OrderNumber == number {
			return &o, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeOrders) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Order
	for i := len(f.s.orders) - 1; i >= 0; i-- {
		if f.s.orders[i].UserID == userID {
			out = append(out, f.s.orders[i])
		}
	}
	return out, f.s.err
}

type fakeWishlist struct{ s *memStore }

func (f fakeWishlist) Find(_ context.Context, userID, productID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return 0, f.s.err
	}
	for _, w := range f.s.wishlist {
		if w.userID == userID && w.productID == productID {
			return w.id, nil
		}
	}
	return 0, common.ErrorNotFound
}

func (f fakeWishlist) Add(_ context.Context, userID, productID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return 0, f.s.err
	}
	for _, w := range f.s.wishlist {
		if w.userID == userID && w.productID == productID {
			return 0, common.ErrorAlreadyExists
		}
	}
	id := f.s.id()
	f.s.wishlist = append(f.s.wishlist, wishEntry{id: id, userID: userID, productID: productID})
	return id, nil
}

func (f fakeWishlist) Remove(_ context.Context, userID, productID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	for i, w := range f.s.wishlist {
		if w.userID == userID && w.productID == productID {
			f.s.wishlist = slices.Delete(f.s.wishlist, i, i+1)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f fakeWishlist) ProductIDs(_ context.Context, userID int64) ([]int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []int64
	for _, w := range f.s.wishlist {
		if w.userID == userID {
			out = append(out, w.productID)
		}
	}
	return out, f.s.err
}

func (f fakeWishlist) List(_ context.Context, userID int64) ([]models.WishlistItem, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.WishlistItem
	for _, w := range f.s.wishlist {
		if w.userID == userID {
			p := *f.s.products[w.productID]
			out = append(out, models.WishlistItem{ID: w.id, ProductID: w.productID, Product: &p})
		}
	}
	return out, f.s.err
}

// newMockDB returns a sqlmock db for services that open transactions.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}
