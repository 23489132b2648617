package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vamazon/internal/dbx"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/carts"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/categories"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/orders"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/products"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/users"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/wishlist"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Products(db dbx.DBTX) products.Repository
	Carts(db dbx.DBTX) carts.Repository
	Orders(db dbx.DBTX) orders.Repository
	Wishlist(db dbx.DBTX) wishlist.Repository
}
