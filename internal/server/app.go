// Package server wires the storefront API: it opens PostgreSQL, applies
// migrations, connects the optional Redis cart cache and Kafka publisher,
// and runs the HTTP server until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/flagx"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/server/cache"
	"github.com/dmitrijs2005/vamazon/internal/server/config"
	"github.com/dmitrijs2005/vamazon/internal/server/events"
	"github.com/dmitrijs2005/vamazon/internal/server/httpapi"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/users"
	"github.com/dmitrijs2005/vamazon/internal/server/seed"
	"github.com/dmitrijs2005/vamazon/internal/server/services"
	"github.com/dmitrijs2005/vamazon/internal/server/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	redis     *redis.Client
	publisher events.Publisher
	services  httpapi.Services
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(c.LogLevel))

	rm := repomanager.NewPostgresRepositoryManager()
	db, err := openDB(ctx, c.DatabaseDSN, rm)
	if err != nil {
		return nil, err
	}

	if err := promoteAdmin(ctx, rm.Users(db), c.AdminEmail, logger); err != nil {
		db.Close()
		return nil, err
	}

	presigner, err := storage.NewS3Presigner(ctx, storage.Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	cartCache := app.newCartCache(ctx)
	app.publisher = newPublisher(c)

	carts := services.NewCartService(db, rm, cartCache, logger)
	app.services = httpapi.Services{
		Users:    services.NewUserService(db, rm, c),
		Catalog:  services.NewCatalogService(db, rm, presigner, logger),
		Carts:    carts,
		Orders:   services.NewOrderService(db, rm, carts, app.publisher, logger),
		Wishlist: services.NewWishlistService(db, rm),
	}

	return app, nil
}

// openDB connects to PostgreSQL and applies pending migrations.
func openDB(ctx context.Context, dsn string, rm repomanager.RepositoryManager) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return db, nil
}

// Seed fills an empty catalog from the dataset at path, or from the bundled
// sample when path is empty, and returns how many products were added.
func Seed(ctx context.Context, c *config.Config, path string) (int, error) {
	logger := logging.NewText(os.Stdout, logging.ParseLevel(c.LogLevel))

	records, err := seed.Open(path)
	if err != nil {
		return 0, fmt.Errorf("dataset error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	db, err := openDB(ctx, c.DatabaseDSN, rm)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return seed.NewSeeder(db, rm, nil, logger).Run(ctx, records)
}

// newCartCache returns the Redis cache, or a no-op when Redis is not
// configured.
func (app *App) newCartCache(ctx context.Context) cache.CartCache {
	if app.config.RedisAddr == "" {
		app.logger.Info(ctx, "cart cache disabled")
		return cache.Noop{}
	}
	app.redis = redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
	return cache.NewRedisCache(app.redis, app.config.CartCacheTTL)
}

// promoteAdmin grants admin rights to the configured user. A user that has
// not registered yet is only logged, so the first deploy can start before
// anyone signs up.
func promoteAdmin(ctx context.Context, repo users.Repository, email string, logger logging.Logger) error {
	if email == "" {
		return nil
	}
	err := repo.SetAdmin(ctx, email, true)
	switch {
	case err == nil:
		logger.Info(ctx, "admin granted", "email", email)
	case errors.Is(err, common.ErrorNotFound):
		logger.Warn(ctx, "admin user not registered", "email", email)
	default:
		return fmt.Errorf("admin grant error: %w", err)
	}
	return nil
}

func newPublisher(c *config.Config) events.Publisher {
	brokers := flagx.SplitList(c.KafkaBrokers)
	if len(brokers) == 0 {
		return events.Noop{}
	}
	return events.NewProducer(brokers, c.KafkaTopic)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.services, app.config.RequestTimeout)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close(ctx context.Context) {
	if err := app.publisher.Close(); err != nil {
		app.logger.Error(ctx, "publisher close error", "error", err)
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.close(context.Background())
	app.logger.Info(context.Background(), "App stopped")
}
