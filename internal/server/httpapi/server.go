// Package httpapi exposes the storefront services as a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address        string
	services       Services
	logger         logging.Logger
	requestTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, svc Services, requestTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:        a,
		services:       svc,
		logger:         l.With("module", "http_server"),
		requestTimeout: requestTimeout,
	}
}

// Handler returns the full router wrapped in OpenTelemetry instrumentation.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.requestTimeout > 0 {
		r.Use(middleware.Timeout(s.requestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Post("/login/form", s.loginForm)
			r.With(s.requireUser).Get("/me", s.me)
			r.With(s.optionalUser).Get("/check", s.check)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.listProducts)
			r.Get("/by-asin/{asin}", s.getProductByASIN)
			r.Get("/{id}", s.getProduct)
			r.With(s.requireUser, s.requireAdmin).Post("/{id}/images", s.requestImageUpload)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.listCategories)
			r.Get("/{slug}", s.getCategory)
		})

		r.Route("/cart/{sid}", func(r chi.Router) {
			r.Get("/", s.getCart)
			r.Delete("/", s.clearCart)
			r.Post("/items", s.addCartItem)
			r.Put("/items/{item_id}", s.updateCartItem)
			r.Delete("/items/{item_id}", s.removeCartItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.listWishlist)
			r.Get("/ids", s.wishlistIDs)
			r.Post("/add/{product_id}", s.addToWishlist)
			r.Delete("/remove/{product_id}", s.removeFromWishlist)
			r.Get("/check/{product_id}", s.checkWishlist)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(s.requireUser).Post("/", s.checkout)
			r.With(s.requireUser).Post("/buy-now", s.buyNow)
			r.With(s.requireUser).Get("/", s.listOrders)
			r.Get("/{order_number}", s.getOrder)
		})
	})

	return otelhttp.NewHandler(r, "vamazon-api")
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
