package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/client/config"
	"github.com/dmitrijs2005/vamazon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vamazon/internal/client/services"
	"github.com/dmitrijs2005/vamazon/internal/client/storage"
	"github.com/dmitrijs2005/vamazon/internal/client/stores"
	"github.com/dmitrijs2005/vamazon/internal/logging"
)

type App struct {
	sf     *services.Storefront
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
	closer io.Closer
}

// NewApp opens the local database in cfg.DataDir and builds the storefront.
// When the database cannot be opened the client still works, keeping the
// token and session id in memory only.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewText(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	var (
		repo   metadata.Repository
		closer io.Closer
	)
	repos, err := storage.Open(ctx, cfg.DataDir)
	if err != nil {
		log.Warn(ctx, "local storage unavailable, state will not persist", "error", err)
		repo = stores.NewMemoryRepository()
	} else {
		repo = repos.Metadata
		closer = repos
	}

	tokens := stores.NewTokenStore(repo, log)
	sessions := stores.NewSessionStore(repo, log)
	api := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, tokens, log)
	sf := services.NewStorefront(api, tokens, sessions, api.HTTP(), log)

	app := newApp(sf, bufio.NewReader(os.Stdin), os.Stdout, log)
	app.closer = closer
	return app, nil
}

func newApp(sf *services.Storefront, reader *bufio.Reader, out io.Writer, log logging.Logger) *App {
	return &App{sf: sf, reader: reader, out: out, log: log}
}

// Run restores the previous session and serves the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closer != nil {
			_ = a.closer.Close()
		}
	}()

	fmt.Fprintln(a.out, "Welcome to Vamazon (type 'help' for commands)")
	if err := a.sf.Start(ctx); err != nil {
		a.fail(err)
	}
	if u := a.sf.Auth.User(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.sf.Auth.IsAuthenticated()
}

// status is shown in the prompt: who is logged in and the cart badge.
func (a *App) status() string {
	s := "guest"
	if u := a.sf.Auth.User(); u != nil {
		s = u.Email
	}
	return fmt.Sprintf("%s, cart %d", s, a.sf.Cart.ItemCount())
}

func (a *App) fail(err error) {
	fmt.Fprintln(a.out, "Error:", err)
}
