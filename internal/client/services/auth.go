package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/vamazon/internal/client/client"
	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/logging"
)

type AuthStatus int

const (
	AuthUnauthenticated AuthStatus = iota
	AuthLoading
	AuthAuthenticated
)

func (s AuthStatus) String() string {
	switch s {
	case AuthLoading:
		return "loading"
	case AuthAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

type AuthSnapshot struct {
	Status AuthStatus
	User   *models.User
}

// TokenStorage is where the bearer token lives between runs.
type TokenStorage interface {
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, token string)
	Remove(ctx context.Context)
}

// AuthService tracks who is logged in. It is the only writer of the token.
type AuthService struct {
	api    client.AuthAPI
	tokens TokenStorage
	log    logging.Logger

	mu     sync.Mutex
	status AuthStatus
	user   *models.User

	subs Broadcaster[AuthSnapshot]
}

func NewAuthService(api client.AuthAPI, tokens TokenStorage, log logging.Logger) *AuthService {
	return &AuthService{api: api, tokens: tokens, log: log}
}

func (a *AuthService) set(status AuthStatus, user *models.User) {
	a.mu.Lock()
	a.status = status
	a.user = user
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.subs.Publish(snap)
}

func (a *AuthService) snapshotLocked() AuthSnapshot {
	snap := AuthSnapshot{Status: a.status}
	if a.user != nil {
		u := *a.user
		snap.User = &u
	}
	return snap
}

// Init restores the session from a stored token. Any failure to confirm the
// token with the server discards it.
func (a *AuthService) Init(ctx context.Context) {
	if _, ok := a.tokens.Get(ctx); !ok {
		a.set(AuthUnauthenticated, nil)
		return
	}

	a.set(AuthLoading, nil)

	user, err := a.api.Me(ctx)
	if err != nil {
		a.log.Info(ctx, "stored token rejected", "error", err)
		a.tokens.Remove(ctx)
		a.set(AuthUnauthenticated, nil)
		return
	}

	a.set(AuthAuthenticated, user)
}

// Verify asks the server whether the stored token is still accepted and
// refreshes the user. A token the server no longer recognises is dropped.
// Without a token nothing is sent and the result is nil.
func (a *AuthService) Verify(ctx context.Context) (*models.User, error) {
	if _, ok := a.tokens.Get(ctx); !ok {
		return nil, nil
	}

	user, err := a.api.Check(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		a.Expire(ctx)
		return nil, nil
	}

	a.set(AuthAuthenticated, user)
	return user, nil
}

// Login returns the server's rejection (*client.APIError) or a transport
// error (client.ErrUnavailable) unchanged. A rejection drops any previous
// identity; a transport failure leaves state as it was.
func (a *AuthService) Login(ctx context.Context, email, password string) error {
	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.reject(ctx, err)
		return err
	}
	a.accept(ctx, resp)
	return nil
}

func (a *AuthService) Register(ctx context.Context, email, password, name string) error {
	resp, err := a.api.Register(ctx, email, password, name)
	if err != nil {
		a.reject(ctx, err)
		return err
	}
	a.accept(ctx, resp)
	return nil
}

func (a *AuthService) reject(ctx context.Context, err error) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return
	}
	a.tokens.Remove(ctx)
	a.set(AuthUnauthenticated, nil)
}

func (a *AuthService) accept(ctx context.Context, resp *models.AuthResponse) {
	a.tokens.Set(ctx, resp.AccessToken)
	user := resp.User
	a.set(AuthAuthenticated, &user)
	a.log.Info(ctx, "logged in", "user_id", user.ID)
}

// Logout forgets the token and the user. It does not touch the server, the
// cart or the wishlist.
func (a *AuthService) Logout(ctx context.Context) {
	a.tokens.Remove(ctx)
	a.set(AuthUnauthenticated, nil)
}

// Expire is called when an authenticated request came back 401.
func (a *AuthService) Expire(ctx context.Context) {
	a.log.Info(ctx, "session expired")
	a.Logout(ctx)
}

func (a *AuthService) Token(ctx context.Context) (string, bool) {
	return a.tokens.Get(ctx)
}

func (a *AuthService) User() *models.User {
	return a.Snapshot().User
}

func (a *AuthService) IsAuthenticated() bool {
	return a.Snapshot().Status == AuthAuthenticated
}

func (a *AuthService) Snapshot() AuthSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *AuthService) Subscribe(fn func(AuthSnapshot)) (unsubscribe func()) {
	return a.subs.Subscribe(fn)
}
