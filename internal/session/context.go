// Package session holds the signed-in identity of one panel user. A Context is
// created once at the application root and passed to every gated page.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/internal/apiclient"
)

var (
	// ErrNotAuthenticated means the server rejected the token.
	ErrNotAuthenticated = errors.New("session: not authenticated")
	// ErrUnreachable means the identity could not be resolved because the server did not answer properly.
	ErrUnreachable = errors.New("session: server unreachable")
)

// Identity is the resolved user of a session.
type Identity = apiclient.Identity

// IdentityResolver turns a bearer token into an identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

type Option func(*Context)

func WithLogger(l *slog.Logger) Option { return func(c *Context) { c.log = l } }

// Context is the explicit session object. The zero identity is "absent".
type Context struct {
	store    TokenStore
	resolver IdentityResolver
	log      *slog.Logger

	mu       sync.RWMutex
	token    string
	identity *Identity
	lastErr  error
}

func New(store TokenStore, resolver IdentityResolver, opts ...Option) *Context {
	c := &Context{store: store, resolver: resolver}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Init reads the stored token and, when one is present, resolves it. A failed
// resolution leaves the session anonymous; the token itself is kept so a later
// Init can try again once the server is back.
func (c *Context) Init(ctx context.Context) error {
	tok, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("session: load token: %w", err)
	}
	c.mu.Lock()
	c.token = tok
	c.identity = nil
	c.lastErr = nil
	c.mu.Unlock()
	if tok == "" {
		return nil
	}
	return c.resolve(ctx, tok)
}

// Login stores token and then resolves the identity. There is no retry: on
// failure the identity stays absent and the classified error is returned.
func (c *Context) Login(ctx context.Context, token string) error {
	if err := c.store.Save(ctx, token); err != nil {
		return fmt.Errorf("session: save token: %w", err)
	}
	c.mu.Lock()
	c.token = token
	c.identity = nil
	c.lastErr = nil
	c.mu.Unlock()
	return c.resolve(ctx, token)
}

// Logout forgets token and identity. The game API is not contacted.
func (c *Context) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.identity = nil
	c.lastErr = nil
	c.mu.Unlock()
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}

func (c *Context) resolve(ctx context.Context, token string) error {
	id, err := c.resolver.Resolve(ctx, token)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != token {
		// logged out or replaced while the call was in flight
		return nil
	}
	if err != nil {
		c.lastErr = classify(err)
		c.log.Warn("session: identity not resolved", "err", err)
		return c.lastErr
	}
	c.identity = &id
	return nil
}

func classify(err error) error {
	var ae *apiclient.Error
	if errors.As(err, &ae) {
		switch {
		case ae.Transport(), ae.Status >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", ErrUnreachable, err)
		default:
			return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
}

// Current returns the identity, if any.
func (c *Context) Current() (Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return Identity{}, false
	}
	return *c.identity, true
}

func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// LastError is the classified failure of the most recent resolution, or nil.
func (c *Context) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Permits reports whether the current identity may see something gated at required.
// An anonymous session is permitted nothing.
func (c *Context) Permits(required access.Level) bool {
	id, ok := c.Current()
	return ok && id.Access.Allows(required)
}
