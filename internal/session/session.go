// Package session owns the in-memory identity of the running client and
// keeps it consistent with the credential in the Store.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/internal/store"
	"github.com/naveenspark/soraka/pkg/credential"
	"github.com/naveenspark/soraka/pkg/domain"
)

var (
	// ErrInvalidCredential is returned by Login when the backend handed out
	// a token that cannot be decoded.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrExpired marks a stored credential whose exp claim has passed.
	ErrExpired = errors.New("credential expired")
)

// Event identifies what kind of transition a Change describes.
type Event int

const (
	EventRestored  Event = iota // identity derived from the Store
	EventDiscarded              // stored credential was malformed or expired
	EventLoggedIn
	EventLoggedOut
)

func (e Event) String() string {
	switch e {
	case EventRestored:
		return "restored"
	case EventDiscarded:
		return "discarded"
	case EventLoggedIn:
		return "logged_in"
	case EventLoggedOut:
		return "logged_out"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Change is published to subscribers after every state transition.
type Change struct {
	Event         Event
	Identity      domain.Identity
	Authenticated bool
	Err           error // why a stored credential was discarded
}

type listener struct {
	id int
	fn func(Change)
}

// Context holds the single identity cell for the process. Only Initialize,
// Login, Logout and Sync mutate it.
type Context struct {
	store  store.Store
	nav    nav.Navigator
	now    func() time.Time
	logger *slog.Logger

	initOnce sync.Once

	mu        sync.Mutex
	token     string
	identity  domain.Identity
	present   bool
	listeners []listener
	nextID    int
}

// Option configures a Context.
type Option func(*Context)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// WithNavigator sets where Logout sends the user.
func WithNavigator(n nav.Navigator) Option {
	return func(c *Context) { c.nav = n }
}

// New creates a Context backed by s. Call Initialize before reading it.
func New(s store.Store, opts ...Option) *Context {
	c := &Context{
		store:  s,
		nav:    nav.Discard,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize derives the identity from the Store. A malformed or expired
// credential is removed and the session starts unauthenticated. Only the
// first call has any effect.
func (c *Context) Initialize() {
	c.initOnce.Do(func() {
		c.mu.Lock()
		change, ok := c.reload()
		ls := c.snapshot()
		c.mu.Unlock()

		if ok {
			c.publish(ls, change)
		}
	})
}

// Login decodes token, persists it and makes it the current identity.
// Expiry is not checked. On failure nothing changes.
func (c *Context) Login(token string) error {
	id, err := credential.Decode(token)
	if err != nil {
		return fmt.Errorf("session.Login: %w: %w", ErrInvalidCredential, err)
	}

	c.mu.Lock()
	if err := c.store.Save(token); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("session.Login: %w", err)
	}
	// Track the token as the Store reads it back so Sync compares like with like.
	if stored, ok := c.store.Read(); ok {
		token = stored
	}
	c.set(token, id)
	ls := c.snapshot()
	c.mu.Unlock()

	c.logger.Info("logged in", "subject", id.Subject, "role", id.Role, "expires_at", id.ExpiresAt)
	c.publish(ls, Change{Event: EventLoggedIn, Identity: id, Authenticated: true})
	return nil
}

// Logout clears the Store and the identity, then navigates home replacing
// the current history entry. Calling it while logged out only navigates.
func (c *Context) Logout() {
	c.mu.Lock()
	if err := c.store.Clear(); err != nil {
		c.logger.Error("clear stored credential", "error", err)
	}
	was := c.present
	c.setAbsent()
	ls := c.snapshot()
	c.mu.Unlock()

	if was {
		c.logger.Info("logged out")
		c.publish(ls, Change{Event: EventLoggedOut})
	}
	c.nav.Navigate(nav.Home, true)
}

// Current returns the identity and whether one is present.
func (c *Context) Current() (domain.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, c.present
}

// Sync re-derives the identity when the Store no longer holds the credential
// this Context last saw, e.g. after another process logged in or out.
// It reports whether anything changed.
func (c *Context) Sync() bool {
	c.mu.Lock()
	tok, ok := c.store.Read()
	if ok == c.present && tok == c.token {
		c.mu.Unlock()
		return false
	}
	change, changed := c.reload()
	ls := c.snapshot()
	c.mu.Unlock()

	if changed {
		c.logger.Debug("session changed externally", "event", change.Event)
		c.publish(ls, change)
	}
	return changed
}

// Subscribe registers fn to receive every Change. Listeners run on the
// goroutine that caused the change, after internal locks are released.
func (c *Context) Subscribe(fn func(Change)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// reload replaces the cell with whatever the Store currently derives to.
// Callers hold c.mu. It reports false when the result is "still absent".
func (c *Context) reload() (Change, bool) {
	tok, ok := c.store.Read()
	if !ok {
		was := c.present
		c.setAbsent()
		if was {
			return Change{Event: EventLoggedOut}, true
		}
		c.logger.Debug("no stored credential")
		return Change{}, false
	}

	id, err := c.derive(tok)
	if err != nil {
		if clearErr := c.store.Clear(); clearErr != nil {
			c.logger.Error("clear stored credential", "error", clearErr)
		}
		c.setAbsent()
		c.logger.Info("stored credential discarded", "reason", err)
		return Change{Event: EventDiscarded, Err: err}, true
	}

	c.set(tok, id)
	c.logger.Info("session restored", "subject", id.Subject, "role", id.Role, "expires_at", id.ExpiresAt)
	return Change{Event: EventRestored, Identity: id, Authenticated: true}, true
}

func (c *Context) derive(tok string) (domain.Identity, error) {
	id, err := credential.Decode(tok)
	if err != nil {
		return domain.Identity{}, err
	}
	if id.Expired(c.now()) {
		return domain.Identity{}, fmt.Errorf("%w at %s", ErrExpired, id.ExpiresAt.Format(time.RFC3339))
	}
	return id, nil
}

func (c *Context) set(tok string, id domain.Identity) {
	c.token, c.identity, c.present = tok, id, true
}

func (c *Context) setAbsent() {
	c.token, c.identity, c.present = "", domain.Identity{}, false
}

func (c *Context) snapshot() []listener {
	return append([]listener(nil), c.listeners...)
}

func (c *Context) publish(ls []listener, ch Change) {
	for _, l := range ls {
		l.fn(ch)
	}
}
