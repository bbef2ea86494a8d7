// File: internal/auth/client.go
package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// IdentityListener receives the current identity on every identity change.
// A nil session means signed out.
type IdentityListener func(*Session)

// Client is the stateful face of the auth provider: it holds the current
// session in memory and notifies subscribers whenever sign-in or sign-out
// changes it. It replaces the provider SDK's ambient auth-state singleton
// with an injected object owning an explicit subscribe/unsubscribe surface.
type Client struct {
	provider Provider
	logger   *zap.Logger

	mu        sync.Mutex
	current   *Session
	listeners map[int]IdentityListener
	nextID    int
}

// NewClient creates a signed-out Client.
func NewClient(provider Provider, logger *zap.Logger) *Client {
	return &Client{
		provider:  provider,
		logger:    logger,
		listeners: make(map[int]IdentityListener),
	}
}

// Subscribe registers a listener and immediately delivers the current
// session to it, mirroring how provider SDKs replay the auth state to new
// observers. The returned function removes the listener; calling it more
// than once is harmless.
func (c *Client) Subscribe(fn IdentityListener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	current := c.current
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Current returns the held session, or nil when signed out.
func (c *Client) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CreateAccount registers a new account and publishes the resulting session.
// The caller is expected to sign out again once registration side effects
// (initial profile write, verification email) are done.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (*Session, error) {
	sess, err := c.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.publish(sess)
	return sess, nil
}

// SignIn exchanges credentials and publishes the resulting session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	sess, err := c.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.publish(sess)
	return sess, nil
}

// SignOut clears the held session and notifies listeners before the remote
// revocation completes, so observers never render against a session that is
// already being torn down. Idempotent: signing out while signed out is a
// no-op.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.current
	c.mu.Unlock()

	if sess == nil {
		return nil
	}
	c.publish(nil)

	if err := c.provider.SignOut(ctx, sess.Identity.ID); err != nil {
		c.logger.Warn("Remote sign-out failed after local session clear",
			zap.Error(err), zap.String("uid", sess.Identity.ID))
		return err
	}
	return nil
}

// SendVerificationEmail forwards to the provider.
func (c *Client) SendVerificationEmail(ctx context.Context, idToken string) error {
	return c.provider.SendVerificationEmail(ctx, idToken)
}

// SendPasswordReset forwards to the provider.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.provider.SendPasswordReset(ctx, email)
}

func (c *Client) publish(sess *Session) {
	c.mu.Lock()
	c.current = sess
	fns := make([]IdentityListener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	// Listeners run outside the lock so they may call back into the client.
	for _, fn := range fns {
		fn(sess)
	}
}
