// File: internal/session/holder.go
// Package session maintains the authoritative snapshot of identity, profile,
// and loading state for the whole application lifetime, and drives the
// registration and login sequences against the auth provider.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/auth"
	"github.com/Agnesa14/SkillCast/internal/config"
	"github.com/Agnesa14/SkillCast/internal/flow"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// ProfileRegistry is the slice of the user service the holder needs: writing
// the initial profile record during registration.
type ProfileRegistry interface {
	InitProfile(ctx context.Context, identity shared.Identity, role string) (*shared.Profile, error)
}

// StateListener receives the session snapshot after every change.
type StateListener func(flow.State)

// Holder owns the reactive session state. It subscribes to identity changes
// from the auth client and keeps exactly one live profile subscription for
// the signed-in identity, torn down and replaced whenever the identity
// changes. Loading stays true from an identity change until the first
// profile snapshot arrives, so no flow decision is ever made against a
// profile that has not caught up with the identity.
type Holder struct {
	client        *auth.Client
	registry      ProfileRegistry
	watcher       shared.ProfileWatcher
	studentDomain string
	logger        *zap.Logger

	mu          sync.Mutex
	state       flow.State
	generation  int
	cancelWatch func()

	listeners map[int]StateListener
	nextID    int
	unsubAuth func()
	closed    bool
}

// NewHolder creates the holder and attaches it to the auth client. The
// initial state is loading (splash) until the client replays its current
// identity, which happens synchronously inside Subscribe.
func NewHolder(client *auth.Client, registry ProfileRegistry, watcher shared.ProfileWatcher, cfg *config.Config, logger *zap.Logger) *Holder {
	h := &Holder{
		client:        client,
		registry:      registry,
		watcher:       watcher,
		studentDomain: cfg.StudentEmailDomain,
		logger:        logger,
		state:         flow.State{Loading: true},
		listeners:     make(map[int]StateListener),
	}
	h.unsubAuth = client.Subscribe(h.onIdentityChange)
	return h
}

var _ auth.SessionGateway = (*Holder)(nil)

// State returns a copy of the current snapshot.
func (h *Holder) State() flow.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Subscribe registers a state listener and immediately delivers the current
// snapshot. The returned function removes the listener.
func (h *Holder) Subscribe(fn StateListener) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	current := h.state
	h.mu.Unlock()

	fn(current)

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Close detaches from the auth client and tears down any live profile
// subscription. The holder must not be used afterwards.
func (h *Holder) Close() {
	h.unsubAuth()

	h.mu.Lock()
	h.closed = true
	h.generation++
	cancel := h.cancelWatch
	h.cancelWatch = nil
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// SignUp registers a new account. The pre-flight checks run before anything
// touches the network; on success the initial profile record is written,
// a verification email is sent best-effort, and the fresh session is signed
// out immediately so the verification gate applies before the first real
// login.
func (h *Holder) SignUp(ctx context.Context, email, password, role string) error {
	if err := auth.ValidateSignUp(email, password, role, h.studentDomain); err != nil {
		return err
	}

	sess, err := h.client.CreateAccount(ctx, email, password)
	if err != nil {
		return err
	}

	if _, err := h.registry.InitProfile(ctx, sess.Identity, role); err != nil {
		h.logger.Error("Initial profile write failed after account creation",
			zap.Error(err), zap.String("uid", sess.Identity.ID))
		if signOutErr := h.client.SignOut(ctx); signOutErr != nil {
			h.logger.Warn("Sign-out after failed profile write also failed", zap.Error(signOutErr))
		}
		return err
	}

	// Best effort. A failed send does not abort registration; the user can
	// request another link by attempting to log in.
	if err := h.client.SendVerificationEmail(ctx, sess.IDToken); err != nil {
		h.logger.Warn("Verification email send failed",
			zap.Error(err), zap.String("uid", sess.Identity.ID))
	}

	if err := h.client.SignOut(ctx); err != nil {
		h.logger.Warn("Sign-out after registration failed", zap.Error(err), zap.String("uid", sess.Identity.ID))
	}
	return nil
}

// LogIn signs in with credentials. An unverified session is signed out again
// immediately so it cannot linger, and the call fails with UnverifiedEmail.
func (h *Holder) LogIn(ctx context.Context, email, password string) (*auth.Session, error) {
	sess, err := h.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !sess.Identity.EmailVerified {
		if signOutErr := h.client.SignOut(ctx); signOutErr != nil {
			h.logger.Warn("Forced sign-out of unverified session failed",
				zap.Error(signOutErr), zap.String("uid", sess.Identity.ID))
		}
		return nil, auth.ErrUnverifiedEmail
	}
	return sess, nil
}

// LogOut clears the local snapshot eagerly, before the remote sign-out
// completes, so observers never see a flash of stale signed-in state.
// Idempotent: a second call is a no-op on an already signed-out holder.
func (h *Holder) LogOut(ctx context.Context) error {
	h.mu.Lock()
	h.generation++
	cancel := h.cancelWatch
	h.cancelWatch = nil
	h.state = flow.State{Loading: false}
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.notify()

	return h.client.SignOut(ctx)
}

// SendPasswordReset forwards to the auth client.
func (h *Holder) SendPasswordReset(ctx context.Context, email string) error {
	return h.client.SendPasswordReset(ctx, email)
}

// onIdentityChange is invoked by the auth client on every sign-in and
// sign-out. It replaces the live profile subscription: the old one is
// cancelled, and snapshots from it are fenced off by the generation counter
// so an interleaved stale callback can never clobber the new identity's
// state.
func (h *Holder) onIdentityChange(sess *auth.Session) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.generation++
	gen := h.generation
	cancel := h.cancelWatch
	h.cancelWatch = nil

	if sess == nil {
		h.state = flow.State{Loading: false}
		h.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		h.notify()
		return
	}

	identity := sess.Identity
	h.state = flow.State{Loading: true, Identity: &identity}
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.notify()

	go h.watchProfile(identity, gen)
}

// watchProfile opens the profile subscription for one identity generation
// and applies its snapshots until the subscription closes or the generation
// is superseded.
func (h *Holder) watchProfile(identity shared.Identity, gen int) {
	snapshots, cancel, err := h.watcher.WatchProfile(context.Background(), identity.ID)
	if err != nil {
		h.logger.Error("Profile subscription failed",
			zap.Error(err), zap.String("uid", identity.ID))
		h.mu.Lock()
		if h.generation == gen {
			h.state.Loading = false
		}
		h.mu.Unlock()
		h.notify()
		return
	}

	h.mu.Lock()
	if h.generation != gen {
		h.mu.Unlock()
		cancel()
		return
	}
	h.cancelWatch = cancel
	h.mu.Unlock()

	for snapshot := range snapshots {
		h.mu.Lock()
		if h.generation != gen {
			h.mu.Unlock()
			return
		}
		h.state.Profile = snapshot
		h.state.Loading = false
		h.mu.Unlock()
		h.notify()
	}
}

func (h *Holder) notify() {
	h.mu.Lock()
	current := h.state
	fns := make([]StateListener, 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(current)
	}
}
