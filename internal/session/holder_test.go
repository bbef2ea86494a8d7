// File: internal/session/holder_test.go
package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Agnesa14/SkillCast/internal/auth"
	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/config"
	"github.com/Agnesa14/SkillCast/internal/flow"
	"github.com/Agnesa14/SkillCast/internal/platform/logger"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateAccount(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *mockProvider) SignOut(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *mockProvider) SendVerificationEmail(ctx context.Context, idToken string) error {
	return m.Called(ctx, idToken).Error(0)
}

func (m *mockProvider) SendPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) InitProfile(ctx context.Context, identity shared.Identity, role string) (*shared.Profile, error) {
	args := m.Called(ctx, identity, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Profile), args.Error(1)
}

// fakeWatcher is an in-memory shared.ProfileWatcher with preloaded records
// and a cancel counter for teardown assertions.
type fakeWatcher struct {
	mu       sync.Mutex
	profiles map[string]*shared.Profile
	subs     map[string][]chan *shared.Profile
	cancels  int
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		profiles: make(map[string]*shared.Profile),
		subs:     make(map[string][]chan *shared.Profile),
	}
}

func (w *fakeWatcher) WatchProfile(_ context.Context, id string) (<-chan *shared.Profile, func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan *shared.Profile, 8)
	ch <- w.profiles[id]
	w.subs[id] = append(w.subs[id], ch)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.cancels++
			for i, sub := range w.subs[id] {
				if sub == ch {
					w.subs[id] = append(w.subs[id][:i], w.subs[id][i+1:]...)
					break
				}
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}

func (w *fakeWatcher) publish(profile *shared.Profile) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.profiles[profile.ID] = profile
	for _, ch := range w.subs[profile.ID] {
		ch <- profile
	}
}

func (w *fakeWatcher) cancelCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancels
}

// stateRecorder captures every notified snapshot as a flow decision.
type stateRecorder struct {
	mu    sync.Mutex
	flows []flow.Flow
}

func (r *stateRecorder) record(s flow.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows = append(r.flows, flow.Select(s))
}

func (r *stateRecorder) snapshot() []flow.Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]flow.Flow(nil), r.flows...)
}

func (r *stateRecorder) last() flow.Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.flows) == 0 {
		return ""
	}
	return r.flows[len(r.flows)-1]
}

func verifiedSession(uid string) *auth.Session {
	return &auth.Session{
		Identity: shared.Identity{ID: uid, Email: "s@umib.net", EmailVerified: true},
		IDToken:  "tok",
	}
}

func newTestHolder(t *testing.T, provider auth.Provider, watcher shared.ProfileWatcher, registry ProfileRegistry) *Holder {
	t.Helper()
	log := logger.NewDefaultLogger()
	client := auth.NewClient(provider, log)
	cfg := &config.Config{StudentEmailDomain: "umib.net"}
	h := NewHolder(client, registry, watcher, cfg, log)
	t.Cleanup(h.Close)
	return h
}

func TestHolderStartsSignedOut(t *testing.T) {
	h := newTestHolder(t, new(mockProvider), newFakeWatcher(), new(mockRegistry))

	state := h.State()
	assert.False(t, state.Loading)
	assert.Nil(t, state.Identity)
	assert.Nil(t, state.Profile)
	assert.Equal(t, flow.Login, flow.Select(state))
}

// Verified login with a complete student profile moves the flow from splash
// straight to the student home, with no login or completion flash once the
// identity has been published.
func TestHolderVerifiedLoginHappyPath(t *testing.T) {
	provider := new(mockProvider)
	provider.On("SignIn", mock.Anything, "s@umib.net", "Abc123").Return(verifiedSession("uid-1"), nil)

	watcher := newFakeWatcher()
	watcher.profiles["uid-1"] = &shared.Profile{
		ID: "uid-1", Role: common.RoleStudent, IsProfileComplete: true,
	}

	h := newTestHolder(t, provider, watcher, new(mockRegistry))

	recorder := &stateRecorder{}
	defer h.Subscribe(recorder.record)()

	_, err := h.LogIn(context.Background(), "s@umib.net", "Abc123")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return recorder.last() == flow.StudentHome
	}, time.Second, 5*time.Millisecond)

	flows := recorder.snapshot()
	// Replay of the signed-out state, then splash while the profile loads,
	// then home. Never an intermediate login or completion screen.
	require.GreaterOrEqual(t, len(flows), 3)
	assert.Equal(t, flow.Login, flows[0])
	for _, f := range flows[1 : len(flows)-1] {
		assert.Equal(t, flow.Splash, f)
	}
	assert.Equal(t, flow.StudentHome, flows[len(flows)-1])
}

func TestHolderUnverifiedLoginForcesSignOut(t *testing.T) {
	provider := new(mockProvider)
	provider.On("SignIn", mock.Anything, "s@umib.net", "Abc123").Return(&auth.Session{
		Identity: shared.Identity{ID: "uid-1", Email: "s@umib.net", EmailVerified: false},
		IDToken:  "tok",
	}, nil)
	provider.On("SignOut", mock.Anything, "uid-1").Return(nil)

	h := newTestHolder(t, provider, newFakeWatcher(), new(mockRegistry))

	_, err := h.LogIn(context.Background(), "s@umib.net", "Abc123")
	assert.ErrorIs(t, err, auth.ErrUnverifiedEmail)
	provider.AssertCalled(t, "SignOut", mock.Anything, "uid-1")

	require.Eventually(t, func() bool {
		state := h.State()
		return !state.Loading && state.Identity == nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, flow.Login, flow.Select(h.State()))
}

// Logging out twice leaves the same terminal signed-out shape as logging out
// once.
func TestHolderLogOutIsIdempotent(t *testing.T) {
	provider := new(mockProvider)
	provider.On("SignIn", mock.Anything, mock.Anything, mock.Anything).Return(verifiedSession("uid-1"), nil)
	provider.On("SignOut", mock.Anything, "uid-1").Return(nil)

	watcher := newFakeWatcher()
	watcher.profiles["uid-1"] = &shared.Profile{ID: "uid-1", Role: common.RoleStudent, IsProfileComplete: true}

	h := newTestHolder(t, provider, watcher, new(mockRegistry))

	_, err := h.LogIn(context.Background(), "s@umib.net", "Abc123")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return flow.Select(h.State()) == flow.StudentHome
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, h.LogOut(context.Background()))
	first := h.State()

	require.NoError(t, h.LogOut(context.Background()))
	second := h.State()

	assert.Equal(t, first, second)
	assert.Nil(t, second.Identity)
	assert.Nil(t, second.Profile)
	assert.False(t, second.Loading)
	provider.AssertNumberOfCalls(t, "SignOut", 1)
}

func TestHolderLogOutTearsDownProfileSubscription(t *testing.T) {
	provider := new(mockProvider)
	provider.On("SignIn", mock.Anything, mock.Anything, mock.Anything).Return(verifiedSession("uid-1"), nil)
	provider.On("SignOut", mock.Anything, "uid-1").Return(nil)

	watcher := newFakeWatcher()
	watcher.profiles["uid-1"] = &shared.Profile{ID: "uid-1", Role: common.RoleStudent, IsProfileComplete: true}

	h := newTestHolder(t, provider, watcher, new(mockRegistry))

	_, err := h.LogIn(context.Background(), "s@umib.net", "Abc123")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return flow.Select(h.State()) == flow.StudentHome
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, h.LogOut(context.Background()))
	require.Eventually(t, func() bool {
		return watcher.cancelCount() == 1
	}, time.Second, 5*time.Millisecond)
}

// A live profile snapshot flipping the completion flag moves the holder from
// the completion flow to the matching home flow.
func TestHolderReactsToProfileCompletion(t *testing.T) {
	provider := new(mockProvider)
	provider.On("SignIn", mock.Anything, mock.Anything, mock.Anything).Return(verifiedSession("uid-1"), nil)

	watcher := newFakeWatcher()
	watcher.profiles["uid-1"] = &shared.Profile{ID: "uid-1", Role: common.RoleStudent, IsProfileComplete: false}

	h := newTestHolder(t, provider, watcher, new(mockRegistry))

	_, err := h.LogIn(context.Background(), "s@umib.net", "Abc123")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return flow.Select(h.State()) == flow.CompleteStudentProfile
	}, time.Second, 5*time.Millisecond)

	watcher.publish(&shared.Profile{ID: "uid-1", Role: common.RoleStudent, IsProfileComplete: true})
	require.Eventually(t, func() bool {
		return flow.Select(h.State()) == flow.StudentHome
	}, time.Second, 5*time.Millisecond)
}

// Registration rejected by the pre-flight checks never reaches the provider.
func TestHolderSignUpPreflightRejectsBeforeAnyNetworkCall(t *testing.T) {
	provider := new(mockProvider)
	h := newTestHolder(t, provider, newFakeWatcher(), new(mockRegistry))

	err := h.SignUp(context.Background(), "student@gmail.com", "Abc123", common.RoleStudent)
	assert.ErrorIs(t, err, auth.ErrEmailDomainNotAllowed)

	err = h.SignUp(context.Background(), "student@umib.net", "weak", common.RoleStudent)
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	provider.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestHolderSignUpWritesProfileAndSignsOut(t *testing.T) {
	provider := new(mockProvider)
	created := &auth.Session{
		Identity: shared.Identity{ID: "uid-new", Email: "student@umib.net", EmailVerified: false},
		IDToken:  "tok-new",
	}
	provider.On("CreateAccount", mock.Anything, "student@umib.net", "Abc123").Return(created, nil)
	provider.On("SendVerificationEmail", mock.Anything, "tok-new").Return(nil)
	provider.On("SignOut", mock.Anything, "uid-new").Return(nil)

	registry := new(mockRegistry)
	registry.On("InitProfile", mock.Anything, created.Identity, common.RoleStudent).
		Return(&shared.Profile{ID: "uid-new", Role: common.RoleStudent}, nil)

	h := newTestHolder(t, provider, newFakeWatcher(), registry)

	require.NoError(t, h.SignUp(context.Background(), "student@umib.net", "Abc123", common.RoleStudent))

	provider.AssertExpectations(t)
	registry.AssertExpectations(t)

	require.Eventually(t, func() bool {
		state := h.State()
		return !state.Loading && state.Identity == nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, flow.Login, flow.Select(h.State()))
}

// A verification email failure is logged and ignored; registration still
// completes and ends signed out.
func TestHolderSignUpSurvivesVerificationEmailFailure(t *testing.T) {
	provider := new(mockProvider)
	created := &auth.Session{
		Identity: shared.Identity{ID: "uid-new", Email: "student@umib.net"},
		IDToken:  "tok-new",
	}
	provider.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).Return(created, nil)
	provider.On("SendVerificationEmail", mock.Anything, "tok-new").Return(common.ErrServiceUnavailable)
	provider.On("SignOut", mock.Anything, "uid-new").Return(nil)

	registry := new(mockRegistry)
	registry.On("InitProfile", mock.Anything, mock.Anything, mock.Anything).
		Return(&shared.Profile{ID: "uid-new", Role: common.RoleStudent}, nil)

	h := newTestHolder(t, provider, newFakeWatcher(), registry)
	assert.NoError(t, h.SignUp(context.Background(), "student@umib.net", "Abc123", common.RoleStudent))
}
