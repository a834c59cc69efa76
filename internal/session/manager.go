package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PhumPatananiti/schooldesk/internal/gateway"
	"github.com/PhumPatananiti/schooldesk/internal/model"
	"github.com/PhumPatananiti/schooldesk/internal/validate"
)

type State string

const (
	StateAnonymous            State = "anonymous"
	StateAuthenticating       State = "authenticating"
	StateAuthenticated        State = "authenticated"
	StateForcedPasswordChange State = "forced_password_change"
	StateError                State = "error"
)

var (
	// ErrOperationInFlight rejects a repeat submission while a
	// login or rotation is still pending. Two concurrent attempts
	// could race different identities into the single session slot.
	ErrOperationInFlight = errors.New("operation_in_flight")

	// ErrNoSession rejects an operation that needs an
	// authenticated session.
	ErrNoSession = errors.New("no_session")
)

// Gateway is the slice of the auth client the manager drives.
type Gateway interface {
	Login(ctx context.Context, phone, password string, role model.Role) (gateway.LoginResult, error)
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error
}

// Manager owns the session lifecycle. It is the only writer of the
// Store; the route guard and UI read through it.
type Manager struct {
	store Store
	gw    Gateway

	mu       sync.Mutex
	state    State
	session  *model.Session
	inFlight bool

	onInvalidated func()
}

func NewManager(store Store, gw Gateway) *Manager {
	return &Manager{
		store: store,
		gw:    gw,
		state: StateAnonymous,
	}
}

// OnInvalidated registers the redirect hook run after a forced
// teardown. Called outside the lock.
func (m *Manager) OnInvalidated(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onInvalidated = fn
}

// Rehydrate restores the persisted session, if any. It must finish
// before the first route decision; any failure lands on Anonymous.
func (m *Manager) Rehydrate(ctx context.Context) error {
	sess, err := m.store.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil || sess == nil {
		m.session = nil
		m.state = StateAnonymous
		return err
	}
	if tokenExpired(sess.Token) {
		m.session = nil
		m.state = StateAnonymous
		return m.store.Clear(ctx)
	}

	m.session = sess
	m.state = stateFor(sess.Identity)
	return nil
}

// tokenExpired reports whether a JWT bearer token is already past
// its exp claim. Opaque tokens are kept; the server's 401 path
// handles those.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func stateFor(identity model.Identity) State {
	if identity.IsFirstLogin {
		return StateForcedPasswordChange
	}
	return StateAuthenticated
}

// Login runs the Anonymous → Authenticating → Authenticated /
// ForcedPasswordChange transition. Validation failures never reach
// the gateway.
func (m *Manager) Login(ctx context.Context, form validate.Login) (model.Identity, error) {
	if err := validate.Struct(form); err != nil {
		return model.Identity{}, err
	}
	role, _ := model.ParseRole(form.Role)

	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return model.Identity{}, ErrOperationInFlight
	}
	m.inFlight = true
	m.state = StateAuthenticating
	m.mu.Unlock()

	res, err := m.gw.Login(ctx, form.Phone, form.Password, role)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if err != nil {
		// Failure returns to the pre-attempt state; no session
		// is created or destroyed.
		m.state = StateAnonymous
		if m.session != nil {
			m.state = stateFor(m.session.Identity)
		}
		return model.Identity{}, err
	}

	sess := model.Session{
		Identity: res.Identity,
		Token:    res.Token,
		SavedAt:  time.Now().UTC(),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		m.state = StateError
		return model.Identity{}, err
	}
	m.session = &sess
	m.state = stateFor(sess.Identity)
	return sess.Identity, nil
}

// ChangePassword rotates the password for the active session. On
// success the persisted identity's first-login flag is flipped in
// place so the forced flow does not re-trigger.
func (m *Manager) ChangePassword(ctx context.Context, form validate.ChangePassword) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return ErrNoSession
	}
	form.FirstLogin = m.session.Identity.IsFirstLogin
	token := m.session.Token
	if err := validate.Struct(form); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrOperationInFlight
	}
	m.inFlight = true
	m.mu.Unlock()

	oldPassword := form.OldPassword
	if form.FirstLogin {
		oldPassword = ""
	}
	err := m.gw.ChangePassword(ctx, token, oldPassword, form.NewPassword)

	m.mu.Lock()
	m.inFlight = false
	if errors.Is(err, gateway.ErrCredentialInvalidated) {
		hook := m.evictLocked(ctx)
		m.mu.Unlock()
		if hook != nil {
			hook()
		}
		return err
	}
	defer m.mu.Unlock()
	if err != nil {
		return err
	}
	if m.session == nil {
		// Torn down while the call was in flight.
		return ErrNoSession
	}

	m.session.Identity.IsFirstLogin = false
	if err := m.store.Save(ctx, *m.session); err != nil {
		m.state = StateError
		return err
	}
	m.state = StateAuthenticated
	return nil
}

// Logout evicts the session entirely.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.state = StateAnonymous
	return m.store.Clear(ctx)
}

// Invalidate is the credentialInvalidated() transition: same eviction
// as logout plus the registered redirect hook. Any API call that sees
// the token rejected routes here, regardless of feature.
func (m *Manager) Invalidate(ctx context.Context) {
	m.mu.Lock()
	hook := m.evictLocked(ctx)
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (m *Manager) evictLocked(ctx context.Context) func() {
	m.session = nil
	m.state = StateAnonymous
	_ = m.store.Clear(ctx)
	return m.onInvalidated
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns a copy of the active session, or nil. Readers never
// mutate the manager's state through it.
func (m *Manager) Session() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	sess := *m.session
	return &sess
}

// Token returns the active bearer token, or empty.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}
