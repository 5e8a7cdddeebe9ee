package finmind

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidSessionTransition = "INVALID_SESSION_TRANSITION"

// ErrInvalidSessionTransition is returned when a requested status change is not allowed.
var ErrInvalidSessionTransition = goerrors.New("invalid session state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidSessionTransition).
	WithCode(goerrors.CodeBadRequest)

// SessionStatus is the resolution state of the client session.
type SessionStatus string

const (
	// StatusUnknown is the initial state, before the first auth check
	// resolves. Gated rendering decisions must block while here.
	StatusUnknown SessionStatus = "unknown"
	// StatusAuthenticated means a credential is present.
	StatusAuthenticated SessionStatus = "authenticated"
	// StatusUnauthenticated means no credential is present.
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// SessionState is a point-in-time snapshot of the session.
type SessionState struct {
	Status    SessionStatus
	CheckedAt time.Time
}

// Authenticated reports whether the session resolved to a present credential.
// It is only trustworthy once Loading is false.
func (s SessionState) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Loading reports whether the session is still unresolved.
func (s SessionState) Loading() bool {
	return s.Status == StatusUnknown
}

// SessionListener is invoked after every session state change.
type SessionListener func(state SessionState)

// SessionController derives reactive session state from TokenStore
// presence. CheckAuth recomputes the state and is invoked on startup and
// on every navigation through a route gate; Logout clears the credential
// and forces the unauthenticated state.
type SessionController struct {
	mu          sync.RWMutex
	store       TokenStore
	state       SessionState
	transitions map[SessionStatus]map[SessionStatus]struct{}
	listeners   map[int]SessionListener
	nextID      int
	now         func() time.Time
	logger      Logger
}

type SessionControllerOption func(*SessionController)

// WithSessionClock injects a custom clock (useful for tests).
func WithSessionClock(clock func() time.Time) SessionControllerOption {
	return func(c *SessionController) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithSessionLogger overrides the controller logger.
func WithSessionLogger(logger Logger) SessionControllerOption {
	return func(c *SessionController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewSessionController(store TokenStore, opts ...SessionControllerOption) *SessionController {
	c := &SessionController{
		store: store,
		state: SessionState{Status: StatusUnknown},
		transitions: map[SessionStatus]map[SessionStatus]struct{}{
			StatusUnknown: {
				StatusAuthenticated:   {},
				StatusUnauthenticated: {},
			},
			StatusAuthenticated: {
				StatusUnauthenticated: {},
			},
			StatusUnauthenticated: {
				StatusAuthenticated: {},
			},
		},
		listeners: map[int]SessionListener{},
		now:       time.Now,
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// State returns the current snapshot.
func (c *SessionController) State() SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// CheckAuth reads the token store and resolves the session to
// authenticated or unauthenticated. It has no side effect beyond the state
// update, is idempotent, and may be called any number of times. The result
// reflects store contents at the moment of the call.
func (c *SessionController) CheckAuth(ctx context.Context) bool {
	token, err := c.store.Get(ctx)
	if err != nil {
		c.logger.Warn("session check: token store read failed: %v", err)
		token = ""
	}

	target := StatusUnauthenticated
	if token != "" {
		target = StatusAuthenticated
	}

	if err := c.transition(target); err != nil {
		c.logger.Error("session check: %v", err)
	}

	return target == StatusAuthenticated
}

// Logout clears the stored credential and forces the unauthenticated
// state. The caller is responsible for navigating to the public entry
// point afterwards.
func (c *SessionController) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("logout: token store clear failed: %v", err)
		return err
	}
	return c.transition(StatusUnauthenticated)
}

// Subscribe registers a listener invoked on every state change. The
// returned function removes the listener.
func (c *SessionController) Subscribe(fn SessionListener) func() {
	if fn == nil {
		return func() {}
	}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *SessionController) transition(target SessionStatus) error {
	c.mu.Lock()
	from := c.state.Status
	if from == target {
		c.state.CheckedAt = c.now()
		c.mu.Unlock()
		return nil
	}

	if allowed, ok := c.transitions[from]; ok {
		if _, exists := allowed[target]; !exists {
			c.mu.Unlock()
			return ErrInvalidSessionTransition.WithMetadata(map[string]any{
				"from": from,
				"to":   target,
			})
		}
	}

	c.state = SessionState{Status: target, CheckedAt: c.now()}
	state := c.state

	listeners := make([]SessionListener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	// listeners run outside the lock so they can call back into the controller
	for _, fn := range listeners {
		fn(state)
	}

	return nil
}
