package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/common"
	"github.com/dmitrijs2005/skillshare/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Browser opens an external URL, e.g. the OAuth authorization page.
type Browser interface {
	Open(url string) error
}

// BrowserFunc adapts a function to Browser.
type BrowserFunc func(url string) error

func (f BrowserFunc) Open(url string) error { return f(url) }

// Store is the single writer of the session.
type Store struct {
	api     client.AuthAPI
	cache   Cache
	browser Browser
	logger  logging.Logger

	mu      sync.RWMutex
	session Session
	lastErr string

	subMu  sync.Mutex
	subs   map[int]func(Session)
	nextID int

	verify singleflight.Group
}

type Option func(*Store)

func WithBrowser(b Browser) Option {
	return func(s *Store) { s.browser = b }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns a store in StatusUnauthenticated.
func NewStore(api client.AuthAPI, cache Cache, opts ...Option) *Store {
	s := &Store{
		api:    api,
		cache:  cache,
		logger: logging.Discard(),
		subs:   make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Reader = (*Store)(nil)

func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) Authenticated() bool {
	return s.Current().Authenticated()
}

// LastError returns the message of the most recent failed login or
// registration, or the logout warning. Successful logins clear it.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Subscribe registers fn to be called after every transition. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Session)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// transition replaces the session and notifies subscribers. A user is kept
// only in StatusAuthenticated.
func (s *Store) transition(ctx context.Context, next Session) Session {
	if next.Status != StatusAuthenticated {
		next.User = nil
	}
	if next.Status != StatusError {
		next.Message = ""
	}

	s.mu.Lock()
	prev := s.session.Status
	s.session = next
	s.mu.Unlock()

	if prev != next.Status {
		s.logger.Info(ctx, "session changed", "from", prev, "to", next.Status)
	}

	s.subMu.Lock()
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

func (s *Store) setLastError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func authenticated(u *models.User) Session {
	return Session{Status: StatusAuthenticated, User: u}
}

// Bootstrap establishes the session at startup. A valid cached user is
// trusted without a network call. Otherwise the cache is cleared and the
// backend is asked for the current user; on failure the session ends in
// StatusError and the fetch error is returned.
func (s *Store) Bootstrap(ctx context.Context) (Session, error) {
	cached, err := s.cache.Load(ctx)
	switch {
	case err != nil:
		s.logger.Warn(ctx, "session cache unreadable, verifying remotely", "error", err)
	case cached.Valid():
		return s.transition(ctx, authenticated(cached)), nil
	}

	s.clearCache(ctx)
	s.transition(ctx, Session{Status: StatusAuthenticating})

	u, err := s.fetchCurrent(ctx)
	if err != nil {
		s.clearCache(ctx)
		s.logger.Warn(ctx, "session verification failed", "error", err)
		return s.transition(ctx, Session{Status: StatusError, Message: MsgBootstrapFailed}), err
	}

	s.saveCache(ctx, u)
	return s.transition(ctx, authenticated(u)), nil
}

// Revalidate asks the backend for the current user regardless of the
// cache. It is used after an external login returns control to the client.
// A 401 ends the session; other failures move it to StatusError.
func (s *Store) Revalidate(ctx context.Context) (Session, error) {
	u, err := s.fetchCurrent(ctx)
	if err != nil {
		s.clearCache(ctx)
		if errors.Is(err, client.ErrUnauthorized) {
			return s.transition(ctx, Session{Status: StatusUnauthenticated}), err
		}
		return s.transition(ctx, Session{Status: StatusError, Message: MsgBootstrapFailed}), err
	}

	s.saveCache(ctx, u)
	return s.transition(ctx, authenticated(u)), nil
}

// fetchCurrent collapses concurrent current-user requests into one.
func (s *Store) fetchCurrent(ctx context.Context) (*models.User, error) {
	v, err, _ := s.verify.Do("current", func() (any, error) {
		u, err := s.api.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		if !u.Valid() {
			return nil, &client.APIError{Kind: client.KindServer, Method: "GET", Path: "/api/users/current", Message: "no user in response"}
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User), nil
}

// LoginWithCredentials signs in with an email and password. On failure the
// session is left as it was and an *AuthError is returned.
func (s *Store) LoginWithCredentials(ctx context.Context, identifier, secret string) (Session, error) {
	u, err := s.api.Login(ctx, identifier, secret)
	if err != nil {
		authErr := classifyLogin(err)
		s.setLastError(authErr.Message)
		s.logger.Warn(ctx, "login failed", "email", identifier, "error", err)
		return s.Current(), authErr
	}

	if !u.Valid() {
		u = &models.User{Email: identifier}
	}
	s.setLastError("")
	s.saveCache(ctx, u)
	return s.transition(ctx, authenticated(u)), nil
}

func classifyLogin(err error) *AuthError {
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		return &AuthError{Message: MsgLoginFailed, Err: err}
	}

	switch {
	case apiErr.Kind == client.KindUnauthorized,
		strings.Contains(apiErr.Message, credentialRejection):
		return &AuthError{Message: MsgInvalidCredentials, Err: err, reason: ErrInvalidCredentials}
	case apiErr.Kind != client.KindNetwork && apiErr.Message != "":
		return &AuthError{Message: apiErr.Message, Err: err}
	default:
		return &AuthError{Message: MsgLoginFailed, Err: err}
	}
}

// LoginWithProvider opens the external authorization page for providerID.
// The session does not change; call Revalidate once the user is back.
func (s *Store) LoginWithProvider(ctx context.Context, providerID string) (string, error) {
	if strings.TrimSpace(providerID) == "" {
		return "", common.Invalid("provider is required")
	}

	u, err := s.api.AuthorizationURL(providerID)
	if err != nil {
		return "", common.Invalid(err.Error())
	}

	if s.browser != nil {
		if err := s.browser.Open(u); err != nil {
			return u, fmt.Errorf("open browser: %w", err)
		}
	}
	s.logger.Info(ctx, "external login started", "provider", providerID)
	return u, nil
}

// RegisterUser creates an account and signs in as it. On failure the
// session is left as it was and an *AuthError is returned.
func (s *Store) RegisterUser(ctx context.Context, form client.RegistrationForm) (Session, error) {
	u, err := s.api.Register(ctx, form)
	if err != nil {
		msg := MsgRegistrationFailed
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Kind != client.KindNetwork && apiErr.Message != "" {
			msg = apiErr.Message
		}
		s.setLastError(msg)
		s.logger.Warn(ctx, "registration failed", "email", form.Email, "error", err)
		return s.Current(), &AuthError{Message: msg, Err: err}
	}

	if !u.Valid() {
		u = &models.User{Name: form.Name, Email: form.Email}
	}
	s.setLastError("")
	s.saveCache(ctx, u)
	return s.transition(ctx, authenticated(u)), nil
}

// Logout ends the session. The local reset always happens; a failed remote
// logout only records MsgLogoutWarning, readable through LastError.
func (s *Store) Logout(ctx context.Context) Session {
	remoteErr := s.api.Logout(ctx)

	s.clearCache(ctx)
	s.api.ClearCredentials()

	if remoteErr != nil {
		s.setLastError(MsgLogoutWarning)
		s.logger.Warn(ctx, "remote logout failed", "error", remoteErr)
	} else {
		s.setLastError("")
	}
	return s.transition(ctx, Session{Status: StatusUnauthenticated})
}

// saveCache stores complete users only. Placeholders are never cached.
func (s *Store) saveCache(ctx context.Context, u *models.User) {
	if !u.Complete() {
		return
	}
	if err := s.cache.Save(ctx, u); err != nil {
		s.logger.Warn(ctx, "failed to save session cache", "error", err)
	}
}

func (s *Store) clearCache(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "failed to clear session cache", "error", err)
	}
}
