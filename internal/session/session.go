package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/services"
	"github.com/desertthunder/parle/internal/shared"
)

const (
	registerFailed = "Registration failed"
	loginFailed    = "Login failed"
)

// AuthAPI is the remote side of the session, implemented by [services.AuthAPI].
type AuthAPI interface {
	Register(ctx context.Context, in models.UserCreate) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.Token, error)
	Me(ctx context.Context) (*models.User, error)
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Store holds the current user, token, loading flag and last error message.
//
// The user may be nil while authenticated (not fetched yet) but is always cleared with the token.
// The lock is never held across a network call.
type Store struct {
	api    AuthAPI
	tokens TokenStore
	logger *log.Logger

	mu      sync.RWMutex
	user    *models.User
	token   string
	loading bool
	errMsg  string
}

// New creates a store and reads the persisted token once. A token that cannot be read
// leaves the store logged out.
func New(api AuthAPI, tokens TokenStore, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	if tokens == nil {
		tokens = NewMemoryTokens("")
	}

	s := &Store{api: api, tokens: tokens, logger: logger}
	token, err := tokens.Load()
	if err != nil {
		logger.Warn("failed to read stored token", "error", err)
	}
	s.token = token
	return s
}

// IsAuthenticated reports whether a non-empty token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// User returns the cached profile, nil when it has not been fetched.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the in-memory token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Loading reports whether a register or login call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last error message, empty after a successful call.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store) finish(err error, fallback string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = services.ErrorDetail(err, fallback)
	}
}

// Register creates an account and returns the server's payload. It does not log in.
func (s *Store) Register(ctx context.Context, in models.UserCreate) (*models.User, error) {
	s.begin()
	user, err := s.api.Register(ctx, in)
	s.finish(err, registerFailed)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login exchanges credentials for a token, persists it, then fetches the profile.
//
// A failed profile fetch logs out (see [Store.FetchUser]) but does not fail the login.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.begin()

	token, err := s.api.Login(ctx, username, password)
	if err == nil && token.AccessToken == "" {
		err = fmt.Errorf("%w: empty access token", shared.ErrAuthFailed)
	}
	if err == nil {
		if saveErr := s.tokens.Save(token.AccessToken); saveErr != nil {
			err = fmt.Errorf("%w: %w", shared.ErrTokenStore, saveErr)
		}
	}
	if err != nil {
		s.finish(err, loginFailed)
		return err
	}

	s.mu.Lock()
	s.token = token.AccessToken
	s.user = nil
	s.mu.Unlock()

	_ = s.FetchUser(ctx)
	s.finish(nil, "")
	return nil
}

// FetchUser loads the profile for the held token. Without a token it does nothing.
//
// On failure the session is logged out. A result that arrives after the token changed is dropped.
func (s *Store) FetchUser(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return nil
	}

	user, err := s.api.Me(ctx)

	s.mu.Lock()
	current := s.token == token
	if err == nil && current {
		s.user = user
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to fetch user", "error", err)
		if current {
			s.Logout()
		}
		return err
	}
	if !current {
		return fmt.Errorf("%w: token changed during fetch", shared.ErrNotAuthenticated)
	}
	return nil
}

// Logout clears the user, the token and the persisted copy. It makes no network call and
// is safe to repeat.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to clear stored token", "error", err)
	}
}

// HandleUnauthorized adapts [Store.Logout] to [services.UnauthorizedHandler].
func (s *Store) HandleUnauthorized(ctx context.Context, err *services.APIError) {
	s.logger.Debug("clearing session after 401", "path", err.Path)
	s.Logout()
}

// RequireUser returns the profile, fetching it when authenticated but not cached yet.
func (s *Store) RequireUser(ctx context.Context) (*models.User, error) {
	if !s.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	if u := s.User(); u != nil {
		return u, nil
	}
	if err := s.FetchUser(ctx); err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, err)
		}
		return nil, err
	}
	if u := s.User(); u != nil {
		return u, nil
	}
	return nil, shared.ErrNotAuthenticated
}
