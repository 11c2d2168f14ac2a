// Package services contains the console's application services.
// This file defines the session authority: reference-credential bootstrap,
// login, logout, registration and the observable session state.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

var (
	ErrMissingFields      = &client.ValidationError{Message: "All fields are required"}
	ErrBadCredentials     = &client.AuthError{Message: "Incorrect username or password"}
	ErrNoReference        = errors.New("no reference credential available")
	ErrEmptyTokenResponse = errors.New("login response carried no token")
)

type referenceCredential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the account form accepted by POST /register.
type RegisterRequest struct {
	Name        string
	Email       string
	Password    string
	Address     string
	PhoneNumber string
}

// SessionService owns the single authoritative Session. Readers either take
// a snapshot with Current or Subscribe to transitions.
type SessionService struct {
	client client.Client
	store  credentials.Repository
	logger logging.Logger

	mu          sync.Mutex
	session     models.Session
	reference   *referenceCredential
	subscribers map[int]func(models.Session)
	nextSubID   int
}

func NewSessionService(c client.Client, store credentials.Repository, logger logging.Logger) *SessionService {
	return &SessionService{
		client:      c,
		store:       store,
		logger:      logger.With("module", "session"),
		session:     models.Session{State: models.SessionUnauthenticated},
		subscribers: make(map[int]func(models.Session)),
	}
}

func (s *SessionService) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Subscribe registers fn to receive every session transition. The returned
// function removes the subscription.
func (s *SessionService) Subscribe(fn func(models.Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *SessionService) transition(next models.Session) {
	s.mu.Lock()
	if s.session == next {
		s.mu.Unlock()
		return
	}
	s.session = next
	fns := make([]func(models.Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// FetchReferenceCredential loads the reference pair from GET /api/users and
// keeps the first entry.
func (s *SessionService) FetchReferenceCredential(ctx context.Context) error {
	resp, err := s.client.Do(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		s.logger.Warn(ctx, "reference credential fetch failed", "error", err)
		return fmt.Errorf("fetch reference credential: %w", err)
	}

	var refs []referenceCredential
	if err := resp.DecodeJSON(&refs); err != nil {
		s.logger.Warn(ctx, "reference credential decode failed", "error", err)
		return fmt.Errorf("fetch reference credential: %w", err)
	}
	if len(refs) == 0 {
		return ErrNoReference
	}

	s.mu.Lock()
	s.reference = &refs[0]
	s.mu.Unlock()
	return nil
}

func (s *SessionService) referencePair() *referenceCredential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reference
}

func (s *SessionService) Login(ctx context.Context, username, password string) error {
	if username == "" && password == "" {
		return ErrMissingFields
	}

	ref := s.referencePair()
	if ref == nil {
		if err := s.FetchReferenceCredential(ctx); err != nil {
			return err
		}
		ref = s.referencePair()
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(ref.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(ref.Password)) == 1
	if !userOK || !passOK {
		return ErrBadCredentials
	}

	s.transition(models.Session{State: models.SessionAuthenticating})

	token, err := s.mintToken(ctx, username, password)
	if err == nil {
		err = s.store.Store(ctx, token)
	}
	if err != nil {
		s.logger.Error(ctx, "login failed", "error", err)
		s.transition(models.Session{State: models.SessionUnauthenticated})
		return fmt.Errorf("login: %w", err)
	}

	s.transition(models.Session{State: models.SessionAuthenticated, DisplayName: username})
	s.logger.Info(ctx, "logged in", "user", username)
	return nil
}

func (s *SessionService) mintToken(ctx context.Context, username, password string) (string, error) {
	form := url.Values{"email": {username}, "password": {password}}

	resp, err := s.client.Do(ctx, http.MethodPost, "/login", client.FormPayload(form))
	if err != nil {
		return "", err
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return "", err
	}
	if body.Token == "" {
		return "", ErrEmptyTokenResponse
	}
	return body.Token, nil
}

// Logout ends the session. The server-side revoke is best effort; the local
// credential is always cleared.
func (s *SessionService) Logout(ctx context.Context) error {
	if s.Current().Authenticated() {
		if _, err := s.client.Do(ctx, http.MethodGet, "/logout", nil); err != nil {
			s.logger.Warn(ctx, "server logout failed", "error", err)
		}
	}

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}

	s.transition(models.Session{State: models.SessionUnauthenticated})
	return nil
}

// Restore resumes an authenticated session from a previously stored token.
// It reports whether a session was resumed. The display name is taken from
// the reference credential when one is held.
func (s *SessionService) Restore(ctx context.Context) (bool, error) {
	token, ok, err := s.store.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("read credential: %w", err)
	}
	if !ok || token == "" {
		return false, nil
	}

	var displayName string
	if ref := s.referencePair(); ref != nil {
		displayName = ref.Username
	}

	s.transition(models.Session{State: models.SessionAuthenticated, DisplayName: displayName})
	s.logger.Debug(ctx, "session restored")
	return true, nil
}

// Register creates a new backend account. It does not log in.
func (s *SessionService) Register(ctx context.Context, req RegisterRequest) error {
	form := url.Values{
		"name":         {req.Name},
		"email":        {req.Email},
		"password":     {req.Password},
		"address":      {req.Address},
		"phone_number": {req.PhoneNumber},
	}

	if _, err := s.client.Do(ctx, http.MethodPost, "/register", client.FormPayload(form)); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}
