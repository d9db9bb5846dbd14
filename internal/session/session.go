// Package session holds who is logged in to the dashboard and keeps that
// answer in step with the persisted token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

const (
	KeyToken    = "token"
	KeyUser     = "user"
	KeyTutorial = "tutorial_completed"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Identity is the user snapshot persisted next to the token.
type Identity struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID *int64 `json:"employee_id"`
	IsActive   bool   `json:"is_active"`
}

type Credentials struct {
	Token    string
	Identity Identity
}

// Account is a self-service registration request.
type Account struct {
	Username   string
	Email      string
	Password   string
	Role       string
	Name       string
	Department string
	Age        int
	Experience int
	Salary     float64
}

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Credentials, error)
	RegisterAccount(ctx context.Context, account Account) (Identity, error)
}

var errNoExpiry = errors.New("token carries no expiry")

type Store struct {
	persist Persistence
	auth    Authenticator
	now     func() time.Time
	logger  *slog.Logger

	token     string
	identity  *Identity
	expiresAt time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open restores a persisted session. Anything unusable is wiped and the
// store starts anonymous; that is never reported as an error.
func Open(ctx context.Context, p Persistence, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		persist: p,
		auth:    auth,
		now:     time.Now,
		logger:  logger.From(ctx),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	token, hasToken := s.persist.Load(KeyToken)
	raw, hasUser := s.persist.Load(KeyUser)
	if !hasToken && !hasUser {
		return
	}
	if !hasToken || !hasUser {
		s.discard("incomplete session")
		return
	}

	exp, err := tokenExpiry(token)
	if err != nil {
		s.discard("unreadable token")
		return
	}
	if !s.now().Before(exp) {
		s.discard("token expired")
		return
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		s.discard("unreadable identity")
		return
	}

	s.token, s.identity, s.expiresAt = token, &id, exp
	s.logger.Debug("session restored", "username", id.Username, "expires_at", exp)
}

func (s *Store) discard(reason string) {
	s.logger.Info("discarding stored session", "reason", reason)
	if err := s.clearPersisted(); err != nil {
		s.logger.Warn("failed to clear stored session", "error", err)
	}
	s.reset()
}

func (s *Store) clearPersisted() error {
	return errors.Join(s.persist.Clear(KeyToken), s.persist.Clear(KeyUser))
}

func (s *Store) reset() {
	s.token, s.identity, s.expiresAt = "", nil, time.Time{}
}

// Login authenticates and persists before switching state. On any failure
// the store ends up anonymous or untouched, never half-written.
func (s *Store) Login(ctx context.Context, username, password string) (Identity, error) {
	creds, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return Identity{}, err
	}

	exp, err := tokenExpiry(creds.Token)
	if err != nil {
		return Identity{}, internal.ErrInvalidToken.WithCause(err)
	}

	snapshot, err := json.Marshal(creds.Identity)
	if err != nil {
		return Identity{}, fmt.Errorf("encode identity: %w", err)
	}

	if err := s.persist.Save(KeyToken, creds.Token); err != nil {
		s.discard("persist failed")
		return Identity{}, fmt.Errorf("persist token: %w", err)
	}
	if err := s.persist.Save(KeyUser, string(snapshot)); err != nil {
		s.discard("persist failed")
		return Identity{}, fmt.Errorf("persist identity: %w", err)
	}

	id := creds.Identity
	s.token, s.identity, s.expiresAt = creds.Token, &id, exp
	s.logger.Info("logged in", "username", id.Username, "role", id.Role)
	return id, nil
}

// Logout always leaves memory anonymous; persistence errors are returned.
func (s *Store) Logout() error {
	err := s.clearPersisted()
	s.reset()
	return err
}

func (s *Store) Register(ctx context.Context, account Account) (Identity, error) {
	return s.auth.RegisterAccount(ctx, account)
}

func (s *Store) State() State {
	if s.identity == nil {
		return Anonymous
	}
	return Authenticated
}

func (s *Store) IsAuthenticated() bool {
	return s.identity != nil
}

func (s *Store) IsAdmin() bool {
	return s.identity != nil && s.identity.Role == internal.RoleAdmin
}

func (s *Store) IsEmployee() bool {
	return s.identity != nil && s.identity.Role == internal.RoleEmployee
}

func (s *Store) EmployeeID() (int64, bool) {
	if s.identity == nil || s.identity.EmployeeID == nil {
		return 0, false
	}
	return *s.identity.EmployeeID, true
}

func (s *Store) Identity() (Identity, bool) {
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) Token() string {
	return s.token
}

func (s *Store) ExpiresAt() time.Time {
	return s.expiresAt
}

// AccessToken hands out the token for a request, logging out first when it
// has expired since the session was opened.
func (s *Store) AccessToken() (string, bool) {
	if s.identity == nil {
		return "", false
	}
	if !s.now().Before(s.expiresAt) {
		s.Invalidate()
		return "", false
	}
	return s.token, true
}

// Invalidate is called when the server rejects the token.
func (s *Store) Invalidate() {
	if s.identity == nil {
		return
	}
	s.logger.Info("session invalidated", "username", s.identity.Username)
	if err := s.Logout(); err != nil {
		s.logger.Warn("failed to clear stored session", "error", err)
	}
}

func (s *Store) TutorialSeen() bool {
	v, ok := s.persist.Load(KeyTutorial)
	return ok && v == "true"
}

func (s *Store) MarkTutorialSeen() error {
	return s.persist.Save(KeyTutorial, "true")
}

// tokenExpiry reads exp without checking the signature; the client holds no key.
func tokenExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errNoExpiry
	}
	return exp.Time, nil
}
