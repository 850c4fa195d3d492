// Package identity verifies sessions issued by the identity provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevoked      = errors.New("session has been signed out")
	ErrNoSession    = errors.New("no signed-in user")
	ErrDisabled     = errors.New("sessions are disabled: no signing secret configured")
)

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Session is a verified bearer token.
type Session struct {
	User    User
	TokenID string
	Expires time.Time
}

type contextKey string

const sessionContextKey contextKey = "session"

// Sessions verifies HS256 bearer tokens and tracks signed-out token ids until they expire.
type Sessions struct {
	secret []byte
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewSessions verifies tokens signed with secret. An empty secret disables sessions: every
// token is refused and requests can only be anonymous.
func NewSessions(secret string) *Sessions {
	return &Sessions{
		secret:  []byte(secret),
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

func (s *Sessions) Enabled() bool {
	return len(s.secret) > 0
}

// Issue signs a token for user. The identity provider normally does this; it is used by the CLI
// and tests.
func (s *Sessions) Issue(user User, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	now := s.now()
	claims := Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses a bearer token and returns the session it represents.
func (s *Sessions) Verify(token string) (*Session, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrDisabled)
	}
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Email) == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing email or token id", ErrInvalidToken)
	}
	if s.isRevoked(claims.ID) {
		return nil, ErrRevoked
	}
	return &Session{
		User:    User{Name: claims.Name, Email: strings.ToLower(claims.Email)},
		TokenID: claims.ID,
		Expires: claims.ExpiresAt.Time,
	}, nil
}

func (s *Sessions) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

// SignOut revokes the session attached to ctx.
func (s *Sessions) SignOut(ctx context.Context) error {
	sess, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return ErrNoSession
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[sess.TokenID] = sess.Expires
	return nil
}

// CurrentUser returns the signed-in user attached to ctx.
func CurrentUser(ctx context.Context) (*User, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return nil, false
	}
	u := sess.User
	return &u, true
}

func withSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
