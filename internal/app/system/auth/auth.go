// Package auth issues and verifies the bearer tokens that authenticate API
// requests, and exposes the signed-in user through the request context.
//
// Tokens are HS256 JWTs carrying the user's id, name, email, and role.
// Middleware extracts the token from the Authorization header; handlers read
// the resulting SessionUser via CurrentUser.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ctxKey int

const userKey ctxKey = 0

// SessionUser is the authenticated identity attached to a request.
type SessionUser struct {
	ID               string
	Name             string
	Email            string
	Role             string
	OrganizationName string
}

// Claims is the JWT payload for a session token.
type Claims struct {
	Name             string `json:"name,omitempty"`
	Email            string `json:"email,omitempty"`
	Role             string `json:"role,omitempty"`
	OrganizationName string `json:"organizationName,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	log    *zap.Logger
}

// NewTokenManager builds a TokenManager. The secret must be non-empty; the
// expiry defaults to 7 days when zero.
func NewTokenManager(secret string, expiry time.Duration, logger *zap.Logger) *TokenManager {
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), expiry: expiry, log: logger}
}

// Issue creates a signed token for the given user.
func (m *TokenManager) Issue(u SessionUser) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		OrganizationName: u.OrganizationName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token string and returns the session user it names.
func (m *TokenManager) Parse(tokenString string) (*SessionUser, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &SessionUser{
		ID:               claims.Subject,
		Name:             claims.Name,
		Email:            claims.Email,
		Role:             claims.Role,
		OrganizationName: claims.OrganizationName,
	}, nil
}

// LoadUser is global middleware that attaches the SessionUser to the
// request context when a valid bearer token is present. Requests without a
// token pass through untouched; public endpoints stay public.
func (m *TokenManager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if user, err := m.Parse(token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userKey, user))
			} else if m.log != nil {
				m.log.Debug("rejected bearer token", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects requests that did not authenticate.
func (m *TokenManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Not authorized, no token"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the authenticated user for the request, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	user, ok := r.Context().Value(userKey).(*SessionUser)
	return user, ok && user != nil
}

// WithTestUser injects a session user directly into the request context,
// bypassing token verification. For handler tests only.
func WithTestUser(r *http.Request, user *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	// Accept both "Bearer <token>" and a bare token.
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
