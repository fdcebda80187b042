// Package auth verifies bearer tokens on API routes and exposes the
// current user through the request context. Token issuance (login,
// password handling) lives in an external identity service; this backend
// only validates signatures and claims.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/golang-jwt/jwt/v5"
)

// SessionUser is what the token claims resolve to and what handlers see.
type SessionUser struct {
	ID     string
	Nombre string
	Email  string
	Rol    string
}

// Claims is the expected token payload.
type Claims struct {
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user directly into the request context,
// bypassing token verification. Tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// Verifier validates bearer tokens with a shared HMAC secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Parse validates a raw token string and returns its claims.
func (v *Verifier) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequireBearer is middleware that rejects requests without a valid
// bearer token and loads the SessionUser into context otherwise.
func (v *Verifier) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			httpjson.Unauthorized(w)
			return
		}
		claims, err := v.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			httpjson.Unauthorized(w)
			return
		}
		u := &SessionUser{
			ID:     claims.Subject,
			Nombre: claims.Nombre,
			Email:  claims.Email,
			Rol:    claims.Rol,
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}
