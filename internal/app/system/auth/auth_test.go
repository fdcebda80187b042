package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/grupovertice/captacion/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "test-secret"

func signToken(t *testing.T, claims auth.Claims, key string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return raw
}

func testClaims() auth.Claims {
	return auth.Claims{
		Nombre: "Ana",
		Email:  "ana@test.com",
		Rol:    "comercial",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   primitive.NewObjectID().Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestParse_Valid(t *testing.T) {
	v := auth.NewVerifier(secret)
	claims := testClaims()

	got, err := v.Parse(signToken(t, claims, secret))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Nombre != "Ana" || got.Rol != "comercial" {
		t.Errorf("claims = %+v", got)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	v := auth.NewVerifier(secret)
	if _, err := v.Parse(signToken(t, testClaims(), "other-secret")); err == nil {
		t.Fatal("token signed with another secret must fail")
	}
}

func TestParse_Expired(t *testing.T) {
	v := auth.NewVerifier(secret)
	claims := testClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	if _, err := v.Parse(signToken(t, claims, secret)); err == nil {
		t.Fatal("expired token must fail")
	}
}

func TestRequireBearer(t *testing.T) {
	v := auth.NewVerifier(secret)
	var seen *auth.SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
	})
	mw := v.RequireBearer(next)

	// No header.
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest("GET", "/api/contactos", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d", rec.Code)
	}

	// Garbage token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/contactos", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d", rec.Code)
	}

	// Valid token loads the user into context.
	claims := testClaims()
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/contactos", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, claims, secret))
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d", rec.Code)
	}
	if seen == nil || seen.ID != claims.Subject || seen.Rol != "comercial" {
		t.Errorf("context user = %+v", seen)
	}

	// CORS preflight passes through without a token.
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/api/contactos", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("preflight: status = %d", rec.Code)
	}
}
