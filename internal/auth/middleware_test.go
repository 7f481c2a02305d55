package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testIdentitySecret = "identity-secret"
	testAdminSecret    = "admin-secret"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireUser(t *testing.T) {
	mw := NewMiddleware(testIdentitySecret, testAdminSecret)

	var gotUserID, gotName string
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r)
		gotName = DisplayName(r)
	}))

	token := signToken(t, testIdentitySecret, jwt.MapClaims{
		"sub":  "player-42",
		"name": "Ada",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/question", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "player-42" || gotName != "Ada" {
		t.Fatalf("identity not propagated: id=%q name=%q", gotUserID, gotName)
	}
}

func TestRequireUserRejections(t *testing.T) {
	mw := NewMiddleware(testIdentitySecret, testAdminSecret)
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	tests := []struct {
		name  string
		token string
	}{
		{"no header", ""},
		{"wrong secret", signToken(t, "other-secret", jwt.MapClaims{"sub": "p", "exp": time.Now().Add(time.Hour).Unix()})},
		{"expired", signToken(t, testIdentitySecret, jwt.MapClaims{"sub": "p", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"missing subject", signToken(t, testIdentitySecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/question", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	mw := NewMiddleware(testIdentitySecret, testAdminSecret)

	ran := false
	handler := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		if AdminID(r) != "7" {
			t.Errorf("admin id not propagated: %q", AdminID(r))
		}
	}))

	token := signToken(t, testAdminSecret, jwt.MapClaims{
		"sub":  "7",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("POST", "/admin/days", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !ran {
		t.Fatalf("expected admin through, got %d", rec.Code)
	}
}

func TestRequireAdminRejectsPlayerToken(t *testing.T) {
	mw := NewMiddleware(testIdentitySecret, testAdminSecret)
	handler := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	// Signed with the identity secret and carrying no role claim.
	token := signToken(t, testIdentitySecret, jwt.MapClaims{
		"sub": "player-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("POST", "/admin/days", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// Even a token signed with the admin secret needs the role claim.
	token = signToken(t, testAdminSecret, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req = httptest.NewRequest("POST", "/admin/days", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without role claim, got %d", rec.Code)
	}
}
