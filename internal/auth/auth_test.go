package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testVerifier() *Verifier {
	return NewVerifier(testSecret, "linkboard")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerifierRoundTrip(t *testing.T) {
	v := testVerifier()
	userID := uuid.New()

	token, err := v.Sign(userID, time.Hour)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	got, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != userID {
		t.Errorf("Verify() = %s, want %s", got, userID)
	}
}

func TestVerifierRejections(t *testing.T) {
	v := testVerifier()

	t.Run("garbage token", func(t *testing.T) {
		if _, err := v.Verify("not.a.token"); err == nil {
			t.Error("expected error for garbage token")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := v.Sign(uuid.New(), -time.Minute)
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}
		if _, err := v.Verify(token); err == nil {
			t.Error("expected error for expired token")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewVerifier(strings.Repeat("x", 32), "linkboard")
		token, err := other.Sign(uuid.New(), time.Hour)
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}
		if _, err := v.Verify(token); err == nil {
			t.Error("expected error for token signed with another secret")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewVerifier(testSecret, "someone-else")
		token, err := other.Sign(uuid.New(), time.Hour)
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}
		if _, err := v.Verify(token); err == nil {
			t.Error("expected error for token from another issuer")
		}
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "bob",
			Issuer:    "linkboard",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("SignedString() error = %v", err)
		}
		if _, err := v.Verify(token); err == nil {
			t.Error("expected error for non-uuid subject")
		}
	})
}

func TestMiddleware(t *testing.T) {
	v := testVerifier()
	userID := uuid.New()

	var gotID uuid.UUID
	var gotOK bool
	protected := Middleware(v, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token reaches handler with user id", func(t *testing.T) {
		token, err := v.Sign(userID, time.Hour)
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/links", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !gotOK || gotID != userID {
			t.Errorf("context user = %s (ok=%v), want %s", gotID, gotOK, userID)
		}
	})

	t.Run("missing header is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/links", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed header is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/links", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/links", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
