package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterMiddleware(t *testing.T) {
	t.Run("allows requests within burst", func(t *testing.T) {
		rl := NewRateLimiter(1, 3)
		t.Cleanup(rl.Stop)
		handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
			}
		}
	})

	t.Run("rejects requests over burst", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		t.Cleanup(rl.Stop)
		handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
		req.RemoteAddr = "10.0.0.2:1234"

		handler.ServeHTTP(httptest.NewRecorder(), req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("status = %d, want 429", rec.Code)
		}
	})

	t.Run("buckets are per client IP", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		t.Cleanup(rl.Stop)
		handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		first := httptest.NewRequest(http.MethodGet, "/api/links", nil)
		first.RemoteAddr = "10.0.0.3:1234"
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/api/links", nil)
		second.RemoteAddr = "10.0.0.4:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 for a fresh IP", rec.Code)
		}
	})
}

func TestRateLimiterStop(t *testing.T) {
	t.Run("is safe to call twice", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		rl.Stop()
		rl.Stop()
	})

	t.Run("does not break allow decisions", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		rl.Stop()

		handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
		req.RemoteAddr = "10.0.0.5:1234"

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 after Stop", rec.Code)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("status = %d, want 429 after Stop", rec.Code)
		}
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"prefers X-Forwarded-For", "1.2.3.4", "5.6.7.8", "9.9.9.9:80", "1.2.3.4"},
		{"falls back to X-Real-IP", "", "5.6.7.8", "9.9.9.9:80", "5.6.7.8"},
		{"strips port from RemoteAddr", "", "", "9.9.9.9:80", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			req.RemoteAddr = tt.remoteAddr

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
