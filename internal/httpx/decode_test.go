package httpx

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type decodeTarget struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/links",
			strings.NewReader(`{"url":"https://example.com","title":"Example"}`))

		got, err := DecodeJSON[decodeTarget](req)
		if err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		if got.URL != "https://example.com" || got.Title != "Example" {
			t.Errorf("DecodeJSON() = %+v", got)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/links", strings.NewReader(`{"url":`))
		if _, err := DecodeJSON[decodeTarget](req); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/links",
			strings.NewReader(`{"url":"https://example.com","bogus":1}`))
		if _, err := DecodeJSON[decodeTarget](req); err == nil {
			t.Error("expected error for unknown field")
		}
	})

	t.Run("rejects empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/links", strings.NewReader(""))
		if _, err := DecodeJSON[decodeTarget](req); err == nil {
			t.Error("expected error for empty body")
		}
	})

	t.Run("rejects trailing JSON objects", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/links",
			strings.NewReader(`{"url":"a"}{"url":"b"}`))
		if _, err := DecodeJSON[decodeTarget](req); err == nil {
			t.Error("expected error for multiple JSON objects")
		}
	})
}
