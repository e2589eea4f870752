package httpx

import (
	"net/http"

	"github.com/sundayezeilo/linkboard/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to an HTTP status code.
// Invalid maps to 422 rather than 400: payloads that reach the service
// layer are well-formed JSON, so a rejection there is a semantic
// validation failure, not a malformed request.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Invalid:
		return http.StatusUnprocessableEntity
	case errx.Unauthorized:
		return http.StatusUnauthorized
	case errx.Forbidden:
		return http.StatusForbidden
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToCode maps errx.Kind to the machine code written in error
// envelopes.
func ErrorKindToCode(kind errx.Kind) string {
	switch kind {
	case errx.NotFound:
		return "NOT_FOUND"
	case errx.Invalid:
		return "VALIDATION_ERROR"
	case errx.Unauthorized:
		return "UNAUTHORIZED"
	case errx.Forbidden:
		return "FORBIDDEN"
	case errx.Unavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
