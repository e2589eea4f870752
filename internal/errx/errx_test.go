package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestE(t *testing.T) {
	t.Run("returns nil when error is nil", func(t *testing.T) {
		if got := E("links.service.Update", Forbidden, nil); got != nil {
			t.Errorf("E() with nil error = %v, want nil", got)
		}
	})

	t.Run("constructs Error with all fields", func(t *testing.T) {
		cause := errors.New("no rows in result set")
		err := E("links.repo.GetByID", NotFound, cause)

		var e *Error
		if !errors.As(err, &e) {
			t.Fatal("expected error to be of type *errx.Error")
		}
		if got, want := e.Op, "links.repo.GetByID"; got != want {
			t.Errorf("Op = %q, want %q", got, want)
		}
		if got, want := e.Kind, NotFound; got != want {
			t.Errorf("Kind = %v, want %v", got, want)
		}
		if !errors.Is(e.Err, cause) {
			t.Errorf("Err = %v, want %v", e.Err, cause)
		}
	})

	t.Run("round-trips every kind", func(t *testing.T) {
		kinds := []Kind{Unknown, NotFound, Invalid, Unauthorized, Forbidden, Unavailable, Internal}
		cause := errors.New("boom")

		for _, kind := range kinds {
			t.Run(kind.String(), func(t *testing.T) {
				err := E("op", kind, cause)
				if got := KindOf(err); got != kind {
					t.Errorf("KindOf() = %v, want %v", got, kind)
				}
				if !IsKind(err, kind) {
					t.Errorf("IsKind(%v) = false, want true", kind)
				}
			})
		}
	})
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "op and cause",
			err:  &Error{Op: "links.repo.Delete", Err: errors.New("connection refused")},
			want: "links.repo.Delete: connection refused",
		},
		{
			name: "cause only",
			err:  &Error{Err: errors.New("connection refused")},
			want: "connection refused",
		},
		{
			name: "op only",
			err:  &Error{Op: "links.repo.Delete"},
			want: "links.repo.Delete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if got, want := Forbidden.String(), "Forbidden"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := Kind(42).String(), fmt.Sprintf("Kind(%d)", 42); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKindOf(t *testing.T) {
	t.Run("unwraps nested errors", func(t *testing.T) {
		inner := E("links.repo.Update", NotFound, errors.New("no rows"))
		outer := fmt.Errorf("coordinator: %w", inner)

		if got := KindOf(outer); got != NotFound {
			t.Errorf("KindOf() = %v, want NotFound", got)
		}
	})

	t.Run("plain errors report Unknown", func(t *testing.T) {
		if got := KindOf(errors.New("plain")); got != Unknown {
			t.Errorf("KindOf() = %v, want Unknown", got)
		}
	})

	t.Run("nil reports Unknown", func(t *testing.T) {
		if got := KindOf(nil); got != Unknown {
			t.Errorf("KindOf(nil) = %v, want Unknown", got)
		}
	})
}

func TestOpOf(t *testing.T) {
	err := E("links.service.Create", Unavailable, errors.New("pool exhausted"))
	if got, want := OpOf(err), "links.service.Create"; got != want {
		t.Errorf("OpOf() = %q, want %q", got, want)
	}
	if got := OpOf(errors.New("plain")); got != "" {
		t.Errorf("OpOf(plain) = %q, want empty", got)
	}
}
