package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("module MOD404: %w", ErrNotFound), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("not your module: %w", ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("marks above max: %w", ErrInvalidInput), http.StatusBadRequest},
		{ErrBadRequest, http.StatusBadRequest},
		{fmt.Errorf("duplicate id: %w", ErrConflict), http.StatusConflict},
		{ErrRateLimitExceeded, http.StatusTooManyRequests},
		{New(http.StatusTeapot, "short and stout", nil), http.StatusTeapot},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := MapErrorToStatus(tt.err); got != tt.want {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.want, got)
		}
	}
}

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	err := New(http.StatusConflict, "user still referenced", ErrConflict)
	if err.Error() != "user still referenced" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatal("expected AppError to unwrap to ErrConflict")
	}
}
