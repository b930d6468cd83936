package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsComparesType(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrDuplicateLike)
	if !errors.Is(wrapped, ErrDuplicateLike) {
		t.Error("wrapped sentinel not matched")
	}
	if errors.Is(ErrDuplicateLike, ErrLikeNotFound) {
		t.Error("different types compared equal")
	}

	custom := NewValidationError("name is required")
	if !errors.Is(custom, ErrInvalidParameters) {
		t.Error("validation error with custom message should match ErrInvalidParameters")
	}
}

func TestAuthErrorsAreDistinct(t *testing.T) {
	if ErrUnauthorized.Type != ErrInvalidCredential.Type {
		t.Fatalf("wire types differ: %s vs %s", ErrUnauthorized.Type, ErrInvalidCredential.Type)
	}
	if errors.Is(ErrUnauthorized, ErrInvalidCredential) {
		t.Error("missing key matched invalid key")
	}
	if errors.Is(ErrInvalidCredential, ErrUnauthorized) {
		t.Error("invalid key matched missing key")
	}
	if !errors.Is(fmt.Errorf("resolve: %w", ErrInvalidCredential), ErrInvalidCredential) {
		t.Error("wrapped invalid key not matched")
	}
}

func TestErrorKindStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInvalidCredential, http.StatusUnauthorized},
		{ErrAuthorNotFound, http.StatusNotFound},
		{ErrSelfFollow, http.StatusConflict},
		{ErrDuplicateLike, http.StatusConflict},
		{ErrNotOwner, http.StatusForbidden},
		{ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{ErrInvalidParameters, http.StatusUnprocessableEntity},
		{ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.err.Kind.HTTPStatus(); got != tt.want {
			t.Errorf("%s status = %d, want %d", tt.err.Type, got, tt.want)
		}
	}
}

func TestAsError(t *testing.T) {
	if e, ok := AsError(fmt.Errorf("x: %w", ErrPostNotFound)); !ok || e.Type != "TWEET_NOT_EXIST" {
		t.Errorf("AsError(wrapped) = %v, %v", e, ok)
	}
	if e, ok := AsError(errors.New("db down")); ok || e != ErrInternal {
		t.Errorf("AsError(plain) = %v, %v", e, ok)
	}
}
