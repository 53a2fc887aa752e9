package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestPredicatesMatchConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		check  func(error) bool
		status int
	}{
		{"not found", NotFound("repository", ErrNotFound), IsNotFound, http.StatusNotFound},
		{"bad request", BadRequest("name is required", ErrInvalidInput), IsBadRequest, http.StatusBadRequest},
		{"validation", ValidationError("name", "name is required"), IsBadRequest, http.StatusBadRequest},
		{"conflict", Conflict("record already exists", ErrRecordExists), IsConflict, http.StatusConflict},
		{"unauthorized", Unauthorized("", ErrInvalidToken), IsUnauthorized, http.StatusUnauthorized},
		{"too large", RequestTooLarge("", nil), IsRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"upstream", UpstreamError("datasets", errors.New("502")), IsUpstream, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Fatalf("predicate returned false for %v", tt.err)
			}
			if got := StatusCode(tt.err); got != tt.status {
				t.Fatalf("StatusCode = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("lookup: %w", NotFound("repository", ErrNotFound))
	if !IsNotFound(err) {
		t.Fatalf("expected wrapped AppError to be not found")
	}
	if IsBadRequest(err) {
		t.Fatalf("not found must not be reported as bad request")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to reach the sentinel")
	}
}

func TestIsRequestTooLargeRecognisesMaxBytesError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("parse form: %w", &http.MaxBytesError{Limit: 10})
	if !IsRequestTooLarge(err) {
		t.Fatalf("expected MaxBytesError to be classified as too large")
	}
}

func TestStatusCodeDefaultsToInternal(t *testing.T) {
	t.Parallel()

	if got := StatusCode(errors.New("disk full")); got != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", got)
	}
}
