package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", Validation("guild parameter required"), http.StatusBadRequest},
		{"authentication", Authentication("Not authenticated"), http.StatusUnauthorized},
		{"forbidden", Forbidden("No access to this guild"), http.StatusForbidden},
		{"not found", NotFound("event %s not found", "abc"), http.StatusNotFound},
		{"upstream", Upstream("query failed", errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped forbidden", fmt.Errorf("update: %w", Forbidden("nope")), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.expected {
				t.Errorf("HTTPStatus() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("failed to list events", cause)

	if err.Error() != "failed to list events: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Upstream error should unwrap to its cause")
	}
	if NotFound("event %s not found", "x").Error() != "event x not found" {
		t.Error("NotFound should format its message")
	}
}

func TestIs(t *testing.T) {
	if Is(nil, KindValidation) {
		t.Error("nil error should not match any kind")
	}
	if !Is(Validation("q too short"), KindValidation) {
		t.Error("Validation error should match KindValidation")
	}
	if Is(Validation("q too short"), KindForbidden) {
		t.Error("Validation error should not match KindForbidden")
	}
}
