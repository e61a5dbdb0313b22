package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mestoapp/mesto/internal/apperr"
)

func TestConstructorsCarryStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperr.Error
		wantKind   apperr.Kind
		wantStatus int
	}{
		{"bad_request", apperr.BadRequest("bad id"), apperr.KindBadRequest, http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("no session"), apperr.KindUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("not yours"), apperr.KindForbidden, http.StatusForbidden},
		{"not_found", apperr.NotFound("missing"), apperr.KindNotFound, http.StatusNotFound},
		{"conflict", apperr.Conflict("duplicate"), apperr.KindConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.wantKind {
				t.Fatalf("got kind %d, want %d", tt.err.Kind, tt.wantKind)
			}
			if tt.err.Status != tt.wantStatus {
				t.Fatalf("got status %d, want %d", tt.err.Status, tt.wantStatus)
			}
		})
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("deleting card: %w", apperr.Forbidden("You cannot delete another user's card"))

	var appErr *apperr.Error
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed to unwrap *apperr.Error")
	}

	if appErr.Status != http.StatusForbidden {
		t.Fatalf("got status %d, want %d", appErr.Status, http.StatusForbidden)
	}

	if appErr.Error() != "You cannot delete another user's card" {
		t.Fatalf("unexpected message: %q", appErr.Error())
	}
}
