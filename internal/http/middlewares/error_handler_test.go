package middlewares_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mestoapp/mesto/internal/apperr"
	"github.com/mestoapp/mesto/internal/http/middlewares"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name           string
		handler        gin.HandlerFunc
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "typed_error_keeps_status_and_message",
			handler: func(c *gin.Context) {
				_ = c.Error(apperr.NotFound("Card not found"))
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "Card not found",
		},
		{
			name: "wrapped_typed_error_unwraps",
			handler: func(c *gin.Context) {
				_ = c.Error(fmtWrap(apperr.Conflict("A user with this email already exists")))
			},
			wantStatusCode: http.StatusConflict,
			wantMessage:    "A user with this email already exists",
		},
		{
			name: "untyped_error_is_opaque",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("pq: connection refused to 10.0.0.3:5432"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "An error occurred on the server",
		},
		{
			name: "no_error_leaves_response_alone",
			handler: func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "fine"})
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "fine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middlewares.ErrorHandler())
			r.GET("/x", tt.handler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			var body struct {
				Message string `json:"message"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not {message}: %v", err)
			}

			if body.Message != tt.wantMessage {
				t.Fatalf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

// Internal detail must never appear in a 500 body, whatever the error says.
func TestErrorHandlerNeverLeaksInternals(t *testing.T) {
	secret := "password hash for admin@x.com is $2a$10$abc"

	r := gin.New()
	r.Use(middlewares.ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New(secret))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d", w.Code)
	}

	if got := w.Body.String(); got != `{"message":"An error occurred on the server"}` {
		t.Fatalf("500 body leaked detail: %s", got)
	}
}

func fmtWrap(err error) error {
	return &wrapped{inner: err}
}

type wrapped struct {
	inner error
}

func (w *wrapped) Error() string { return "handler: " + w.inner.Error() }
func (w *wrapped) Unwrap() error { return w.inner }
