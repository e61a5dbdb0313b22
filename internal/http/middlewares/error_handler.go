package middlewares

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mestoapp/mesto/internal/apperr"
)

// ErrorHandler is the terminal sink of the pipeline: controllers and
// middlewares attach errors with ctx.Error and this writes the one response.
// Typed errors carry their own status; everything else becomes a 500 with a
// generic body so store internals never leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		last := ctx.Errors.Last()

		if last == nil || ctx.Writer.Written() {
			return
		}

		var appErr *apperr.Error

		if errors.As(last.Err, &appErr) {
			ctx.JSON(appErr.Status, gin.H{"message": appErr.Message})
			return
		}

		reqID, _ := ctx.Get(CtxRequestID)

		slog.Default().ErrorContext(ctx.Request.Context(), "unhandled error",
			"err", last.Err,
			"route", ctx.FullPath(),
			"request_id", reqID,
		)

		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred on the server"})
	}
}
