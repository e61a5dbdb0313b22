package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/mestoapp/mesto/internal/apperr"
	"github.com/mestoapp/mesto/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type SessionVerifier interface {
	VerifySession(token string) (*auth.SessionClaims, error)
}

type AuthMiddleware struct {
	sessions SessionVerifier
}

func NewAuthMiddleware(sessions SessionVerifier) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// SessionCookie is the cookie the session token travels in.
const SessionCookie = "jwt"

// RequireAuth guards every protected route. The failure message is a single
// fixed string: a missing cookie and a bad signature must be
// indistinguishable to the client.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)

		if err != nil || token == "" {
			_ = c.Error(apperr.Unauthorized("Authorization required"))
			c.Abort()
			return
		}

		claims, err := m.sessions.VerifySession(token)

		if err != nil {
			_ = c.Error(apperr.Unauthorized("Authorization required"))
			c.Abort()
			return
		}

		WithUserID(c, claims.UserID)

		c.Next()
	}
}

// WithUserID stashes the authenticated identity on the request context.
// RequireAuth calls it after verification; tests call it to simulate an
// authenticated request.
func WithUserID(c *gin.Context, id string) {
	c.Set(ctxUserIDKey, id)
}

// UserIDFromContext lets handlers read the authenticated identity without
// knowing the magic key.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
