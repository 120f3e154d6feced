package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/veilcall/core/internal/pkg/jwt"
	"github.com/veilcall/core/internal/pkg/response"
)

const ContextKeyUserID = "user_id"

// TokenValidator checks a bearer token and returns its claims. The HTTP layer
// plugs in the strict session-backed check here; the signaling handshake uses
// the relaxed signature-only variant directly.
type TokenValidator func(token string) (*jwt.Claims, error)

// Auth returns a middleware that enforces bearer token authentication.
func Auth(validate TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validate(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
