package middleware

import (
	"github.com/gin-gonic/gin"

	"csemotors/web/internal/security"
)

const (
	identityKey  = "identity"
	sessionIDKey = "session_id"
	csrfTokenKey = "csrf_token"
)

// Responder renders the outcomes middleware can short-circuit with. The
// handler set implements it so error pages and flash redirects look the same
// everywhere.
type Responder interface {
	Fail(c *gin.Context, status int, message string)
	Redirect(c *gin.Context, location string, notice string)
}

// Identity returns the verified claims of the current request, or nil for an
// anonymous visitor.
func Identity(c *gin.Context) *security.IdentityClaims {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*security.IdentityClaims)
	return claims
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// CSRFToken is empty when CSRF protection is disabled.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfTokenKey)
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDHeader)
}
