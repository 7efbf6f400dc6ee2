package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"csemotors/web/internal/security"
)

const csrfField = "csrf_token"

// CSRF binds every form post to the browser session. Disabled, it is a no-op
// and templates omit the hidden field.
func CSRF(enabled bool, secret string, responder Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		sid := SessionID(c)
		c.Set(csrfTokenKey, security.CSRFToken(secret, sid))

		if c.Request.Method == http.MethodPost {
			token := c.PostForm(csrfField)
			if token == "" {
				token = c.GetHeader("X-CSRF-Token")
			}
			if !security.ValidCSRFToken(secret, sid, token) {
				responder.Fail(c, http.StatusForbidden, "Your form has expired. Please go back, reload the page and try again.")
				return
			}
		}

		c.Next()
	}
}
