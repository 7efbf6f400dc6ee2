package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

const sessionCookie = "sid"

// Session gives every browser an opaque id. Flash notices and CSRF tokens are
// keyed on it; it carries no identity.
func Session(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || !validSessionID(sid) {
			sid = ksuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sid, 0, "/", "", secure, true)
		}
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

func validSessionID(sid string) bool {
	_, err := ksuid.Parse(sid)
	return err == nil
}
