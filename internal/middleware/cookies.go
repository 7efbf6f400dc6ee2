package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieOptions describes the identity cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

func SetIdentityCookie(c *gin.Context, opts CookieOptions, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.Name, token, int(ttl.Seconds()), "/", "", opts.Secure, true)
}

func ClearIdentityCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.Name, "", -1, "/", "", opts.Secure, true)
}
