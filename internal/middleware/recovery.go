package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const crashMessage = "Oh no! There was a crash. Maybe try a different route?"

// Recovery turns a panic into the generic error page. The panic value and
// stack only reach the log.
func Recovery(log zerolog.Logger, responder Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Str("request_id", RequestIDFrom(c)).
					Msg("panic recovered")
				if c.Writer.Written() {
					c.Abort()
					return
				}
				responder.Fail(c, http.StatusInternalServerError, crashMessage)
			}
		}()
		c.Next()
	}
}
