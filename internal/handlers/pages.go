package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) Home(c *gin.Context) {
	h.html(c, http.StatusOK, "index", h.page(c, "Home", 0))
}

// TriggerError exercises the crash path end to end.
func (h HandlerSet) TriggerError(*gin.Context) {
	panic(errors.New("intentional 500 error"))
}
