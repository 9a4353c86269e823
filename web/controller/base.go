// Package controller provides the HTTP request handlers for the blog: the
// public pages and the session-gated admin area.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weijue/blog/web/session"
)

// BaseController provides common functionality for all controllers.
type BaseController struct{}

// checkLogin verifies the session carries a principal and redirects
// anonymous requests to the login page.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}
