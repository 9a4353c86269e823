package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/weijue/blog/web/session"
)

// Decision is the outcome of the authorization policy for one request.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow permits the request.
var Allow = Decision{Allowed: true}

// DenyRedirect blocks the request and sends the browser to target.
func DenyRedirect(target string) Decision {
	return Decision{RedirectTo: target}
}

const loginPath = "/login"

// Authorize evaluates the static route policy. Precedence, first match wins:
// public paths are always allowed; admin paths require a logged-in session;
// every other path requires a logged-in session as well.
func Authorize(path, method string, loggedIn bool) Decision {
	switch {
	case path == "/" || path == loginPath || path == "/error":
		return Allow
	case strings.HasPrefix(path, "/assets/"):
		return Allow
	}

	if path == "/admin" || path == "/post" || strings.HasPrefix(path, "/post/") {
		if loggedIn {
			return Allow
		}
		return DenyRedirect(loginPath)
	}

	if loggedIn {
		return Allow
	}
	return DenyRedirect(loginPath)
}

// SessionGuard applies Authorize to every request before it reaches a
// handler. Denied requests are dropped with a redirect to the login page.
func SessionGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := Authorize(c.Request.URL.Path, c.Request.Method, session.IsLogin(c))
		if !decision.Allowed {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}
