package controller

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weijue/blog/config"
	"github.com/weijue/blog/logger"
	"github.com/weijue/blog/util/markdown"
	"github.com/weijue/blog/web/service"
	"github.com/weijue/blog/web/session"
)

// LoginForm represents the login request.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// BlogController handles the public routes: post listing, login and logout.
type BlogController struct {
	BaseController

	authService *service.AuthService
	postService service.PostService
}

// NewBlogController creates a new BlogController and initializes its routes.
func NewBlogController(g *gin.RouterGroup, authService *service.AuthService) *BlogController {
	a := &BlogController{authService: authService}
	a.initRouter(g)
	return a
}

func (a *BlogController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginForm)
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
	g.POST("/logout", a.logout)
}

// index shows all posts, newest first, with rendered content.
func (a *BlogController) index(c *gin.Context) {
	posts, err := a.postService.GetAllPosts()
	if err != nil {
		logger.Warning("list posts failed:", err)
		htmlError(c, http.StatusInternalServerError, "无法加载文章列表")
		return
	}
	for _, post := range posts {
		post.RenderedContent = markdown.ToHTML(post.Content)
	}
	html(c, "index.html", "Weijue 的博客", gin.H{
		"posts":   posts,
		"isLogin": session.IsLogin(c),
	})
}

// loginForm shows the login page, or redirects to the admin area when the
// session is already authenticated.
func (a *BlogController) loginForm(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	_, hasError := c.GetQuery("error")
	_, hasLogout := c.GetQuery("logout")
	html(c, "login.html", "登录", gin.H{
		"hasError":  hasError,
		"hasLogout": hasLogout,
	})
}

// login verifies the submitted credentials and creates the session principal.
func (a *BlogController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil || form.Username == "" || form.Password == "" {
		c.Redirect(http.StatusFound, "/login?error")
		return
	}

	principal := a.authService.Check(form.Username, form.Password)
	safeUser := template.HTMLEscapeString(form.Username)
	if principal == nil {
		logger.Warningf("failed login for username %q, IP: %s", safeUser, getRemoteIp(c))
		c.Redirect(http.StatusFound, "/login?error")
		return
	}

	if err := session.SetMaxAge(c, config.GetSessionMaxAge()); err != nil {
		logger.Warning("unable to set session max age:", err)
	}
	if err := session.SetPrincipal(c, principal); err != nil {
		logger.Warning("unable to save session:", err)
		c.Redirect(http.StatusFound, "/login?error")
		return
	}

	logger.Infof("%s logged in successfully (login %s), IP: %s", safeUser, principal.LoginID, getRemoteIp(c))
	c.Redirect(http.StatusFound, "/admin")
}

// logout destroys the session and sends the browser back to the login page.
func (a *BlogController) logout(c *gin.Context) {
	if principal := session.GetPrincipal(c); principal != nil {
		logger.Infof("%s logged out (login %s)", principal.Username, principal.LoginID)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	c.Redirect(http.StatusFound, "/login?logout")
}
