package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weijue/blog/database"
	"github.com/weijue/blog/database/model"
	"github.com/weijue/blog/logger"
	"github.com/weijue/blog/web/service"
	"github.com/weijue/blog/web/session"
)

// PostForm carries the post fields submitted from the admin forms.
type PostForm struct {
	Title   string `json:"title" form:"title" binding:"required"`
	Content string `json:"content" form:"content" binding:"required"`
}

// AdminController handles the admin dashboard and all post mutations.
// Every route requires an authenticated session.
type AdminController struct {
	BaseController

	postService service.PostService
}

// NewAdminController creates a new AdminController and initializes its routes.
func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g.GET("/admin", a.checkLogin, a.admin)

	posts := g.Group("/post")
	posts.Use(a.checkLogin)

	posts.POST("", a.createPost)
	posts.GET("/edit/:id", a.editPost)
	posts.POST("/update/:id", a.updatePost)
	posts.POST("/delete/:id", a.deletePost)
}

// admin shows all posts for management.
func (a *AdminController) admin(c *gin.Context) {
	posts, err := a.postService.GetAllPosts()
	if err != nil {
		logger.Warning("list posts failed:", err)
		htmlError(c, http.StatusInternalServerError, "无法加载文章列表")
		return
	}
	html(c, "admin.html", "文章管理", gin.H{
		"posts":     posts,
		"principal": session.GetPrincipal(c),
	})
}

// createPost creates a post from the submitted form. The author is the
// current principal, or "admin" when none is present.
func (a *AdminController) createPost(c *gin.Context) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		htmlError(c, http.StatusBadRequest, "标题和内容不能为空")
		return
	}

	author := "admin"
	if principal := session.GetPrincipal(c); principal != nil {
		author = principal.Username
	}

	post := &model.Post{
		Title:   form.Title,
		Content: form.Content,
		Author:  author,
	}
	if err := a.postService.SavePost(post); err != nil {
		logger.Warning("create post failed:", err)
		htmlError(c, http.StatusInternalServerError, "发布文章失败")
		return
	}

	logger.Infof("post %d created by %s", post.Id, author)
	c.Redirect(http.StatusFound, "/admin")
}

// editPost shows the edit form for one post.
func (a *AdminController) editPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		htmlError(c, http.StatusNotFound, "文章不存在: "+c.Param("id"))
		return
	}

	post, err := a.postService.GetPost(id)
	if err != nil {
		if database.IsNotFound(err) {
			htmlError(c, http.StatusNotFound, "文章不存在: "+c.Param("id"))
		} else {
			logger.Warning("load post failed:", err)
			htmlError(c, http.StatusInternalServerError, "无法加载文章")
		}
		return
	}

	html(c, "edit.html", "编辑文章", gin.H{"post": post})
}

// updatePost updates title and content of an existing post. Id and create
// time never change.
func (a *AdminController) updatePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		htmlError(c, http.StatusNotFound, "文章不存在: "+c.Param("id"))
		return
	}

	post, err := a.postService.GetPost(id)
	if err != nil {
		if database.IsNotFound(err) {
			htmlError(c, http.StatusNotFound, "文章不存在: "+c.Param("id"))
		} else {
			logger.Warning("load post failed:", err)
			htmlError(c, http.StatusInternalServerError, "无法加载文章")
		}
		return
	}

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		htmlError(c, http.StatusBadRequest, "标题和内容不能为空")
		return
	}

	post.Title = form.Title
	post.Content = form.Content
	if principal := session.GetPrincipal(c); principal != nil {
		post.Author = principal.Username
	}

	if err := a.postService.SavePost(post); err != nil {
		logger.Warning("update post failed:", err)
		htmlError(c, http.StatusInternalServerError, "更新文章失败")
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// deletePost removes a post. Deleting a missing id still redirects to the
// admin page.
func (a *AdminController) deletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		if err := a.postService.DelPost(id); err != nil {
			logger.Warning("delete post failed:", err)
		}
	}
	c.Redirect(http.StatusFound, "/admin")
}
