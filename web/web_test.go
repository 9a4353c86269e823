package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weijue/blog/database"
	"github.com/weijue/blog/logger"
	"github.com/weijue/blog/web/service"
)

func setupTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	os.Setenv("BLOG_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.ERROR)

	os.Remove("test.db")
	require.NoError(t, database.InitDB("test.db"))

	credential, err := service.NewCredential("admin", "123456")
	require.NoError(t, err)

	s := NewServer()
	s.authService = service.NewAuthService(credential)
	engine, err := s.initRouter()
	require.NoError(t, err)

	srv := httptest.NewServer(engine)
	t.Cleanup(func() {
		srv.Close()
		db, _ := database.GetDB().DB()
		db.Close()
		os.Remove("test.db")
		os.Remove("test.db-wal")
		os.Remove("test.db-shm")
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, client
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, url string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(url, form)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func login(t *testing.T, client *http.Client, base string) {
	t.Helper()
	resp := postForm(t, client, base+"/login", url.Values{
		"username": {"admin"},
		"password": {"123456"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestPublicIndexIsServed(t *testing.T) {
	srv, client := setupTestServer(t)

	resp, body := get(t, client, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Weijue 的博客")
}

func TestGatedRoutesRedirectAnonymousToLogin(t *testing.T) {
	srv, client := setupTestServer(t)

	for _, path := range []string{"/admin", "/post/edit/1"} {
		resp, body := get(t, client, srv.URL+path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
		assert.NotContains(t, body, "<article", path)
	}

	resp := postForm(t, client, srv.URL+"/post", url.Values{
		"title":   {"t"},
		"content": {"c"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// Logout falls under default-deny for anonymous sessions.
	resp, _ = get(t, client, srv.URL+"/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginFailureRedirectsWithError(t *testing.T) {
	srv, client := setupTestServer(t)

	resp := postForm(t, client, srv.URL+"/login", url.Values{
		"username": {"admin"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?error", resp.Header.Get("Location"))

	// The session stays anonymous after a failed attempt.
	resp, _ = get(t, client, srv.URL+"/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginLogoutFlow(t *testing.T) {
	srv, client := setupTestServer(t)

	login(t, client, srv.URL)

	resp, body := get(t, client, srv.URL+"/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "文章管理")

	// Visiting the login page while authenticated goes straight to the
	// admin area.
	resp, _ = get(t, client, srv.URL+"/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	resp, _ = get(t, client, srv.URL+"/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?logout", resp.Header.Get("Location"))

	resp, _ = get(t, client, srv.URL+"/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestCreatePostAppearsOnIndex(t *testing.T) {
	srv, client := setupTestServer(t)
	login(t, client, srv.URL)

	resp := postForm(t, client, srv.URL+"/post", url.Values{
		"title":   {"测试文章"},
		"content": {"这是测试内容"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	_, body := get(t, client, srv.URL+"/")
	assert.Contains(t, body, "测试文章")
	assert.Contains(t, body, "这是测试内容")
}

func TestUpdatePostKeepsIdAndCreateTime(t *testing.T) {
	srv, client := setupTestServer(t)
	login(t, client, srv.URL)

	resp := postForm(t, client, srv.URL+"/post", url.Values{
		"title":   {"原标题"},
		"content": {"原内容"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	postService := service.PostService{}
	posts, err := postService.GetAllPosts()
	require.NoError(t, err)
	var id int
	var createTime int64
	for _, post := range posts {
		if post.Title == "原标题" {
			id = post.Id
			createTime = post.CreateTime.Unix()
		}
	}
	require.NotZero(t, id)

	resp = postForm(t, client, srv.URL+"/post/update/"+strconv.Itoa(id), url.Values{
		"title":   {"新标题"},
		"content": {"新内容"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	updated, err := postService.GetPost(id)
	require.NoError(t, err)
	assert.Equal(t, id, updated.Id)
	assert.Equal(t, createTime, updated.CreateTime.Unix())
	assert.Equal(t, "新标题", updated.Title)
	assert.Equal(t, "新内容", updated.Content)
	assert.Equal(t, "admin", updated.Author)
}

func TestEditMissingPostReturnsNotFound(t *testing.T) {
	srv, client := setupTestServer(t)
	login(t, client, srv.URL)

	resp, body := get(t, client, srv.URL+"/post/edit/99999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "文章不存在")
}

func TestDeletePostIsIdempotentOverHTTP(t *testing.T) {
	srv, client := setupTestServer(t)
	login(t, client, srv.URL)

	resp := postForm(t, client, srv.URL+"/post", url.Values{
		"title":   {"待删除"},
		"content": {"内容"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	postService := service.PostService{}
	posts, err := postService.GetAllPosts()
	require.NoError(t, err)
	var id int
	for _, post := range posts {
		if post.Title == "待删除" {
			id = post.Id
		}
	}
	require.NotZero(t, id)

	for i := 0; i < 2; i++ {
		resp = postForm(t, client, srv.URL+"/post/delete/"+strconv.Itoa(id), nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/admin", resp.Header.Get("Location"))
	}

	_, body := get(t, client, srv.URL+"/")
	assert.NotContains(t, body, "待删除")
}

func TestRenderedContentIsSanitized(t *testing.T) {
	srv, client := setupTestServer(t)
	login(t, client, srv.URL)

	resp := postForm(t, client, srv.URL+"/post", url.Values{
		"title":   {"xss"},
		"content": {"hello <script>alert('xss')</script>"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, body := get(t, client, srv.URL+"/")
	assert.NotContains(t, body, "<script>alert")
}
