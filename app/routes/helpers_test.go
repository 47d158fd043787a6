package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"yatube/app/cache"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/views"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
)

const numberOfPosts = 13

type testEnv struct {
	server    *Server
	store     *repositories.Store
	sessions  sessions.Store
	pageCache *cache.PageCache
	recorder  *views.Recorder

	user  *models.User
	group *models.Group
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := repositories.NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	pageCache, err := cache.NewPageCache(8 << 20)
	require.NoError(t, err)
	t.Cleanup(pageCache.Close)

	env := &testEnv{
		store:     store,
		sessions:  middleware.NewCookieStore("test-secret"),
		pageCache: pageCache,
	}
	env.server, err = New(Deps{
		Store:     store,
		Sessions:  env.sessions,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		PageCache: pageCache,
		IndexTTL:  time.Minute,
		StaticDir: setupStaticDir(t),
		DecorateRenderer: func(next views.Renderer) views.Renderer {
			env.recorder = views.NewRecorder(next)
			return env.recorder
		},
	})
	require.NoError(t, err)

	env.user = &models.User{Username: "slava", CreatedAt: time.Now()}
	require.NoError(t, store.Users.Create(env.user))
	env.group = &models.Group{Title: "Тестовая группа", Slug: "test_slug", Description: "Тестовое описание"}
	require.NoError(t, store.Groups.Create(env.group))
	return env
}

func setupStaticDir(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body { background: #f0f0f0; }"), 0o644))
	return dir
}

// seed stores n posts with explicit IDs 1..n, the last one newest.
func (env *testEnv) seed(t *testing.T, n int) []*models.Post {
	t.Helper()
	start := time.Now().Add(-time.Hour)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := &models.Post{
			ID:        i + 1,
			Text:      "Тестовый пост",
			AuthorID:  env.user.ID,
			GroupID:   env.group.ID,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.store.Posts.Create(post))
		posts = append(posts, post)
	}
	return posts
}

// guestClient and authorizedClient mirror the two kinds of visitors.
type client struct {
	env     *testEnv
	cookies []*http.Cookie
}

func (env *testEnv) guestClient() *client {
	return &client{env: env}
}

func (env *testEnv) authorizedClient(t *testing.T, user *models.User) *client {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, middleware.Login(w, httptest.NewRequest(http.MethodPost, "/", nil), env.sessions, user))
	return &client{env: env, cookies: w.Result().Cookies()}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.env.server.ServeHTTP(w, req)
	return w
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// reverse resolves a named route like the template url func does.
func (env *testEnv) reverse(t *testing.T, name string, pairs ...any) string {
	t.Helper()
	u, err := views.URLFunc(env.server.Router)(name, pairs...)
	require.NoError(t, err)
	return u
}

func (env *testEnv) lastContext(t *testing.T) views.Rendered {
	t.Helper()
	rendered, ok := env.recorder.Last()
	require.True(t, ok, "no template rendered")
	return rendered
}
