package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/repositories/mock"
	"yatube/app/services"
	"yatube/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const (
	numberOfPosts = 13
	loginURL      = "/auth/login/"
)

type testApp struct {
	router   *mux.Router
	recorder *views.Recorder

	postService    *services.PostService
	commentService *services.CommentService

	author *models.User
	reader *models.User
	group  *models.Group
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	users := mock.NewUserRepository()
	groups := mock.NewGroupRepository()
	posts := mock.NewPostRepository()
	comments := mock.NewCommentRepository()
	posts.Comments = comments

	app := &testApp{router: mux.NewRouter().StrictSlash(true)}
	app.postService = services.NewPostService(posts, users, groups, comments, services.DefaultPerPage)
	app.commentService = services.NewCommentService(comments, posts, users)
	groupService := services.NewGroupService(groups)

	html, err := views.NewHTMLRenderer(views.Funcs(app.router, loginURL))
	require.NoError(t, err)
	app.recorder = views.NewRecorder(html)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := RouteOptions{RequireLogin: middleware.RequireLogin(loginURL)}
	NewPostController(app.postService, groupService, app.recorder, logger).RegisterRoutes(app.router, opts)
	NewCommentController(app.commentService, app.recorder, logger).RegisterRoutes(app.router, opts)

	userService := services.NewUserService(users)
	app.author, err = userService.CreateUser("slava", "Слава", "")
	require.NoError(t, err)
	app.reader, err = userService.CreateUser("reader", "", "")
	require.NoError(t, err)
	app.group, err = groupService.CreateGroup("Тестовая группа", "test_slug", "Тестовое описание")
	require.NoError(t, err)
	return app
}

func (app *testApp) seed(t *testing.T, n int) []*models.Post {
	t.Helper()
	created := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post, err := app.postService.CreatePost(app.author, services.PostInput{Text: "Тестовый пост", GroupID: app.group.ID})
		require.NoError(t, err)
		created = append(created, post)
	}
	return created
}

// do serves the request as user, anonymous when user is nil.
func (app *testApp) do(req *http.Request, user *models.User) *httptest.ResponseRecorder {
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func (app *testApp) get(target string, user *models.User) *httptest.ResponseRecorder {
	return app.do(httptest.NewRequest(http.MethodGet, target, nil), user)
}

func (app *testApp) postForm(target string, form url.Values, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return app.do(req, user)
}

func (app *testApp) lastRender(t *testing.T) views.Rendered {
	t.Helper()
	rendered, ok := app.recorder.Last()
	require.True(t, ok, "nothing rendered")
	return rendered
}

func jsonRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "application/json")
	return req
}

