package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentController(t *testing.T) {
	app := newTestApp(t)
	post := app.seed(t, 1)[0]
	detail := "/posts/" + strconv.Itoa(post.ID) + "/"
	target := detail + "comment/"

	t.Run("anonymous redirected to login", func(t *testing.T) {
		w := app.postForm(target, url.Values{"text": {"Гость"}}, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, loginURL+"?next="+url.QueryEscape(target), w.Header().Get("Location"))

		comments, err := app.commentService.ListPostComments(post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("add comment", func(t *testing.T) {
		w := app.postForm(target, url.Values{"text": {"Отличный пост"}}, app.reader)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detail, w.Header().Get("Location"))

		comments, err := app.commentService.ListPostComments(post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "Отличный пост", comments[0].Text)
		assert.Equal(t, app.reader.ID, comments[0].AuthorID)
	})

	t.Run("empty comment dropped", func(t *testing.T) {
		w := app.postForm(target, url.Values{"text": {""}}, app.reader)
		assert.Equal(t, http.StatusFound, w.Code)

		comments, err := app.commentService.ListPostComments(post.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	t.Run("missing post", func(t *testing.T) {
		w := app.postForm("/posts/404/comment/", url.Values{"text": {"hi"}}, app.reader)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get not allowed", func(t *testing.T) {
		w := app.get(target, app.reader)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("api list", func(t *testing.T) {
		w := app.get("/api/posts/"+strconv.Itoa(post.ID)+"/comments/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp []commentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "reader", resp[0].Author)
		assert.Equal(t, post.ID, resp[0].Post)

		w = app.get("/api/posts/404/comments/", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
