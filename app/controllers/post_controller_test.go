package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"yatube/app/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostControllerTemplates(t *testing.T) {
	app := newTestApp(t)
	posts := app.seed(t, numberOfPosts)
	second := strconv.Itoa(posts[1].ID)

	tests := map[string]string{
		"/":                           views.TemplateIndex,
		"/group/test_slug/":           views.TemplateGroupList,
		"/profile/slava/":             views.TemplateProfile,
		"/posts/" + second + "/":      views.TemplatePostDetail,
		"/posts/" + second + "/edit/": views.TemplatePostForm,
		"/create/":                    views.TemplatePostForm,
	}
	for target, template := range tests {
		t.Run(target, func(t *testing.T) {
			w := app.get(target, app.author)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, template, app.lastRender(t).Name)
		})
	}
}

func TestPostControllerListings(t *testing.T) {
	app := newTestApp(t)
	posts := app.seed(t, numberOfPosts)
	newest := posts[len(posts)-1]

	pageOf := func(t *testing.T, data any) *views.PostPage {
		switch ctx := data.(type) {
		case *views.IndexContext:
			return ctx.Page
		case *views.GroupContext:
			assert.Equal(t, "test_slug", ctx.Group.Slug)
			return ctx.Page
		case *views.ProfileContext:
			assert.Equal(t, "slava", ctx.Author.Username)
			assert.Equal(t, numberOfPosts, ctx.PostCount)
			return ctx.Page
		}
		t.Fatalf("unexpected context %T", data)
		return nil
	}

	for _, target := range []string{"/", "/group/test_slug/", "/profile/slava/"} {
		t.Run(target, func(t *testing.T) {
			w := app.get(target, app.author)
			require.Equal(t, http.StatusOK, w.Code)
			page := pageOf(t, app.lastRender(t).Data)
			require.Equal(t, 10, page.Len())

			first := page.Items[0]
			assert.Equal(t, newest.Text, first.Text)
			assert.Equal(t, newest.ID, first.ID)
			assert.Equal(t, app.author.Username, first.Author.Username)
			assert.Equal(t, app.group.Title, first.Group.Title)

			w = app.get(target+"?page=2", app.author)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 3, pageOf(t, app.lastRender(t).Data).Len())
		})
	}

	t.Run("page fallbacks", func(t *testing.T) {
		app.get("/?page=99", nil)
		assert.Equal(t, 2, pageOf(t, app.lastRender(t).Data).Number)
		app.get("/?page=abc", nil)
		assert.Equal(t, 1, pageOf(t, app.lastRender(t).Data).Number)
	})

	t.Run("anonymous can read", func(t *testing.T) {
		w := app.get("/group/test_slug/", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		ctx := app.lastRender(t).Data.(*views.GroupContext)
		assert.Nil(t, ctx.CurrentUser)
	})
}

func TestPostControllerNotFound(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/group/nope/", "/profile/nobody/", "/posts/404/", "/posts/99999999999999999999/"} {
		t.Run(target, func(t *testing.T) {
			w := app.get(target, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			rendered := app.lastRender(t)
			assert.Equal(t, views.TemplateNotFound, rendered.Name)
			assert.Equal(t, target, rendered.Data.(*views.NotFoundContext).Path)
		})
	}

	t.Run("json", func(t *testing.T) {
		w := app.do(jsonRequest("/posts/404/"), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
	})
}

func TestPostControllerDetail(t *testing.T) {
	app := newTestApp(t)
	posts := app.seed(t, 3)
	post := posts[0]
	_, err := app.commentService.AddComment(app.reader, post.ID, "Первый!")
	require.NoError(t, err)

	w := app.get("/posts/"+strconv.Itoa(post.ID)+"/", app.reader)
	require.Equal(t, http.StatusOK, w.Code)
	ctx := app.lastRender(t).Data.(*views.PostDetailContext)
	assert.Equal(t, post.ID, ctx.Post.ID)
	assert.Equal(t, 3, ctx.AuthorPostCount)
	require.Len(t, ctx.Comments, 1)
	assert.Equal(t, "reader", ctx.Comments[0].Author.Username)
	assert.False(t, ctx.CanEdit())
	assert.Contains(t, w.Body.String(), "Первый!")
}

func TestPostControllerCreate(t *testing.T) {
	app := newTestApp(t)

	t.Run("anonymous redirected to login", func(t *testing.T) {
		w := app.get("/create/", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, loginURL+"?next=%2Fcreate%2F", w.Header().Get("Location"))
	})

	t.Run("empty form", func(t *testing.T) {
		app.get("/create/", app.author)
		ctx := app.lastRender(t).Data.(*views.PostFormContext)
		assert.False(t, ctx.IsEdit)
		require.Len(t, ctx.Groups, 1)
	})

	t.Run("invalid form re-rendered", func(t *testing.T) {
		w := app.postForm("/create/", url.Values{"text": {"   "}}, app.author)
		assert.Equal(t, http.StatusOK, w.Code)
		ctx := app.lastRender(t).Data.(*views.PostFormContext)
		assert.Contains(t, ctx.Form.Errors, "text")
	})

	t.Run("unknown group", func(t *testing.T) {
		w := app.postForm("/create/", url.Values{"text": {"Пост"}, "group": {"42"}}, app.author)
		assert.Equal(t, http.StatusOK, w.Code)
		ctx := app.lastRender(t).Data.(*views.PostFormContext)
		assert.Contains(t, ctx.Form.Errors, "group")
	})

	t.Run("garbage group", func(t *testing.T) {
		w := app.postForm("/create/", url.Values{"text": {"Пост"}, "group": {"abc"}}, app.author)
		assert.Equal(t, http.StatusOK, w.Code)
		ctx := app.lastRender(t).Data.(*views.PostFormContext)
		assert.Equal(t, invalidChoice, ctx.Form.Errors["group"])
		assert.Equal(t, "Пост", ctx.Form.Text)
	})

	t.Run("valid form", func(t *testing.T) {
		form := url.Values{"text": {"Новый пост"}, "group": {strconv.Itoa(app.group.ID)}}
		w := app.postForm("/create/", form, app.author)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/slava/", w.Header().Get("Location"))

		page, err := app.postService.IndexPage("")
		require.NoError(t, err)
		require.Equal(t, 1, page.Len())
		assert.Equal(t, "Новый пост", page.Items[0].Text)
		assert.Equal(t, app.group.ID, page.Items[0].GroupID)
	})
}

func TestPostControllerEdit(t *testing.T) {
	app := newTestApp(t)
	post := app.seed(t, 1)[0]
	detail := "/posts/" + strconv.Itoa(post.ID) + "/"
	edit := detail + "edit/"

	t.Run("anonymous redirected to login", func(t *testing.T) {
		w := app.get(edit, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, loginURL+"?next="+url.QueryEscape(edit), w.Header().Get("Location"))
	})

	t.Run("not the author", func(t *testing.T) {
		w := app.get(edit, app.reader)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detail, w.Header().Get("Location"))

		w = app.postForm(edit, url.Values{"text": {"взлом"}}, app.reader)
		assert.Equal(t, http.StatusFound, w.Code)
		got, err := app.postService.GetPost(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Тестовый пост", got.Text)
	})

	t.Run("prefilled form", func(t *testing.T) {
		w := app.get(edit, app.author)
		assert.Equal(t, http.StatusOK, w.Code)
		ctx := app.lastRender(t).Data.(*views.PostFormContext)
		assert.True(t, ctx.IsEdit)
		assert.Equal(t, post.ID, ctx.PostID)
		assert.Equal(t, "Тестовый пост", ctx.Form.Text)
		assert.Equal(t, app.group.ID, ctx.Form.Group)
	})

	t.Run("invalid", func(t *testing.T) {
		w := app.postForm(edit, url.Values{"text": {""}}, app.author)
		assert.Equal(t, http.StatusOK, w.Code)
		ctx := app.lastRender(t).Data.(*views.PostFormContext)
		assert.True(t, ctx.IsEdit)
		assert.Contains(t, ctx.Form.Errors, "text")
	})

	t.Run("saved", func(t *testing.T) {
		w := app.postForm(edit, url.Values{"text": {"Исправлено"}}, app.author)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detail, w.Header().Get("Location"))

		got, err := app.postService.GetPost(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Исправлено", got.Text)
		assert.Zero(t, got.GroupID)
	})
}

func TestPostControllerDelete(t *testing.T) {
	app := newTestApp(t)
	post := app.seed(t, 1)[0]
	target := "/posts/" + strconv.Itoa(post.ID) + "/delete/"

	w := app.postForm(target, nil, app.reader)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts/"+strconv.Itoa(post.ID)+"/", w.Header().Get("Location"))

	w = app.postForm(target, nil, app.author)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/slava/", w.Header().Get("Location"))

	_, err := app.postService.GetPost(post.ID)
	assert.Error(t, err)
}

func TestPostControllerJSON(t *testing.T) {
	app := newTestApp(t)
	posts := app.seed(t, numberOfPosts)
	newest := posts[len(posts)-1]

	t.Run("api index", func(t *testing.T) {
		w := app.get("/api/posts/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp pageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, numberOfPosts, resp.Count)
		assert.Equal(t, 2, resp.NumPages)
		require.NotNil(t, resp.Next)
		assert.Equal(t, 2, *resp.Next)
		assert.Nil(t, resp.Previous)
		require.Len(t, resp.Results, 10)
		assert.Equal(t, newest.ID, resp.Results[0].ID)
		assert.Equal(t, "slava", resp.Results[0].Author)
		assert.Equal(t, "test_slug", resp.Results[0].Group)
	})

	t.Run("accept header", func(t *testing.T) {
		w := app.do(jsonRequest("/?page=2"), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp pageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Results, 3)
	})

	t.Run("group and profile", func(t *testing.T) {
		var resp pageResponse
		w := app.get("/api/group/test_slug/", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Group)
		assert.Equal(t, app.group.Title, resp.Group.Title)

		resp = pageResponse{}
		w = app.get("/api/profile/slava/", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Author)
		assert.Equal(t, "slava", resp.Author.Username)
	})

	t.Run("detail", func(t *testing.T) {
		_, err := app.commentService.AddComment(app.reader, newest.ID, "Коммент")
		require.NoError(t, err)

		w := app.get("/api/posts/"+strconv.Itoa(newest.ID)+"/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp postResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, newest.Text, resp.Text)
		require.Len(t, resp.Comments, 1)
		assert.Equal(t, "reader", resp.Comments[0].Author)
	})
}
