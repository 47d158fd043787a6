package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"yatube/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postFilterAll = repositories.PostFilter{}

func TestAPIRoutes(t *testing.T) {
	env := setupTestEnv(t)
	posts := env.seed(t, numberOfPosts)
	id := strconv.Itoa(posts[0].ID)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"GET posts", "/api/posts/", http.StatusOK},
		{"GET second page", "/api/posts/?page=2", http.StatusOK},
		{"GET single post", "/api/posts/" + id + "/", http.StatusOK},
		{"GET post comments", "/api/posts/" + id + "/comments/", http.StatusOK},
		{"GET group", "/api/group/test_slug/", http.StatusOK},
		{"GET profile", "/api/profile/slava/", http.StatusOK},
		{"Missing post", "/api/posts/999/", http.StatusNotFound},
		{"Invalid post ID", "/api/posts/invalid/", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.guestClient().get(tt.path)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.True(t, json.Valid(w.Body.Bytes()), w.Body.String())
		})
	}

	t.Run("page payload", func(t *testing.T) {
		w := env.guestClient().get("/api/posts/?page=2")
		var resp struct {
			Count   int `json:"count"`
			Page    int `json:"page"`
			Results []struct {
				ID int `json:"id"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, numberOfPosts, resp.Count)
		assert.Equal(t, 2, resp.Page)
		assert.Len(t, resp.Results, 3)
	})

	t.Run("accept header bypasses index cache", func(t *testing.T) {
		env.guestClient().get("/")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "application/json")
		w := env.guestClient().do(req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, json.Valid(w.Body.Bytes()))
	})
}
