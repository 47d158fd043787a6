package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"yatube/app/middleware"
	"yatube/app/services"
	"yatube/app/views"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// PostController handles HTTP requests for blog posts
type PostController struct {
	responder
	postService  *services.PostService
	groupService *services.GroupService
	decoder      *schema.Decoder
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, groupService *services.GroupService, renderer views.Renderer, logger *slog.Logger) *PostController {
	return &PostController{
		responder:    newResponder(renderer, logger),
		postService:  postService,
		groupService: groupService,
		decoder:      newFormDecoder(),
	}
}

// RegisterRoutes adds the named post routes and their JSON twins to router.
func (pc *PostController) RegisterRoutes(router *mux.Router, opts RouteOptions) {
	pc.router = router
	login := opts.RequireLogin.apply

	router.HandleFunc("/", opts.CacheIndex.apply(pc.Index)).Methods(http.MethodGet).Name("posts:index")
	router.HandleFunc("/group/{slug}/", pc.GroupPosts).Methods(http.MethodGet).Name("posts:group_list")
	router.HandleFunc("/profile/{username}/", pc.Profile).Methods(http.MethodGet).Name("posts:profile")
	router.HandleFunc("/posts/{post_id:[0-9]+}/", pc.Detail).Methods(http.MethodGet).Name("posts:post_detail")
	router.HandleFunc("/posts/{post_id:[0-9]+}/edit/", login(pc.Edit)).Methods(http.MethodGet, http.MethodPost).Name("posts:post_edit")
	router.HandleFunc("/posts/{post_id:[0-9]+}/delete/", login(pc.Delete)).Methods(http.MethodPost).Name("posts:post_delete")
	router.HandleFunc("/create/", login(pc.Create)).Methods(http.MethodGet, http.MethodPost).Name("posts:post_create")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/posts/", pc.Index).Methods(http.MethodGet).Name("api:posts")
	api.HandleFunc("/posts/{post_id:[0-9]+}/", pc.Detail).Methods(http.MethodGet).Name("api:post_detail")
	api.HandleFunc("/group/{slug}/", pc.GroupPosts).Methods(http.MethodGet).Name("api:group_list")
	api.HandleFunc("/profile/{username}/", pc.Profile).Methods(http.MethodGet).Name("api:profile")
}

// Index handles the feed of all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pc.postService.IndexPage(r.URL.Query().Get("page"))
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, newPageResponse(page))
		return
	}
	pc.render(w, r, http.StatusOK, views.TemplateIndex, &views.IndexContext{
		Base: base(r),
		Page: page,
	})
}

// GroupPosts handles the feed of one group
func (pc *PostController) GroupPosts(w http.ResponseWriter, r *http.Request) {
	group, page, err := pc.postService.GroupPage(mux.Vars(r)["slug"], r.URL.Query().Get("page"))
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if wantsJSON(r) {
		resp := newPageResponse(page)
		resp.Group = group
		pc.sendJSON(w, http.StatusOK, resp)
		return
	}
	pc.render(w, r, http.StatusOK, views.TemplateGroupList, &views.GroupContext{
		Base:  base(r),
		Group: group,
		Page:  page,
	})
}

// Profile handles the feed of one author
func (pc *PostController) Profile(w http.ResponseWriter, r *http.Request) {
	author, page, err := pc.postService.ProfilePage(mux.Vars(r)["username"], r.URL.Query().Get("page"))
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if wantsJSON(r) {
		resp := newPageResponse(page)
		resp.Author = author
		pc.sendJSON(w, http.StatusOK, resp)
		return
	}
	pc.render(w, r, http.StatusOK, views.TemplateProfile, &views.ProfileContext{
		Base:      base(r),
		Author:    author,
		PostCount: page.Count(),
		Page:      page,
	})
}

// Detail handles displaying a single post with its comments
func (pc *PostController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, newPostResponse(post))
		return
	}
	count, err := pc.postService.CountByAuthor(post.AuthorID)
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, views.TemplatePostDetail, &views.PostDetailContext{
		Base:            base(r),
		Post:            post,
		AuthorPostCount: count,
		Comments:        post.Comments,
	})
}

// Create shows the new post form and publishes submitted posts
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if r.Method != http.MethodPost {
		pc.renderForm(w, r, &views.PostFormContext{Base: base(r)})
		return
	}

	form, ok := pc.decodeForm(r)
	if !ok {
		pc.renderForm(w, r, &views.PostFormContext{Base: base(r), Form: form})
		return
	}
	_, err := pc.postService.CreatePost(user, services.PostInput{Text: form.Text, GroupID: form.Group})
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		form.Errors = verr.Fields
		pc.renderForm(w, r, &views.PostFormContext{Base: base(r), Form: form})
	case err != nil:
		pc.fail(w, r, err)
	default:
		pc.redirect(w, r, "posts:profile", "username", user.Username)
	}
}

// Edit shows the prefilled form and saves changes. Anyone but the author
// is sent back to the post.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, err := postID(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	detail := strconv.Itoa(post.ID)
	if user == nil || user.ID != post.AuthorID {
		pc.redirect(w, r, "posts:post_detail", "post_id", detail)
		return
	}

	formContext := func(form views.PostForm) *views.PostFormContext {
		return &views.PostFormContext{Base: base(r), Form: form, IsEdit: true, PostID: post.ID}
	}
	if r.Method != http.MethodPost {
		pc.renderForm(w, r, formContext(views.PostFormFrom(post)))
		return
	}

	form, ok := pc.decodeForm(r)
	if !ok {
		pc.renderForm(w, r, formContext(form))
		return
	}
	_, err = pc.postService.UpdatePost(user, id, services.PostInput{Text: form.Text, GroupID: form.Group})
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		form.Errors = verr.Fields
		pc.renderForm(w, r, formContext(form))
	case errors.Is(err, services.ErrForbidden):
		pc.redirect(w, r, "posts:post_detail", "post_id", detail)
	case err != nil:
		pc.fail(w, r, err)
	default:
		pc.redirect(w, r, "posts:post_detail", "post_id", detail)
	}
}

// Delete removes a post of the current user
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, err := postID(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	err = pc.postService.DeletePost(user, id)
	switch {
	case errors.Is(err, services.ErrForbidden):
		pc.redirect(w, r, "posts:post_detail", "post_id", strconv.Itoa(id))
	case err != nil:
		pc.fail(w, r, err)
	default:
		pc.redirect(w, r, "posts:profile", "username", user.Username)
	}
}

// decodeForm reads the submitted post form. Values that cannot be decoded
// come back as field errors.
func (pc *PostController) decodeForm(r *http.Request) (views.PostForm, bool) {
	var form views.PostForm
	if err := r.ParseForm(); err != nil {
		form.Errors = map[string]string{"text": "Could not read the submitted form."}
		return form, false
	}
	if err := pc.decoder.Decode(&form, r.PostForm); err != nil {
		form.Text = r.PostForm.Get("text")
		form.Errors = map[string]string{}
		var merr schema.MultiError
		if errors.As(err, &merr) {
			for field := range merr {
				form.Errors[field] = invalidChoice
			}
		} else {
			form.Errors["group"] = invalidChoice
		}
		return form, false
	}
	return form, true
}

func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, data *views.PostFormContext) {
	groups, err := pc.groupService.ListGroups()
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	data.Groups = groups
	pc.render(w, r, http.StatusOK, views.TemplatePostForm, data)
}
