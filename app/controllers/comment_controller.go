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

// CommentController handles HTTP requests for comments
type CommentController struct {
	responder
	commentService *services.CommentService
	decoder        *schema.Decoder
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, renderer views.Renderer, logger *slog.Logger) *CommentController {
	return &CommentController{
		responder:      newResponder(renderer, logger),
		commentService: commentService,
		decoder:        newFormDecoder(),
	}
}

// RegisterRoutes adds the comment routes to router.
func (cc *CommentController) RegisterRoutes(router *mux.Router, opts RouteOptions) {
	cc.router = router
	login := opts.RequireLogin.apply

	router.HandleFunc("/posts/{post_id:[0-9]+}/comment/", login(cc.AddComment)).Methods(http.MethodPost).Name("posts:add_comment")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/posts/{post_id:[0-9]+}/comments/", cc.Index).Methods(http.MethodGet).Name("api:comments")
}

// AddComment publishes a reply under a post and returns to the post.
// An empty reply is dropped.
func (cc *CommentController) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	var form views.CommentForm
	if err := r.ParseForm(); err != nil {
		cc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := cc.decoder.Decode(&form, r.PostForm); err != nil {
		cc.sendError(w, r, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	_, err = cc.commentService.AddComment(middleware.CurrentUser(r.Context()), id, form.Text)
	var verr *services.ValidationError
	if err != nil && !errors.As(err, &verr) {
		cc.fail(w, r, err)
		return
	}
	if verr != nil {
		cc.logger.Debug("comment rejected", "post_id", id, "error", verr)
	}
	cc.redirect(w, r, "posts:post_detail", "post_id", strconv.Itoa(id))
}

// Index lists the comments of a post as JSON
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	comments, err := cc.commentService.ListPostComments(id)
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	resp := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, newCommentResponse(c))
	}
	cc.sendJSON(w, http.StatusOK, resp)
}
