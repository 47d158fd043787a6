package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"yatube/app/middleware"
	"yatube/app/repositories"
	"yatube/app/services"
	"yatube/app/views"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

// Wrap decorates a handler, for example with a login requirement.
type Wrap func(http.HandlerFunc) http.HandlerFunc

func (wr Wrap) apply(h http.HandlerFunc) http.HandlerFunc {
	if wr == nil {
		return h
	}
	return wr(h)
}

// RouteOptions carries the decorators controllers apply while registering
// their routes. Nil fields leave handlers undecorated.
type RouteOptions struct {
	RequireLogin Wrap
	CacheIndex   Wrap
}

// responder holds what every controller needs to answer a request.
type responder struct {
	renderer views.Renderer
	router   *mux.Router
	logger   *slog.Logger
}

func newResponder(renderer views.Renderer, logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{renderer: renderer, logger: logger}
}

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// wantsJSON reports whether the client asked for the JSON representation.
func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || middleware.IsAPIRequest(r)
}

func base(r *http.Request) views.Base {
	return views.Base{CurrentUser: middleware.CurrentUser(r.Context())}
}

func (rs *responder) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := rs.renderer.Render(w, status, name, data); err != nil {
		rs.serverError(w, r, err)
	}
}

// NotFound answers 404 with the not found page, or a JSON error for API
// clients.
func (rs *responder) NotFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		rs.sendError(w, r, "Not found", http.StatusNotFound)
		return
	}
	rs.render(w, r, http.StatusNotFound, views.TemplateNotFound, &views.NotFoundContext{
		Base: base(r),
		Path: r.URL.Path,
	})
}

func (rs *responder) serverError(w http.ResponseWriter, r *http.Request, err error) {
	rs.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	rs.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
}

// fail maps service errors onto responses.
func (rs *responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		rs.NotFound(w, r)
	case errors.Is(err, services.ErrForbidden):
		rs.sendError(w, r, "Forbidden", http.StatusForbidden)
	default:
		rs.serverError(w, r, err)
	}
}

// urlFor reverses a named route.
func (rs *responder) urlFor(name string, pairs ...string) (string, error) {
	if rs.router == nil {
		return "", errors.New("routes not registered")
	}
	route := rs.router.Get(name)
	if route == nil {
		return "", fmt.Errorf("no route named %q", name)
	}
	u, err := route.URL(pairs...)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (rs *responder) redirect(w http.ResponseWriter, r *http.Request, name string, pairs ...string) {
	target, err := rs.urlFor(name, pairs...)
	if err != nil {
		rs.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (rs *responder) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("failed to encode response", "error", err)
	}
}

func (rs *responder) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		rs.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

// postID parses the post_id route variable. The route pattern only
// admits digits, so a failure means the number overflowed.
func postID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		return 0, fmt.Errorf("post id: %w", repositories.ErrNotFound)
	}
	return id, nil
}
