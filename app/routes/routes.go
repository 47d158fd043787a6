package routes

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"yatube/app/cache"
	"yatube/app/controllers"
	"yatube/app/middleware"
	"yatube/app/repositories"
	"yatube/app/services"
	"yatube/app/views"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

// DefaultIndexTTL is how long a rendered index page is served from cache.
const DefaultIndexTTL = 20 * time.Second

// DefaultLoginURL is where anonymous writers are sent.
const DefaultLoginURL = "/auth/login/"

// Deps are the collaborators the router is built from.
type Deps struct {
	Store    *repositories.Store
	Sessions sessions.Store
	Logger   *slog.Logger

	// PageCache backs the index page cache. Nil disables caching.
	PageCache *cache.PageCache
	IndexTTL  time.Duration

	PerPage   int
	LoginURL  string
	StaticDir string

	// DecorateRenderer, when set, wraps the HTML renderer.
	DecorateRenderer func(views.Renderer) views.Renderer
}

// Server is the assembled application handler.
type Server struct {
	Router  *mux.Router
	handler http.Handler
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// New builds the router: global middleware, static files, the named web
// routes, the JSON API and the not found page.
func New(deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("routes: store is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("routes: session store is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loginURL := deps.LoginURL
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}
	ttl := deps.IndexTTL
	if ttl <= 0 {
		ttl = DefaultIndexTTL
	}

	router := mux.NewRouter().StrictSlash(true)

	html, err := views.NewHTMLRenderer(views.Funcs(router, loginURL))
	if err != nil {
		return nil, err
	}
	var renderer views.Renderer = html
	if deps.DecorateRenderer != nil {
		renderer = deps.DecorateRenderer(renderer)
	}

	postService := services.NewPostService(deps.Store.Posts, deps.Store.Users, deps.Store.Groups, deps.Store.Comments, deps.PerPage)
	commentService := services.NewCommentService(deps.Store.Comments, deps.Store.Posts, deps.Store.Users)
	groupService := services.NewGroupService(deps.Store.Groups)

	postController := controllers.NewPostController(postService, groupService, renderer, logger)
	commentController := controllers.NewCommentController(commentService, renderer, logger)

	opts := controllers.RouteOptions{RequireLogin: middleware.RequireLogin(loginURL)}
	if deps.PageCache != nil {
		opts.CacheIndex = middleware.CachePage(deps.PageCache, ttl)
	}

	// Serve static files
	if deps.StaticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}

	postController.RegisterRoutes(router, opts)
	commentController.RegisterRoutes(router, opts)
	router.NotFoundHandler = http.HandlerFunc(postController.NotFound)

	// Apply global middleware. They wrap the whole router so unmatched
	// requests are logged and see the session too.
	var handler http.Handler = router
	handler = middleware.ContentTypeJSON(handler)
	handler = middleware.Sessions(deps.Sessions, deps.Store.Users, logger)(handler)
	handler = middleware.Recoverer(logger)(handler)
	handler = middleware.Logger(logger)(handler)

	return &Server{Router: router, handler: handler}, nil
}
