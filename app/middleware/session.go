package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"yatube/app/models"
	"yatube/app/repositories"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie carrying the signed session.
const SessionName = "yatube_session"

const userIDKey = "user_id"

type currentUserKey struct{}

// UserLookup resolves the user stored in a session.
type UserLookup interface {
	GetByID(id int) (*models.User, error)
}

// NewCookieStore returns a signed cookie session store.
func NewCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 14,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Sessions loads the session's user, if any, into the request context.
// A session pointing at a deleted user is treated as anonymous.
func Sessions(store sessions.Store, users UserLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				logger.Debug("discarding unreadable session", "error", err)
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}
			if id, ok := session.Values[userIDKey].(int); ok {
				user, err := users.GetByID(id)
				switch {
				case err == nil:
					r = r.WithContext(WithUser(r.Context(), user))
				case errors.Is(err, repositories.ErrNotFound):
				default:
					logger.Error("failed to load session user", "user_id", id, "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Login stores user in the session.
func Login(w http.ResponseWriter, r *http.Request, store sessions.Store, user *models.User) error {
	session, _ := store.Get(r, SessionName)
	session.Values[userIDKey] = user.ID
	return session.Save(r, w)
}

// Logout clears the session.
func Logout(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, _ := store.Get(r, SessionName)
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// WithUser returns a context carrying user as the current user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, currentUserKey{}, user)
}

// CurrentUser returns the logged in user, nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(currentUserKey{}).(*models.User)
	return user
}

// RequireLogin redirects anonymous requests to loginURL, passing the
// original location as "next".
func RequireLogin(loginURL string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if CurrentUser(r.Context()) == nil {
				target := loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next(w, r)
		}
	}
}
