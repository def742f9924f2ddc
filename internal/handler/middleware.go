package handler

import (
	"context"
	"net/http"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/model"
	"github.com/chillgc/tierlist/internal/service"
	"github.com/chillgc/tierlist/internal/session"
)

// contextKey is unexported so only this package can place or read the
// authenticated user in a request context.
type contextKey string

const userKey contextKey = "user"

// RequireUser guards API routes: the request's session must carry a valid
// user, which is loaded and stored in the context for handlers.
func RequireUser(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				writeError(w, apperror.Unauthenticated("login required"))
				return
			}

			user, err := auth.RequireUser(r.Context(), sess)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards admin routes. Must run after RequireUser.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, apperror.Unauthenticated("login required"))
				return
			}
			if !user.IsAdmin {
				writeError(w, apperror.Forbidden("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext retrieves the authenticated user placed by RequireUser.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}
