package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/auth"
)

// CookieName is the browser cookie carrying the signed session ID.
const CookieName = "tierlist_session"

// cookieMaxAge matches the signed token's lifetime (30 days).
const cookieMaxAge = 30 * 24 * 60 * 60

// Manager binds requests to sessions via a signed HttpOnly cookie.
type Manager struct {
	store  Store
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewManager(store Store, tokens *auth.TokenService, logger *slog.Logger) *Manager {
	return &Manager{store: store, tokens: tokens, logger: logger}
}

// Ensure returns the session named by the request's cookie. A missing,
// invalid, or dangling cookie (one naming a session the store no longer
// has) yields a fresh anonymous session, with the cookie set on w.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		sid, err := m.tokens.Validate(cookie.Value)
		if err == nil {
			sess, err := m.store.Get(r.Context(), sid)
			if err == nil {
				return sess, nil
			}
			if !errors.Is(err, apperror.ErrNotFound) {
				return nil, fmt.Errorf("session: loading %s: %w", sid, err)
			}
			// Session expired or was destroyed server-side; fall through
			// and start a fresh one.
		}
	}

	return m.create(w, r)
}

func (m *Manager) create(w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess := &Session{ID: xid.New().String()}
	if err := m.store.Create(r.Context(), sess); err != nil {
		return nil, fmt.Errorf("session: creating: %w", err)
	}

	token, err := m.tokens.Generate(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sess, nil
}

// Clear destroys the session server-side and expires the cookie.
// Idempotent: clearing an already-cleared or unknown session succeeds.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request, sess *Session) error {
	if sess != nil {
		if err := m.store.Delete(r.Context(), sess.ID); err != nil {
			return fmt.Errorf("session: deleting %s: %w", sess.ID, err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

type contextKey string

const sessionKey contextKey = "session"

// Middleware attaches a session to every request's context. Handlers read
// it back with FromContext.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Ensure(w, r)
		if err != nil {
			m.logger.Error("session setup failed", slog.String("error", err.Error()))
			http.Error(w, `{"error":"internal_error","message":"a storage error occurred"}`, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext retrieves the request's session.
// Returns (nil, false) only for requests that bypassed Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*Session)
	return sess, ok && sess != nil
}
