package handler

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/service"
	"github.com/chillgc/tierlist/internal/session"
)

// AuthHandler serves the three browser-facing auth routes.
//
//	GET /login    → begin the OAuth flow, redirect to Discord
//	GET /callback → complete it (CSRF check, exchange, session)
//	GET /logout   → destroy the session
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
	logger   *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, logger: logger}
}

// HandleLogin starts a login. An already-authenticated session goes
// straight home. With ?error=session_expired (set after a CSRF failure)
// the user sees a short notice page that auto-redirects into a fresh
// flow; otherwise the redirect is immediate.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if sess == nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	if sess.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	authURL, err := h.auth.BeginLogin(r.Context(), sess)
	if err != nil {
		h.logger.Error("begin login failed", slog.String("error", err.Error()))
		h.renderNotice(w, http.StatusInternalServerError, "Login unavailable",
			"Something went wrong starting the login. Please try again shortly.", "")
		return
	}

	if r.URL.Query().Get("error") == "session_expired" {
		h.renderNotice(w, http.StatusOK, "Session Expired",
			"Your session expired. Please try logging in again.", authURL)
		return
	}

	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow.
//
// A CSRF failure is not terminal for the user: they get bounced back to
// /login with the session-expired notice and a fresh state token. Every
// other failure ends the attempt with no session created.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if sess == nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	// Discord reports user denial (and other upstream errors) as an
	// error query parameter instead of a code.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("authorization denied by provider", slog.String("error", errParam))
		h.renderNotice(w, http.StatusBadRequest, "Login failed",
			"Discord authorization failed: "+errParam, "")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.renderNotice(w, http.StatusBadRequest, "Login failed",
			"No authorization code received from Discord.", "")
		return
	}

	user, err := h.auth.CompleteLogin(r.Context(), sess, code, r.URL.Query().Get("state"))
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrCSRFState):
			http.Redirect(w, r, "/login?error=session_expired", http.StatusSeeOther)
		case errors.Is(err, apperror.ErrForbidden):
			h.renderNotice(w, http.StatusForbidden, "Not allowed",
				"You must be a member of the group's Discord server to log in.", "")
		case errors.Is(err, apperror.ErrAuthExchange), errors.Is(err, apperror.ErrProfileFetch):
			h.logger.Error("identity provider failure", slog.String("error", err.Error()))
			h.renderNotice(w, http.StatusBadGateway, "Login failed",
				"Discord could not be reached. Please try again.", "")
		default:
			h.logger.Error("login failed", slog.String("error", err.Error()))
			h.renderNotice(w, http.StatusInternalServerError, "Login failed",
				"Failed to save your login. Please try again.", "")
		}
		return
	}

	h.logger.Info("login completed", slog.String("userID", user.ID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout destroys the session unconditionally. Idempotent: logging
// out twice (or with no session at all) still lands on the home page.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if err := h.sessions.Clear(w, r, sess); err != nil {
		h.logger.Error("logout failed", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/me (behind RequireUser)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("login required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// noticePage is the minimal standalone page used for login notices. The
// real UI is served elsewhere; these pages only cover the few moments a
// user is mid-flow with nothing else to render.
const noticePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%[1]s</title>
%[3]s
</head>
<body>
<h1>%[1]s</h1>
<p>%[2]s</p>
%[4]s
</body>
</html>`

func (h *AuthHandler) renderNotice(w http.ResponseWriter, status int, title, message, redirectURL string) {
	meta := ""
	link := ""
	if redirectURL != "" {
		escaped := html.EscapeString(redirectURL)
		meta = fmt.Sprintf(`<meta http-equiv="refresh" content="3;url=%s">`, escaped)
		link = fmt.Sprintf(`<p>Redirecting to Discord… or <a href="%s">click here</a>.</p>`, escaped)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, noticePage, html.EscapeString(title), html.EscapeString(message), meta, link)
}
