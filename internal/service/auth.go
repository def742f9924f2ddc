// Package service holds the business logic, between the HTTP handlers and
// the repositories:
//
//	handlers (HTTP) → services (rules) → repositories / discord client
//
// Services never touch HTTP types and never build SQL; handlers never
// touch storage or the Discord API directly.
package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/discord"
	"github.com/chillgc/tierlist/internal/model"
	"github.com/chillgc/tierlist/internal/repository"
	"github.com/chillgc/tierlist/internal/session"
)

// stateBytes is the entropy behind each login state token; the token
// itself is the hex encoding (32 characters).
const stateBytes = 16

// IdentityProvider is the slice of the Discord client the auth flow needs.
// Tests substitute a fake.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*discord.Tokens, error)
	FetchProfile(ctx context.Context, accessToken string) (*discord.Profile, error)
	FetchGuilds(ctx context.Context, accessToken string) ([]discord.Guild, error)
}

// AuthService orchestrates the OAuth login flow and the privilege checks
// built on top of it.
type AuthService struct {
	provider        IdentityProvider
	users           repository.UserRepository
	sessions        session.Store
	requiredGuildID string
	adminIDs        map[string]struct{}
	logger          *slog.Logger
}

// NewAuthService wires the auth flow. requiredGuildID of "" disables the
// server-membership restriction; adminIDs lists Discord IDs that are
// granted the admin flag on login.
func NewAuthService(
	provider IdentityProvider,
	users repository.UserRepository,
	sessions session.Store,
	requiredGuildID string,
	adminIDs []string,
	logger *slog.Logger,
) *AuthService {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		if id != "" {
			admins[id] = struct{}{}
		}
	}

	return &AuthService{
		provider:        provider,
		users:           users,
		sessions:        sessions,
		requiredGuildID: requiredGuildID,
		adminIDs:        admins,
		logger:          logger,
	}
}

// BeginLogin issues a fresh CSRF state token for the session — replacing
// any earlier one — and returns the Discord authorization URL carrying it.
func (s *AuthService) BeginLogin(ctx context.Context, sess *session.Session) (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("service/auth: generating state: %w", err)
	}
	state := hex.EncodeToString(buf)

	if err := s.sessions.PutState(ctx, sess.ID, state); err != nil {
		return "", fmt.Errorf("service/auth: storing state: %w", err)
	}

	return s.provider.AuthCodeURL(state), nil
}

// CompleteLogin finishes the OAuth flow for the session.
//
// Order matters:
//  1. Consume the stored state token. It is destroyed here no matter what
//     happens next — a failed attempt must not leave it replayable.
//  2. Constant-time compare against the state Discord echoed back.
//  3. Exchange the code, fetch the profile, optionally check guild
//     membership. Any failure aborts with the session still anonymous.
//  4. Upsert the user and attach them to the session.
func (s *AuthService) CompleteLogin(ctx context.Context, sess *session.Session, code, state string) (*model.User, error) {
	stored, err := s.sessions.ConsumeState(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.CSRFState("no login in progress for this session")
		}
		return nil, fmt.Errorf("service/auth: consuming state: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(state)) != 1 {
		s.logger.Warn("oauth state mismatch", slog.String("session", sess.ID))
		return nil, apperror.CSRFState("state token mismatch")
	}

	tokens, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.FetchProfile(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}

	if s.requiredGuildID != "" {
		if err := s.checkGuildMembership(ctx, tokens.AccessToken); err != nil {
			return nil, err
		}
	}

	expiresAt := tokens.ExpiresAt
	user := &model.User{
		ID:             profile.ID,
		Username:       profile.DisplayName(),
		Avatar:         profile.Avatar,
		IsAdmin:        s.isBootstrapAdmin(profile.ID),
		AccessToken:    tokens.AccessToken,
		RefreshToken:   tokens.RefreshToken,
		TokenExpiresAt: &expiresAt,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user %s: %w", profile.ID, err)
	}

	if err := s.sessions.SetUser(ctx, sess.ID, user.ID); err != nil {
		return nil, fmt.Errorf("service/auth: attaching user to session: %w", err)
	}
	sess.UserID = user.ID

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	// Re-read: the upsert may have kept an admin flag the bootstrap list
	// doesn't know about.
	return s.users.GetByID(ctx, user.ID)
}

func (s *AuthService) checkGuildMembership(ctx context.Context, accessToken string) error {
	guilds, err := s.provider.FetchGuilds(ctx, accessToken)
	if err != nil {
		return err
	}
	for _, g := range guilds {
		if g.ID == s.requiredGuildID {
			return nil
		}
	}
	return apperror.Forbidden("you must be a member of the group's Discord server to log in")
}

func (s *AuthService) isBootstrapAdmin(discordID string) bool {
	_, ok := s.adminIDs[discordID]
	return ok
}

// RequireUser returns the user attached to the session, or
// apperror.ErrUnauthenticated for anonymous (or stale) sessions.
func (s *AuthService) RequireUser(ctx context.Context, sess *session.Session) (*model.User, error) {
	if sess == nil || !sess.Authenticated() {
		return nil, apperror.Unauthenticated("login required")
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Session points at a user that no longer exists; treat it
			// the same as not being logged in.
			return nil, apperror.Unauthenticated("login required")
		}
		return nil, fmt.Errorf("service/auth: loading session user: %w", err)
	}

	return user, nil
}

// RequireAdmin is RequireUser plus the admin privilege check.
func (s *AuthService) RequireAdmin(ctx context.Context, sess *session.Session) (*model.User, error) {
	user, err := s.RequireUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, apperror.Forbidden("admin access required")
	}
	return user, nil
}
