// Package discord is the client for the Discord identity provider.
//
// It covers the three calls the application makes against Discord's API:
// the authorization-code exchange, the "who am I" profile fetch for the
// logged-in user, and a privileged bot-token lookup of an arbitrary user
// (used when an admin adds a person by Discord ID). It also owns the pure
// avatar-URL derivation rules.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/chillgc/tierlist/internal/apperror"
)

// Default Discord endpoints. Overridable in Config so tests can point the
// client at an httptest server.
const (
	DefaultAPIBaseURL = "https://discord.com/api/v10"
	DefaultAuthURL    = "https://discord.com/api/oauth2/authorize"
	DefaultTokenURL   = "https://discord.com/api/oauth2/token"
)

// requestTimeout bounds every call to Discord. 10s is deliberately
// conservative; a hung identity provider must surface as an error, never
// stall a login indefinitely.
const requestTimeout = 10 * time.Second

// defaultTokenTTL is applied when the token response omits expires_in.
// Discord access tokens last seven days.
const defaultTokenTTL = 604800 * time.Second

// Config carries the OAuth application credentials and endpoints.
type Config struct {
	ClientID        string
	ClientSecret    string
	BotToken        string // service credential for FetchProfileByID
	RedirectURL     string // must exactly match the registered callback
	RequiredGuildID string // empty = no server restriction
	APIBaseURL      string
	AuthURL         string
	TokenURL        string
}

// Client wraps golang.org/x/oauth2 for the Discord Authorization Code flow
// plus the small slice of the REST API this application uses.
type Client struct {
	oauth    *oauth2.Config
	api      string
	botToken string
	guildID  string
	http     *http.Client
}

func New(cfg Config) *Client {
	api := cfg.APIBaseURL
	if api == "" {
		api = DefaultAPIBaseURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	// "identify" is all a normal login needs. The guilds scope is only
	// requested when a server restriction is configured.
	scopes := []string{"identify"}
	if cfg.RequiredGuildID != "" {
		scopes = append(scopes, "guilds")
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		api:      api,
		botToken: cfg.BotToken,
		guildID:  cfg.RequiredGuildID,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// RequiredGuildID returns the configured server restriction, or "" when
// any Discord account may log in.
func (c *Client) RequiredGuildID() string {
	return c.guildID
}

// Tokens is the result of a successful code exchange.
type Tokens struct {
	AccessToken  string
	RefreshToken string // may be empty; Discord does not always issue one
	ExpiresAt    time.Time
}

// Profile is the portion of a Discord user object we care about.
//
// Discord API docs: https://discord.com/developers/docs/resources/user
type Profile struct {
	ID         string  `json:"id"`          // snowflake, kept as a string
	Username   string  `json:"username"`    // unique handle
	GlobalName string  `json:"global_name"` // display name, may be empty
	Avatar     *string `json:"avatar"`      // avatar hash, nil when unset
}

// DisplayName prefers the global display name and falls back to the handle.
func (p *Profile) DisplayName() string {
	if p.GlobalName != "" {
		return p.GlobalName
	}
	return p.Username
}

// Guild is one entry of the /users/@me/guilds response.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthCodeURL returns the Discord authorization URL carrying the given
// CSRF state token.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for access tokens.
//
// Only an HTTP 200 from the token endpoint succeeds; any other status or
// transport failure comes back as apperror.ErrAuthExchange. The exchange
// is never retried — recovery is the user restarting the login flow.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Tokens, error) {
	// Route the exchange through our timeout-bounded client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.AuthExchange(err)
	}

	expires := tok.Expiry
	if expires.IsZero() {
		expires = time.Now().Add(defaultTokenTTL)
	}

	return &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expires,
	}, nil
}

// FetchProfile loads the profile of the user the access token belongs to.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	return c.fetchUser(ctx, c.api+"/users/@me", "Bearer "+accessToken)
}

// FetchProfileByID loads an arbitrary user's profile using the bot token.
// This is the privileged lookup behind "add person by Discord ID".
func (c *Client) FetchProfileByID(ctx context.Context, discordID string) (*Profile, error) {
	return c.fetchUser(ctx, c.api+"/users/"+discordID, "Bot "+c.botToken)
}

func (c *Client) fetchUser(ctx context.Context, url, authorization string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperror.ProfileFetch(err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.ProfileFetch(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.ProfileFetch(fmt.Errorf("discord returned status %d", resp.StatusCode))
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, apperror.ProfileFetch(fmt.Errorf("decoding user response: %w", err))
	}
	if p.ID == "" {
		return nil, apperror.ProfileFetch(fmt.Errorf("discord returned a user without an id"))
	}

	return &p, nil
}

// FetchGuilds lists the servers the token's user belongs to. Used for the
// optional required-guild check after login; needs the "guilds" scope.
func (c *Client) FetchGuilds(ctx context.Context, accessToken string) ([]Guild, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api+"/users/@me/guilds", nil)
	if err != nil {
		return nil, apperror.ProfileFetch(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.ProfileFetch(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.ProfileFetch(fmt.Errorf("discord returned status %d for guilds", resp.StatusCode))
	}

	var guilds []Guild
	if err := json.NewDecoder(resp.Body).Decode(&guilds); err != nil {
		return nil, apperror.ProfileFetch(fmt.Errorf("decoding guilds response: %w", err))
	}
	return guilds, nil
}
