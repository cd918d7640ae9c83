// Package auth resolves who is calling. Exactly one Strategy is chosen at
// startup; handlers only ever see the user id it resolves.
package auth

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"anoa.com/vidspace/internal/config"
	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Strategy interface {
	// Name is "oidc", "google" or "email".
	Name() string
	// RegisterRoutes mounts the login, callback and logout routes under api.
	RegisterRoutes(api gin.IRouter)
	Login(c *gin.Context)
	Callback(c *gin.Context)
	Logout(c *gin.Context)
	// ResolveIdentity returns the caller's user id from a bearer token or
	// the session cookie.
	ResolveIdentity(c *gin.Context) (string, bool)
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   int64        `json:"expiresAt"` // unix seconds
	User        *entity.User `json:"user"`
}

// NewStrategy picks OIDC when REPLIT_DOMAINS is set, then Google when its
// client credentials are set, then email.
func NewStrategy(cfg *config.Config, store storage.UserStore, log zerolog.Logger) (Strategy, error) {
	b := base{
		store:       store,
		tokens:      NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		log:         log.With().Str("component", "auth").Logger(),
		metrics:     metrics.Default(),
		frontendURL: cfg.FrontendURL,
	}

	switch {
	case cfg.ReplitDomains != "":
		if cfg.ReplID == "" {
			return nil, errors.New("REPL_ID is required when REPLIT_DOMAINS is set")
		}
		b.log = b.log.With().Str("strategy", "oidc").Logger()
		return newOIDCStrategy(b, cfg.IssuerURL, cfg.ReplID, splitDomains(cfg.ReplitDomains)), nil
	case cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "":
		b.log = b.log.With().Str("strategy", "google").Logger()
		return newGoogleStrategy(b, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL), nil
	default:
		b.log = b.log.With().Str("strategy", "email").Logger()
		return newEmailStrategy(b), nil
	}
}

func splitDomains(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// base holds what every strategy shares: identity resolution, session
// establishment and logout.
type base struct {
	store       storage.UserStore
	tokens      *TokenIssuer
	log         zerolog.Logger
	metrics     *metrics.Metrics
	frontendURL string
}

func (b *base) ResolveIdentity(c *gin.Context) (string, bool) {
	if raw := bearerToken(c); raw != "" {
		userID, err := b.tokens.Parse(raw)
		if err != nil {
			return "", false
		}
		return userID, true
	}

	if userID := sessionUserID(c); userID != "" {
		return userID, true
	}
	return "", false
}

const queryTokenKey = "auth_query_token"

// AllowQueryToken lets the routes it guards authenticate with ?token=, for
// websocket clients that cannot set headers. Mount it before RequireAuth.
func AllowQueryToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(queryTokenKey, true)
		c.Next()
	}
}

// bearerToken reads the Authorization header. ?token= is only honoured on
// routes behind AllowQueryToken.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c.GetBool(queryTokenKey) {
		return c.Query("token")
	}
	return ""
}

// establish binds user to the session and issues an access token.
func (b *base) establish(c *gin.Context, user *entity.User, provider string) (*AuthResponse, error) {
	if s := session(c); s != nil {
		s.Set(sessionUserKey, user.ID)
		s.Delete(sessionStateKey)
		if err := s.Save(); err != nil {
			return nil, err
		}
	}

	token, expiresAt, err := b.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	b.metrics.RecordLogin(provider)
	b.log.Info().Str("user_id", user.ID).Msg("user signed in")

	user.Password = nil
	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (b *base) clearSession(c *gin.Context) {
	s := session(c)
	if s == nil {
		return
	}
	s.Clear()
	s.Options(sessionsExpire())
	if err := s.Save(); err != nil {
		b.log.Warn().Err(err).Msg("failed to clear session")
	}
}

// Logout drops the session. Redirecting browser flows is up to the
// strategy.
func (b *base) Logout(c *gin.Context) {
	b.clearSession(c)
	if c.Request.Method == http.MethodGet {
		c.Redirect(http.StatusFound, b.landingURL())
		return
	}
	c.Status(http.StatusNoContent)
}

func (b *base) landingURL() string {
	if b.frontendURL == "" {
		return "/"
	}
	return b.frontendURL
}

// newState returns an unguessable OAuth state value and stores it in the
// session.
func (b *base) newState(c *gin.Context) (string, error) {
	state := uuid.NewString()
	s := session(c)
	if s == nil {
		return state, nil
	}
	s.Set(sessionStateKey, state)
	return state, s.Save()
}

func (b *base) checkState(c *gin.Context) bool {
	s := session(c)
	if s == nil {
		return false
	}
	want, _ := s.Get(sessionStateKey).(string)
	return want != "" && want == c.Query("state")
}

var usernameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// deriveUsername builds a free username from the local part of email.
func deriveUsername(ctx context.Context, store storage.UserStore, email string) (string, error) {
	local := strings.SplitN(email, "@", 2)[0]
	name := strings.Trim(usernameUnsafe.ReplaceAllString(strings.ToLower(local), "_"), "_")
	if name == "" {
		name = "user"
	}
	if len(name) > 40 {
		name = name[:40]
	}

	_, err := store.GetUserByUsername(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return name, nil
	}
	if err != nil {
		return "", err
	}
	return name + "_" + uuid.NewString()[:4], nil
}
