package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/response"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type oidcClaims struct {
	Subject         string `json:"sub"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// oidcStrategy signs users in against an OpenID Connect issuer. The
// provider document is fetched on first use and cached; a failed fetch is
// retried on the next request.
type oidcStrategy struct {
	base
	issuer   string
	clientID string
	domains  []string

	mu       sync.Mutex
	provider *oidc.Provider
}

func newOIDCStrategy(b base, issuer, clientID string, domains []string) *oidcStrategy {
	return &oidcStrategy{
		base:     b,
		issuer:   issuer,
		clientID: clientID,
		domains:  domains,
	}
}

func (s *oidcStrategy) Name() string { return "oidc" }

func (s *oidcStrategy) RegisterRoutes(api gin.IRouter) {
	api.GET("/login", s.Login)
	api.GET("/callback", s.Callback)
	api.GET("/logout", s.Logout)
	api.POST("/logout", s.Logout)
}

func (s *oidcStrategy) discover(ctx context.Context) (*oidc.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil {
		return s.provider, nil
	}
	p, err := oidc.NewProvider(context.WithoutCancel(ctx), s.issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery failed: %w", err)
	}
	s.provider = p
	return p, nil
}

// domain picks the configured domain matching the request host, falling
// back to the first one.
func (s *oidcStrategy) domain(c *gin.Context) string {
	host := c.Request.Host
	for _, d := range s.domains {
		if d == host {
			return d
		}
	}
	return s.domains[0]
}

func (s *oidcStrategy) oauthConfig(p *oidc.Provider, domain string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    s.clientID,
		Endpoint:    p.Endpoint(),
		RedirectURL: "https://" + domain + "/api/callback",
		Scopes:      []string{oidc.ScopeOpenID, "email", "profile", oidc.ScopeOfflineAccess},
	}
}

func (s *oidcStrategy) Login(c *gin.Context) {
	p, err := s.discover(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	state, err := s.newState(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	target := s.oauthConfig(p, s.domain(c)).AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "login consent"))
	c.Redirect(http.StatusFound, target)
}

func (s *oidcStrategy) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	if !s.checkState(c) {
		response.ResponseError(c, apperror.BadRequest("invalid oauth state"))
		return
	}

	p, err := s.discover(ctx)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	token, err := s.oauthConfig(p, s.domain(c)).Exchange(ctx, c.Query("code"))
	if err != nil {
		s.log.Warn().Err(err).Msg("oidc code exchange failed")
		response.ResponseError(c, apperror.New(http.StatusUnauthorized, "sign-in failed", err))
		return
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		response.ResponseError(c, apperror.New(http.StatusUnauthorized, "sign-in failed: no id_token", apperror.ErrUnauthorized))
		return
	}
	idToken, err := p.Verifier(&oidc.Config{ClientID: s.clientID}).Verify(ctx, rawIDToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("id token rejected")
		response.ResponseError(c, apperror.New(http.StatusUnauthorized, "sign-in failed", err))
		return
	}

	var claims oidcClaims
	if err := idToken.Claims(&claims); err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := s.store.UpsertUser(ctx, claimsToUpsert(claims))
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			err = apperror.BadRequest("email already belongs to another account")
		}
		response.ResponseError(c, err)
		return
	}
	if _, err := s.establish(c, user, s.Name()); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.Redirect(http.StatusFound, s.landingURL())
}

// claimsToUpsert keys the user by subject so repeat logins merge.
func claimsToUpsert(claims oidcClaims) storage.UpsertUserInput {
	provider := entity.AuthProviderReplit
	verified := true
	in := storage.UpsertUserInput{
		ID:           claims.Subject,
		AuthProvider: &provider,
		IsVerified:   &verified,
	}
	if claims.Email != "" {
		in.Email = &claims.Email
	}
	if claims.FirstName != "" {
		in.FirstName = &claims.FirstName
	}
	if claims.LastName != "" {
		in.LastName = &claims.LastName
	}
	if claims.ProfileImageURL != "" {
		in.ProfileImageURL = &claims.ProfileImageURL
	}
	return in
}

// Logout ends the local session and, when the issuer advertises one,
// bounces through its end-session endpoint.
func (s *oidcStrategy) Logout(c *gin.Context) {
	s.clearSession(c)

	p, err := s.discover(c.Request.Context())
	if err != nil {
		s.log.Warn().Err(err).Msg("logout without end-session redirect")
		c.Redirect(http.StatusFound, s.landingURL())
		return
	}

	var meta struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := p.Claims(&meta); err != nil || meta.EndSessionEndpoint == "" {
		c.Redirect(http.StatusFound, s.landingURL())
		return
	}

	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("post_logout_redirect_uri", "https://"+s.domain(c))
	c.Redirect(http.StatusFound, meta.EndSessionEndpoint+"?"+q.Encode())
}
