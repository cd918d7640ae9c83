package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

type googleStrategy struct {
	base
	oauth       *oauth2.Config
	userInfoURL string
}

func newGoogleStrategy(b base, clientID, clientSecret, redirectURL string) *googleStrategy {
	return &googleStrategy{
		base: b,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (s *googleStrategy) Name() string { return "google" }

func (s *googleStrategy) RegisterRoutes(api gin.IRouter) {
	api.GET("/login", s.Login)
	api.GET("/callback", s.Callback)
	api.GET("/logout", s.Logout)
	api.POST("/logout", s.Logout)
}

func (s *googleStrategy) Login(c *gin.Context) {
	state, err := s.newState(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (s *googleStrategy) Callback(c *gin.Context) {
	if !s.checkState(c) {
		response.ResponseError(c, apperror.BadRequest("invalid oauth state"))
		return
	}
	code := c.Query("code")
	if code == "" {
		response.ResponseError(c, apperror.BadRequest("missing authorization code"))
		return
	}
	ctx := c.Request.Context()

	profile, err := s.fetchProfile(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Msg("google callback failed")
		response.ResponseError(c, apperror.New(http.StatusUnauthorized, "google sign-in failed", err))
		return
	}

	user, err := s.upsert(ctx, profile)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if _, err := s.establish(c, user, s.Name()); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.Redirect(http.StatusFound, s.landingURL())
}

func (s *googleStrategy) fetchProfile(ctx context.Context, code string) (*googleUser, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	resp, err := s.oauth.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned %s", resp.Status)
	}

	var profile googleUser
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if profile.Email == "" {
		return nil, errors.New("google account has no email")
	}
	return &profile, nil
}

// upsert links a Google profile to the user holding its email, or creates
// one.
func (s *googleStrategy) upsert(ctx context.Context, profile *googleUser) (*entity.User, error) {
	provider := entity.AuthProviderGoogle
	in := storage.UpsertUserInput{
		AuthProvider: &provider,
		IsVerified:   &profile.VerifiedEmail,
	}
	if profile.GivenName != "" {
		in.FirstName = &profile.GivenName
	}
	if profile.FamilyName != "" {
		in.LastName = &profile.FamilyName
	}
	if profile.Picture != "" {
		in.ProfileImageURL = &profile.Picture
	}

	existing, err := s.store.GetUserByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		in.ID = existing.ID
	case errors.Is(err, storage.ErrNotFound):
		username, err := deriveUsername(ctx, s.store, profile.Email)
		if err != nil {
			return nil, err
		}
		in.ID = entity.NewID()
		in.Email = &profile.Email
		in.Username = &username
	default:
		return nil, err
	}

	return s.store.UpsertUser(ctx, in)
}
