package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/desertthunder/parle/internal/models"
)

// AuthAPI wraps the /auth endpoints.
type AuthAPI struct {
	api *APIService
}

// NewAuthAPI creates an [AuthAPI] on top of api.
func NewAuthAPI(api *APIService) *AuthAPI {
	return &AuthAPI{api: api}
}

// Register creates an account. The password is sent as-is; the server hashes it.
func (s *AuthAPI) Register(ctx context.Context, in models.UserCreate) (*models.User, error) {
	var user models.User
	if err := s.api.DoJSON(ctx, http.MethodPost, "/auth/register", nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token.
//
// The body is form-encoded (username, password) as the OAuth2 password flow expects, not JSON.
func (s *AuthAPI) Login(ctx context.Context, username, password string) (*models.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token models.Token
	if err := s.api.PostForm(ctx, "/auth/login", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Me returns the profile of the token holder.
func (s *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.api.DoJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
