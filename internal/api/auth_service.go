package api

import (
	"context"
	"net/http"

	"github.com/Mohahamed99-by/Texturnhub/internal/pkg/validate"
	"github.com/Mohahamed99-by/Texturnhub/internal/session"
)

// AuthService handles login, registration and the account profile.
type AuthService struct {
	client *Client
}

// NewAuthService creates an auth service on top of the shared client.
func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

// LoginRequest is the credential pair for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginResponse mirrors the backend's login payload.
type loginResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterRequest is the signup payload for POST /register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Location string `json:"location" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=producer recycler"`
}

// Login exchanges credentials for a bearer token and persists the resulting
// identity in the credential store.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*session.Credentials, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var resp loginResponse
	if err := s.client.do(ctx, http.MethodPost, "/login", nil, req, &resp, false); err != nil {
		return nil, err
	}
	creds := &session.Credentials{
		Token:        resp.Token,
		CompanyID:    resp.ID,
		CompanyName:  resp.Name,
		CompanyEmail: resp.Email,
	}
	if err := s.client.creds.Save(creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// Register creates a new company account. The backend does not log the
// account in; callers follow up with Login.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodPost, "/register", nil, req, nil, false)
}

// Logout discards the stored credential. Purely local: the backend has no
// token revocation endpoint.
func (s *AuthService) Logout() error {
	return s.client.creds.Purge()
}

// Profile fetches the authenticated company's account record.
func (s *AuthService) Profile(ctx context.Context) (*Company, error) {
	var company Company
	if err := s.client.get(ctx, "/user", nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// UpdateProfile saves changes to the account record.
func (s *AuthService) UpdateProfile(ctx context.Context, company *Company) error {
	return s.client.do(ctx, http.MethodPut, "/user", nil, company, nil, true)
}
