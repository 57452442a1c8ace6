package api

import (
	"context"
	"io"
	"strconv"

	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/validate"
)

// AuthResponse is the {token, user} pair returned by register and login.
type AuthResponse struct {
	Token string         `json:"token"`
	User  model.Identity `json:"user"`
}

// RegisterRequest creates a new teacher account.
type RegisterRequest struct {
	Email    string  `json:"email"     validate:"required,email"`
	FullName string  `json:"full_name" validate:"required"`
	Password string  `json:"password"  validate:"required,min=6"`
	Age      *int    `json:"age,omitempty"`
	Subject  *string `json:"subject,omitempty"`
}

// Register creates an account and returns the freshly issued token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token. Password validity is the backend's
// call; the client only insists both fields are present.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}{email, password}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Probe resolves a candidate token into an identity without disturbing the
// client's configured token source. Used while restoring a persisted session.
func (c *Client) Probe(ctx context.Context, token string) (*model.Identity, error) {
	return c.WithToken(token).Me(ctx)
}

// Me resolves the bearer token into the current identity (GET /auth/me).
func (c *Client) Me(ctx context.Context) (*model.Identity, error) {
	var out model.Identity
	if err := c.get(ctx, "/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword rotates the password for the authenticated account.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}{current, next}
	return c.postJSON(ctx, "/auth/change-password", body, nil)
}

// ForgotPassword asks the backend to email a reset link. The backend answers
// identically whether or not the address exists.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{email}
	return c.postJSON(ctx, "/auth/forgot-password", body, nil)
}

// ResetPassword completes the emailed reset flow.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}{token, newPassword}
	return c.postJSON(ctx, "/auth/reset-password", body, nil)
}

// GoogleLoginURL returns the Google authorization URL the user should open in
// a browser to start the OAuth flow. The code exchange itself happens on the
// backend.
func (c *Client) GoogleLoginURL(ctx context.Context) (string, error) {
	var out struct {
		AuthURL string `json:"auth_url"`
	}
	if err := c.get(ctx, "/auth/google/login", &out); err != nil {
		return "", err
	}
	return out.AuthURL, nil
}

// UpdateProfile edits the teacher profile. The backend takes these as query
// parameters; empty fields are left untouched. Returns the updated identity.
func (c *Client) UpdateProfile(ctx context.Context, fullName string, age int, subject string) (*model.Identity, error) {
	ageStr := ""
	if age > 0 {
		ageStr = strconv.Itoa(age)
	}
	q := query("full_name", fullName, "age", ageStr, "subject", subject)
	var out model.Identity
	if err := c.putJSON(ctx, "/teacher/profile"+q, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBio edits the social bio (PATCH /users/me). Returns the updated
// identity.
func (c *Client) UpdateBio(ctx context.Context, bio string) (*model.Identity, error) {
	var out model.Identity
	if err := c.patch(ctx, "/users/me"+query("bio", bio), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadAvatar uploads a profile picture and returns the avatar path assigned
// by the backend.
func (c *Client) UploadAvatar(ctx context.Context, filename string, content io.Reader) (string, error) {
	var out struct {
		Avatar string `json:"avatar"`
	}
	if err := c.upload(ctx, "/teacher/avatar", "file", filename, content, &out); err != nil {
		return "", err
	}
	return out.Avatar, nil
}
