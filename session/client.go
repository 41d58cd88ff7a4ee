package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/retailcloud/storefront-client/internal/httpapi"
)

// Tokens is the credential set returned by a successful login.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// RegistrationOutcome reports whether a new account is immediately
// usable or still needs the emailed confirmation code.
type RegistrationOutcome struct {
	UserConfirmed bool   `json:"userConfirmed"`
	UserSub       string `json:"userSub"`
}

// AuthAPI is the remote auth collaborator.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*Tokens, error)
	Register(ctx context.Context, email, password string) (*RegistrationOutcome, error)
	Confirm(ctx context.Context, email, code string) error
	Logout(ctx context.Context) error
}

var _ AuthAPI = (*Client)(nil)

// Client talks to the auth endpoints of the storefront backend.
type Client struct {
	api *httpapi.Client
}

func NewClient(api *httpapi.Client) *Client {
	return &Client{api: api}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Tokens  Tokens `json:"tokens"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	var resp loginResponse
	if err := c.api.Post(ctx, "/auth/login", nil, credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Tokens.IDToken == "" {
		return nil, errors.New("[Client.Login] response carried no tokens")
	}
	return &resp.Tokens, nil
}

func (c *Client) Register(ctx context.Context, email, password string) (*RegistrationOutcome, error) {
	var outcome RegistrationOutcome
	if err := c.api.Post(ctx, "/auth/register", nil, credentialsRequest{Email: email, Password: password}, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (c *Client) Confirm(ctx context.Context, email, code string) error {
	return c.api.Post(ctx, "/auth/confirm", nil, confirmRequest{Email: email, Code: code}, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.api.Post(ctx, "/auth/logout", nil, struct{}{}, nil)
}
