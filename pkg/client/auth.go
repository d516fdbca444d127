package client

import (
	"context"
	"net/http"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
)

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register crée le compte et retourne une session prête à l'emploi.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*Session, *api.User, error) {
	var out api.TokenResponse
	_, err := c.do(ctx, request{
		op: "register", method: http.MethodPost, path: "/register/",
		body: api.RegisterRequest{
			Username: in.Username, Email: in.Email, Password: in.Password,
			FirstName: in.FirstName, LastName: in.LastName,
		},
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return sessionFrom(out, in.Username)
}

func (c *Client) Login(ctx context.Context, username, password string) (*Session, *api.User, error) {
	var out api.TokenResponse
	_, err := c.do(ctx, request{
		op: "login", method: http.MethodPost, path: "/login/",
		body: api.LoginRequest{Username: username, Password: password},
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return sessionFrom(out, username)
}

// Refresh échange le refresh token. Jamais appelé implicitement.
func (c *Client) Refresh(ctx context.Context, sess *Session) (*Session, error) {
	if sess == nil || sess.RefreshToken == "" {
		return nil, ErrAuthRequired
	}
	var out api.TokenResponse
	_, err := c.do(ctx, request{
		op: "refresh", method: http.MethodPost, path: "/token/refresh/",
		body: api.RefreshRequest{Refresh: sess.RefreshToken},
	}, &out)
	if err != nil {
		return nil, err
	}
	s, _, err := sessionFrom(out, sess.Username)
	return s, err
}

func sessionFrom(out api.TokenResponse, username string) (*Session, *api.User, error) {
	if out.Access == "" {
		return nil, nil, ErrInvalidPayload
	}
	if out.User != nil && out.User.Username != "" {
		username = out.User.Username
	}
	return &Session{Username: username, AccessToken: out.Access, RefreshToken: out.Refresh}, out.User, nil
}

// Profile : auth optionnelle.
func (c *Client) Profile(ctx context.Context, sess *Session, username string) (*api.User, error) {
	return read[*api.User](ctx, c, request{
		op: "profile", method: http.MethodGet, path: "/profile/" + escape(username) + "/", sess: sess,
	})
}

type ProfileUpdate struct {
	DisplayName  *string
	Email        *string
	ProfileImage *string
}

func (c *Client) UpdateProfile(ctx context.Context, sess *Session, in ProfileUpdate) (*api.User, error) {
	var out api.User
	_, err := c.do(ctx, request{
		op: "update profile", method: http.MethodPatch, path: "/profile/", sess: sess, required: true,
		body: api.UpdateProfileRequest{DisplayName: in.DisplayName, Email: in.Email, ProfileImage: in.ProfileImage},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
