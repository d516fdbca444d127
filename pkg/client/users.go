package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
)

// UserPage est une page de l'annuaire ; Next vaut "" à la fin.
type UserPage struct {
	Users []api.User
	Next  string
}

// Users liste les autres utilisateurs du node, le viewer exclu.
func (c *Client) Users(ctx context.Context, sess *Session, cursor string, limit int) (*UserPage, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	page, err := read[api.Page[api.User]](ctx, c, request{
		op: "list users", method: http.MethodGet, path: "/users/", query: q, sess: sess, required: true,
	})
	if err != nil {
		return nil, err
	}
	for _, u := range page.Results {
		if u.Username == "" {
			return nil, ErrInvalidPayload
		}
	}
	return &UserPage{Users: page.Results, Next: page.Next}, nil
}
