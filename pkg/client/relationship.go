package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

// GetRelationship lit l'état viewer -> username. La session est optionnelle.
// La réponse est validée strictement : tout état hors des 7 littéraux est rejeté.
func (c *Client) GetRelationship(ctx context.Context, sess *Session, username string) (domain.RelationshipState, error) {
	out, err := read[api.RelationshipResponse](ctx, c, request{
		op: "get relationship", method: http.MethodGet, path: "/" + escape(username) + "/relationship", sess: sess,
	})
	if err != nil {
		return "", err
	}
	st, err := domain.ParseRelationshipState(out.Relation)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return st, nil
}

func (c *Client) SendFollowRequest(ctx context.Context, sess *Session, username string) error {
	return c.mutate(ctx, sess, username, request{
		op: "send follow request", method: http.MethodPost, path: "/profile/" + escape(username) + "/follow-request/",
	})
}

func (c *Client) CancelFollowRequest(ctx context.Context, sess *Session, username string) error {
	return c.mutate(ctx, sess, username, request{
		op: "cancel follow request", method: http.MethodDelete, path: "/profile/" + escape(username) + "/cancel-follow-request/",
	})
}

// AcceptFollowRequest accepte la demande envoyée par requester.
func (c *Client) AcceptFollowRequest(ctx context.Context, sess *Session, requester string) error {
	return c.mutate(ctx, sess, requester, request{
		op: "accept follow request", method: http.MethodPost, path: "/notifs/follow-requests/" + escape(requester) + "/accept/",
	})
}

func (c *Client) DenyFollowRequest(ctx context.Context, sess *Session, requester string) error {
	return c.mutate(ctx, sess, requester, request{
		op: "deny follow request", method: http.MethodDelete, path: "/notifs/follow-requests/" + escape(requester) + "/deny/",
	})
}

func (c *Client) Unfollow(ctx context.Context, sess *Session, username string) error {
	return c.mutate(ctx, sess, username, request{
		op: "unfollow", method: http.MethodDelete, path: "/profile/" + escape(username) + "/unfollow/",
	})
}

// mutate applique la garde "une en vol par paire" puis exécute l'appel.
func (c *Client) mutate(ctx context.Context, sess *Session, subject string, req request) error {
	if err := sess.check(c.now()); err != nil {
		return err
	}
	release, err := c.guard.acquire(sess.Username, subject)
	if err != nil {
		return err
	}
	defer release()

	req.sess = sess
	req.required = true
	_, err = c.do(ctx, req, nil)
	return err
}

func (c *Client) Followers(ctx context.Context, sess *Session, username string) ([]string, error) {
	return c.userList(ctx, sess, "followers", "/profile/"+escape(username)+"/followers/")
}

func (c *Client) Followees(ctx context.Context, sess *Session, username string) ([]string, error) {
	return c.userList(ctx, sess, "followees", "/profile/"+escape(username)+"/followees/")
}

func (c *Client) Friends(ctx context.Context, sess *Session, username string) ([]string, error) {
	return c.userList(ctx, sess, "friends", "/profile/"+escape(username)+"/friends/")
}

func (c *Client) userList(ctx context.Context, sess *Session, op, path string) ([]string, error) {
	page, err := read[api.Page[api.UserRef]](ctx, c, request{
		op: op, method: http.MethodGet, path: path, sess: sess, required: true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(page.Results))
	for _, u := range page.Results {
		out = append(out, u.Username)
	}
	return out, nil
}

// FollowRequests liste les demandes entrantes en attente.
func (c *Client) FollowRequests(ctx context.Context, sess *Session) ([]api.FollowRequest, error) {
	page, err := read[api.Page[api.FollowRequest]](ctx, c, request{
		op: "follow requests", method: http.MethodGet, path: "/notifs/follow-requests/", sess: sess, required: true,
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}
