package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
)

func (h *Handler) relationship(c *gin.Context) {
	state, err := h.graph.Relationship(c.Request.Context(), viewer(c), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.RelationshipResponse{Relation: state.String()})
}

func (h *Handler) sendFollowRequest(c *gin.Context) {
	h.mutate(c, http.StatusCreated, h.graph.SendFollowRequest)
}

func (h *Handler) cancelFollowRequest(c *gin.Context) {
	h.mutate(c, http.StatusNoContent, h.graph.CancelFollowRequest)
}

func (h *Handler) acceptFollowRequest(c *gin.Context) {
	h.mutate(c, http.StatusOK, h.graph.AcceptFollowRequest)
}

func (h *Handler) denyFollowRequest(c *gin.Context) {
	h.mutate(c, http.StatusNoContent, h.graph.DenyFollowRequest)
}

func (h *Handler) unfollow(c *gin.Context) {
	h.mutate(c, http.StatusNoContent, h.graph.Unfollow)
}

// mutate : le viewer est toujours le premier argument, :username l'autre bout de la paire.
// La réponse porte la relation après mutation (sauf 204).
func (h *Handler) mutate(c *gin.Context, status int, op func(ctx context.Context, actor, other string) error) {
	ctx := c.Request.Context()
	me, other := viewer(c), c.Param("username")
	if err := op(ctx, me, other); err != nil {
		writeError(c, err)
		return
	}
	if status == http.StatusNoContent {
		c.Status(status)
		return
	}
	state, err := h.graph.Relationship(ctx, me, other)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, api.RelationshipResponse{Relation: state.String()})
}

func (h *Handler) followers(c *gin.Context) {
	h.userList(c, h.graph.Followers)
}

func (h *Handler) followees(c *gin.Context) {
	h.userList(c, h.graph.Followees)
}

func (h *Handler) friends(c *gin.Context) {
	h.userList(c, h.graph.Friends)
}

func (h *Handler) userList(c *gin.Context, list func(ctx context.Context, username string) ([]string, error)) {
	names, err := list(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := api.Page[api.UserRef]{Results: make([]api.UserRef, 0, len(names))}
	for _, n := range names {
		out.Results = append(out.Results, api.UserRef{Username: n})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) followRequests(c *gin.Context) {
	edges, err := h.graph.PendingRequests(c.Request.Context(), viewer(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := api.Page[api.FollowRequest]{Results: make([]api.FollowRequest, 0, len(edges))}
	for _, e := range edges {
		out.Results = append(out.Results, api.FollowRequest{Requester: e.Requester, CreatedAt: e.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}
