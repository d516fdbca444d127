package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

func (h *Handler) createPost(c *gin.Context) {
	var req api.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.posts.Create(c.Request.Context(), ports.CreatePostCmd{
		Author:     viewer(c),
		Title:      req.Title,
		Content:    req.Content,
		Image:      req.Image,
		Visibility: domain.Visibility(req.Visibility),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.FromPost(p, viewer(c)))
}

func (h *Handler) getPost(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.FromPost(p, viewer(c)))
}

// replacePost : PUT remplace tous les champs éditables.
func (h *Handler) replacePost(c *gin.Context) {
	var req api.ReplacePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v := domain.Visibility(req.Visibility)
	h.update(c, domain.PostPatch{Title: &req.Title, Content: &req.Content, Image: &req.Image, Visibility: &v})
}

func (h *Handler) patchPost(c *gin.Context) {
	var req api.PatchPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	patch := domain.PostPatch{Title: req.Title, Content: req.Content, Image: req.Image}
	if req.Visibility != nil {
		v := domain.Visibility(*req.Visibility)
		patch.Visibility = &v
	}
	h.update(c, patch)
}

func (h *Handler) update(c *gin.Context, patch domain.PostPatch) {
	p, err := h.posts.Update(c.Request.Context(), ports.UpdatePostCmd{
		Viewer: viewer(c),
		PostID: c.Param("id"),
		Patch:  patch,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.FromPost(p, viewer(c)))
}

func (h *Handler) deletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), viewer(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// togglePostLike : 201 quand le like est créé, 200 quand il est retiré.
func (h *Handler) togglePostLike(c *gin.Context) {
	liked, count, err := h.posts.ToggleLike(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeLike(c, liked, count)
}

func (h *Handler) toggleCommentLike(c *gin.Context) {
	liked, count, err := h.posts.ToggleCommentLike(c.Request.Context(), viewer(c), c.Param("id"), c.Param("cid"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeLike(c, liked, count)
}

func writeLike(c *gin.Context, liked bool, count int) {
	status := http.StatusOK
	if liked {
		status = http.StatusCreated
	}
	c.JSON(status, api.LikeResponse{Liked: liked, LikeCount: count})
}

func (h *Handler) comments(c *gin.Context) {
	list, err := h.posts.Comments(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := api.Page[api.Comment]{Results: make([]api.Comment, 0, len(list))}
	for _, cm := range list {
		out.Results = append(out.Results, api.FromComment(cm, viewer(c)))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) createComment(c *gin.Context) {
	var req api.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cm, err := h.posts.AddComment(c.Request.Context(), viewer(c), c.Param("id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.FromComment(cm, viewer(c)))
}
