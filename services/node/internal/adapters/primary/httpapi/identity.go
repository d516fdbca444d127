package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

func (h *Handler) register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.identity.Register(c.Request.Context(), ports.RegisterCmd{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenResponse(resp))
}

func (h *Handler) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.identity.Login(c.Request.Context(), ports.LoginCmd{
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse(resp))
}

func (h *Handler) refresh(c *gin.Context) {
	var req api.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.identity.RefreshToken(c.Request.Context(), req.Refresh)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse(resp))
}

func (h *Handler) profile(c *gin.Context) {
	u, err := h.identity.GetUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.FromUser(u, viewer(c)))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req api.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.identity.UpdateProfile(c.Request.Context(), ports.UpdateProfileCmd{
		Username:     viewer(c),
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.FromUser(u, viewer(c)))
}

// users : annuaire paginé, ?cursor= est le dernier username de la page précédente.
func (h *Handler) users(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	page, err := h.identity.ListUsers(c.Request.Context(), viewer(c), c.Query("cursor"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := api.Page[api.User]{Results: make([]api.User, 0, len(page.Users)), Next: page.Next}
	for _, u := range page.Users {
		out.Results = append(out.Results, api.FromUser(u, viewer(c)))
	}
	c.JSON(http.StatusOK, out)
}

func tokenResponse(r *ports.AuthResponse) api.TokenResponse {
	u := api.FromUser(r.User, r.User.Username)
	return api.TokenResponse{
		Access:    r.AccessToken,
		Refresh:   r.RefreshToken,
		ExpiresIn: int64(r.ExpiresIn.Seconds()),
		User:      &u,
	}
}
