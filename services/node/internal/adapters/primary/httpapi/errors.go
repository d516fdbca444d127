package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

// errorMapping : premier match gagne, l'ordre compte.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{relation.ErrSelfFollowNotAllowed, http.StatusForbidden, api.CodeSelfFollowNotAllowed},
	{relation.ErrAlreadyRequested, http.StatusConflict, api.CodeAlreadyRequested},
	{relation.ErrNoPendingRequest, http.StatusBadRequest, api.CodeNoPendingRequest},
	{relation.ErrNotFollowing, http.StatusBadRequest, api.CodeNotFollowing},
	{domain.ErrRequestInFlight, http.StatusConflict, api.CodeRequestInFlight},

	{domain.ErrUserNotFound, http.StatusNotFound, api.CodeNotFound},
	{domain.ErrPostNotFound, http.StatusNotFound, api.CodeNotFound},
	{domain.ErrCommentNotFound, http.StatusNotFound, api.CodeNotFound},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized, api.CodeUnauthenticated},
	{domain.ErrInvalidToken, http.StatusUnauthorized, api.CodeUnauthenticated},
	{domain.ErrForbidden, http.StatusForbidden, api.CodeForbidden},

	{domain.ErrUsernameTaken, http.StatusConflict, api.CodeConflict},
	{domain.ErrEmailAlreadyExists, http.StatusConflict, api.CodeConflict},

	{domain.ErrInvalidEmail, http.StatusBadRequest, api.CodeInvalidInput},
	{domain.ErrInvalidUsername, http.StatusBadRequest, api.CodeInvalidInput},
	{domain.ErrReservedUsername, http.StatusBadRequest, api.CodeInvalidInput},
	{domain.ErrPasswordTooShort, http.StatusBadRequest, api.CodeInvalidInput},
	{domain.ErrInvalidVisibility, http.StatusBadRequest, api.CodeInvalidInput},
	{domain.ErrEmptyPost, http.StatusBadRequest, api.CodeInvalidInput},
	{domain.ErrEmptyComment, http.StatusBadRequest, api.CodeInvalidInput},
	{feed.ErrInvalidKind, http.StatusBadRequest, api.CodeInvalidInput},
	{feed.ErrInvalidCursor, http.StatusBadRequest, api.CodeInvalidInput},
}

// writeError est le seul endroit où une erreur devient un statut HTTP.
func writeError(c *gin.Context, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			c.AbortWithStatusJSON(m.status, api.ErrorResponse{Error: m.target.Error(), Code: m.code})
			return
		}
	}
	slog.ErrorContext(c.Request.Context(), "❌ unhandled error", "path", c.FullPath(), "method", c.Request.Method, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error", Code: api.CodeInternal})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: api.CodeInvalidInput})
}

func unauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: msg, Code: api.CodeUnauthenticated})
}
