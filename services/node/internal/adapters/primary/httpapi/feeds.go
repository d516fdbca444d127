package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

func (h *Handler) feed(kind feed.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		cursor, limit, ok := pageParams(c)
		if !ok {
			return
		}
		page, err := h.feeds.Feed(c.Request.Context(), ports.FeedQuery{
			Viewer: viewer(c),
			Kind:   kind,
			Cursor: cursor,
			Limit:  limit,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		writePage(c, page)
	}
}

func (h *Handler) drafts(c *gin.Context) {
	cursor, limit, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.feeds.Drafts(c.Request.Context(), viewer(c), cursor, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, page)
}

func (h *Handler) authorPosts(c *gin.Context) {
	cursor, limit, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.feeds.AuthorPosts(c.Request.Context(), viewer(c), c.Param("username"), cursor, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, page)
}

// pageParams lit ?cursor=&limit=. Le service borne la limite.
func pageParams(c *gin.Context) (feed.Cursor, int, bool) {
	cursor, err := feed.DecodeCursor(c.Query("cursor"))
	if err != nil {
		writeError(c, err)
		return feed.Cursor{}, 0, false
	}
	limit, ok := limitParam(c)
	return cursor, limit, ok
}

// limitParam : 0 si absent, le service applique le défaut.
func limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		badRequest(c, fmt.Errorf("invalid limit %q", raw))
		return 0, false
	}
	return limit, true
}

func writePage(c *gin.Context, page *ports.FeedPage) {
	c.JSON(http.StatusOK, api.Page[api.Post]{
		Results: api.FromPosts(page.Posts, viewer(c)),
		Next:    page.Next.Encode(),
	})
}
