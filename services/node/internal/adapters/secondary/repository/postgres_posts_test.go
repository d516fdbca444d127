package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

func TestBuildListQuery_Combined(t *testing.T) {
	q, args := buildListQuery(ports.PostFilter{
		IncludePublic: true,
		FriendAuthors: []string{"bob"},
		Owner:         "alice",
		Limit:         21,
	})

	assert.Contains(t, q, `p.visibility = 'PUBLIC' OR (p.author = ANY(@friends)`)
	assert.Contains(t, q, `OR p.author = @owner)`)
	assert.NotContains(t, q, "@cursor_at")
	assert.True(t, strings.HasSuffix(q, `ORDER BY p.created_at DESC, p.id COLLATE "C" ASC LIMIT @limit`))
	assert.Equal(t, []string{"bob"}, args["friends"])
	assert.Equal(t, "alice", args["owner"])
	assert.Equal(t, 21, args["limit"])
}

func TestBuildListQuery_AuthorWithCursor(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	q, args := buildListQuery(ports.PostFilter{
		Author:       "alice",
		Visibilities: []domain.Visibility{domain.VisibilityPublic, domain.VisibilityFriends},
		After:        feed.Cursor{CreatedAt: at, ID: "p-1"},
	})

	assert.Contains(t, q, `(p.author = @author AND p.visibility = ANY(@visibilities))`)
	assert.Contains(t, q, `p.id COLLATE "C" > @cursor_id`)
	assert.NotContains(t, q, "LIMIT")
	assert.Equal(t, []string{"PUBLIC", "FRIENDS"}, args["visibilities"])
	assert.Equal(t, at, args["cursor_at"])
	assert.Equal(t, "p-1", args["cursor_id"])
}
