package feed

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mkPost(id, author string, v domain.Visibility, minutes int) *domain.Post {
	return &domain.Post{ID: id, Author: author, Visibility: v, CreatedAt: t0.Add(time.Duration(minutes) * time.Minute)}
}

func ids(seq func(func(*domain.Post) bool)) []string {
	var out []string
	for p := range seq {
		out = append(out, p.ID)
	}
	return out
}

// me <-> friend (FRIEND), me -> followee (FOLLOWING), stranger sans arête.
func lookup() RelationshipLookup {
	edges := relation.NewEdgeSet(
		domain.FollowEdge{Requester: "me", Target: "friend", Status: domain.EdgeAccepted},
		domain.FollowEdge{Requester: "friend", Target: "me", Status: domain.EdgeAccepted},
		domain.FollowEdge{Requester: "me", Target: "followee", Status: domain.EdgeAccepted},
	)
	return func(viewer, author string) domain.RelationshipState {
		return relation.Resolve(viewer, author, edges)
	}
}

func candidates() []*domain.Post {
	return []*domain.Post{
		mkPost("f-pub", "friend", domain.VisibilityPublic, 1),
		mkPost("f-fr", "friend", domain.VisibilityFriends, 2),
		mkPost("f-priv", "friend", domain.VisibilityPrivate, 3),
		mkPost("f-unl", "friend", domain.VisibilityUnlisted, 4),
		mkPost("f-draft", "friend", domain.VisibilityDraft, 5),
		mkPost("fe-fr", "followee", domain.VisibilityFriends, 6),
		mkPost("fe-pub", "followee", domain.VisibilityPublic, 7),
		mkPost("s-pub", "stranger", domain.VisibilityPublic, 8),
		mkPost("me-draft", "me", domain.VisibilityDraft, 9),
		mkPost("me-priv", "me", domain.VisibilityPrivate, 10),
		mkPost("me-pub", "me", domain.VisibilityPublic, 11),
	}
}

func TestBuild_Public(t *testing.T) {
	got := ids(Build(KindPublic, "me", candidates(), lookup()))
	assert.Equal(t, []string{"me-pub", "s-pub", "fe-pub", "f-pub"}, got)

	anon := ids(Build(KindPublic, "", candidates(), lookup()))
	assert.Equal(t, got, anon)
}

func TestBuild_Friends(t *testing.T) {
	got := ids(Build(KindFriends, "me", candidates(), lookup()))
	assert.Equal(t, []string{"f-fr", "f-pub"}, got)
}

func TestBuild_Own(t *testing.T) {
	got := ids(Build(KindOwn, "me", candidates(), lookup()))
	assert.Equal(t, []string{"me-pub", "me-priv", "me-draft"}, got)

	assert.Empty(t, ids(Build(KindOwn, "", candidates(), lookup())))
}

func TestBuild_CombinedDedupes(t *testing.T) {
	posts := candidates()
	posts = append(posts, posts[0], posts[1]) // doublons venant de plusieurs sources

	got := ids(Build(KindCombined, "me", posts, lookup()))
	assert.Equal(t, []string{"me-pub", "me-priv", "me-draft", "s-pub", "fe-pub", "f-fr", "f-pub"}, got)

	seen := map[string]int{}
	for _, id := range got {
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestBuild_DraftOnlyInAuthorsOwnFeed(t *testing.T) {
	posts := []*domain.Post{mkPost("d", "x", domain.VisibilityDraft, 0)}
	look := func(viewer, author string) domain.RelationshipState { return domain.StateFriend }

	for _, viewer := range []string{"", "y", "x"} {
		assert.Empty(t, ids(Build(KindPublic, viewer, posts, look)))
		assert.Empty(t, ids(Build(KindFriends, viewer, posts, look)))
	}
	assert.Empty(t, ids(Build(KindOwn, "y", posts, look)))
	assert.Equal(t, []string{"d"}, ids(Build(KindOwn, "x", posts, look)))
}

func TestBuild_Ordering(t *testing.T) {
	posts := []*domain.Post{
		mkPost("t1", "a", domain.VisibilityPublic, 1),
		mkPost("t3", "a", domain.VisibilityPublic, 3),
		mkPost("t2", "a", domain.VisibilityPublic, 2),
		mkPost("z", "a", domain.VisibilityPublic, 0),
		mkPost("b", "a", domain.VisibilityPublic, 0),
		mkPost("m", "a", domain.VisibilityPublic, 0),
	}
	got := ids(Build(KindPublic, "", posts, nil))
	assert.Equal(t, []string{"t3", "t2", "t1", "b", "m", "z"}, got)
}

func TestBuild_IsRestartableAndRecomputes(t *testing.T) {
	posts := []*domain.Post{mkPost("a", "x", domain.VisibilityPublic, 0)}
	seq := Build(KindPublic, "", posts, nil)
	assert.Equal(t, []string{"a"}, ids(seq))

	// Les données changent entre deux parcours : pas de résultat périmé.
	posts[0].Visibility = domain.VisibilityPrivate
	assert.Empty(t, ids(seq))
	posts[0].Visibility = domain.VisibilityPublic
	assert.Equal(t, []string{"a"}, ids(seq))
}

func TestBuild_StopsEarly(t *testing.T) {
	n := 0
	for range Build(KindPublic, "", candidates(), nil) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("combined")
	require.NoError(t, err)
	assert.Equal(t, KindCombined, k)

	_, err = ParseKind("everything")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestPaginate(t *testing.T) {
	var posts []*domain.Post
	for i := range 7 {
		posts = append(posts, mkPost(string(rune('a'+i)), "x", domain.VisibilityPublic, i))
	}
	seq := Build(KindPublic, "", posts, nil)
	all := ids(seq)

	var walked []string
	var cur Cursor
	pages := 0
	for {
		page, next := Paginate(seq, cur, 3)
		for _, p := range page {
			walked = append(walked, p.ID)
		}
		pages++
		if next.IsZero() {
			break
		}
		cur = next
	}
	assert.Equal(t, all, walked)
	assert.Equal(t, 3, pages)

	page, next := Paginate(seq, Cursor{}, 0)
	assert.Len(t, page, 7)
	assert.True(t, next.IsZero())
}

func TestPaginate_StableWhenNewerPostsArrive(t *testing.T) {
	posts := []*domain.Post{
		mkPost("a", "x", domain.VisibilityPublic, 1),
		mkPost("b", "x", domain.VisibilityPublic, 2),
		mkPost("c", "x", domain.VisibilityPublic, 3),
	}
	first, next := Paginate(Build(KindPublic, "", posts, nil), Cursor{}, 2)
	require.Equal(t, []string{"c", "b"}, ids(slices.Values(first)))

	posts = append(posts, mkPost("new", "x", domain.VisibilityPublic, 10))
	second, end := Paginate(Build(KindPublic, "", posts, nil), next, 2)
	assert.Equal(t, []string{"a"}, ids(slices.Values(second)))
	assert.True(t, end.IsZero())
}

func TestCursor_EncodeDecode(t *testing.T) {
	c := Cursor{CreatedAt: t0.Add(123456789 * time.Nanosecond), ID: "p-1"}
	got, err := DecodeCursor(c.Encode())
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, c.ID, got.ID)

	empty, err := DecodeCursor("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
	assert.Equal(t, "", Cursor{}.Encode())

	for _, bad := range []string{"!!!", "bm8tc2VwYXJhdG9y", "eHh4fGlk"} {
		_, err := DecodeCursor(bad)
		assert.ErrorIs(t, err, ErrInvalidCursor, bad)
	}
}
