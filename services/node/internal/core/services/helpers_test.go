package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/adapters/secondary/memory"
)

// plainHasher : pas de crypto dans les tests de service.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "plain:" + p, nil }
func (plainHasher) Compare(hash, p string) error {
	if hash != "plain:"+p {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokens encode le username en clair.
type fakeTokens struct{}

func (fakeTokens) GenerateTokens(u *domain.User) (string, string, error) {
	return "access:" + u.Username, "refresh:" + u.Username, nil
}

func (fakeTokens) Validate(tok string) (string, error) {
	if u, ok := strings.CutPrefix(tok, "access:"); ok {
		return u, nil
	}
	return "", errors.New("bad token")
}

func (fakeTokens) ValidateRefresh(tok string) (string, error) {
	if u, ok := strings.CutPrefix(tok, "refresh:"); ok {
		return u, nil
	}
	return "", errors.New("bad token")
}

func (fakeTokens) AccessTTL() time.Duration { return 15 * time.Minute }

type fixture struct {
	users    *memory.UserRepo
	graph    *memory.GraphRepo
	posts    *memory.PostRepo
	locker   *memory.PairLocker
	events   *memory.Publisher
	identity *IdentityService
	graphSvc *GraphService
	postSvc  *PostService
	feedSvc  *FeedService
}

func newFixture(t *testing.T, usernames ...string) *fixture {
	t.Helper()
	f := &fixture{
		users:  memory.NewUserRepo(),
		graph:  memory.NewGraphRepo(),
		posts:  memory.NewPostRepo(),
		locker: memory.NewPairLocker(),
		events: memory.NewPublisher(),
	}
	f.identity = NewIdentityService(f.users, plainHasher{}, fakeTokens{}, f.events)
	f.graphSvc = NewGraphService(f.users, f.graph, f.locker, f.events)
	f.postSvc = NewPostService(f.posts, f.graph, f.events)
	f.feedSvc = NewFeedService(f.posts, f.graph, f.users)

	for _, name := range usernames {
		u, err := domain.NewUser(name, name+"@example.com", "plain:secret1", "", "")
		require.NoError(t, err)
		require.NoError(t, f.users.Save(context.Background(), u))
	}
	return f
}

// befriend crée une amitié a <-> b via le service.
func (f *fixture) befriend(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.graphSvc.SendFollowRequest(ctx, a, b))
	require.NoError(t, f.graphSvc.AcceptFollowRequest(ctx, b, a))
	require.NoError(t, f.graphSvc.SendFollowRequest(ctx, b, a))
	require.NoError(t, f.graphSvc.AcceptFollowRequest(ctx, a, b))
}

// post enregistre un post daté directement dans le repo.
func (f *fixture) post(t *testing.T, id, author string, v domain.Visibility, minute int) *domain.Post {
	t.Helper()
	p := &domain.Post{
		ID: id, Author: author, Title: id, Visibility: v, Likes: domain.NewLikeSet(),
		CreatedAt: time.Date(2024, 6, 1, 0, minute, 0, 0, time.UTC),
	}
	require.NoError(t, f.posts.Save(context.Background(), p))
	return p
}
