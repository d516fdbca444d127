package services

import (
	"context"
	"slices"
	"time"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
	"github.com/Nishchay412/Social-Distribution/pkg/core/visibility"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// FeedService implémente ports.FeedService.
//
// Le stockage pré-filtre avec les mêmes clauses que feed.Build (pour que les pages
// soient pleines), puis feed.Build refait le filtrage et l'ordre sur le résultat.
// Aucune timeline matérialisée : chaque appel relit l'état courant.
type FeedService struct {
	posts ports.PostRepository
	graph ports.GraphRepository
	users ports.UserRepository
}

func NewFeedService(posts ports.PostRepository, graph ports.GraphRepository, users ports.UserRepository) *FeedService {
	return &FeedService{posts: posts, graph: graph, users: users}
}

func (s *FeedService) Feed(ctx context.Context, q ports.FeedQuery) (*ports.FeedPage, error) {
	start := time.Now()
	defer func() { feedBuildDuration.WithLabelValues(string(q.Kind)).Observe(time.Since(start).Seconds()) }()

	if _, err := feed.ParseKind(string(q.Kind)); err != nil {
		return nil, err
	}
	limit := clampLimit(q.Limit)

	edges := relation.NewEdgeSet()
	if q.Viewer != "" && (q.Kind == feed.KindFriends || q.Kind == feed.KindCombined) {
		var err error
		if edges, err = loadFollowEdges(ctx, s.graph, q.Viewer); err != nil {
			return nil, err
		}
	}

	filter := ports.PostFilter{After: q.Cursor, Limit: limit + 1}
	switch q.Kind {
	case feed.KindPublic:
		filter.IncludePublic = true
	case feed.KindFriends:
		filter.FriendAuthors = friendsIn(q.Viewer, edges)
	case feed.KindOwn:
		filter.Owner = q.Viewer
	case feed.KindCombined:
		filter.IncludePublic = true
		filter.FriendAuthors = friendsIn(q.Viewer, edges)
		filter.Owner = q.Viewer
	}

	lookup := func(viewer, author string) domain.RelationshipState {
		return relation.Resolve(viewer, author, edges)
	}
	return s.page(ctx, filter, q.Kind, q.Viewer, lookup, q.Cursor, limit)
}

// Drafts : le flux OWN restreint aux brouillons.
func (s *FeedService) Drafts(ctx context.Context, viewer string, cursor feed.Cursor, limit int) (*ports.FeedPage, error) {
	limit = clampLimit(limit)
	filter := ports.PostFilter{
		Author:       viewer,
		Visibilities: []domain.Visibility{domain.VisibilityDraft},
		After:        cursor,
		Limit:        limit + 1,
	}
	self := func(string, string) domain.RelationshipState { return domain.StateSelf }
	return s.page(ctx, filter, feed.KindOwn, viewer, self, cursor, limit)
}

// AuthorPosts : la page de profil. Mêmes règles que les feeds (UNLISTED exclu).
func (s *FeedService) AuthorPosts(ctx context.Context, viewer, author string, cursor feed.Cursor, limit int) (*ports.FeedPage, error) {
	if _, err := s.users.GetByUsername(ctx, author); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	rel := domain.StateStranger
	if viewer != "" {
		edges := relation.NewEdgeSet()
		if viewer != author {
			found, err := s.graph.EdgesBetween(ctx, viewer, author)
			if err != nil {
				return nil, err
			}
			edges = relation.NewEdgeSet(found...)
		}
		rel = relation.Resolve(viewer, author, edges)
	}

	filter := ports.PostFilter{
		Author:       author,
		Visibilities: visibility.AllowedInFeed(viewer, author, rel),
		After:        cursor,
		Limit:        limit + 1,
	}
	posts, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}

	var visible []*domain.Post
	for _, p := range posts {
		if visibility.IsVisibleInFeed(p, viewer, rel) {
			visible = append(visible, p)
		}
	}
	page, next := feed.Paginate(slices.Values(visible), cursor, limit)
	return &ports.FeedPage{Posts: page, Next: next}, nil
}

func (s *FeedService) page(
	ctx context.Context,
	filter ports.PostFilter,
	kind feed.Kind,
	viewer string,
	lookup feed.RelationshipLookup,
	cursor feed.Cursor,
	limit int,
) (*ports.FeedPage, error) {
	candidates, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	posts, next := feed.Paginate(feed.Build(kind, viewer, candidates, lookup), cursor, limit)
	return &ports.FeedPage{Posts: posts, Next: next}, nil
}

func (s *FeedService) list(ctx context.Context, filter ports.PostFilter) ([]*domain.Post, error) {
	if filter.IsEmpty() {
		return nil, nil
	}
	return s.posts.List(ctx, filter)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}
