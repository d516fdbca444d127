package client

import (
	"context"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

const pageSize = 100

// FeedPage lit une page d'un feed tel que le serveur le compose.
func (c *Client) FeedPage(ctx context.Context, sess *Session, kind feed.Kind, cursor string, limit int) (*PostPage, error) {
	switch kind {
	case feed.KindPublic:
		return c.listPosts(ctx, sess, "public feed", listPublic, cursor, limit)
	case feed.KindFriends:
		return c.listPosts(ctx, sess, "friends feed", listFriends, cursor, limit)
	case feed.KindOwn:
		return c.listPosts(ctx, sess, "own feed", listOwn, cursor, limit)
	case feed.KindCombined:
		return c.listPosts(ctx, sess, "combined feed", listCombined, cursor, limit)
	default:
		return nil, feed.ErrInvalidKind
	}
}

// Feed recompose localement le feed demandé à partir des listes sources
// (public, amis, perso) et des relations fraîchement lues. Rien n'est gardé
// entre deux appels : chaque appel refait les lectures.
func (c *Client) Feed(ctx context.Context, sess *Session, kind feed.Kind) ([]*Post, error) {
	if _, err := feed.ParseKind(string(kind)); err != nil {
		return nil, err
	}

	var (
		viewer  string
		sources []listing
	)
	if sess != nil && sess.AccessToken != "" {
		if err := sess.check(c.now()); err != nil {
			return nil, err
		}
		viewer = sess.Username
	}
	switch kind {
	case feed.KindPublic:
		sources = []listing{listPublic}
	case feed.KindFriends:
		sources = []listing{listFriends}
	case feed.KindOwn:
		sources = []listing{listOwn}
	case feed.KindCombined:
		sources = []listing{listPublic, listFriends, listOwn}
	}
	if viewer == "" && kind != feed.KindPublic {
		return nil, ErrAuthRequired
	}

	byID := make(map[string]*Post)
	var candidates []*domain.Post
	for _, src := range sources {
		posts, err := c.drain(ctx, sess, src)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			if _, ok := byID[p.ID]; !ok {
				byID[p.ID] = p
			}
			candidates = append(candidates, p.Post)
		}
	}

	edges := relation.NewEdgeSet()
	if viewer != "" && (kind == feed.KindFriends || kind == feed.KindCombined) {
		followers, err := c.Followers(ctx, sess, viewer)
		if err != nil {
			return nil, err
		}
		followees, err := c.Followees(ctx, sess, viewer)
		if err != nil {
			return nil, err
		}
		edges = relation.FromFollowLists(viewer, followers, followees)
	}
	lookup := func(v, author string) domain.RelationshipState {
		return relation.Resolve(v, author, edges)
	}

	var out []*Post
	for p := range feed.Build(kind, viewer, candidates, lookup) {
		out = append(out, byID[p.ID])
	}
	return out, nil
}

// drain suit les curseurs jusqu'à la fin d'une liste.
func (c *Client) drain(ctx context.Context, sess *Session, src listing) ([]*Post, error) {
	var all []*Post
	cursor := ""
	for {
		page, err := c.listPosts(ctx, sess, "feed source", src, cursor, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Posts...)
		if page.Next == "" || page.Next == cursor {
			return all, nil
		}
		cursor = page.Next
	}
}
