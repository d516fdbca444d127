// Package memory implémente les ports secondaires en mémoire.
// Utilisé en local (STORAGE_BACKEND=memory) et par les tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

// --- USERS ---

type UserRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]domain.User)}
}

func (r *UserRepo) Save(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return domain.ErrUsernameTaken
	}
	for _, other := range r.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.users[u.Username] = *u
	return nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.Username] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context, exclude, after string, limit int) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.users))
	for name := range r.users {
		if name != exclude && name > after {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	out := make([]*domain.User, 0, len(names))
	for _, name := range names {
		u := r.users[name]
		out = append(out, &u)
	}
	return out, nil
}

// --- GRAPH ---

type GraphRepo struct {
	mu    sync.RWMutex
	edges *relation.EdgeSet
}

func NewGraphRepo() *GraphRepo {
	return &GraphRepo{edges: relation.NewEdgeSet()}
}

func (r *GraphRepo) EdgesBetween(_ context.Context, a, b string) ([]domain.FollowEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.FollowEdge
	if e, ok := r.edges.Find(a, b); ok {
		out = append(out, e)
	}
	if e, ok := r.edges.Find(b, a); ok {
		out = append(out, e)
	}
	return out, nil
}

func (r *GraphRepo) ApplyChange(_ context.Context, c relation.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges.Apply(c)
	return nil
}

func (r *GraphRepo) Followers(_ context.Context, username string) ([]string, error) {
	return r.collect(func(e domain.FollowEdge) (string, bool) {
		return e.Requester, e.Target == username && e.Status == domain.EdgeAccepted
	}), nil
}

func (r *GraphRepo) Followees(_ context.Context, username string) ([]string, error) {
	return r.collect(func(e domain.FollowEdge) (string, bool) {
		return e.Target, e.Requester == username && e.Status == domain.EdgeAccepted
	}), nil
}

func (r *GraphRepo) IncomingRequests(_ context.Context, username string) ([]domain.FollowEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.FollowEdge
	for _, e := range r.edges.Edges() {
		if e.Target == username && e.Status == domain.EdgePending {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *GraphRepo) collect(pick func(domain.FollowEdge) (string, bool)) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, e := range r.edges.Edges() {
		if name, ok := pick(e); ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// --- POSTS ---

type PostRepo struct {
	mu       sync.RWMutex
	posts    map[string]*domain.Post
	comments map[string]*domain.Comment
}

func NewPostRepo() *PostRepo {
	return &PostRepo{posts: make(map[string]*domain.Post), comments: make(map[string]*domain.Comment)}
}

func (r *PostRepo) Save(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *PostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepo) Update(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.posts[p.ID]
	if !ok {
		return domain.ErrPostNotFound
	}
	next := clonePost(p)
	next.Likes = old.Likes
	r.posts[p.ID] = next
	return nil
}

func (r *PostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	for cid, c := range r.comments {
		if c.PostID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

func (r *PostRepo) List(_ context.Context, f ports.PostFilter) ([]*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Post
	for _, p := range r.posts {
		if matchFilter(f, p) && f.After.After(p) {
			out = append(out, clonePost(p))
		}
	}
	slices.SortFunc(out, feed.Compare)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matchFilter(f ports.PostFilter, p *domain.Post) bool {
	switch {
	case f.IncludePublic && p.Visibility == domain.VisibilityPublic:
		return true
	case slices.Contains(f.FriendAuthors, p.Author) &&
		(p.Visibility == domain.VisibilityPublic || p.Visibility == domain.VisibilityFriends):
		return true
	case f.Owner != "" && p.Author == f.Owner:
		return true
	case f.Author != "" && p.Author == f.Author && slices.Contains(f.Visibilities, p.Visibility):
		return true
	}
	return false
}

func (r *PostRepo) TogglePostLike(_ context.Context, postID, username string) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return false, 0, domain.ErrPostNotFound
	}
	liked := p.ToggleLike(username)
	return liked, p.Likes.Count(), nil
}

func (r *PostRepo) SaveComment(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[c.PostID]; !ok {
		return domain.ErrPostNotFound
	}
	cp := *c
	cp.Likes = domain.NewLikeSet(c.Likes.Usernames()...)
	r.comments[c.ID] = &cp
	return nil
}

func (r *PostRepo) FindComment(_ context.Context, postID, commentID string) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comments[commentID]
	if !ok || c.PostID != postID {
		return nil, domain.ErrCommentNotFound
	}
	cp := *c
	cp.Likes = domain.NewLikeSet(c.Likes.Usernames()...)
	return &cp, nil
}

func (r *PostRepo) Comments(_ context.Context, postID string) ([]*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			cp := *c
			cp.Likes = domain.NewLikeSet(c.Likes.Usernames()...)
			out = append(out, &cp)
		}
	}
	domain.SortCommentsNewestFirst(out)
	return out, nil
}

func (r *PostRepo) ToggleCommentLike(_ context.Context, commentID, username string) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return false, 0, domain.ErrCommentNotFound
	}
	liked := c.ToggleLike(username)
	return liked, c.Likes.Count(), nil
}

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Likes = domain.NewLikeSet(p.Likes.Usernames()...)
	cp.Comments = nil
	return &cp
}
