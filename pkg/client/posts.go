package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

// Post est un post validé, avec les compteurs vus par le viewer.
type Post struct {
	*domain.Post
	LikeCount int
	Liked     bool
}

func toPost(p api.Post) (*Post, error) {
	d, err := p.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &Post{Post: d, LikeCount: p.LikeCount, Liked: p.Liked}, nil
}

func toPosts(in []api.Post) ([]*Post, error) {
	out := make([]*Post, 0, len(in))
	for _, p := range in {
		post, err := toPost(p)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, nil
}

type PostInput struct {
	Title      string
	Content    string
	Image      string
	Visibility domain.Visibility // vide = PUBLIC
}

// GetPost : un post caché au viewer répond ErrNotFound.
func (c *Client) GetPost(ctx context.Context, sess *Session, id string) (*Post, error) {
	out, err := read[api.Post](ctx, c, request{
		op: "get post", method: http.MethodGet, path: "/posts/" + escape(id) + "/", sess: sess, required: true,
	})
	if err != nil {
		return nil, err
	}
	return toPost(out)
}

func (c *Client) CreatePost(ctx context.Context, sess *Session, in PostInput) (*Post, error) {
	if in.Visibility != "" && !in.Visibility.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidVisibility)
	}
	var out api.Post
	_, err := c.do(ctx, request{
		op: "create post", method: http.MethodPost, path: "/posts/create/", sess: sess, required: true,
		body: api.CreatePostRequest{Title: in.Title, Content: in.Content, Image: in.Image, Visibility: string(in.Visibility)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return toPost(out)
}

// ReplacePost : PUT, tous les champs sont remplacés.
func (c *Client) ReplacePost(ctx context.Context, sess *Session, id string, in PostInput) (*Post, error) {
	if !in.Visibility.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidVisibility)
	}
	var out api.Post
	_, err := c.do(ctx, request{
		op: "replace post", method: http.MethodPut, path: "/posts/" + escape(id) + "/update/", sess: sess, required: true,
		body: api.ReplacePostRequest{Title: in.Title, Content: in.Content, Image: in.Image, Visibility: string(in.Visibility)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return toPost(out)
}

// UpdatePost : PATCH partiel.
func (c *Client) UpdatePost(ctx context.Context, sess *Session, id string, patch domain.PostPatch) (*Post, error) {
	body := api.PatchPostRequest{Title: patch.Title, Content: patch.Content, Image: patch.Image}
	if patch.Visibility != nil {
		if !patch.Visibility.Valid() {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidVisibility)
		}
		v := string(*patch.Visibility)
		body.Visibility = &v
	}
	var out api.Post
	_, err := c.do(ctx, request{
		op: "update post", method: http.MethodPatch, path: "/posts/" + escape(id) + "/update/", sess: sess, required: true,
		body: body,
	}, &out)
	if err != nil {
		return nil, err
	}
	return toPost(out)
}

func (c *Client) DeletePost(ctx context.Context, sess *Session, id string) error {
	_, err := c.do(ctx, request{
		op: "delete post", method: http.MethodDelete, path: "/posts/" + escape(id) + "/delete/", sess: sess, required: true,
	}, nil)
	return err
}

// TogglePostLike retourne le nouvel état (true = liké).
func (c *Client) TogglePostLike(ctx context.Context, sess *Session, postID string) (api.LikeResponse, error) {
	return c.toggle(ctx, sess, "toggle post like", "/posts/"+escape(postID)+"/likes/toggle/")
}

func (c *Client) ToggleCommentLike(ctx context.Context, sess *Session, postID, commentID string) (api.LikeResponse, error) {
	return c.toggle(ctx, sess, "toggle comment like", "/posts/"+escape(postID)+"/comments/"+escape(commentID)+"/likes/toggle/")
}

func (c *Client) toggle(ctx context.Context, sess *Session, op, path string) (api.LikeResponse, error) {
	var out api.LikeResponse
	status, err := c.do(ctx, request{op: op, method: http.MethodPost, path: path, sess: sess, required: true}, &out)
	if err != nil {
		return api.LikeResponse{}, err
	}
	// 201 = like créé, 200 = like retiré.
	out.Liked = status == http.StatusCreated
	return out, nil
}

// Comments : plus récent d'abord.
func (c *Client) Comments(ctx context.Context, sess *Session, postID string) ([]api.Comment, error) {
	page, err := read[api.Page[api.Comment]](ctx, c, request{
		op: "list comments", method: http.MethodGet, path: "/posts/" + escape(postID) + "/comments/", sess: sess, required: true,
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) CreateComment(ctx context.Context, sess *Session, postID, text string) (*api.Comment, error) {
	var out api.Comment
	_, err := c.do(ctx, request{
		op: "create comment", method: http.MethodPost, path: "/posts/" + escape(postID) + "/comments/create/", sess: sess, required: true,
		body: api.CreateCommentRequest{Text: text},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PostPage est une page de liste serveur.
type PostPage struct {
	Posts []*Post
	Next  string
}

// listing : route serveur par liste, et si l'auth y est obligatoire.
type listing struct {
	path     string
	required bool
}

var (
	listPublic   = listing{"/api/posts/public/", false}
	listFriends  = listing{"/friends/posts/", true}
	listOwn      = listing{"/posts/my/", true}
	listCombined = listing{"/api/posts/public_and_friends/", true}
	listDrafts   = listing{"/posts/drafts/", true}
)

func (c *Client) listPosts(ctx context.Context, sess *Session, op string, l listing, cursor string, limit int) (*PostPage, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	page, err := read[api.Page[api.Post]](ctx, c, request{
		op: op, method: http.MethodGet, path: l.path, query: q, sess: sess, required: l.required,
	})
	if err != nil {
		return nil, err
	}
	posts, err := toPosts(page.Results)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Next: page.Next}, nil
}

func (c *Client) Drafts(ctx context.Context, sess *Session, cursor string, limit int) (*PostPage, error) {
	return c.listPosts(ctx, sess, "list drafts", listDrafts, cursor, limit)
}

// AuthorPosts : posts d'un profil, filtrés côté serveur selon la relation.
func (c *Client) AuthorPosts(ctx context.Context, sess *Session, author, cursor string, limit int) (*PostPage, error) {
	return c.listPosts(ctx, sess, "list author posts", listing{"/api/posts/user/" + escape(author) + "/", false}, cursor, limit)
}
