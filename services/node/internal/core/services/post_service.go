package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
	"github.com/Nishchay412/Social-Distribution/pkg/core/visibility"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

// PostService implémente ports.PostService.
type PostService struct {
	posts  ports.PostRepository
	graph  ports.GraphRepository
	broker ports.EventPublisher
}

func NewPostService(posts ports.PostRepository, graph ports.GraphRepository, broker ports.EventPublisher) *PostService {
	return &PostService{posts: posts, graph: graph, broker: broker}
}

func (s *PostService) Create(ctx context.Context, cmd ports.CreatePostCmd) (*domain.Post, error) {
	post, err := domain.NewPost(cmd.Author, cmd.Title, cmd.Content, cmd.Image, cmd.Visibility)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	// Les brouillons ne sortent pas du service.
	if post.Visibility != domain.VisibilityDraft {
		if err := s.broker.PublishPostCreated(ctx, post); err != nil {
			slog.WarnContext(ctx, "failed to publish post created", "post_id", post.ID, "error", err)
		}
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, viewer, postID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	rel, err := s.relationship(ctx, viewer, post.Author)
	if err != nil {
		return nil, err
	}
	if !visibility.IsVisibleByDirectLookup(post, viewer, rel) {
		// On ne révèle pas l'existence d'un post caché.
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, cmd ports.UpdatePostCmd) (*domain.Post, error) {
	post, err := s.owned(ctx, cmd.Viewer, cmd.PostID)
	if err != nil {
		return nil, err
	}
	wasDraft := post.Visibility == domain.VisibilityDraft
	if err := post.Edit(cmd.Patch); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	// Publication d'un brouillon = création aux yeux des autres services.
	if wasDraft && post.Visibility != domain.VisibilityDraft {
		if err := s.broker.PublishPostCreated(ctx, post); err != nil {
			slog.WarnContext(ctx, "failed to publish post created", "post_id", post.ID, "error", err)
		}
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, viewer, postID string) error {
	post, err := s.owned(ctx, viewer, postID)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if err := s.broker.PublishPostDeleted(ctx, post.ID, post.Author); err != nil {
		slog.WarnContext(ctx, "failed to publish post deleted", "post_id", post.ID, "error", err)
	}
	return nil
}

func (s *PostService) ToggleLike(ctx context.Context, viewer, postID string) (bool, int, error) {
	if _, err := s.Get(ctx, viewer, postID); err != nil {
		return false, 0, err
	}
	return s.posts.TogglePostLike(ctx, postID, viewer)
}

func (s *PostService) Comments(ctx context.Context, viewer, postID string) ([]*domain.Comment, error) {
	if _, err := s.Get(ctx, viewer, postID); err != nil {
		return nil, err
	}
	comments, err := s.posts.Comments(ctx, postID)
	if err != nil {
		return nil, err
	}
	domain.SortCommentsNewestFirst(comments)
	return comments, nil
}

func (s *PostService) AddComment(ctx context.Context, viewer, postID, text string) (*domain.Comment, error) {
	if _, err := s.Get(ctx, viewer, postID); err != nil {
		return nil, err
	}
	c, err := domain.NewComment(postID, viewer, text)
	if err != nil {
		return nil, err
	}
	if err := s.posts.SaveComment(ctx, c); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	return c, nil
}

func (s *PostService) ToggleCommentLike(ctx context.Context, viewer, postID, commentID string) (bool, int, error) {
	if _, err := s.Get(ctx, viewer, postID); err != nil {
		return false, 0, err
	}
	if _, err := s.posts.FindComment(ctx, postID, commentID); err != nil {
		return false, 0, err
	}
	return s.posts.ToggleCommentLike(ctx, commentID, viewer)
}

// owned charge un post et vérifie que viewer en est l'auteur.
// Un post invisible reste "introuvable", un post visible d'un autre est "interdit".
func (s *PostService) owned(ctx context.Context, viewer, postID string) (*domain.Post, error) {
	post, err := s.Get(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}
	if post.Author != viewer {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

func (s *PostService) relationship(ctx context.Context, viewer, author string) (domain.RelationshipState, error) {
	if viewer == "" || viewer == author {
		return relation.Resolve(viewer, author, relation.NewEdgeSet()), nil
	}
	edges, err := s.graph.EdgesBetween(ctx, viewer, author)
	if err != nil {
		return "", fmt.Errorf("load edges: %w", err)
	}
	return relation.Resolve(viewer, author, relation.NewEdgeSet(edges...)), nil
}
