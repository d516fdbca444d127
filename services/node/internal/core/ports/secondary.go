package ports

import (
	"context"
	"time"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

// --- PERSISTANCE ---

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// List : usernames strictement après after, ordre octet croissant, sans exclude.
	List(ctx context.Context, exclude, after string, limit int) ([]*domain.User, error)
}

// GraphRepository stocke les FollowEdge (Neo4j).
type GraphRepository interface {
	// EdgesBetween retourne les 0 à 2 arêtes entre a et b, dans les deux sens.
	EdgesBetween(ctx context.Context, a, b string) ([]domain.FollowEdge, error)
	// ApplyChange persiste une transition validée par le package relation.
	ApplyChange(ctx context.Context, change relation.Change) error

	Followers(ctx context.Context, username string) ([]string, error)
	Followees(ctx context.Context, username string) ([]string, error)
	IncomingRequests(ctx context.Context, username string) ([]domain.FollowEdge, error)
}

// PostFilter : les clauses non vides sont combinées en OU, puis le curseur et la limite s'appliquent.
type PostFilter struct {
	IncludePublic bool     // visibility = PUBLIC, tout auteur
	FriendAuthors []string // visibility PUBLIC ou FRIENDS
	Owner         string   // tous les posts de Owner

	Author       string // posts de Author limités à Visibilities
	Visibilities []domain.Visibility

	After feed.Cursor
	Limit int
}

func (f PostFilter) IsEmpty() bool {
	return !f.IncludePublic && len(f.FriendAuthors) == 0 && f.Owner == "" &&
		(f.Author == "" || len(f.Visibilities) == 0)
}

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	// List retourne les posts dans l'ordre du feed (created_at DESC, id ASC).
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, error)

	// TogglePostLike est atomique côté stockage.
	TogglePostLike(ctx context.Context, postID, username string) (liked bool, count int, err error)

	SaveComment(ctx context.Context, c *domain.Comment) error
	FindComment(ctx context.Context, postID, commentID string) (*domain.Comment, error)
	// Comments : plus récent d'abord.
	Comments(ctx context.Context, postID string) ([]*domain.Comment, error)
	ToggleCommentLike(ctx context.Context, commentID, username string) (liked bool, count int, err error)
}

// --- CONCURRENCE ---

// PairLocker sérialise les mutations sur une paire d'utilisateurs.
// Acquire échoue avec domain.ErrRequestInFlight si la paire est déjà prise.
type PairLocker interface {
	Acquire(ctx context.Context, a, b string) (release func(context.Context), err error)
}

// --- MESSAGERIE ---

type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishFollowChanged(ctx context.Context, change relation.Change) error
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, postID, author string) error
}

// --- SÉCURITÉ ---

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenProvider interface {
	GenerateTokens(user *domain.User) (access string, refresh string, err error)
	// Validate n'accepte que les access tokens.
	Validate(token string) (username string, err error)
	ValidateRefresh(token string) (username string, err error)
	AccessTTL() time.Duration
}
