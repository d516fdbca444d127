package ports

import (
	"context"
	"time"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
)

// --- INPUTS (Command Pattern) ---

type RegisterCmd struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginCmd struct {
	Username string
	Password string
	IP       string // pour les logs
}

type UpdateProfileCmd struct {
	Username     string
	DisplayName  *string // nil = pas de changement
	Email        *string
	ProfileImage *string
}

type CreatePostCmd struct {
	Author     string
	Title      string
	Content    string
	Image      string
	Visibility domain.Visibility
}

// UpdatePostCmd : Viewer doit être l'auteur.
type UpdatePostCmd struct {
	Viewer string
	PostID string
	Patch  domain.PostPatch
}

type FeedQuery struct {
	Viewer string // "" = anonyme
	Kind   feed.Kind
	Cursor feed.Cursor
	Limit  int
}

// --- OUTPUTS ---

type AuthResponse struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// UserPage : Next est le dernier username de la page, "" à la fin.
type UserPage struct {
	Users []*domain.User
	Next  string
}

type FeedPage struct {
	Posts []*domain.Post
	Next  feed.Cursor
}

// --- PORTS PRIMAIRES (Driving) ---

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	// ValidateToken retourne le username porté par un access token valide.
	ValidateToken(ctx context.Context, token string) (string, error)

	GetUser(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCmd) (*domain.User, error)
	// ListUsers : annuaire des auteurs, sans le viewer.
	ListUsers(ctx context.Context, viewer, after string, limit int) (*UserPage, error)
}

// GraphService : relations entre utilisateurs. Toutes les mutations passent
// par les transitions pures du package relation.
type GraphService interface {
	Relationship(ctx context.Context, viewer, subject string) (domain.RelationshipState, error)

	SendFollowRequest(ctx context.Context, requester, target string) error
	CancelFollowRequest(ctx context.Context, requester, target string) error
	AcceptFollowRequest(ctx context.Context, target, requester string) error
	DenyFollowRequest(ctx context.Context, target, requester string) error
	Unfollow(ctx context.Context, follower, followee string) error

	Followers(ctx context.Context, username string) ([]string, error)
	Followees(ctx context.Context, username string) ([]string, error)
	Friends(ctx context.Context, username string) ([]string, error)
	PendingRequests(ctx context.Context, username string) ([]domain.FollowEdge, error)
}

type PostService interface {
	Create(ctx context.Context, cmd CreatePostCmd) (*domain.Post, error)
	// Get applique la règle d'accès direct : un post invisible est introuvable.
	Get(ctx context.Context, viewer, postID string) (*domain.Post, error)
	Update(ctx context.Context, cmd UpdatePostCmd) (*domain.Post, error)
	Delete(ctx context.Context, viewer, postID string) error

	ToggleLike(ctx context.Context, viewer, postID string) (liked bool, count int, err error)
	Comments(ctx context.Context, viewer, postID string) ([]*domain.Comment, error)
	AddComment(ctx context.Context, viewer, postID, text string) (*domain.Comment, error)
	ToggleCommentLike(ctx context.Context, viewer, postID, commentID string) (liked bool, count int, err error)
}

type FeedService interface {
	Feed(ctx context.Context, q FeedQuery) (*FeedPage, error)
	Drafts(ctx context.Context, viewer string, cursor feed.Cursor, limit int) (*FeedPage, error)
	AuthorPosts(ctx context.Context, viewer, author string, cursor feed.Cursor, limit int) (*FeedPage, error)
}
