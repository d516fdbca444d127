// Package api définit le contrat JSON entre le node et ses clients.
package api

import "time"

// Codes d'erreur portés par ErrorResponse.Code.
const (
	CodeSelfFollowNotAllowed = "SELF_FOLLOW_NOT_ALLOWED"
	CodeAlreadyRequested     = "ALREADY_REQUESTED"
	CodeNoPendingRequest     = "NO_PENDING_REQUEST"
	CodeNotFollowing         = "NOT_FOLLOWING"
	CodeRequestInFlight      = "REQUEST_IN_FLIGHT"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeForbidden            = "FORBIDDEN"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeConflict             = "CONFLICT"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternal             = "INTERNAL"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RelationshipResponse : un seul champ, toujours "relation".
type RelationshipResponse struct {
	Relation string `json:"relation"`
}

// Page est l'enveloppe de toutes les listes.
type Page[T any] struct {
	Results []T    `json:"results"`
	Next    string `json:"next"`
}

// --- IDENTITY ---

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type TokenResponse struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresIn int64  `json:"expires_in"` // secondes
	User      *User  `json:"user,omitempty"`
}

type User struct {
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email,omitempty"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	ProfileImage *string `json:"profile_image"`
}

// --- GRAPH ---

type FollowRequest struct {
	Requester string    `json:"requester"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRef struct {
	Username string `json:"username"`
}

// --- POSTS ---

type Post struct {
	ID         string    `json:"id"`
	Author     string    `json:"author_username"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	Visibility string    `json:"visibility"`
	LikeCount  int       `json:"like_count"`
	Liked      bool      `json:"liked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title      string `json:"title" binding:"max=255"`
	Content    string `json:"content"`
	Image      string `json:"image"`
	Visibility string `json:"visibility" binding:"omitempty,visibility"`
}

// ReplacePostRequest : PUT, tous les champs.
type ReplacePostRequest struct {
	Title      string `json:"title" binding:"max=255"`
	Content    string `json:"content"`
	Image      string `json:"image"`
	Visibility string `json:"visibility" binding:"required,visibility"`
}

// PatchPostRequest : PATCH, nil = inchangé.
type PatchPostRequest struct {
	Title      *string `json:"title" binding:"omitempty,max=255"`
	Content    *string `json:"content"`
	Image      *string `json:"image"`
	Visibility *string `json:"visibility" binding:"omitempty,visibility"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Author    string    `json:"author_username"`
	Text      string    `json:"text"`
	LikeCount int       `json:"like_count"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
