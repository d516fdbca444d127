package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrInvalidVisibility = errors.New("invalid visibility")
	ErrEmptyPost         = errors.New("post must have a title or content")
	ErrEmptyComment      = errors.New("comment text is required")
	ErrForbidden         = errors.New("only the author can modify this resource")
)

// Visibility d'un post. Ne change pas son identité, seulement son éligibilité.
type Visibility string

const (
	VisibilityPublic   Visibility = "PUBLIC"
	VisibilityUnlisted Visibility = "UNLISTED"
	VisibilityFriends  Visibility = "FRIENDS"
	VisibilityPrivate  Visibility = "PRIVATE"
	VisibilityDraft    Visibility = "DRAFT"
)

// Visibilities liste les 5 niveaux dans l'ordre canonique.
var Visibilities = []Visibility{
	VisibilityPublic, VisibilityUnlisted, VisibilityFriends, VisibilityPrivate, VisibilityDraft,
}

func ParseVisibility(s string) (Visibility, error) {
	v := Visibility(s)
	if v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVisibility, s)
}

func (v Visibility) Valid() bool {
	return slices.Contains(Visibilities, v)
}

// --- LIKES ---

// LikeSet : un like par utilisateur.
type LikeSet map[string]struct{}

func NewLikeSet(usernames ...string) LikeSet {
	s := make(LikeSet, len(usernames))
	for _, u := range usernames {
		s[u] = struct{}{}
	}
	return s
}

// Toggle inverse le like de username et retourne le nouvel état.
func (s LikeSet) Toggle(username string) bool {
	if _, ok := s[username]; ok {
		delete(s, username)
		return false
	}
	s[username] = struct{}{}
	return true
}

func (s LikeSet) Has(username string) bool {
	_, ok := s[username]
	return ok
}

func (s LikeSet) Count() int { return len(s) }

// Usernames retourne les likers triés.
func (s LikeSet) Usernames() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}

// --- POST ---

type Post struct {
	ID         string
	Author     string
	Title      string
	Content    string
	Image      string
	Visibility Visibility
	Likes      LikeSet
	Comments   []*Comment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPost crée un post. Une visibilité vide vaut PUBLIC.
func NewPost(author, title, content, image string, visibility Visibility) (*Post, error) {
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVisibility, visibility)
	}
	title = strings.TrimSpace(title)
	if title == "" && strings.TrimSpace(content) == "" {
		return nil, ErrEmptyPost
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	return &Post{
		ID:         uuid.NewString(),
		Author:     author,
		Title:      title,
		Content:    content,
		Image:      strings.TrimSpace(image),
		Visibility: visibility,
		Likes:      NewLikeSet(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// PostPatch : nil = pas de changement.
type PostPatch struct {
	Title      *string
	Content    *string
	Image      *string
	Visibility *Visibility
}

// Edit applique une modification de l'auteur.
func (p *Post) Edit(patch PostPatch) error {
	if patch.Visibility != nil && !patch.Visibility.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidVisibility, *patch.Visibility)
	}

	next := *p
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		next.Content = *patch.Content
	}
	if patch.Image != nil {
		next.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.Visibility != nil {
		next.Visibility = *patch.Visibility
	}
	if next.Title == "" && strings.TrimSpace(next.Content) == "" {
		return ErrEmptyPost
	}

	next.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	*p = next
	return nil
}

// ToggleLike est idempotent par paire (post, user) : deux appels reviennent à l'état initial.
func (p *Post) ToggleLike(username string) bool {
	if p.Likes == nil {
		p.Likes = NewLikeSet()
	}
	return p.Likes.Toggle(username)
}

// --- COMMENT ---

// Comment appartient à son post (durée de vie <= celle du post).
type Comment struct {
	ID        string
	PostID    string
	Author    string
	Text      string
	Likes     LikeSet
	CreatedAt time.Time
}

func NewComment(postID, author, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	return &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		Author:    author,
		Text:      text,
		Likes:     NewLikeSet(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}, nil
}

func (c *Comment) ToggleLike(username string) bool {
	if c.Likes == nil {
		c.Likes = NewLikeSet()
	}
	return c.Likes.Toggle(username)
}

// SortCommentsNewestFirst trie en place (plus récent d'abord, puis id).
func SortCommentsNewestFirst(comments []*Comment) {
	slices.SortStableFunc(comments, func(a, b *Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
