package api

import (
	"fmt"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

// FromUser n'expose l'email qu'à son propriétaire.
func FromUser(u *domain.User, viewer string) User {
	out := User{
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
	if viewer == u.Username {
		out.Email = u.Email
	}
	return out
}

func FromPost(p *domain.Post, viewer string) Post {
	return Post{
		ID:         p.ID,
		Author:     p.Author,
		Title:      p.Title,
		Content:    p.Content,
		Image:      p.Image,
		Visibility: string(p.Visibility),
		LikeCount:  p.Likes.Count(),
		Liked:      viewer != "" && p.Likes.Has(viewer),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func FromPosts(posts []*domain.Post, viewer string) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, FromPost(p, viewer))
	}
	return out
}

// ToDomain valide la visibilité reçue : une valeur inconnue est une erreur.
// Les likes ne sont pas transportés, seul le compteur l'est.
func (p Post) ToDomain() (*domain.Post, error) {
	v, err := domain.ParseVisibility(p.Visibility)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", p.ID, err)
	}
	if p.ID == "" || p.Author == "" {
		return nil, fmt.Errorf("post payload missing id or author")
	}
	return &domain.Post{
		ID:         p.ID,
		Author:     p.Author,
		Title:      p.Title,
		Content:    p.Content,
		Image:      p.Image,
		Visibility: v,
		Likes:      domain.NewLikeSet(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}, nil
}

func FromComment(c *domain.Comment, viewer string) Comment {
	return Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    c.Author,
		Text:      c.Text,
		LikeCount: c.Likes.Count(),
		Liked:     viewer != "" && c.Likes.Has(viewer),
		CreatedAt: c.CreatedAt,
	}
}
