// Package visibility décide si un post est montré à un viewer.
//
// Deux points d'entrée : la découverte (feeds) et l'accès direct par id.
// Ils ne diffèrent que pour UNLISTED.
package visibility

import "github.com/Nishchay412/Social-Distribution/pkg/core/domain"

// IsVisibleInFeed : éligibilité dans un feed ou une liste de découverte.
func IsVisibleInFeed(post *domain.Post, viewer string, rel domain.RelationshipState) bool {
	return isVisible(post, viewer, rel, false)
}

// IsVisibleByDirectLookup : éligibilité pour un fetch par id.
func IsVisibleByDirectLookup(post *domain.Post, viewer string, rel domain.RelationshipState) bool {
	return isVisible(post, viewer, rel, true)
}

// Règles évaluées dans l'ordre, la première qui matche gagne.
func isVisible(post *domain.Post, viewer string, rel domain.RelationshipState, direct bool) bool {
	if viewer != "" && viewer == post.Author {
		return true
	}
	switch post.Visibility {
	case domain.VisibilityDraft:
		return false
	case domain.VisibilityPublic:
		return true
	case domain.VisibilityUnlisted:
		return direct
	case domain.VisibilityFriends:
		return rel == domain.StateFriend
	default:
		// PRIVATE, ou valeur inconnue
		return false
	}
}

// AllowedInFeed retourne les niveaux qu'un viewer peut voir dans la liste
// des posts d'un auteur, selon leur relation. Utile pour filtrer en base.
func AllowedInFeed(viewer, author string, rel domain.RelationshipState) []domain.Visibility {
	var out []domain.Visibility
	for _, v := range domain.Visibilities {
		if IsVisibleInFeed(&domain.Post{Author: author, Visibility: v}, viewer, rel) {
			out = append(out, v)
		}
	}
	return out
}
