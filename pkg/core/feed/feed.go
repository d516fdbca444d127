package feed

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/visibility"
)

var ErrInvalidKind = errors.New("invalid feed kind")

// Kind sélectionne les clauses du feed.
type Kind string

const (
	KindPublic   Kind = "PUBLIC"
	KindFriends  Kind = "FRIENDS"
	KindOwn      Kind = "OWN"
	KindCombined Kind = "COMBINED"
)

// ParseKind accepte la forme canonique ou minuscule ("combined").
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindPublic, KindFriends, KindOwn, KindCombined:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// RelationshipLookup fournit l'état viewer -> author. Doit être pur sur la durée d'un Build.
type RelationshipLookup func(viewer, author string) domain.RelationshipState

// Build compose le feed demandé.
//
// La séquence est paresseuse et redémarrable : chaque range refiltre et retrie
// les candidats, rien n'est mis en cache entre deux parcours.
func Build(kind Kind, viewer string, candidates []*domain.Post, lookup RelationshipLookup) iter.Seq[*domain.Post] {
	return func(yield func(*domain.Post) bool) {
		rels := make(map[string]domain.RelationshipState)
		relOf := func(author string) domain.RelationshipState {
			if viewer == "" {
				return domain.StateStranger
			}
			if st, ok := rels[author]; ok {
				return st
			}
			st := lookup(viewer, author)
			rels[author] = st
			return st
		}

		seen := make(map[string]struct{}, len(candidates))
		selected := make([]*domain.Post, 0, len(candidates))
		for _, p := range candidates {
			if p == nil {
				continue
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			if !matches(kind, viewer, p, relOf) {
				continue
			}
			seen[p.ID] = struct{}{}
			selected = append(selected, p)
		}

		slices.SortStableFunc(selected, Compare)
		for _, p := range selected {
			if !yield(p) {
				return
			}
		}
	}
}

func matches(kind Kind, viewer string, p *domain.Post, relOf func(string) domain.RelationshipState) bool {
	switch kind {
	case KindPublic:
		return isPublic(p)
	case KindFriends:
		return isFriendsPost(viewer, p, relOf)
	case KindOwn:
		return isOwn(viewer, p)
	case KindCombined:
		return isPublic(p) || isFriendsPost(viewer, p, relOf) || isOwn(viewer, p)
	default:
		return false
	}
}

func isPublic(p *domain.Post) bool {
	return p.Visibility == domain.VisibilityPublic
}

func isOwn(viewer string, p *domain.Post) bool {
	return viewer != "" && p.Author == viewer
}

func isFriendsPost(viewer string, p *domain.Post, relOf func(string) domain.RelationshipState) bool {
	if viewer == "" || p.Author == viewer {
		return false
	}
	rel := relOf(p.Author)
	return rel == domain.StateFriend && visibility.IsVisibleInFeed(p, viewer, rel)
}

// Compare définit l'ordre du feed : CreatedAt décroissant, puis id croissant.
func Compare(a, b *domain.Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
