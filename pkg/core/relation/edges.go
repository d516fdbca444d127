package relation

import (
	"slices"
	"strings"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

// EdgeFinder est tout ce dont Resolve a besoin : retrouver l'arête d'une paire ordonnée.
type EdgeFinder interface {
	Find(requester, target string) (domain.FollowEdge, bool)
}

type pairKey struct{ requester, target string }

// EdgeSet garde au plus une arête par paire ordonnée.
// Le zero value n'est pas utilisable, passer par NewEdgeSet.
type EdgeSet struct {
	edges map[pairKey]domain.FollowEdge
}

// NewEdgeSet indexe les arêtes. En cas de doublon sur une paire, la dernière gagne.
func NewEdgeSet(edges ...domain.FollowEdge) *EdgeSet {
	s := &EdgeSet{edges: make(map[pairKey]domain.FollowEdge, len(edges))}
	for _, e := range edges {
		s.edges[pairKey{e.Requester, e.Target}] = e
	}
	return s
}

// FromFollowLists reconstruit les arêtes ACCEPTED autour de viewer à partir
// de ses listes followers / followees.
func FromFollowLists(viewer string, followers, followees []string) *EdgeSet {
	s := NewEdgeSet()
	for _, f := range followers {
		s.put(domain.FollowEdge{Requester: f, Target: viewer, Status: domain.EdgeAccepted})
	}
	for _, f := range followees {
		s.put(domain.FollowEdge{Requester: viewer, Target: f, Status: domain.EdgeAccepted})
	}
	return s
}

func (s *EdgeSet) Find(requester, target string) (domain.FollowEdge, bool) {
	e, ok := s.edges[pairKey{requester, target}]
	return e, ok
}

func (s *EdgeSet) Len() int { return len(s.edges) }

// Edges retourne une copie triée (requester, target).
func (s *EdgeSet) Edges() []domain.FollowEdge {
	out := make([]domain.FollowEdge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b domain.FollowEdge) int {
		if c := strings.Compare(a.Requester, b.Requester); c != 0 {
			return c
		}
		return strings.Compare(a.Target, b.Target)
	})
	return out
}

func (s *EdgeSet) Clone() *EdgeSet {
	c := &EdgeSet{edges: make(map[pairKey]domain.FollowEdge, len(s.edges))}
	for k, e := range s.edges {
		c.edges[k] = e
	}
	return c
}

// Apply rejoue un Change déjà validé (ex: sur une copie locale côté client).
func (s *EdgeSet) Apply(c Change) {
	switch c.Kind {
	case ChangeCreated, ChangeAccepted:
		s.put(c.Edge)
	case ChangeDeleted:
		delete(s.edges, pairKey{c.Edge.Requester, c.Edge.Target})
	}
}

func (s *EdgeSet) put(e domain.FollowEdge) {
	s.edges[pairKey{e.Requester, e.Target}] = e
}
