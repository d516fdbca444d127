package relation

import (
	"errors"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

// Erreurs de précondition : jamais fatales, toujours distinguables.
var (
	ErrAlreadyRequested     = errors.New("follow request already sent")
	ErrNoPendingRequest     = errors.New("no pending follow request")
	ErrNotFollowing         = errors.New("not following this user")
	ErrSelfFollowNotAllowed = errors.New("cannot follow yourself")
)

// IsPrecondition indique une violation de précondition sur les arêtes.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrAlreadyRequested) ||
		errors.Is(err, ErrNoPendingRequest) ||
		errors.Is(err, ErrNotFollowing) ||
		errors.Is(err, ErrSelfFollowNotAllowed)
}

type ChangeKind int

const (
	ChangeCreated ChangeKind = iota + 1
	ChangeAccepted
	ChangeDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeAccepted:
		return "accepted"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change décrit exactement la transition validée, pour que l'adapter de stockage
// persiste ce que la fonction pure a accepté et rien d'autre.
type Change struct {
	Kind ChangeKind
	Edge domain.FollowEdge
}

// SendFollowRequest : NONE -> PENDING.
func SendFollowRequest(s *EdgeSet, requester, target string) (Change, error) {
	if requester == target {
		return Change{}, ErrSelfFollowNotAllowed
	}
	if _, ok := s.Find(requester, target); ok {
		return Change{}, ErrAlreadyRequested
	}
	c := Change{
		Kind: ChangeCreated,
		Edge: domain.FollowEdge{Requester: requester, Target: target, Status: domain.EdgePending},
	}
	s.Apply(c)
	return c, nil
}

// CancelFollowRequest : PENDING -> NONE, côté requester.
func CancelFollowRequest(s *EdgeSet, requester, target string) (Change, error) {
	e, ok := s.Find(requester, target)
	if !ok || e.Status != domain.EdgePending {
		return Change{}, ErrNoPendingRequest
	}
	c := Change{Kind: ChangeDeleted, Edge: e}
	s.Apply(c)
	return c, nil
}

// AcceptFollowRequest : PENDING -> ACCEPTED, côté target.
func AcceptFollowRequest(s *EdgeSet, target, requester string) (Change, error) {
	e, ok := s.Find(requester, target)
	if !ok || e.Status != domain.EdgePending {
		return Change{}, ErrNoPendingRequest
	}
	e.Status = domain.EdgeAccepted
	c := Change{Kind: ChangeAccepted, Edge: e}
	s.Apply(c)
	return c, nil
}

// DenyFollowRequest : PENDING -> NONE, côté target.
func DenyFollowRequest(s *EdgeSet, target, requester string) (Change, error) {
	e, ok := s.Find(requester, target)
	if !ok || e.Status != domain.EdgePending {
		return Change{}, ErrNoPendingRequest
	}
	c := Change{Kind: ChangeDeleted, Edge: e}
	s.Apply(c)
	return c, nil
}

// Unfollow : ACCEPTED -> NONE. Peut faire redescendre FRIEND en FOLLOWER.
func Unfollow(s *EdgeSet, follower, followee string) (Change, error) {
	e, ok := s.Find(follower, followee)
	if !ok || e.Status != domain.EdgeAccepted {
		return Change{}, ErrNotFollowing
	}
	c := Change{Kind: ChangeDeleted, Edge: e}
	s.Apply(c)
	return c, nil
}
