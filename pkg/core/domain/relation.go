package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRelationship = errors.New("invalid relationship state")
	// ErrRequestInFlight : une mutation pour la même paire est déjà en cours.
	ErrRequestInFlight = errors.New("a request for this pair is already in flight")
)

// EdgeStatus est l'état d'une arête requester -> target.
type EdgeStatus string

const (
	EdgePending  EdgeStatus = "PENDING"
	EdgeAccepted EdgeStatus = "ACCEPTED"
)

// FollowEdge : au plus une par paire ordonnée (Requester, Target).
// ACCEPTED signifie que Requester suit Target.
type FollowEdge struct {
	Requester string
	Target    string
	Status    EdgeStatus
	CreatedAt time.Time
}

// RelationshipState est dérivé des arêtes, jamais stocké.
type RelationshipState string

const (
	StateSelf            RelationshipState = "SELF"
	StateStranger        RelationshipState = "STRANGER"
	StatePendingOutgoing RelationshipState = "PENDING_OUTGOING"
	StatePendingIncoming RelationshipState = "PENDING_INCOMING"
	StateFollowing       RelationshipState = "FOLLOWING"
	StateFollower        RelationshipState = "FOLLOWER"
	StateFriend          RelationshipState = "FRIEND"
)

var relationshipStates = map[string]RelationshipState{
	string(StateSelf):            StateSelf,
	string(StateStranger):        StateStranger,
	string(StatePendingOutgoing): StatePendingOutgoing,
	string(StatePendingIncoming): StatePendingIncoming,
	string(StateFollowing):       StateFollowing,
	string(StateFollower):        StateFollower,
	string(StateFriend):          StateFriend,
}

// ParseRelationshipState n'accepte que les littéraux canoniques.
// Les anciennes variantes ("YOURSELF", "FOLLOWEE", "NOBODY"...) sont rejetées.
func ParseRelationshipState(s string) (RelationshipState, error) {
	if st, ok := relationshipStates[s]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRelationship, s)
}

func (s RelationshipState) String() string { return string(s) }
