package relation

import "github.com/Nishchay412/Social-Distribution/pkg/core/domain"

// Resolve calcule l'état de la relation vue par viewer envers subject.
// Fonction totale : aucune combinaison d'arêtes n'échoue.
// Un viewer anonyme ("") est toujours STRANGER.
func Resolve(viewer, subject string, edges EdgeFinder) domain.RelationshipState {
	if viewer == "" {
		return domain.StateStranger
	}
	if viewer == subject {
		return domain.StateSelf
	}

	out, hasOut := edges.Find(viewer, subject)
	in, hasIn := edges.Find(subject, viewer)
	outAccepted := hasOut && out.Status == domain.EdgeAccepted
	inAccepted := hasIn && in.Status == domain.EdgeAccepted

	switch {
	case outAccepted && inAccepted:
		return domain.StateFriend
	case outAccepted:
		return domain.StateFollowing
	case inAccepted:
		return domain.StateFollower
	case hasOut && out.Status == domain.EdgePending:
		return domain.StatePendingOutgoing
	case hasIn && in.Status == domain.EdgePending:
		return domain.StatePendingIncoming
	default:
		return domain.StateStranger
	}
}

// Action est le bouton unique affiché sur un profil pour un état donné.
type Action string

const (
	ActionEdit          Action = "EDIT"
	ActionFollow        Action = "FOLLOW"
	ActionCancelRequest Action = "CANCEL_REQUEST"
	ActionRespond       Action = "RESPOND"
	ActionUnfollow      Action = "UNFOLLOW"
)

// ActionFor : seul mapping état -> action, partagé par toutes les surfaces.
func ActionFor(state domain.RelationshipState) Action {
	switch state {
	case domain.StateSelf:
		return ActionEdit
	case domain.StateFriend, domain.StateFollowing:
		return ActionUnfollow
	case domain.StatePendingOutgoing:
		return ActionCancelRequest
	case domain.StatePendingIncoming:
		return ActionRespond
	default:
		return ActionFollow
	}
}
