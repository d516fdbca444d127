package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

func TestSendFollowRequest(t *testing.T) {
	s := NewEdgeSet()

	c, err := SendFollowRequest(s, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, ChangeCreated, c.Kind)
	assert.Equal(t, edge("a", "b", domain.EdgePending), c.Edge)

	// Deuxième envoi : erreur, toujours une seule arête PENDING.
	_, err = SendFollowRequest(s, "a", "b")
	assert.ErrorIs(t, err, ErrAlreadyRequested)
	assert.Equal(t, []domain.FollowEdge{edge("a", "b", domain.EdgePending)}, s.Edges())
}

func TestSendFollowRequest_AlreadyFollowing(t *testing.T) {
	s := NewEdgeSet(edge("a", "b", domain.EdgeAccepted))
	_, err := SendFollowRequest(s, "a", "b")
	assert.ErrorIs(t, err, ErrAlreadyRequested)
}

func TestSendFollowRequest_Self(t *testing.T) {
	s := NewEdgeSet()
	_, err := SendFollowRequest(s, "a", "a")
	assert.ErrorIs(t, err, ErrSelfFollowNotAllowed)
	assert.Zero(t, s.Len())
}

func TestSendThenCancel_RestoresEdgeSet(t *testing.T) {
	initial := NewEdgeSet(edge("b", "a", domain.EdgeAccepted), edge("c", "a", domain.EdgePending))
	s := initial.Clone()

	_, err := SendFollowRequest(s, "a", "b")
	require.NoError(t, err)
	c, err := CancelFollowRequest(s, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, ChangeDeleted, c.Kind)
	assert.Equal(t, initial.Edges(), s.Edges())
}

func TestCancelFollowRequest_Preconditions(t *testing.T) {
	_, err := CancelFollowRequest(NewEdgeSet(), "a", "b")
	assert.ErrorIs(t, err, ErrNoPendingRequest)

	_, err = CancelFollowRequest(NewEdgeSet(edge("a", "b", domain.EdgeAccepted)), "a", "b")
	assert.ErrorIs(t, err, ErrNoPendingRequest)

	// L'arête entrante ne compte pas.
	_, err = CancelFollowRequest(NewEdgeSet(edge("b", "a", domain.EdgePending)), "a", "b")
	assert.ErrorIs(t, err, ErrNoPendingRequest)
}

func TestAcceptFollowRequest(t *testing.T) {
	s := NewEdgeSet(edge("a", "b", domain.EdgePending))

	c, err := AcceptFollowRequest(s, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, ChangeAccepted, c.Kind)
	assert.Equal(t, domain.EdgeAccepted, c.Edge.Status)

	assert.Equal(t, domain.StateFollowing, Resolve("a", "b", s))
	assert.Equal(t, domain.StateFollower, Resolve("b", "a", s))

	_, err = AcceptFollowRequest(s, "b", "a")
	assert.ErrorIs(t, err, ErrNoPendingRequest)
}

func TestDenyFollowRequest(t *testing.T) {
	s := NewEdgeSet(edge("a", "b", domain.EdgePending))

	_, err := DenyFollowRequest(s, "a", "b")
	assert.ErrorIs(t, err, ErrNoPendingRequest, "only the target can deny")

	c, err := DenyFollowRequest(s, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, ChangeDeleted, c.Kind)
	assert.Zero(t, s.Len())
	assert.Equal(t, domain.StateStranger, Resolve("a", "b", s))

	_, err = DenyFollowRequest(s, "b", "a")
	assert.ErrorIs(t, err, ErrNoPendingRequest)
}

func TestUnfollow(t *testing.T) {
	s := NewEdgeSet(edge("a", "b", domain.EdgeAccepted), edge("b", "a", domain.EdgeAccepted))
	require.Equal(t, domain.StateFriend, Resolve("a", "b", s))

	_, err := Unfollow(s, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, domain.StateFollower, Resolve("a", "b", s))
	assert.Equal(t, domain.StateFollowing, Resolve("b", "a", s))

	_, err = Unfollow(s, "a", "b")
	assert.ErrorIs(t, err, ErrNotFollowing)

	_, err = Unfollow(NewEdgeSet(edge("a", "b", domain.EdgePending)), "a", "b")
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestFriendshipScenario(t *testing.T) {
	s := NewEdgeSet()

	_, err := SendFollowRequest(s, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePendingOutgoing, Resolve("A", "B", s))
	assert.Equal(t, domain.StatePendingIncoming, Resolve("B", "A", s))

	_, err = AcceptFollowRequest(s, "B", "A")
	require.NoError(t, err)
	assert.Equal(t, domain.StateFollowing, Resolve("A", "B", s))
	assert.Equal(t, domain.StateFollower, Resolve("B", "A", s))

	// Demande réciproque puis acceptation -> FRIEND des deux côtés.
	_, err = SendFollowRequest(s, "B", "A")
	require.NoError(t, err)
	_, err = AcceptFollowRequest(s, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, domain.StateFriend, Resolve("A", "B", s))
	assert.Equal(t, domain.StateFriend, Resolve("B", "A", s))
}

func TestIsPrecondition(t *testing.T) {
	for _, err := range []error{ErrAlreadyRequested, ErrNoPendingRequest, ErrNotFollowing, ErrSelfFollowNotAllowed} {
		assert.True(t, IsPrecondition(err))
	}
	assert.False(t, IsPrecondition(domain.ErrUserNotFound))
	assert.False(t, IsPrecondition(nil))
}

func TestEdgeSet_Apply(t *testing.T) {
	server := NewEdgeSet()
	c, err := SendFollowRequest(server, "a", "b")
	require.NoError(t, err)

	local := NewEdgeSet()
	local.Apply(c)
	assert.Equal(t, server.Edges(), local.Edges())
}
