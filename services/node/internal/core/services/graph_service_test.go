package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

func TestGraphService_FollowLifecycle(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	state := func(viewer, subject string) domain.RelationshipState {
		t.Helper()
		s, err := f.graphSvc.Relationship(ctx, viewer, subject)
		require.NoError(t, err)
		return s
	}

	assert.Equal(t, domain.StateStranger, state("alice", "bob"))

	require.NoError(t, f.graphSvc.SendFollowRequest(ctx, "alice", "bob"))
	assert.Equal(t, domain.StatePendingOutgoing, state("alice", "bob"))
	assert.Equal(t, domain.StatePendingIncoming, state("bob", "alice"))

	pending, err := f.graphSvc.PendingRequests(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "alice", pending[0].Requester)

	require.NoError(t, f.graphSvc.AcceptFollowRequest(ctx, "bob", "alice"))
	assert.Equal(t, domain.StateFollowing, state("alice", "bob"))
	assert.Equal(t, domain.StateFollower, state("bob", "alice"))

	require.NoError(t, f.graphSvc.SendFollowRequest(ctx, "bob", "alice"))
	require.NoError(t, f.graphSvc.AcceptFollowRequest(ctx, "alice", "bob"))
	assert.Equal(t, domain.StateFriend, state("alice", "bob"))
	assert.Equal(t, domain.StateFriend, state("bob", "alice"))

	friends, err := f.graphSvc.Friends(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, friends)

	require.NoError(t, f.graphSvc.Unfollow(ctx, "alice", "bob"))
	assert.Equal(t, domain.StateFollower, state("alice", "bob"))

	followers, err := f.graphSvc.Followers(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, followers)
	followees, err := f.graphSvc.Followees(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, followees)

	var subjects []string
	for _, e := range f.events.Events() {
		subjects = append(subjects, e.Subject)
	}
	assert.Equal(t, []string{
		"social.follow.created", "social.follow.accepted",
		"social.follow.created", "social.follow.accepted",
		"social.follow.deleted",
	}, subjects)
}

func TestGraphService_Preconditions(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	assert.ErrorIs(t, f.graphSvc.SendFollowRequest(ctx, "alice", "alice"), relation.ErrSelfFollowNotAllowed)
	assert.ErrorIs(t, f.graphSvc.CancelFollowRequest(ctx, "alice", "bob"), relation.ErrNoPendingRequest)
	assert.ErrorIs(t, f.graphSvc.AcceptFollowRequest(ctx, "bob", "alice"), relation.ErrNoPendingRequest)
	assert.ErrorIs(t, f.graphSvc.Unfollow(ctx, "alice", "bob"), relation.ErrNotFollowing)
	assert.ErrorIs(t, f.graphSvc.SendFollowRequest(ctx, "alice", "ghost"), domain.ErrUserNotFound)

	require.NoError(t, f.graphSvc.SendFollowRequest(ctx, "alice", "bob"))
	assert.ErrorIs(t, f.graphSvc.SendFollowRequest(ctx, "alice", "bob"), relation.ErrAlreadyRequested)

	require.NoError(t, f.graphSvc.DenyFollowRequest(ctx, "bob", "alice"))
	s, err := f.graphSvc.Relationship(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStranger, s)

	require.NoError(t, f.graphSvc.SendFollowRequest(ctx, "alice", "bob"))
	require.NoError(t, f.graphSvc.CancelFollowRequest(ctx, "alice", "bob"))
	events := f.events.Events()
	assert.Equal(t, "social.follow.deleted", events[len(events)-1].Subject)
}

func TestGraphService_PairInFlight(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	release, err := f.locker.Acquire(ctx, "bob", "alice")
	require.NoError(t, err)

	err = f.graphSvc.SendFollowRequest(ctx, "alice", "bob")
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	s, err := f.graphSvc.Relationship(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStranger, s, "rien ne doit être écrit")

	release(ctx)
	require.NoError(t, f.graphSvc.SendFollowRequest(ctx, "alice", "bob"))
}

func TestGraphService_AnonymousAndSelf(t *testing.T) {
	f := newFixture(t, "alice")
	ctx := context.Background()

	s, err := f.graphSvc.Relationship(ctx, "", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStranger, s)

	s, err = f.graphSvc.Relationship(ctx, "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StateSelf, s)

	_, err = f.graphSvc.Relationship(ctx, "alice", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
