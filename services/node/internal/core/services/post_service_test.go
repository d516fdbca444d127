package services

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

func TestPostService_DirectLookup(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.befriend(t, "alice", "bob")
	ctx := context.Background()

	f.post(t, "pub", "alice", domain.VisibilityPublic, 1)
	f.post(t, "unl", "alice", domain.VisibilityUnlisted, 2)
	f.post(t, "fri", "alice", domain.VisibilityFriends, 3)
	f.post(t, "prv", "alice", domain.VisibilityPrivate, 4)
	f.post(t, "dft", "alice", domain.VisibilityDraft, 5)

	cases := []struct {
		viewer  string
		visible []string
	}{
		{viewer: "alice", visible: []string{"pub", "unl", "fri", "prv", "dft"}},
		{viewer: "bob", visible: []string{"pub", "unl", "fri"}},
		{viewer: "carol", visible: []string{"pub", "unl"}},
		{viewer: "", visible: []string{"pub", "unl"}},
	}
	for _, tc := range cases {
		for _, id := range []string{"pub", "unl", "fri", "prv", "dft"} {
			_, err := f.postSvc.Get(ctx, tc.viewer, id)
			if slices.Contains(tc.visible, id) {
				assert.NoError(t, err, "viewer=%q post=%s", tc.viewer, id)
			} else {
				assert.ErrorIs(t, err, domain.ErrPostNotFound, "viewer=%q post=%s", tc.viewer, id)
			}
		}
	}
}

func TestPostService_CreateUpdateDelete(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	p, err := f.postSvc.Create(ctx, ports.CreatePostCmd{Author: "alice", Title: "brouillon", Visibility: domain.VisibilityDraft})
	require.NoError(t, err)
	assert.Empty(t, f.events.Events(), "un brouillon ne publie rien")

	public := domain.VisibilityPublic
	updated, err := f.postSvc.Update(ctx, ports.UpdatePostCmd{
		Viewer: "alice", PostID: p.ID, Patch: domain.PostPatch{Visibility: &public},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPublic, updated.Visibility)
	require.Len(t, f.events.Events(), 1)
	assert.Equal(t, "social.post.created", f.events.Events()[0].Subject)

	title := "volé"
	_, err = f.postSvc.Update(ctx, ports.UpdatePostCmd{Viewer: "bob", PostID: p.ID, Patch: domain.PostPatch{Title: &title}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.postSvc.Delete(ctx, "bob", p.ID), domain.ErrForbidden)

	empty := ""
	_, err = f.postSvc.Update(ctx, ports.UpdatePostCmd{
		Viewer: "alice", PostID: p.ID, Patch: domain.PostPatch{Title: &empty, Content: &empty},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyPost)

	require.NoError(t, f.postSvc.Delete(ctx, "alice", p.ID))
	_, err = f.postSvc.Get(ctx, "alice", p.ID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.Equal(t, "social.post.deleted", f.events.Events()[1].Subject)
}

func TestPostService_HiddenPostIsNotFoundForMutations(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()
	f.post(t, "prv", "alice", domain.VisibilityPrivate, 1)

	assert.ErrorIs(t, f.postSvc.Delete(ctx, "bob", "prv"), domain.ErrPostNotFound)
	_, _, err := f.postSvc.ToggleLike(ctx, "bob", "prv")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	_, err = f.postSvc.AddComment(ctx, "bob", "prv", "salut")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestPostService_LikesAndComments(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()
	f.post(t, "pub", "alice", domain.VisibilityPublic, 1)

	liked, count, err := f.postSvc.ToggleLike(ctx, "bob", "pub")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	liked, count, err = f.postSvc.ToggleLike(ctx, "bob", "pub")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	_, err = f.postSvc.AddComment(ctx, "bob", "pub", "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyComment)

	c, err := f.postSvc.AddComment(ctx, "bob", "pub", "joli")
	require.NoError(t, err)

	comments, err := f.postSvc.Comments(ctx, "", "pub")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "joli", comments[0].Text)

	liked, count, err = f.postSvc.ToggleCommentLike(ctx, "alice", "pub", c.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	_, _, err = f.postSvc.ToggleCommentLike(ctx, "alice", "pub", "nope")
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
}
