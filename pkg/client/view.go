package client

import (
	"context"
	"errors"
	"sync"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

var ErrViewClosed = errors.New("relationship view closed")

// RelationshipView modélise un écran de profil : l'état affiché n'est mis à jour
// que tant que la vue est ouverte. Close (navigation ailleurs) annule les appels
// en cours et leurs résultats sont jetés.
type RelationshipView struct {
	client  *Client
	sess    *Session
	subject string

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  domain.RelationshipState
	loaded bool
	closed bool
}

func (c *Client) NewRelationshipView(sess *Session, subject string) *RelationshipView {
	ctx, cancel := context.WithCancel(context.Background())
	return &RelationshipView{client: c, sess: sess, subject: subject, ctx: ctx, cancel: cancel}
}

// State retourne le dernier état appliqué (false tant que rien n'est chargé).
func (v *RelationshipView) State() (domain.RelationshipState, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, v.loaded
}

// Action : le bouton à afficher pour l'état courant.
func (v *RelationshipView) Action() relation.Action {
	st, ok := v.State()
	if !ok {
		return relation.ActionFollow
	}
	return relation.ActionFor(st)
}

// Refresh relit l'état depuis le serveur, seule source de vérité.
func (v *RelationshipView) Refresh(ctx context.Context) (domain.RelationshipState, error) {
	if v.isClosed() {
		return "", ErrViewClosed
	}
	ctx, stop := v.bind(ctx)
	defer stop()

	st, err := v.client.GetRelationship(ctx, v.sess, v.subject)
	if err != nil {
		if v.isClosed() {
			return "", ErrViewClosed
		}
		return "", err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return "", ErrViewClosed
	}
	v.state, v.loaded = st, true
	return st, nil
}

// Follow, Cancel, Accept, Deny, Unfollow : mutation puis relecture de l'état.
func (v *RelationshipView) Follow(ctx context.Context) (domain.RelationshipState, error) {
	return v.run(ctx, v.client.SendFollowRequest)
}

func (v *RelationshipView) Cancel(ctx context.Context) (domain.RelationshipState, error) {
	return v.run(ctx, v.client.CancelFollowRequest)
}

func (v *RelationshipView) Accept(ctx context.Context) (domain.RelationshipState, error) {
	return v.run(ctx, v.client.AcceptFollowRequest)
}

func (v *RelationshipView) Deny(ctx context.Context) (domain.RelationshipState, error) {
	return v.run(ctx, v.client.DenyFollowRequest)
}

func (v *RelationshipView) Unfollow(ctx context.Context) (domain.RelationshipState, error) {
	return v.run(ctx, v.client.Unfollow)
}

// Close est idempotent.
func (v *RelationshipView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
}

func (v *RelationshipView) run(ctx context.Context, op func(context.Context, *Session, string) error) (domain.RelationshipState, error) {
	if v.isClosed() {
		return "", ErrViewClosed
	}
	bound, stop := v.bind(ctx)
	err := op(bound, v.sess, v.subject)
	stop()
	if v.isClosed() {
		return "", ErrViewClosed
	}
	if err != nil {
		return "", err
	}
	return v.Refresh(ctx)
}

// bind dérive un contexte annulé soit par l'appelant soit par Close.
func (v *RelationshipView) bind(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(v.ctx, cancel)
	return ctx, func() {
		stopAfter()
		cancel()
	}
}

func (v *RelationshipView) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
