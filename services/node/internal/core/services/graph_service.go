package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

// GraphService implémente ports.GraphService.
//
// Chaque mutation : verrou sur la paire, lecture des deux arêtes, transition pure,
// persistance du Change retourné, puis événement. Le verrou empêche deux requêtes
// concurrentes de passer toutes les deux la précondition.
type GraphService struct {
	users  ports.UserRepository
	graph  ports.GraphRepository
	locker ports.PairLocker
	broker ports.EventPublisher
}

func NewGraphService(
	users ports.UserRepository,
	graph ports.GraphRepository,
	locker ports.PairLocker,
	broker ports.EventPublisher,
) *GraphService {
	return &GraphService{users: users, graph: graph, locker: locker, broker: broker}
}

func (s *GraphService) Relationship(ctx context.Context, viewer, subject string) (domain.RelationshipState, error) {
	if err := s.ensureUser(ctx, subject); err != nil {
		return "", err
	}
	if viewer == "" || viewer == subject {
		return relation.Resolve(viewer, subject, relation.NewEdgeSet()), nil
	}
	edges, err := s.graph.EdgesBetween(ctx, viewer, subject)
	if err != nil {
		return "", fmt.Errorf("load edges: %w", err)
	}
	return relation.Resolve(viewer, subject, relation.NewEdgeSet(edges...)), nil
}

func (s *GraphService) SendFollowRequest(ctx context.Context, requester, target string) error {
	return s.mutate(ctx, "send", requester, target, func(set *relation.EdgeSet) (relation.Change, error) {
		return relation.SendFollowRequest(set, requester, target)
	})
}

func (s *GraphService) CancelFollowRequest(ctx context.Context, requester, target string) error {
	return s.mutate(ctx, "cancel", requester, target, func(set *relation.EdgeSet) (relation.Change, error) {
		return relation.CancelFollowRequest(set, requester, target)
	})
}

func (s *GraphService) AcceptFollowRequest(ctx context.Context, target, requester string) error {
	return s.mutate(ctx, "accept", target, requester, func(set *relation.EdgeSet) (relation.Change, error) {
		return relation.AcceptFollowRequest(set, target, requester)
	})
}

func (s *GraphService) DenyFollowRequest(ctx context.Context, target, requester string) error {
	return s.mutate(ctx, "deny", target, requester, func(set *relation.EdgeSet) (relation.Change, error) {
		return relation.DenyFollowRequest(set, target, requester)
	})
}

func (s *GraphService) Unfollow(ctx context.Context, follower, followee string) error {
	return s.mutate(ctx, "unfollow", follower, followee, func(set *relation.EdgeSet) (relation.Change, error) {
		return relation.Unfollow(set, follower, followee)
	})
}

func (s *GraphService) mutate(
	ctx context.Context,
	op, actor, other string,
	transition func(*relation.EdgeSet) (relation.Change, error),
) (err error) {
	defer func() {
		relationMutations.WithLabelValues(op, resultLabel(err, isGraphRejection)).Inc()
	}()

	// Self-follow : rejeté avant tout I/O.
	if actor == other {
		_, err := transition(relation.NewEdgeSet())
		return err
	}
	if err := s.ensureUser(ctx, other); err != nil {
		return err
	}

	release, err := s.locker.Acquire(ctx, actor, other)
	if err != nil {
		return err
	}
	// Libération même si la requête est annulée entre-temps.
	defer release(context.WithoutCancel(ctx))

	edges, err := s.graph.EdgesBetween(ctx, actor, other)
	if err != nil {
		return fmt.Errorf("load edges: %w", err)
	}

	change, err := transition(relation.NewEdgeSet(edges...))
	if err != nil {
		return err
	}

	if err := s.graph.ApplyChange(ctx, change); err != nil {
		return fmt.Errorf("persist %s: %w", change.Kind, err)
	}

	if err := s.broker.PublishFollowChanged(ctx, change); err != nil {
		slog.WarnContext(ctx, "failed to publish follow event", "op", op, "actor", actor, "other", other, "error", err)
	}
	slog.DebugContext(ctx, "relation updated", "op", op, "requester", change.Edge.Requester, "target", change.Edge.Target, "change", change.Kind.String())
	return nil
}

func (s *GraphService) Followers(ctx context.Context, username string) ([]string, error) {
	if err := s.ensureUser(ctx, username); err != nil {
		return nil, err
	}
	return s.graph.Followers(ctx, username)
}

func (s *GraphService) Followees(ctx context.Context, username string) ([]string, error) {
	if err := s.ensureUser(ctx, username); err != nil {
		return nil, err
	}
	return s.graph.Followees(ctx, username)
}

// Friends : intersection followers / followees (arêtes ACCEPTED dans les deux sens).
func (s *GraphService) Friends(ctx context.Context, username string) ([]string, error) {
	if err := s.ensureUser(ctx, username); err != nil {
		return nil, err
	}
	return s.friendsOf(ctx, username)
}

func (s *GraphService) PendingRequests(ctx context.Context, username string) ([]domain.FollowEdge, error) {
	return s.graph.IncomingRequests(ctx, username)
}

func (s *GraphService) friendsOf(ctx context.Context, username string) ([]string, error) {
	edges, err := loadFollowEdges(ctx, s.graph, username)
	if err != nil {
		return nil, err
	}
	return friendsIn(username, edges), nil
}

func (s *GraphService) ensureUser(ctx context.Context, username string) error {
	if _, err := s.users.GetByUsername(ctx, username); err != nil {
		return err
	}
	return nil
}

// loadFollowEdges reconstruit les arêtes ACCEPTED autour de username.
func loadFollowEdges(ctx context.Context, graph ports.GraphRepository, username string) (*relation.EdgeSet, error) {
	followers, err := graph.Followers(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load followers: %w", err)
	}
	followees, err := graph.Followees(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load followees: %w", err)
	}
	return relation.FromFollowLists(username, followers, followees), nil
}

func friendsIn(username string, edges *relation.EdgeSet) []string {
	var out []string
	for _, e := range edges.Edges() {
		if e.Requester == username && relation.Resolve(username, e.Target, edges) == domain.StateFriend {
			out = append(out, e.Target)
		}
	}
	slices.Sort(out)
	return out
}

func isGraphRejection(err error) bool {
	return relation.IsPrecondition(err) ||
		errors.Is(err, domain.ErrRequestInFlight) ||
		errors.Is(err, domain.ErrUserNotFound)
}
