package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

const (
	StreamName     = "SOCIAL"
	SubjectPattern = "social.>"

	SubjectUserRegistered = "social.user.registered"
	SubjectPostCreated    = "social.post.created"
	SubjectPostDeleted    = "social.post.deleted"
)

// SubjectFollow : social.follow.created | accepted | deleted
func SubjectFollow(k relation.ChangeKind) string { return "social.follow." + k.String() }

type NatsBroker struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewNatsBroker se connecte et s'assure que le stream existe (idempotent).
func NewNatsBroker(url string) (*NatsBroker, error) {
	nc, err := nats.Connect(url, nats.Name("social-node"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage,
		Replicas: 1, // 3 en cluster
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream: %w", err)
	}
	return &NatsBroker{nc: nc, js: js}, nil
}

func (n *NatsBroker) Close() {
	if err := n.nc.Drain(); err != nil {
		slog.Warn("nats drain failed", "error", err)
	}
}

// --- Payloads ---

type UserRegisteredEvent struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type FollowChangedEvent struct {
	Change    string    `json:"change"`
	Requester string    `json:"requester"`
	Target    string    `json:"target"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

type PostCreatedEvent struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

type PostDeletedEvent struct {
	ID     string `json:"id"`
	Author string `json:"author"`
}

func (n *NatsBroker) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	return n.publish(ctx, SubjectUserRegistered, UserRegisteredEvent{Username: u.Username, Email: u.Email})
}

func (n *NatsBroker) PublishFollowChanged(ctx context.Context, c relation.Change) error {
	return n.publish(ctx, SubjectFollow(c.Kind), FollowChangedEvent{
		Change:    c.Kind.String(),
		Requester: c.Edge.Requester,
		Target:    c.Edge.Target,
		Status:    string(c.Edge.Status),
		At:        time.Now().UTC(),
	})
}

func (n *NatsBroker) PublishPostCreated(ctx context.Context, p *domain.Post) error {
	return n.publish(ctx, SubjectPostCreated, PostCreatedEvent{
		ID:         p.ID,
		Author:     p.Author,
		Visibility: string(p.Visibility),
		CreatedAt:  p.CreatedAt,
	})
}

func (n *NatsBroker) PublishPostDeleted(ctx context.Context, postID, author string) error {
	return n.publish(ctx, SubjectPostDeleted, PostDeletedEvent{ID: postID, Author: author})
}

func (n *NatsBroker) publish(ctx context.Context, subject string, payload any) error {
	msg, err := newMsg(ctx, subject, payload)
	if err != nil {
		return err
	}
	// JetStream attend l'ack : le message est persisté quand on rend la main.
	ack, err := n.js.PublishMsg(ctx, msg)
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	slog.DebugContext(ctx, "📢 event published", "subject", subject, "seq", ack.Sequence)
	return nil
}

// newMsg encode le payload et injecte le contexte de trace dans les headers.
func newMsg(ctx context.Context, subject string, payload any) (*nats.Msg, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", subject, err)
	}
	msg := &nats.Msg{Subject: subject, Data: data, Header: nats.Header{}}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg, nil
}
