package memory

import (
	"context"
	"sync"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

// Event est un événement capturé, sujet au format NATS.
type Event struct {
	Subject string
	Key     string
}

// Publisher garde les événements en mémoire au lieu de les envoyer à NATS.
type Publisher struct {
	mu     sync.Mutex
	events []Event
}

func NewPublisher() *Publisher { return &Publisher{} }

func (p *Publisher) PublishUserRegistered(_ context.Context, u *domain.User) error {
	p.record("social.user.registered", u.Username)
	return nil
}

func (p *Publisher) PublishFollowChanged(_ context.Context, c relation.Change) error {
	p.record("social.follow."+c.Kind.String(), c.Edge.Requester+"->"+c.Edge.Target)
	return nil
}

func (p *Publisher) PublishPostCreated(_ context.Context, post *domain.Post) error {
	p.record("social.post.created", post.ID)
	return nil
}

func (p *Publisher) PublishPostDeleted(_ context.Context, postID, _ string) error {
	p.record("social.post.deleted", postID)
	return nil
}

// Events retourne une copie des événements publiés.
func (p *Publisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func (p *Publisher) record(subject, key string) {
	p.mu.Lock()
	p.events = append(p.events, Event{Subject: subject, Key: key})
	p.mu.Unlock()
}
