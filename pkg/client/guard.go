package client

import (
	"sync"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

// pairGuard : au plus une mutation en vol par paire (non ordonnée) d'utilisateurs.
// Un second clic est rejeté, jamais mis en file.
type pairGuard struct {
	mu       sync.Mutex
	inFlight map[[2]string]struct{}
}

func newPairGuard() *pairGuard {
	return &pairGuard{inFlight: make(map[[2]string]struct{})}
}

func pair(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func (g *pairGuard) acquire(a, b string) (release func(), err error) {
	k := pair(a, b)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[k]; busy {
		return nil, domain.ErrRequestInFlight
	}
	g.inFlight[k] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.inFlight, k)
		g.mu.Unlock()
	}, nil
}
