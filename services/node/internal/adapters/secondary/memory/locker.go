package memory

import (
	"context"
	"sync"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

// PairLocker : équivalent mono-process du verrou Redis.
type PairLocker struct {
	mu   sync.Mutex
	held map[[2]string]struct{}
}

func NewPairLocker() *PairLocker {
	return &PairLocker{held: make(map[[2]string]struct{})}
}

func (l *PairLocker) Acquire(_ context.Context, a, b string) (func(context.Context), error) {
	if a > b {
		a, b = b, a
	}
	k := [2]string{a, b}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[k]; busy {
		return nil, domain.ErrRequestInFlight
	}
	l.held[k] = struct{}{}
	return func(context.Context) {
		l.mu.Lock()
		delete(l.held, k)
		l.mu.Unlock()
	}, nil
}
