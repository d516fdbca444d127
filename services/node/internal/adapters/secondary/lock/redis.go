// Package lock sérialise les mutations de relation sur une paire d'utilisateurs,
// entre toutes les instances du node.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

const DefaultTTL = 5 * time.Second

// Ne supprime la clé que si elle nous appartient encore (le TTL a pu expirer).
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisPairLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisPairLocker(client redis.UniversalClient, ttl time.Duration) *RedisPairLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisPairLocker{client: client, ttl: ttl}
}

// Acquire pose le verrou sans attendre : une paire occupée retourne domain.ErrRequestInFlight.
func (l *RedisPairLocker) Acquire(ctx context.Context, a, b string) (func(context.Context), error) {
	key := PairKey(a, b)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", key, err)
	}
	if !ok {
		return nil, domain.ErrRequestInFlight
	}

	return func(ctx context.Context) {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			slog.WarnContext(ctx, "failed to release pair lock", "key", key, "error", err)
		}
	}, nil
}

// PairKey ne dépend pas de l'ordre : (a, b) et (b, a) partagent le verrou.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return "lock:pair:" + a + ":" + b
}
