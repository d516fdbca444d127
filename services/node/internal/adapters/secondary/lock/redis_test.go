package lock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKey(t *testing.T) {
	assert.Equal(t, "lock:pair:alice:bob", PairKey("alice", "bob"))
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestNewRedisPairLocker_DefaultTTL(t *testing.T) {
	l := NewRedisPairLocker(nil, 0)
	assert.Equal(t, DefaultTTL, l.ttl)
}
