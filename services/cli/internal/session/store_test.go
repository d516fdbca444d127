package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nishchay412/Social-Distribution/pkg/client"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "session.yaml"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	in := &client.Session{Username: "alice", AccessToken: "a.b.c", RefreshToken: "r.s.t"}
	require.NoError(t, store.Save(in))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "access_token: a.b.c")

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStoreLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("username: [unclosed"), 0o600))

	_, err := NewStore(path).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestStoreLoadWithoutToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("username: alice\n"), 0o600))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSaveNil(t *testing.T) {
	assert.Error(t, NewStore(filepath.Join(t.TempDir(), "s.yaml")).Save(nil))
}
