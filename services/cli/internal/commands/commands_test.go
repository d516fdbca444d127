package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
	"github.com/Nishchay412/Social-Distribution/pkg/client"
	"github.com/Nishchay412/Social-Distribution/services/cli/config"
	"github.com/Nishchay412/Social-Distribution/services/cli/internal/session"
)

// fakeNode répond comme un node pour un seul utilisateur connecté, "alice".
type fakeNode struct {
	mu        sync.Mutex
	relations map[string]string
	liked     bool
}

func newFakeNode(t *testing.T) *httptest.Server {
	t.Helper()
	n := &fakeNode{relations: map[string]string{"bob": "STRANGER", "carol": "FOLLOWER"}}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer access-alice" {
			writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token", Code: api.CodeUnauthenticated})
			return false
		}
		return true
	}
	post := api.Post{
		ID: "p1", Author: "carol", Title: "hello", Visibility: "PUBLIC",
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		var in api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Username != "alice" || in.Password != "secret1" {
			writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials", Code: api.CodeUnauthenticated})
			return
		}
		writeJSON(w, http.StatusOK, api.TokenResponse{Access: "access-alice", Refresh: "refresh-alice", User: &api.User{Username: "alice"}})
	})
	mux.HandleFunc("GET /{username}/relationship", func(w http.ResponseWriter, r *http.Request) {
		n.mu.Lock()
		defer n.mu.Unlock()
		state, ok := n.relations[r.PathValue("username")]
		if !ok {
			writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "user not found", Code: api.CodeNotFound})
			return
		}
		if r.Header.Get("Authorization") == "" {
			state = "STRANGER"
		}
		writeJSON(w, http.StatusOK, api.RelationshipResponse{Relation: state})
	})
	mux.HandleFunc("POST /profile/{username}/follow-request/", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		n.mu.Lock()
		defer n.mu.Unlock()
		u := r.PathValue("username")
		if n.relations[u] == "PENDING_OUTGOING" {
			writeJSON(w, http.StatusConflict, api.ErrorResponse{Error: "follow request already sent", Code: api.CodeAlreadyRequested})
			return
		}
		n.relations[u] = "PENDING_OUTGOING"
		writeJSON(w, http.StatusCreated, api.RelationshipResponse{Relation: "PENDING_OUTGOING"})
	})
	mux.HandleFunc("GET /profile/{username}/followers/", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, api.Page[api.UserRef]{Results: []api.UserRef{{Username: "carol"}}})
	})
	mux.HandleFunc("GET /users/{$}", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, api.Page[api.User]{
			Results: []api.User{{Username: "bob", DisplayName: "Bob"}, {Username: "carol", DisplayName: "Carol"}},
			Next:    "carol",
		})
	})
	mux.HandleFunc("GET /api/posts/public/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.Page[api.Post]{Results: []api.Post{post}, Next: "c1"})
	})
	mux.HandleFunc("POST /posts/{id}/likes/toggle/", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		n.mu.Lock()
		defer n.mu.Unlock()
		n.liked = !n.liked
		if n.liked {
			writeJSON(w, http.StatusCreated, api.LikeResponse{Liked: true, LikeCount: 1})
			return
		}
		writeJSON(w, http.StatusOK, api.LikeResponse{Liked: false, LikeCount: 0})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	srv := newFakeNode(t)
	return &harness{cfg: &config.Config{
		BaseURL:     srv.URL,
		SessionPath: filepath.Join(t.TempDir(), "session.yaml"),
		Timeout:     5 * time.Second,
	}}
}

// run exécute socialctl avec args et retourne stdout et le code de sortie.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	cmd := NewRootCmd(h.cfg)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	code := Execute(cmd, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestLoginSavesSession(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run(t, "secret1\n", "login", "alice")
	require.Equal(t, 0, code)
	assert.Equal(t, "logged in as alice\n", out)

	sess, err := session.NewStore(h.cfg.SessionPath).Load()
	require.NoError(t, err)
	assert.Equal(t, &client.Session{Username: "alice", AccessToken: "access-alice", RefreshToken: "refresh-alice"}, sess)

	out, _, code = h.run(t, "", "whoami")
	require.Equal(t, 0, code)
	assert.Equal(t, "alice\n", out)

	_, _, code = h.run(t, "", "logout")
	require.Equal(t, 0, code)
	_, stderr, code := h.run(t, "", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not logged in")
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)

	_, stderr, code := h.run(t, "", "login", "alice", "-p", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid credentials")

	_, err := session.NewStore(h.cfg.SessionPath).Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestMutationsRequireSession(t *testing.T) {
	h := newHarness(t)

	_, stderr, code := h.run(t, "", "follow", "bob")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not logged in")
}

func TestFollowFlow(t *testing.T) {
	h := newHarness(t)
	_, _, code := h.run(t, "secret1\n", "login", "alice")
	require.Equal(t, 0, code)

	out, _, code := h.run(t, "", "relation", "bob")
	require.Equal(t, 0, code)
	assert.Equal(t, "STRANGER\tFOLLOW\n", out)

	out, _, code = h.run(t, "", "follow", "bob")
	require.Equal(t, 0, code)
	assert.Equal(t, "PENDING_OUTGOING\tCANCEL_REQUEST\n", out)

	_, stderr, code := h.run(t, "", "follow", "bob")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already sent")

	out, _, code = h.run(t, "", "relation", "carol")
	require.Equal(t, 0, code)
	assert.Equal(t, "FOLLOWER\tFOLLOW\n", out)

	out, _, code = h.run(t, "", "followers")
	require.Equal(t, 0, code)
	assert.Equal(t, "carol\n", out)
}

func TestRelationAnonymous(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run(t, "", "relation", "carol")
	require.Equal(t, 0, code)
	assert.Equal(t, "STRANGER\tFOLLOW\n", out)

	_, stderr, code := h.run(t, "", "relation", "nobody")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "user not found")
}

func TestFeedPublic(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run(t, "", "feed", "public")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "next: c1")

	_, stderr, code := h.run(t, "", "feed", "sideways")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid feed kind")
}

func TestLikeToggles(t *testing.T) {
	h := newHarness(t)
	_, _, code := h.run(t, "secret1\n", "login", "alice")
	require.Equal(t, 0, code)

	out, _, code := h.run(t, "", "like", "p1")
	require.Equal(t, 0, code)
	assert.Equal(t, "liked (1)\n", out)

	out, _, code = h.run(t, "", "like", "p1")
	require.Equal(t, 0, code)
	assert.Equal(t, "unliked (0)\n", out)
}

func TestUnreachableNodeIsRetryable(t *testing.T) {
	h := newHarness(t)
	h.cfg.BaseURL = "http://127.0.0.1:1"

	_, stderr, code := h.run(t, "", "feed", "public")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "safe to retry")
}

func TestUsersListsDirectory(t *testing.T) {
	h := newHarness(t)
	_, _, code := h.run(t, "secret1\n", "login", "alice")
	require.Equal(t, 0, code)

	out, _, code := h.run(t, "", "users", "--limit", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "Carol")
	assert.Contains(t, out, "next: carol")
}
