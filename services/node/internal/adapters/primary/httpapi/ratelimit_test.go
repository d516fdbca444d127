package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
)

func TestIPLimiterIsolatesClients(t *testing.T) {
	l := newIPLimiter(rate.Every(time.Minute), 2)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.True(t, l.allow("10.0.0.1"))
}

func TestAuthRoutesRateLimited(t *testing.T) {
	n := newTestNode(t, WithAuthRateLimit(1, 2))
	body := api.LoginRequest{Username: "ghost", Password: "whatever"}

	assert.Equal(t, http.StatusUnauthorized, n.call(t, http.MethodPost, "/login/", "", body, nil))
	assert.Equal(t, http.StatusUnauthorized, n.call(t, http.MethodPost, "/login/", "", body, nil))

	var resp api.ErrorResponse
	assert.Equal(t, http.StatusTooManyRequests, n.call(t, http.MethodPost, "/login/", "", body, &resp))
	assert.Equal(t, api.CodeRateLimited, resp.Code)

	// Les autres routes ne sont pas concernées.
	assert.Equal(t, http.StatusOK, n.call(t, http.MethodGet, "/api/posts/public/", "", nil, nil))
}
