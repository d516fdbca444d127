// Package httpapi expose les services du node en REST (gin).
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

type Handler struct {
	identity ports.IdentityService
	graph    ports.GraphService
	posts    ports.PostService
	feeds    ports.FeedService
}

func NewHandler(identity ports.IdentityService, graph ports.GraphService, posts ports.PostService, feeds ports.FeedService) *Handler {
	return &Handler{identity: identity, graph: graph, posts: posts, feeds: feeds}
}

type routerOptions struct {
	authLimit rate.Limit
	authBurst int
}

type RouterOption func(*routerOptions)

// WithAuthRateLimit limite register/login/refresh par IP (perMinute requêtes, rafale burst).
func WithAuthRateLimit(perMinute, burst int) RouterOption {
	return func(o *routerOptions) {
		if perMinute <= 0 || burst <= 0 {
			return
		}
		o.authLimit = rate.Every(time.Minute / time.Duration(perMinute))
		o.authBurst = burst
	}
}

// NewRouter monte toutes les routes. serviceName nomme les spans otelgin.
func NewRouter(serviceName string, h *Handler, opts ...RouterOption) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware(serviceName), Metrics())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/")
	if o.authBurst > 0 {
		public.Use(RateLimit(newIPLimiter(o.authLimit, o.authBurst)))
	}
	public.POST("/register/", h.register)
	public.POST("/login/", h.login)
	public.POST("/token/refresh/", h.refresh)

	// Auth optionnelle : un anonyme voit ce qui est public.
	opt := r.Group("/", Authenticate(h.identity))
	opt.GET("/profile/:username/", h.profile)
	opt.GET("/:username/relationship", h.relationship)
	opt.GET("/api/posts/public/", h.feed(feed.KindPublic))
	opt.GET("/api/posts/user/:username/", h.authorPosts)

	auth := r.Group("/", Authenticate(h.identity), RequireAuth())
	auth.PATCH("/profile/", h.updateProfile)
	auth.GET("/users/", h.users)

	auth.POST("/profile/:username/follow-request/", h.sendFollowRequest)
	auth.DELETE("/profile/:username/cancel-follow-request/", h.cancelFollowRequest)
	auth.DELETE("/profile/:username/unfollow/", h.unfollow)
	auth.GET("/profile/:username/followers/", h.followers)
	auth.GET("/profile/:username/followees/", h.followees)
	auth.GET("/profile/:username/friends/", h.friends)
	auth.GET("/notifs/follow-requests/", h.followRequests)
	auth.POST("/notifs/follow-requests/:username/accept/", h.acceptFollowRequest)
	auth.DELETE("/notifs/follow-requests/:username/deny/", h.denyFollowRequest)

	auth.POST("/posts/create/", h.createPost)
	auth.GET("/posts/my/", h.feed(feed.KindOwn))
	auth.GET("/posts/drafts/", h.drafts)
	auth.GET("/posts/:id/", h.getPost)
	auth.PUT("/posts/:id/update/", h.replacePost)
	auth.PATCH("/posts/:id/update/", h.patchPost)
	auth.DELETE("/posts/:id/delete/", h.deletePost)
	auth.POST("/posts/:id/likes/toggle/", h.togglePostLike)
	auth.GET("/posts/:id/comments/", h.comments)
	auth.POST("/posts/:id/comments/create/", h.createComment)
	auth.POST("/posts/:id/comments/:cid/likes/toggle/", h.toggleCommentLike)

	auth.GET("/friends/posts/", h.feed(feed.KindFriends))
	auth.GET("/api/posts/public_and_friends/", h.feed(feed.KindCombined))

	return r, nil
}
