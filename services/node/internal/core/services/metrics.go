package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// relationMutations compte les mutations de relation par opération et résultat.
	relationMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_relation_mutations_total",
		Help: "Relationship mutations by operation and result",
	}, []string{"operation", "result"})

	feedBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "social_feed_build_duration_seconds",
		Help:    "Feed build duration in seconds, storage included",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms à ~4s
	}, []string{"kind"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_auth_attempts_total",
		Help: "Register and login attempts by result",
	}, []string{"operation", "result"})
)

// resultLabel réduit une erreur à un label de faible cardinalité.
func resultLabel(err error, rejected func(error) bool) string {
	switch {
	case err == nil:
		return "ok"
	case rejected(err):
		return "rejected"
	default:
		return "error"
	}
}
