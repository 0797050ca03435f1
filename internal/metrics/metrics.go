// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blogfeed",
		Name:      "listing_cache_requests_total",
		Help:      "Index page cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	FollowChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blogfeed",
		Name:      "follow_changes_total",
		Help:      "Follow edges created or removed.",
	}, []string{"action"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blogfeed",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "status"})
)

func CacheHit() { ListingCacheRequests.WithLabelValues("hit").Inc() }
func CacheMiss() { ListingCacheRequests.WithLabelValues("miss").Inc() }
func CacheError() { ListingCacheRequests.WithLabelValues("error").Inc() }

func Followed() { FollowChanges.WithLabelValues("follow").Inc() }
func Unfollowed() { FollowChanges.WithLabelValues("unfollow").Inc() }
