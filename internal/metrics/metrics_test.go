package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	hits := testutil.ToFloat64(ListingCacheRequests.WithLabelValues("hit"))
	CacheHit()
	require.Equal(t, hits+1, testutil.ToFloat64(ListingCacheRequests.WithLabelValues("hit")))

	follows := testutil.ToFloat64(FollowChanges.WithLabelValues("follow"))
	Followed()
	Followed()
	require.Equal(t, follows+2, testutil.ToFloat64(FollowChanges.WithLabelValues("follow")))
}
