package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInit_Disabled(t *testing.T) {
	rec := Init(false)
	_, ok := rec.(*NoopMetrics)
	assert.True(t, ok)

	rec.RecordFeedRequest("courses", "ok", time.Millisecond)
	rec.RecordTokenIssued("courses")
	rec.RecordTokenRevoked("courses", "rotated")
	rec.RecordTokenCollision()
}

func TestInit_EnabledIsSingleton(t *testing.T) {
	first := Init(true)
	second := Init(true)
	assert.Same(t, first, second)

	m, ok := first.(*Metrics)
	if !assert.True(t, ok) {
		return
	}

	before := testutil.ToFloat64(m.TokensIssuedTotal.WithLabelValues("combined"))
	m.RecordTokenIssued("combined")
	assert.Equal(t, before+1, testutil.ToFloat64(m.TokensIssuedTotal.WithLabelValues("combined")))

	beforeNotFound := testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues("unknown", "not_found"))
	m.RecordFeedRequest("unknown", "not_found", 0)
	assert.Equal(t, beforeNotFound+1, testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues("unknown", "not_found")))
}
