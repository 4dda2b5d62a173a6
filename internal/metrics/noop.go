package metrics

import "time"

var _ Recorder = (*NoopMetrics)(nil)

// NoopMetrics discards everything.
type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordFeedRequest(string, string, time.Duration) {}
func (n *NoopMetrics) RecordTokenIssued(string)                        {}
func (n *NoopMetrics) RecordTokenRevoked(string, string)               {}
func (n *NoopMetrics) RecordTokenCollision()                           {}
