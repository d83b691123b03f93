package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEntityCreated is a no-op.
func (n *NoopRecorder) IncEntityCreated(entity string) {}

// IncEntityUpdated is a no-op.
func (n *NoopRecorder) IncEntityUpdated(entity string) {}

// IncEntityDeleted is a no-op.
func (n *NoopRecorder) IncEntityDeleted(entity string) {}

// IncAssociation is a no-op.
func (n *NoopRecorder) IncAssociation(outcome string) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
