// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Entity labels.
const (
	EntityUser    = "user"
	EntityProduct = "product"
	EntityOrder   = "order"
)

// Association outcomes.
const (
	AssociationLinked    = "linked"
	AssociationDuplicate = "duplicate"
	AssociationUnlinked  = "unlinked"
	AssociationMissing   = "missing"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Entity lifecycle metrics
	IncEntityCreated(entity string)
	IncEntityUpdated(entity string)
	IncEntityDeleted(entity string)

	// Order/product association metrics
	IncAssociation(outcome string)

	// HTTP metrics; route is the matched pattern, not the raw path.
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
