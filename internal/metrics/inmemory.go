package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Created             map[string]uint64
	Updated             map[string]uint64
	Deleted             map[string]uint64
	Associations        map[string]uint64
	HTTPRequests        uint64
	HTTPErrors          uint64
	HTTPDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu           sync.Mutex
	created      map[string]uint64
	updated      map[string]uint64
	deleted      map[string]uint64
	associations map[string]uint64

	httpRequests        uint64
	httpErrors          uint64
	httpDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		created:      make(map[string]uint64),
		updated:      make(map[string]uint64),
		deleted:      make(map[string]uint64),
		associations: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Created:             maps.Clone(m.created),
		Updated:             maps.Clone(m.updated),
		Deleted:             maps.Clone(m.deleted),
		Associations:        maps.Clone(m.associations),
		HTTPRequests:        atomic.LoadUint64(&m.httpRequests),
		HTTPErrors:          atomic.LoadUint64(&m.httpErrors),
		HTTPDurationTotalNs: atomic.LoadInt64(&m.httpDurationTotalNs),
	}
}

func (m *InMemoryRecorder) inc(counter map[string]uint64, label string) {
	m.mu.Lock()
	counter[label]++
	m.mu.Unlock()
}

// IncEntityCreated increments the created counter for entity.
func (m *InMemoryRecorder) IncEntityCreated(entity string) {
	m.inc(m.created, entity)
}

// IncEntityUpdated increments the updated counter for entity.
func (m *InMemoryRecorder) IncEntityUpdated(entity string) {
	m.inc(m.updated, entity)
}

// IncEntityDeleted increments the deleted counter for entity.
func (m *InMemoryRecorder) IncEntityDeleted(entity string) {
	m.inc(m.deleted, entity)
}

// IncAssociation increments the association counter for outcome.
func (m *InMemoryRecorder) IncAssociation(outcome string) {
	m.inc(m.associations, outcome)
}

// ObserveHTTPRequest records one served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&m.httpErrors, 1)
	}
	atomic.AddInt64(&m.httpDurationTotalNs, duration.Nanoseconds())
}
