package crz

import (
	"sort"
	"sync"
)

// ValueKey identifies one published value: the producing node and its slot.
type ValueKey struct {
	Producer string
	Slot     int
}

// ValueRegistry holds the last value each dashboard-style producer
// published, for getter nodes elsewhere in the graph to read.
// Writes to the same key are last-write-wins; there is no expiry.
type ValueRegistry struct {
	mu     sync.RWMutex
	values map[ValueKey]any
}

// NewValueRegistry creates an empty registry.
func NewValueRegistry() *ValueRegistry {
	return &ValueRegistry{values: make(map[ValueKey]any)}
}

// Register overwrites the value stored for key.
func (r *ValueRegistry) Register(key ValueKey, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
}

// Lookup returns the current value for key.
func (r *ValueRegistry) Lookup(key ValueKey) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// Keys returns all registered keys ordered by producer, then slot.
func (r *ValueRegistry) Keys() []ValueKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]ValueKey, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Producer != keys[j].Producer {
			return keys[i].Producer < keys[j].Producer
		}
		return keys[i].Slot < keys[j].Slot
	})
	return keys
}

// Reset drops every registered value.
func (r *ValueRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = make(map[ValueKey]any)
}
