package crz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// StoreReader provides read-only access to the store.
// Used in the Prep step to enforce read-only semantics.
type StoreReader interface {
	// Get retrieves a value by key.
	Get(ctx context.Context, key string) (value any, exists bool)

	// Scope returns a new store with the given prefix.
	Scope(prefix string) Store
}

// StoreWriter provides full read-write access to the store.
// Used in the Post step for state mutations.
type StoreWriter interface {
	Store
}

// Store provides thread-safe storage for graph state.
type Store interface {
	Get(ctx context.Context, key string) (value any, exists bool)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) []string
	Scope(prefix string) Store
}

// store is the in-memory implementation. Scopes share the map and its lock.
type store struct {
	mu     *sync.RWMutex
	data   map[string]any
	prefix string
}

// NewStore creates a new thread-safe store.
func NewStore() Store {
	return &store{
		mu:   &sync.RWMutex{},
		data: make(map[string]any),
	}
}

// Get retrieves a value by key.
func (s *store) Get(ctx context.Context, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, exists := s.data[s.prefix+key]
	return val, exists
}

// Set stores a value with the given key.
func (s *store) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[s.prefix+key] = value
	return nil
}

// Delete removes a key from the store.
func (s *store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, s.prefix+key)
	return nil
}

// Keys returns the sorted keys visible in this scope, without the prefix.
func (s *store) Keys(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, s.prefix) {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}
	}
	sort.Strings(keys)
	return keys
}

// Scope returns a new store with the given prefix.
func (s *store) Scope(prefix string) Store {
	return &store{
		mu:     s.mu,
		data:   s.data,
		prefix: s.prefix + prefix + ":",
	}
}

// OutputKey is the store key under which a node's output slot is kept.
// Slot may be an index or an output name.
func OutputKey(nodeName, slot string) string {
	return fmt.Sprintf("out:%s:%s", nodeName, slot)
}

// SetOutputs writes every slot of outs under both its index and, when a
// descriptor is available, its output name.
func SetOutputs(ctx context.Context, s Store, nodeName string, desc *Descriptor, outs Outputs) error {
	for i, v := range outs {
		if err := s.Set(ctx, OutputKey(nodeName, fmt.Sprint(i)), v); err != nil {
			return err
		}
		if desc != nil && i < len(desc.Outputs) && desc.Outputs[i].Name != "" {
			if err := s.Set(ctx, OutputKey(nodeName, desc.Outputs[i].Name), v); err != nil {
				return err
			}
		}
	}
	return nil
}
