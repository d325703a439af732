// Package testutil provides testing utilities for crz graphs and nodes.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/crznodes/crz"
)

// MockStore is a crz.Store that records calls and can be told to fail.
type MockStore struct {
	mu     sync.RWMutex
	data   map[string]any
	calls  []StoreCall
	errors map[string]error

	// FailSet makes every Set return an error.
	FailSet bool
}

// StoreCall records a store method call.
type StoreCall struct {
	Method string
	Key    string
	Value  any
}

// NewMockStore creates a new mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		data:   make(map[string]any),
		errors: make(map[string]error),
	}
}

// Get retrieves a value by key.
func (s *MockStore) Get(ctx context.Context, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, StoreCall{Method: "Get", Key: key})
	val, exists := s.data[key]
	return val, exists
}

// Set stores a value with the given key.
func (s *MockStore) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, StoreCall{Method: "Set", Key: key, Value: value})
	if s.FailSet {
		return fmt.Errorf("mock set error")
	}
	if err, ok := s.errors[key]; ok {
		return err
	}
	s.data[key] = value
	return nil
}

// Delete removes a key from the store.
func (s *MockStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, StoreCall{Method: "Delete", Key: key})
	delete(s.data, key)
	return nil
}

// Keys returns every stored key in sorted order.
func (s *MockStore) Keys(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scope returns a view of the store under prefix.
func (s *MockStore) Scope(prefix string) crz.Store {
	return &scopedMockStore{parent: s, prefix: prefix + ":"}
}

// Calls returns all recorded calls.
func (s *MockStore) Calls() []StoreCall {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calls := make([]StoreCall, len(s.calls))
	copy(calls, s.calls)
	return calls
}

// SetError makes Set fail for one key.
func (s *MockStore) SetError(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[key] = err
}

type scopedMockStore struct {
	parent *MockStore
	prefix string
}

func (s *scopedMockStore) Get(ctx context.Context, key string) (any, bool) {
	return s.parent.Get(ctx, s.prefix+key)
}

func (s *scopedMockStore) Set(ctx context.Context, key string, value any) error {
	return s.parent.Set(ctx, s.prefix+key, value)
}

func (s *scopedMockStore) Delete(ctx context.Context, key string) error {
	return s.parent.Delete(ctx, s.prefix+key)
}

func (s *scopedMockStore) Keys(ctx context.Context) []string {
	var keys []string
	for _, k := range s.parent.Keys(ctx) {
		if strings.HasPrefix(k, s.prefix) {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}
	}
	return keys
}

func (s *scopedMockStore) Scope(prefix string) crz.Store {
	return &scopedMockStore{parent: s.parent, prefix: s.prefix + prefix + ":"}
}

// MockLogger is a crz.Logger that keeps every entry.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry represents a log entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// NewMockLogger creates a new mock logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Debug logs a debug message.
func (l *MockLogger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	l.log("debug", msg, keysAndValues...)
}

// Info logs an info message.
func (l *MockLogger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	l.log("info", msg, keysAndValues...)
}

// Error logs an error message.
func (l *MockLogger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	l.log("error", msg, keysAndValues...)
}

func (l *MockLogger) log(level, msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]any)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}

	l.entries = append(l.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}

// Entries returns all log entries.
func (l *MockLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]LogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// HasEntry reports whether an entry with level and message was logged.
func (l *MockLogger) HasEntry(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		if entry.Level == level && entry.Message == msg {
			return true
		}
	}
	return false
}

// Count returns how many entries were logged at level.
func (l *MockLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, entry := range l.entries {
		if entry.Level == level {
			n++
		}
	}
	return n
}
