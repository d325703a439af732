// Package prefs keeps the pack's user preferences in a JSON file.
//
// The file is read once when the store is opened and rewritten in full on
// every Set. A missing or unreadable file silently yields the built-in
// defaults.
package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ohler55/ojg/oj"

	"github.com/crznodes/crz"
)

// FileName is the default preference file name.
const FileName = "preferences.json"

// Defaults returns a fresh copy of the built-in preferences.
func Defaults() map[string]any {
	return map[string]any{
		"passthrough_show_connections":  true,
		"image_selector_thumbnail_size": int64(64),
		"dashboard_theme":               "dark",
		"float_slider_precision":        int64(2),
	}
}

// Store is a preference set bound to one file.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
	logger crz.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets where save and reload failures are reported.
func WithLogger(l crz.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Open loads the preferences at path.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: crz.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.values = s.load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// load reads the file, or returns the defaults when it is missing, corrupt
// or not a JSON object.
func (s *Store) load() map[string]any {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Defaults()
	}
	parsed, err := oj.Parse(data)
	if err != nil {
		return Defaults()
	}
	values, ok := parsed.(map[string]any)
	if !ok {
		return Defaults()
	}
	return values
}

// Reload re-reads the file, replacing the in-memory set.
func (s *Store) Reload() {
	values := s.load()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
}

// Get returns the preference for key, or def when it is not set.
func (s *Store) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set stores value under key and rewrites the file. Save failures are
// logged, not returned.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = normalize(value)
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		s.logger.Error(context.Background(), "error saving preferences", "path", s.path, "error", err)
	}
}

// Save writes the whole set to the backing file.
func (s *Store) Save() error {
	s.mu.RLock()
	data := oj.JSON(s.values, &oj.Options{Indent: 2, Sort: true})
	s.mu.RUnlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preference dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(data+"\n"), 0o644); err != nil { // #nosec G306 - preferences are not secret
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// Keys returns every preference key in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the current set.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// normalize maps Go numeric kinds onto the int64/float64 pair a reload
// produces, so values read back the same before and after a restart.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
