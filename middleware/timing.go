package middleware

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crznodes/crz"
)

// Timings accumulates per-node execution time. It is safe for concurrent
// use.
type Timings struct {
	mu    sync.Mutex
	stats map[string]*NodeTiming
}

// NodeTiming is the accumulated time one node spent in its lifecycle.
type NodeTiming struct {
	Node  string
	Runs  int
	Total time.Duration
	Last  time.Duration
}

// NewTimings creates an empty recorder.
func NewTimings() *Timings {
	return &Timings{stats: make(map[string]*NodeTiming)}
}

func (t *Timings) record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	nt, ok := t.stats[name]
	if !ok {
		nt = &NodeTiming{Node: name}
		t.stats[name] = nt
	}
	nt.Runs++
	nt.Total += d
	nt.Last = d
}

// Snapshot returns the recorded timings ordered by node name.
func (t *Timings) Snapshot() []NodeTiming {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]NodeTiming, 0, len(t.stats))
	for _, nt := range t.stats {
		out = append(out, *nt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node < out[j].Node })
	return out
}

// Timing measures each node from the start of Prep to the end of Post and
// records it in timings. Skipped nodes are not recorded.
func Timing(timings *Timings) Middleware {
	return func(node crz.Node) crz.Node {
		var (
			mu    sync.Mutex
			start time.Time
		)
		return &middlewareNode{
			inner: node,
			prep: func(ctx context.Context, host *crz.Host, store crz.StoreReader, input any) (any, error) {
				mu.Lock()
				start = time.Now()
				mu.Unlock()
				return node.Prep(ctx, host, store, input)
			},
			post: func(ctx context.Context, host *crz.Host, store crz.StoreWriter, input, prep, exec any) (any, string, error) {
				output, next, err := node.Post(ctx, host, store, input, prep, exec)

				mu.Lock()
				d := time.Since(start)
				mu.Unlock()
				timings.record(node.Name(), d)

				return output, next, err
			},
		}
	}
}
