package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/internal/testutil"
)

func TestLoggingRecordsLifecycle(t *testing.T) {
	logger := testutil.NewMockLogger()
	node := Apply(testutil.ConstNode("answer", 42), Logging(logger))

	out, err := crz.NewGraph(node, nil, nil).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != 42 {
		t.Errorf("Expected 42, got %v", out)
	}

	for _, want := range []struct{ level, msg string }{
		{"debug", "node prep completed"},
		{"debug", "node exec completed"},
		{"info", "node completed"},
	} {
		if !logger.HasEntry(want.level, want.msg) {
			t.Errorf("Expected %s entry %q, got %v", want.level, want.msg, logger.Entries())
		}
	}
}

func TestLoggingKeepsFallback(t *testing.T) {
	logger := testutil.NewMockLogger()
	node := crz.NewNode("safe", crz.Steps{
		Exec:     func(ctx context.Context, _ any) (any, error) { return nil, errors.New("bad") },
		Fallback: func(ctx context.Context, _ any, _ error) (any, error) { return "fallback", nil },
	})

	out, err := crz.NewGraph(Apply(node, Logging(logger)), nil, nil).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected the wrapped node's fallback to run, got %v", err)
	}
	if out != "fallback" {
		t.Errorf("Expected fallback, got %v", out)
	}
	if !logger.HasEntry("error", "node exec failed") {
		t.Error("Expected the exec failure to be logged")
	}
}

func TestWrappedNodesKeepRouting(t *testing.T) {
	timings := NewTimings()
	wrap := Chain(Timing(timings), Logging(crz.NopLogger{}))

	router := wrap(testutil.RouteNode("router", "right"))
	left := wrap(testutil.ConstNode("left", "L"))
	right := wrap(testutil.TypedNode("right", crz.Any, crz.Any))
	router.Connect("left", left)
	router.Connect("right", right)

	if router.Name() != "router" || right.Descriptor() == nil {
		t.Error("Expected name and descriptor to pass through")
	}

	store := crz.NewStore()
	out, err := crz.NewGraph(router, store, nil).Run(context.Background(), "in")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "in" {
		t.Errorf("Expected input forwarded to the right branch, got %v", out)
	}
	if v, _ := store.Get(context.Background(), crz.OutputKey("right", "out")); v != "in" {
		t.Errorf("Expected the wrapped node to store its output, got %v", v)
	}

	snapshot := timings.Snapshot()
	if len(snapshot) != 2 || snapshot[0].Node != "right" || snapshot[1].Node != "router" {
		t.Fatalf("Expected timings for router and right only, got %+v", snapshot)
	}
	if snapshot[0].Runs != 1 || snapshot[0].Total < 0 {
		t.Errorf("Unexpected timing %+v", snapshot[0])
	}
}

func TestTimingSkipsBlockedNodes(t *testing.T) {
	timings := NewTimings()
	blocked := crz.NewNode("blocked", crz.Steps{
		Prep: func(ctx context.Context, _ *crz.Host, _ crz.StoreReader, _ any) (any, error) {
			return nil, crz.ErrBlocked
		},
	})

	if _, err := crz.NewGraph(Apply(blocked, Timing(timings)), nil, nil).Run(context.Background(), nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n := len(timings.Snapshot()); n != 0 {
		t.Errorf("Expected no timings for a skipped node, got %d", n)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(n crz.Node) crz.Node {
			return &middlewareNode{
				inner: n,
				exec: func(ctx context.Context, in any) (any, error) {
					order = append(order, name)
					return n.Exec(ctx, in)
				},
			}
		}
	}

	node := Chain(tag("outer"), tag("inner"))(testutil.ConstNode("n", 1))
	if _, err := node.Exec(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("Expected outer then inner, got %v", order)
	}

	unwrapped := node.(crz.Wrapper).Unwrap().(crz.Wrapper).Unwrap()
	if unwrapped.Name() != "n" {
		t.Errorf("Expected to unwrap to the base node, got %s", unwrapped.Name())
	}
}
