package crz

import (
	"context"
	"errors"
	"fmt"
)

// Graph walks nodes from a start node, following the action each node's
// Post step returns.
type Graph struct {
	name  string
	start Node
	store Store
	host  *Host
	opts  graphOptions
}

// graphOptions holds configuration for a Graph.
type graphOptions struct {
	logger Logger
}

// GraphOption configures a Graph.
type GraphOption func(*graphOptions)

// WithLogger adds logging to the graph. Defaults to the host logger.
func WithLogger(logger Logger) GraphOption {
	return func(o *graphOptions) {
		o.logger = logger
	}
}

// NewGraph creates a graph starting from the given node. A nil host gets a
// fresh NewHost().
func NewGraph(start Node, store Store, host *Host, opts ...GraphOption) *Graph {
	name := "graph"
	if start != nil {
		name = "graph-" + start.Name()
	}
	if host == nil {
		host = NewHost()
	}
	if store == nil {
		store = NewStore()
	}

	g := &Graph{
		name:  name,
		start: start,
		store: store,
		host:  host,
	}
	for _, opt := range opts {
		opt(&g.opts)
	}
	if g.opts.logger == nil {
		g.opts.logger = host.Log()
	}
	return g
}

// Name returns the graph's identifier.
func (g *Graph) Name() string {
	return g.name
}

// Store returns the graph store.
func (g *Graph) Store() Store {
	return g.store
}

// Host returns the host handed to every node.
func (g *Graph) Host() *Host {
	return g.host
}

// Run executes the graph with the given input and returns the output of the
// last node visited.
func (g *Graph) Run(ctx context.Context, input any) (output any, err error) {
	if g.start == nil {
		return nil, ErrNoStartNode
	}

	current := g.start
	currentInput := input
	var lastOutput any

	for current != nil {
		g.opts.logger.Debug(ctx, "executing node", "name", current.Name())

		var (
			output any
			next   string
			err    error
		)
		if current != g.start && IsBlocked(currentInput) {
			err = ErrBlocked
		} else {
			output, next, err = g.executeNode(ctx, current, currentInput)
		}
		if errors.Is(err, ErrBlocked) {
			g.opts.logger.Debug(ctx, "node blocked", "name", current.Name())
			output, next, err = g.block(ctx, current)
		}
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", current.Name(), err)
		}

		lastOutput = output
		current = current.Successors()[next]
		currentInput = output
	}

	return lastOutput, nil
}

// block records every output slot of a skipped node as blocked.
func (g *Graph) block(ctx context.Context, n Node) (any, string, error) {
	if desc := n.Descriptor(); desc != nil {
		if err := SetOutputs(ctx, g.store, n.Name(), desc, BlockedOutputs(len(desc.Outputs))); err != nil {
			return nil, "", err
		}
	}
	return Blocked{}, DefaultAction, nil
}

// executeNode runs a node and reports lifecycle errors to its error handler.
func (g *Graph) executeNode(ctx context.Context, n Node, input any) (output any, next string, err error) {
	output, next, err = g.executeLifecycle(ctx, n, input)
	if err != nil && !errors.Is(err, ErrBlocked) {
		if simple, ok := baseNode(n); ok && simple.opts.onError != nil {
			simple.opts.onError(err)
		}
		return nil, "", err
	}
	return output, next, err
}

// executeLifecycle runs the Prep/Exec/Post steps.
func (g *Graph) executeLifecycle(ctx context.Context, n Node, input any) (output any, next string, err error) {
	prepResult, err := n.Prep(ctx, g.host, g.store, input)
	if err != nil {
		if errors.Is(err, ErrBlocked) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("prep failed: %w", err)
	}

	execResult, err := safeExec(ctx, n, prepResult)
	if err != nil {
		simple, ok := baseNode(n)
		if !ok || simple.opts.fallback == nil {
			return nil, "", fmt.Errorf("exec failed: %w", err)
		}

		g.opts.logger.Debug(ctx, "executing fallback", "name", n.Name(), "error", err)
		fallbackResult, fallbackErr := simple.opts.fallback(ctx, prepResult, err)
		if fallbackErr != nil {
			return nil, "", fmt.Errorf("exec failed and fallback failed: primary=%w, fallback=%v", err, fallbackErr)
		}
		execResult = fallbackResult
	}

	output, next, err = n.Post(ctx, g.host, g.store, input, prepResult, execResult)
	if err != nil {
		return nil, "", fmt.Errorf("post failed: %w", err)
	}
	return output, next, nil
}

// Wrapper is implemented by nodes that decorate another node. The graph
// looks through wrappers for the fallback and error handler.
type Wrapper interface {
	Unwrap() Node
}

// baseNode finds the *node under any wrappers.
func baseNode(n Node) (*node, bool) {
	for n != nil {
		switch v := n.(type) {
		case *node:
			return v, true
		case Wrapper:
			n = v.Unwrap()
		default:
			return nil, false
		}
	}
	return nil, false
}

// safeExec runs Exec and turns a panic into an error.
func safeExec(ctx context.Context, n Node, prepResult any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic in %s: %v", n.Name(), r)
		}
	}()
	return n.Exec(ctx, prepResult)
}

// ValidateGraph checks socket type compatibility across every connection
// reachable from start, before anything runs.
//
// For each connection the forwarded slot is the output named after the
// action (execute-switch style routing), or slot 0. It must be accepted by
// the successor's primary input. Nodes without descriptors are skipped but
// their successors are still visited.
func ValidateGraph(start Node) error {
	visited := make(map[string]bool)
	return validateNode(start, visited)
}

func validateNode(n Node, visited map[string]bool) error {
	if n == nil || visited[n.Name()] {
		return nil
	}
	visited[n.Name()] = true

	desc := n.Descriptor()
	for action, successor := range n.Successors() {
		if desc != nil && len(desc.Outputs) > 0 && successor.Descriptor() != nil {
			slot := desc.OutputIndex(action)
			if slot < 0 {
				slot = 0
			}
			out := desc.Outputs[slot].Type
			if in, ok := successor.Descriptor().PrimaryInput(); ok && !in.Type.Accepts(out) {
				return fmt.Errorf("type mismatch: node %q outputs %s but node %q expects %s (via action %q)",
					n.Name(), out, successor.Name(), in.Type, action)
			}
		}
		if err := validateNode(successor, visited); err != nil {
			return err
		}
	}
	return nil
}
