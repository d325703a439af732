// Package middleware decorates nodes with cross-cutting behaviour such as
// lifecycle logging and timing, without changing what the node computes.
package middleware

import (
	"context"

	"github.com/crznodes/crz"
)

// Middleware modifies node behavior.
type Middleware func(crz.Node) crz.Node

// middlewareNode wraps a node to modify its behavior. Unset steps defer to
// the inner node.
type middlewareNode struct {
	inner crz.Node
	prep  crz.PrepFunc
	exec  crz.ExecFunc
	post  crz.PostFunc
}

func (m *middlewareNode) Name() string {
	return m.inner.Name()
}

func (m *middlewareNode) Descriptor() *crz.Descriptor {
	return m.inner.Descriptor()
}

func (m *middlewareNode) Prep(ctx context.Context, host *crz.Host, store crz.StoreReader, input any) (any, error) {
	if m.prep != nil {
		return m.prep(ctx, host, store, input)
	}
	return m.inner.Prep(ctx, host, store, input)
}

func (m *middlewareNode) Exec(ctx context.Context, prepResult any) (any, error) {
	if m.exec != nil {
		return m.exec(ctx, prepResult)
	}
	return m.inner.Exec(ctx, prepResult)
}

func (m *middlewareNode) Post(ctx context.Context, host *crz.Host, store crz.StoreWriter, input, prepResult, execResult any) (any, string, error) {
	if m.post != nil {
		return m.post(ctx, host, store, input, prepResult, execResult)
	}
	return m.inner.Post(ctx, host, store, input, prepResult, execResult)
}

func (m *middlewareNode) Connect(action string, next crz.Node) crz.Node {
	m.inner.Connect(action, next)
	return m
}

func (m *middlewareNode) Successors() map[string]crz.Node {
	return m.inner.Successors()
}

// Unwrap returns the decorated node.
func (m *middlewareNode) Unwrap() crz.Node {
	return m.inner
}

// Chain combines multiple middlewares into a single middleware.
// The first middleware is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(node crz.Node) crz.Node {
		for i := len(middlewares) - 1; i >= 0; i-- {
			node = middlewares[i](node)
		}
		return node
	}
}

// Apply applies middleware to a node in order, so the last one is the
// outermost.
func Apply(node crz.Node, middlewares ...Middleware) crz.Node {
	for _, mw := range middlewares {
		node = mw(node)
	}
	return node
}
