package crz

import (
	"context"
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNoStartNode is returned when a graph has no start node defined.
	ErrNoStartNode = errors.New("crz: no start node defined")

	// ErrNodeNotFound is returned when a referenced node doesn't exist.
	ErrNodeNotFound = errors.New("crz: node not found")

	// ErrInvalidInput is returned when an input cannot be bound or has the wrong type.
	ErrInvalidInput = errors.New("crz: invalid input")

	// ErrBlocked is returned by Prep when an evaluated input carries a
	// suspend-branch marker. Graphs treat it as a skip, not a failure.
	ErrBlocked = errors.New("crz: execution blocked")
)

// PrepFunc binds inputs before execution with read-only store access.
type PrepFunc func(ctx context.Context, host *Host, store StoreReader, input any) (prepResult any, err error)

// ExecFunc performs the node's transform without store or host access.
type ExecFunc func(ctx context.Context, prepResult any) (execResult any, err error)

// FallbackFunc turns an Exec failure into the node's safe default result.
// Like ExecFunc it has no store access.
type FallbackFunc func(ctx context.Context, prepResult any, execErr error) (fallbackResult any, err error)

// PostFunc publishes results and determines routing with full store access.
type PostFunc func(ctx context.Context, host *Host, store StoreWriter, input, prepResult, execResult any) (output any, next string, err error)

// Steps groups the lifecycle functions for a node.
// All fields are optional - missing steps pass their input through.
type Steps struct {
	Prep     PrepFunc
	Exec     ExecFunc
	Fallback FallbackFunc
	Post     PostFunc
}

// Node is the unit of execution in a graph.
type Node interface {
	// Name returns the node's identifier within its graph.
	Name() string

	// Descriptor returns the node type description, or nil for ad-hoc nodes.
	Descriptor() *Descriptor

	Prep(ctx context.Context, host *Host, store StoreReader, input any) (prepResult any, err error)
	Exec(ctx context.Context, prepResult any) (execResult any, err error)
	Post(ctx context.Context, host *Host, store StoreWriter, input, prepResult, execResult any) (output any, next string, err error)

	// Connect adds a successor node for the given action.
	Connect(action string, next Node) Node

	// Successors returns all connected nodes.
	Successors() map[string]Node
}

// node is the private implementation of Node.
type node struct {
	name       string
	desc       *Descriptor
	successors map[string]Node
	opts       nodeOptions
}

// nodeOptions holds configuration for a node.
type nodeOptions struct {
	prep     PrepFunc
	exec     ExecFunc
	post     PostFunc
	fallback FallbackFunc
	desc     *Descriptor
	onError  func(error)
}

// Option configures a Node.
type Option func(*nodeOptions)

// WithPrep sets the preparation function.
func WithPrep(fn PrepFunc) Option {
	return func(o *nodeOptions) {
		o.prep = fn
	}
}

// WithExec sets the execution function with type safety.
// For dynamic typing, use WithExec[any, any].
func WithExec[In, Out any](fn func(ctx context.Context, input In) (Out, error)) Option {
	return func(o *nodeOptions) {
		o.exec = func(ctx context.Context, prepResult any) (any, error) {
			var typed In
			if prepResult != nil {
				var ok bool
				typed, ok = prepResult.(In)
				if !ok {
					return nil, fmt.Errorf("%w: exec expected %T, got %T", ErrInvalidInput, *new(In), prepResult)
				}
			}
			result, err := fn(ctx, typed)
			if err != nil {
				return nil, err
			}
			return result, nil
		}
	}
}

// WithPost sets the post-processing function.
func WithPost(fn PostFunc) Option {
	return func(o *nodeOptions) {
		o.post = fn
	}
}

// WithFallback sets the function that replaces a failed Exec result.
func WithFallback(fn FallbackFunc) Option {
	return func(o *nodeOptions) {
		o.fallback = fn
	}
}

// WithDescriptor attaches a node type description used for output
// bookkeeping and graph validation.
func WithDescriptor(desc *Descriptor) Option {
	return func(o *nodeOptions) {
		o.desc = desc
	}
}

// WithErrorHandler sets a handler that observes errors returned from the lifecycle.
func WithErrorHandler(handler func(error)) Option {
	return func(o *nodeOptions) {
		o.onError = handler
	}
}

// NewNode creates a node from lifecycle steps and options.
// Options are applied after steps, so an option overrides a step.
func NewNode(name string, steps Steps, opts ...Option) Node {
	n := &node{
		name:       name,
		successors: make(map[string]Node),
		opts: nodeOptions{
			prep:     steps.Prep,
			exec:     steps.Exec,
			post:     steps.Post,
			fallback: steps.Fallback,
		},
	}
	for _, opt := range opts {
		opt(&n.opts)
	}
	n.desc = n.opts.desc
	return n
}

// Name returns the node's identifier.
func (n *node) Name() string {
	return n.name
}

// Descriptor returns the attached descriptor, if any.
func (n *node) Descriptor() *Descriptor {
	return n.desc
}

// Prep implements the preparation phase of the node lifecycle.
func (n *node) Prep(ctx context.Context, host *Host, store StoreReader, input any) (any, error) {
	if n.opts.prep != nil {
		return n.opts.prep(ctx, host, store, input)
	}
	return input, nil
}

// Exec implements the execution phase of the node lifecycle.
func (n *node) Exec(ctx context.Context, prepResult any) (any, error) {
	if n.opts.exec != nil {
		return n.opts.exec(ctx, prepResult)
	}
	return prepResult, nil
}

// Post implements the post-processing phase of the node lifecycle.
func (n *node) Post(ctx context.Context, host *Host, store StoreWriter, input, prepResult, execResult any) (any, string, error) {
	if n.opts.post != nil {
		return n.opts.post(ctx, host, store, input, prepResult, execResult)
	}
	return execResult, DefaultAction, nil
}

// Connect adds a successor node for the given action.
func (n *node) Connect(action string, next Node) Node {
	n.successors[action] = next
	return n
}

// Successors returns all connected nodes.
func (n *node) Successors() map[string]Node {
	return n.successors
}

// DefaultAction is the routing action used when a node does not choose one.
const DefaultAction = "default"

// Default is a helper function to connect to the default next node.
func Default(n, next Node) Node {
	return n.Connect(DefaultAction, next)
}
