package builtin

import (
	"fmt"
	"sort"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/yaml"
)

// NodeBuilder creates nodes and provides metadata.
type NodeBuilder interface {
	Metadata() NodeMetadata
	Build(def *yaml.NodeDefinition) (crz.Node, error)
}

// Registry maps internal identifiers to node builders and display labels.
type Registry struct {
	builders map[string]NodeBuilder
	labels   map[string]string
}

// NewRegistry creates an empty node registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]NodeBuilder),
		labels:   make(map[string]string),
	}
}

// Register adds a node builder under its type identifier.
func (r *Registry) Register(builder NodeBuilder) {
	meta := builder.Metadata()
	r.builders[meta.Type] = builder
	r.labels[meta.Type] = meta.DisplayName
}

// Get returns a builder by type.
func (r *Registry) Get(nodeType string) (NodeBuilder, bool) {
	builder, exists := r.builders[nodeType]
	return builder, exists
}

// DisplayName returns the label shown for a node type.
func (r *Registry) DisplayName(nodeType string) (string, bool) {
	label, exists := r.labels[nodeType]
	return label, exists
}

// All returns all registered builders.
func (r *Registry) All() map[string]NodeBuilder {
	return r.builders
}

// Names returns the registered type identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pack returns a builder for every node in the pack.
func Pack() []NodeBuilder {
	return []NodeBuilder{
		// Widgets
		&BooleanToggleBuilder{},
		&FloatSliderBuilder{},
		&IntegerSliderBuilder{},
		&StringNodeBuilder{},
		&LabelBuilder{},
		&DropdownBuilder{},
		&CustomDropdownBuilder{},
		&MapDropdownBuilder{},

		// Logic and routing
		&CompareBuilder{},
		&SwitchBuilder{},
		&ExecuteSwitchBuilder{},
		&ExecuteBlockBuilder{},

		// Conversion
		&PassthroughBuilder{},
		&FloatToIntBuilder{},
		&IntToFloatBuilder{},

		// Dashboard
		&DashboardBuilder{},
		&DashboardNodeBuilder{},
		&DashboardGetBuilder{},

		// Images
		&ImageSelectorBuilder{},
		&ImageSelectorBatchBuilder{},
	}
}

// NewPackRegistry returns a registry holding the whole pack.
func NewPackRegistry() *Registry {
	registry := NewRegistry()
	for _, builder := range Pack() {
		registry.Register(builder)
	}
	return registry
}

// RegisterAll registers the pack with a YAML loader. Every builder is
// wrapped so literal inputs are validated before the node is built.
func RegisterAll(loader *yaml.Loader) *Registry {
	registry := NewPackRegistry()

	for _, builder := range registry.All() {
		meta := builder.Metadata()
		loader.RegisterNodeType(meta.Type, createValidatingBuilder(builder))
	}

	return registry
}

// createValidatingBuilder wraps a builder with input validation.
func createValidatingBuilder(builder NodeBuilder) yaml.NodeBuilder {
	return func(def *yaml.NodeDefinition) (crz.Node, error) {
		meta := builder.Metadata()
		if err := ValidateNodeInputs(&meta, def.Inputs); err != nil {
			return nil, fmt.Errorf("input validation failed for node '%s': %w", def.Name, err)
		}

		return builder.Build(def)
	}
}
