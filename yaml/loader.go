package yaml

import (
	"context"
	"fmt"
	"sort"

	"github.com/crznodes/crz"
)

// NodeBuilder builds a node from its definition.
type NodeBuilder func(def *NodeDefinition) (crz.Node, error)

// Loader loads graph definitions and creates executable graphs.
type Loader struct {
	parser   *Parser
	builders map[string]NodeBuilder
	wrappers []func(crz.Node) crz.Node
}

// NewLoader creates a loader with no node types registered.
func NewLoader() *Loader {
	return &Loader{
		parser:   NewParser(),
		builders: make(map[string]NodeBuilder),
	}
}

// RegisterNodeType registers a builder for a node type.
func (l *Loader) RegisterNodeType(nodeType string, builder NodeBuilder) {
	l.builders[nodeType] = builder
}

// Use wraps every node the loader builds, in the order given.
func (l *Loader) Use(wrappers ...func(crz.Node) crz.Node) {
	l.wrappers = append(l.wrappers, wrappers...)
}

// NodeTypes returns the registered node types in sorted order.
func (l *Loader) NodeTypes() []string {
	types := make([]string, 0, len(l.builders))
	for t := range l.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// LoadFile loads a graph from a YAML file.
func (l *Loader) LoadFile(filename string, store crz.Store, host *crz.Host) (*crz.Graph, error) {
	def, err := l.parser.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	return l.LoadDefinition(def, store, host)
}

// LoadString loads a graph from a YAML string.
func (l *Loader) LoadString(yamlStr string, store crz.Store, host *crz.Host) (*crz.Graph, error) {
	def, err := l.parser.ParseString(yamlStr)
	if err != nil {
		return nil, fmt.Errorf("parse string: %w", err)
	}

	return l.LoadDefinition(def, store, host)
}

// LoadDefinition creates a graph from a parsed definition. Connections are
// type checked before the graph is returned.
func (l *Loader) LoadDefinition(def *GraphDefinition, store crz.Store, host *crz.Host) (*crz.Graph, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph definition: %w", err)
	}
	if store == nil {
		store = crz.NewStore()
	}

	nodes := make(map[string]crz.Node, len(def.Nodes))
	for i := range def.Nodes {
		nodeDef := &def.Nodes[i]
		builder, ok := l.builders[nodeDef.Type]
		if !ok {
			return nil, fmt.Errorf("create node %s: %w: %s", nodeDef.Name, ErrUnknownNodeType, nodeDef.Type)
		}
		node, err := builder(nodeDef)
		if err != nil {
			return nil, fmt.Errorf("create node %s: %w", nodeDef.Name, err)
		}
		for _, wrap := range l.wrappers {
			node = wrap(node)
		}
		nodes[nodeDef.Name] = node
	}

	for _, conn := range def.Connections {
		action := conn.Action
		if action == "" {
			action = crz.DefaultAction
		}
		nodes[conn.From].Connect(action, nodes[conn.To])
	}

	start := nodes[def.Start]
	if err := crz.ValidateGraph(start); err != nil {
		return nil, err
	}

	ctx := context.Background()
	for k, v := range def.Metadata {
		if err := store.Set(ctx, "graph:metadata:"+k, v); err != nil {
			return nil, fmt.Errorf("store metadata %s: %w", k, err)
		}
	}

	return crz.NewGraph(start, store, host), nil
}
