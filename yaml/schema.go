// Package yaml loads CRZ graph definitions from YAML.
//
// A graph file names its nodes, the pack node type each one instantiates,
// literal or linked input values, and the action-labelled connections the
// graph walks. Inputs written as "@node.slot" link to an output of a node
// that ran earlier; "@@" escapes a literal leading "@".
package yaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crznodes/crz"
)

// ErrUnknownNodeType is returned when a definition names an unregistered type.
var ErrUnknownNodeType = errors.New("yaml: unknown node type")

// GraphDefinition represents a complete graph defined in YAML.
type GraphDefinition struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Version     string           `yaml:"version,omitempty"`
	Metadata    map[string]any   `yaml:"metadata,omitempty"`
	Start       string           `yaml:"start"`
	Nodes       []NodeDefinition `yaml:"nodes"`
	Connections []Connection     `yaml:"connections,omitempty"`
}

// NodeDefinition represents one node instance.
type NodeDefinition struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"`
	Description string         `yaml:"description,omitempty"`
	Inputs      map[string]any `yaml:"inputs,omitempty"`
}

// Connection represents an action-labelled edge between nodes.
type Connection struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Action string `yaml:"action,omitempty"`
}

// Validate checks that the definition is structurally sound.
func (gd *GraphDefinition) Validate() error {
	if gd.Name == "" {
		return fmt.Errorf("graph name is required")
	}
	if gd.Start == "" {
		return fmt.Errorf("start node is required")
	}
	if len(gd.Nodes) == 0 {
		return fmt.Errorf("at least one node is required")
	}

	nodeMap := make(map[string]bool, len(gd.Nodes))
	for _, node := range gd.Nodes {
		if node.Name == "" {
			return fmt.Errorf("node name is required")
		}
		if node.Type == "" {
			return fmt.Errorf("node type is required for node %s", node.Name)
		}
		if nodeMap[node.Name] {
			return fmt.Errorf("duplicate node name %s", node.Name)
		}
		nodeMap[node.Name] = true
	}

	if !nodeMap[gd.Start] {
		return fmt.Errorf("start node %s not found", gd.Start)
	}

	for _, conn := range gd.Connections {
		if !nodeMap[conn.From] {
			return fmt.Errorf("connection from node %s not found", conn.From)
		}
		if !nodeMap[conn.To] {
			return fmt.Errorf("connection to node %s not found", conn.To)
		}
	}

	for _, node := range gd.Nodes {
		for input, v := range node.Inputs {
			link, ok := ParseLink(v)
			if !ok {
				continue
			}
			if !nodeMap[link.Node] {
				return fmt.Errorf("node %s: input %s links to unknown node %s", node.Name, input, link.Node)
			}
		}
	}

	return nil
}

// Link references an output slot of another node.
type Link struct {
	Node string
	// Slot is an output index or name.
	Slot string
}

// Key returns the store key the linked output is kept under.
func (l Link) Key() string {
	return crz.OutputKey(l.Node, l.Slot)
}

func (l Link) String() string {
	return "@" + l.Node + "." + l.Slot
}

// ParseLink recognizes "@node.slot" and "@node" (slot 0).
func ParseLink(v any) (Link, bool) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "@") || strings.HasPrefix(s, "@@") {
		return Link{}, false
	}
	ref := s[1:]
	if ref == "" {
		return Link{}, false
	}
	if i := strings.LastIndex(ref, "."); i > 0 && i < len(ref)-1 {
		return Link{Node: ref[:i], Slot: ref[i+1:]}, true
	}
	return Link{Node: ref, Slot: "0"}, true
}

// Unescape turns a literal "@@text" into "@text". Other values are returned
// unchanged.
func Unescape(v any) any {
	if s, ok := v.(string); ok && strings.HasPrefix(s, "@@") {
		return s[1:]
	}
	return v
}
