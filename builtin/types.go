package builtin

import "github.com/crznodes/crz"

// Category is the category every pack node is listed under, except the
// conversion helpers.
const Category = "CRZ"

// HiddenCategory keeps a node out of the host's add-node menu.
const HiddenCategory = "__hidden__"

// NodeMetadata describes a node type.
type NodeMetadata struct {
	Type        string          `json:"type" yaml:"type"`
	DisplayName string          `json:"displayName" yaml:"displayName"`
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
	Descriptor  *crz.Descriptor `json:"-" yaml:"-"`
	InputSchema map[string]any  `json:"inputSchema,omitempty" yaml:"inputSchema,omitempty"`
	Examples    []Example       `json:"examples,omitempty" yaml:"examples,omitempty"`
	Since       string          `json:"since,omitempty" yaml:"since,omitempty"`
}

// Example shows how to use a node. Output is the value the node forwards.
type Example struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Inputs      map[string]any `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Output      any            `json:"output,omitempty" yaml:"output,omitempty"`
}

// metadata derives a node's metadata from its descriptor.
func metadata(desc *crz.Descriptor, examples ...Example) NodeMetadata {
	return NodeMetadata{
		Type:        desc.Name,
		DisplayName: desc.DisplayName,
		Category:    desc.Category,
		Description: desc.Description,
		Descriptor:  desc,
		InputSchema: InputSchema(desc),
		Examples:    examples,
		Since:       "1.0.0",
	}
}
