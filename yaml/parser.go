package yaml

import (
	"bytes"
	"fmt"
	"io"
	"os"

	goyaml "github.com/goccy/go-yaml"
)

// Parser handles parsing YAML graph definitions.
type Parser struct {
	strict bool
}

// NewParser creates a new YAML parser.
func NewParser() *Parser {
	return &Parser{}
}

// Strict makes the parser reject unknown fields.
func (p *Parser) Strict() *Parser {
	p.strict = true
	return p
}

// Parse reads and parses a YAML graph definition from a reader.
func (p *Parser) Parse(r io.Reader) (*GraphDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}

	var opts []goyaml.DecodeOption
	if p.strict {
		opts = append(opts, goyaml.Strict())
	}

	var def GraphDefinition
	if err := goyaml.UnmarshalWithOptions(data, &def, opts...); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &def, nil
}

// ParseFile reads and parses a YAML graph definition from a file.
func (p *Parser) ParseFile(filename string) (*GraphDefinition, error) {
	// #nosec G304 - graph files are chosen by the caller
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return p.Parse(file)
}

// ParseString parses a YAML graph definition from a string.
func (p *Parser) ParseString(s string) (*GraphDefinition, error) {
	return p.Parse(bytes.NewReader([]byte(s)))
}

// Marshal converts a graph definition to YAML format.
func (p *Parser) Marshal(gd *GraphDefinition) ([]byte, error) {
	data, err := goyaml.Marshal(gd)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return data, nil
}

// MarshalToFile writes a graph definition to a YAML file.
func (p *Parser) MarshalToFile(gd *GraphDefinition, filename string) error {
	data, err := p.Marshal(gd)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0o600)
}

// Example shows what a YAML graph definition looks like.
func Example() string {
	return `name: threshold
description: Route a slider value by comparing it with a threshold
version: "1.0.0"
start: level

nodes:
  - name: level
    type: CRZFloatSlider
    inputs:
      value: 0.75

  - name: check
    type: CRZCompare
    inputs:
      b: 0.5
      operator: ">"

  - name: gate
    type: CRZExecuteSwitch
    inputs:
      input: "@level.value"
      bool: "@check.0"

  - name: high
    type: CRZStringNode
    inputs:
      text: above

  - name: low
    type: CRZStringNode
    inputs:
      text: below

connections:
  - from: level
    to: check

  - from: check
    to: gate

  - from: gate
    to: high
    action: "true"

  - from: gate
    to: low
    action: "false"
`
}
