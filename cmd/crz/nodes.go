package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crznodes/crz/builtin"
)

func newNodesCmd(a *app) *cobra.Command {
	var category string

	nodesCmd := &cobra.Command{
		Use:   "nodes",
		Short: "List available node types",
		Long:  `List the node types of the CRZ pack, grouped by category.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodesList(cmd.OutOrStdout(), a.output, category)
		},
	}
	nodesCmd.Flags().StringVar(&category, "category", "", "Only list nodes in this category")

	infoCmd := &cobra.Command{
		Use:   "info <node-type>",
		Short: "Show details about a node type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodesInfo(cmd.OutOrStdout(), a.output, args[0])
		},
	}
	nodesCmd.AddCommand(infoCmd)

	return nodesCmd
}

// packNodes returns the pack metadata sorted by category then type.
func packNodes() []builtin.NodeMetadata {
	registry := builtin.NewPackRegistry()
	nodes := make([]builtin.NodeMetadata, 0, len(registry.Names()))
	for _, name := range registry.Names() {
		b, _ := registry.Get(name)
		nodes = append(nodes, b.Metadata())
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Category != nodes[j].Category {
			return nodes[i].Category < nodes[j].Category
		}
		return nodes[i].Type < nodes[j].Type
	})
	return nodes
}

// runNodesList lists all available node types.
func runNodesList(w io.Writer, format, category string) error {
	nodes := packNodes()
	if category != "" {
		filtered := nodes[:0]
		for _, node := range nodes {
			if node.Category == category {
				filtered = append(filtered, node)
			}
		}
		nodes = filtered
	}

	if format != textFormat {
		list := make([]any, len(nodes))
		for i, node := range nodes {
			list[i] = metadataMap(node, false)
		}
		return writeStructured(w, format, list)
	}
	return outputTable(w, nodes)
}

func outputTable(w io.Writer, nodes []builtin.NodeMetadata) error {
	currentCategory := ""
	for _, node := range nodes {
		if node.Category != currentCategory {
			if currentCategory != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s:\n", categoryTitle(node.Category))
			currentCategory = node.Category
		}
		fmt.Fprintf(w, "  %-24s %s\n", node.Type, node.Description)
	}
	fmt.Fprintf(w, "\nTotal: %d node types\n", len(nodes))
	return nil
}

func categoryTitle(category string) string {
	if category == builtin.HiddenCategory {
		return "Hidden"
	}
	return category
}

// runNodesInfo shows detailed information about a specific node type.
func runNodesInfo(w io.Writer, format, nodeType string) error {
	registry := builtin.NewPackRegistry()
	b, ok := registry.Get(nodeType)
	if !ok {
		return fmt.Errorf("unknown node type: %s", nodeType)
	}
	meta := b.Metadata()

	if format != textFormat {
		return writeStructured(w, format, metadataMap(meta, true))
	}

	fmt.Fprintf(w, "Node Type: %s\n", meta.Type)
	fmt.Fprintf(w, "Display Name: %s\n", meta.DisplayName)
	fmt.Fprintf(w, "Category: %s\n", categoryTitle(meta.Category))
	fmt.Fprintf(w, "Description: %s\n", meta.Description)
	if meta.Since != "" {
		fmt.Fprintf(w, "Since: %s\n", meta.Since)
	}

	desc := meta.Descriptor
	if len(desc.Inputs) > 0 {
		fmt.Fprintln(w, "\nInputs:")
		for _, in := range desc.Inputs {
			var notes []string
			notes = append(notes, in.Section.String())
			if in.Lazy {
				notes = append(notes, "lazy")
			}
			if in.HasDefault() {
				notes = append(notes, "default "+describe(in.Default))
			}
			if len(in.Choices) > 0 {
				notes = append(notes, "one of "+strings.Join(in.Choices, " "))
			}
			fmt.Fprintf(w, "  %-18s %-8s %s\n", in.Name, in.Type, strings.Join(notes, ", "))
		}
	}
	if len(desc.Outputs) > 0 {
		fmt.Fprintln(w, "\nOutputs:")
		for i, out := range desc.Outputs {
			fmt.Fprintf(w, "  %d %-16s %s\n", i, out.Name, out.Type)
		}
	}
	if desc.OutputNode {
		fmt.Fprintln(w, "\nAlways evaluated by the host.")
	}

	if len(meta.Examples) > 0 {
		fmt.Fprintln(w, "\nExamples:")
		for _, ex := range meta.Examples {
			fmt.Fprintf(w, "  %s", ex.Name)
			if ex.Description != "" {
				fmt.Fprintf(w, ": %s", ex.Description)
			}
			fmt.Fprintln(w)
			keys := make([]string, 0, len(ex.Inputs))
			for k := range ex.Inputs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "    %s = %s\n", k, describe(ex.Inputs[k]))
			}
			fmt.Fprintf(w, "    => %s\n", describe(ex.Output))
		}
	}
	return nil
}
