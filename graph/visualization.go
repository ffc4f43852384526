package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Exporter provides methods to export graphs in different formats
type Exporter[S any] struct {
	graph *StateGraph[S]
}

// NewExporter creates a new graph exporter for the given graph
func NewExporter[S any](graph *StateGraph[S]) *Exporter[S] {
	return &Exporter[S]{graph: graph}
}

// MermaidOptions defines configuration for Mermaid diagram generation
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string

	// WithDescriptions labels nodes with their descriptions instead of their names
	WithDescriptions bool
}

// DrawMermaid generates a Mermaid diagram representation of the graph
func (ge *Exporter[S]) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{
		Direction: "TD",
	})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options
func (ge *Exporter[S]) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	label := func(name string) string {
		if opts.WithDescriptions {
			if n, ok := ge.graph.nodes[name]; ok && n.Description != "" {
				return strings.ReplaceAll(n.Description, `"`, "'")
			}
		}
		return name
	}

	if ge.graph.entryPoint != "" {
		sb.WriteString("    START([\"START\"])\n")
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", ge.graph.entryPoint, label(ge.graph.entryPoint)))
	}

	for _, name := range ge.graph.order {
		if name == ge.graph.entryPoint {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", name, label(name)))
	}

	if ge.hasEnd() {
		sb.WriteString("    END([\"END\"])\n")
	}

	if ge.graph.entryPoint != "" {
		sb.WriteString(fmt.Sprintf("    START --> %s\n", ge.graph.entryPoint))
	}
	for _, edge := range ge.graph.edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", edge.From, edge.To))
	}

	if ge.graph.entryPoint != "" {
		sb.WriteString("    style START fill:#90EE90\n")
		sb.WriteString(fmt.Sprintf("    style %s fill:#87CEEB\n", ge.graph.entryPoint))
	}
	if ge.hasEnd() {
		sb.WriteString("    style END fill:#FFB6C1\n")
	}

	return sb.String()
}

func (ge *Exporter[S]) hasEnd() bool {
	for _, edge := range ge.graph.edges {
		if edge.To == END {
			return true
		}
	}
	return false
}

// DrawASCII generates an ASCII tree representation of the graph. A node
// reached through several branches is expanded once and marked "(joined)"
// afterwards.
func (ge *Exporter[S]) DrawASCII() string {
	if ge.graph.entryPoint == "" {
		return "No entry point set\n"
	}

	var sb strings.Builder
	visited := make(map[string]bool)

	sb.WriteString("Graph Execution Flow:\n")
	sb.WriteString("├── START\n")

	ge.drawASCIINode(ge.graph.entryPoint, "│   ", true, visited, &sb)

	return sb.String()
}

func (ge *Exporter[S]) drawASCIINode(nodeName string, prefix string, isLast bool, visited map[string]bool, sb *strings.Builder) {
	connector := "├──"
	nextPrefix := prefix + "│   "
	if isLast {
		connector = "└──"
		nextPrefix = prefix + "    "
	}

	if visited[nodeName] {
		sb.WriteString(fmt.Sprintf("%s%s %s (joined)\n", prefix, connector, nodeName))
		return
	}
	visited[nodeName] = true

	sb.WriteString(fmt.Sprintf("%s%s %s\n", prefix, connector, nodeName))

	if nodeName == END {
		return
	}

	outgoing := make([]string, 0)
	for _, edge := range ge.graph.edges {
		if edge.From == nodeName {
			outgoing = append(outgoing, edge.To)
		}
	}
	sort.Strings(outgoing)

	for i, target := range outgoing {
		ge.drawASCIINode(target, nextPrefix, i == len(outgoing)-1, visited, sb)
	}
}
