// Package graph generates DOT and Mermaid dependency graphs of a network topology.
package graph

import (
	"io"
	"strings"

	"github.com/emicklei/dot"

	"github.com/lex00/wetwire-eks-go/internal/topology"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from a topology.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByTier groups resources into network, public, private and
	// gateway subgraphs.
	ClusterByTier bool
}

// Generate creates a dependency graph and writes it to w.
func (g *Generator) Generate(topo topology.Topology, w io.Writer) error {
	graph := g.buildGraph(topo)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(topo topology.Topology) (string, error) {
	var sb strings.Builder
	if err := g.Generate(topo, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(topo topology.Topology) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	// Mermaid expects its own shape values, so box is DOT only.
	mermaid := g.Format == FormatMermaid
	graph.NodeInitializer(func(n dot.Node) {
		if !mermaid {
			n.Attr("shape", "box")
		}
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	clusters := make(map[topology.Tier]*dot.Graph)
	for _, res := range topo.Resources() {
		parent := graph
		if g.ClusterByTier {
			parent = clusters[res.Tier]
			if parent == nil {
				parent = graph.Subgraph(string(res.Tier), dot.ClusterOption{})
				parent.Attr("label", string(res.Tier))
				parent.Attr("style", "rounded")
				parent.Attr("bgcolor", "lightyellow")
				clusters[res.Tier] = parent
			}
		}
		n := parent.Node(res.LogicalID)
		n.Label(res.LogicalID + "\\n[AWS::EC2::" + string(res.Kind) + "]")
	}

	for _, edge := range topo.Edges() {
		from, _ := graph.FindNodeById(edge.From)
		to, _ := graph.FindNodeById(edge.To)
		e := graph.Edge(from, to)
		switch edge.Kind {
		case topology.EdgeGetAtt:
			e.Attr("color", "blue")
		case topology.EdgeDependsOn:
			e.Attr("style", "dashed")
		}
	}

	return graph
}
