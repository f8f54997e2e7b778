package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-eks-go/internal/graph"
)

func newGraphCmd(g *globalOptions) *cobra.Command {
	var (
		outputFormat  string
		clusterByTier bool
		network       networkFlags
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing how the network resources
reference each other.

The output can be rendered with Graphviz:
    wetwire-eks graph --base-cidr 10.0 | dot -Tpng -o vpc.png

Or used in GitHub markdown (Mermaid format):
    wetwire-eks graph --base-cidr 10.0 -f mermaid

Examples:
    wetwire-eks graph --base-cidr 10.0 -c       # cluster by tier`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var graphFormat graph.Format
			switch outputFormat {
			case "dot":
				graphFormat = graph.FormatDOT
			case "mermaid":
				graphFormat = graph.FormatMermaid
			default:
				return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", outputFormat)
			}

			topo, _, _, err := buildTopology(cmd, g, &network)
			if err != nil {
				return err
			}

			gen := &graph.Generator{
				Format:        graphFormat,
				ClusterByTier: clusterByTier,
			}
			return gen.Generate(topo, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&clusterByTier, "cluster", "c", false, "Cluster resources by tier")
	network.register(cmd)

	return cmd
}
