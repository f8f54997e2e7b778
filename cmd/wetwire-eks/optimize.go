package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/optimizer"
)

// newOptimizeCmd creates the "optimize" subcommand for suggesting improvements.
func newOptimizeCmd(g *globalOptions) *cobra.Command {
	var (
		outputFormat string
		category     string
		network      networkFlags
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Suggest improvements to the network",
		Long: `Optimize reviews the network and suggests improvements for security,
cost, performance and reliability.

Categories:
    security     - Public exposure of nodes, traffic logging
    cost         - NAT gateway data processing
    performance  - Address space available to pods
    reliability  - Zone redundancy of egress

Examples:
    wetwire-eks optimize --base-cidr 10.0
    wetwire-eks optimize --base-cidr 10.0 --category security
    wetwire-eks optimize --config wetwire-eks.yaml -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !optimizer.ValidCategory(category) {
				return fmt.Errorf("invalid category: %s (valid: all, %s)", category, strings.Join(optimizer.Categories, ", "))
			}

			topo, _, _, err := buildTopology(cmd, g, &network)
			if err != nil {
				return err
			}
			optResult, err := optimizer.Optimize(topo, optimizer.Options{Category: category})
			if err != nil {
				return fmt.Errorf("optimize failed: %w", err)
			}

			return outputOptimizeResult(cmd.OutOrStdout(), wetwire.OptimizeResult{
				Success:       true,
				Suggestions:   optResult.Suggestions,
				ResourceCount: len(topo.Resources()),
				Summary:       optResult.Summary,
			}, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&category, "category", "c", "all", "Category: all, security, cost, performance, or reliability")
	network.register(cmd)

	return cmd
}

func outputOptimizeResult(w io.Writer, result wetwire.OptimizeResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Suggestions) == 0 {
			fmt.Fprintf(w, "Analyzed %d resources. No optimization suggestions.\n", result.ResourceCount)
			return nil
		}

		fmt.Fprintf(w, "Analyzed %d resources. Found %d suggestions:\n\n", result.ResourceCount, result.Summary.Total)

		byCat := map[string][]wetwire.OptimizeSuggestion{}
		for _, s := range result.Suggestions {
			byCat[s.Category] = append(byCat[s.Category], s)
		}

		for _, cat := range optimizer.Categories {
			suggestions := byCat[cat]
			if len(suggestions) == 0 {
				continue
			}

			fmt.Fprintf(w, "=== %s (%d) ===\n", strings.ToUpper(cat[:1])+cat[1:], len(suggestions))
			for _, s := range suggestions {
				fmt.Fprintf(w, "\n[%s] %s (%s)\n", s.Severity, s.Title, s.Rule)
				fmt.Fprintf(w, "  Resource: %s\n", s.Resource)
				fmt.Fprintf(w, "  %s\n", s.Description)
				fmt.Fprintf(w, "  Suggestion: %s\n", s.Suggestion)
			}
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "Summary: %d security, %d cost, %d performance, %d reliability\n",
			result.Summary.Security, result.Summary.Cost,
			result.Summary.Performance, result.Summary.Reliability)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
