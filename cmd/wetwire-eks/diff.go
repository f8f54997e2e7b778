package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/differ"
)

// newDiffCmd creates the "diff" subcommand for comparing templates.
func newDiffCmd(g *globalOptions) *cobra.Command {
	var (
		outputFormat string
		ignoreOrder  bool
		network      networkFlags
	)

	cmd := &cobra.Command{
		Use:   "diff <template1> [template2]",
		Short: "Compare two CloudFormation templates",
		Long: `Diff compares two templates resource by resource. With a single argument
the file is compared against the template built from the current
configuration.

Examples:
    wetwire-eks diff deployed.json
    wetwire-eks diff old.json new.yaml --format json
    wetwire-eks diff old.json new.json --ignore-order`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := differ.Options{IgnoreOrder: ignoreOrder}

			var (
				result *differ.Result
				err    error
			)
			if len(args) == 2 {
				result, err = differ.CompareFiles(args[0], args[1], opts)
			} else {
				result, err = diffAgainstBuild(cmd, g, &network, args[0], opts)
			}
			if err != nil {
				return err
			}

			return outputDiffResult(cmd.OutOrStdout(), wetwire.DiffResult{
				Success: true,
				Diff:    result.Diff,
				Summary: result.Summary,
			}, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false, "Ignore array element order")
	network.register(cmd)

	return cmd
}

func diffAgainstBuild(cmd *cobra.Command, g *globalOptions, n *networkFlags, path string, opts differ.Options) (*differ.Result, error) {
	before, err := differ.LoadTemplate(path)
	if err != nil {
		return nil, err
	}
	after, err := builtTemplate(cmd, g, n)
	if err != nil {
		return nil, err
	}
	return differ.Compare(before, after, opts)
}

func outputDiffResult(w io.Writer, result wetwire.DiffResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil

	case "text":
		if result.Summary.Total == 0 {
			fmt.Fprintln(w, "No differences")
			return nil
		}
		for _, e := range result.Diff.Added {
			fmt.Fprintf(w, "+ %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Removed {
			fmt.Fprintf(w, "- %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Modified {
			fmt.Fprintf(w, "~ %s (%s)\n", e.Resource, e.Type)
			for _, c := range e.Changes {
				fmt.Fprintf(w, "    %s\n", c)
			}
		}
		fmt.Fprintf(w, "\n%s\n", summaryLine(result.Summary))
		return nil

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func summaryLine(s wetwire.DiffSummary) string {
	parts := []string{
		fmt.Sprintf("%d added", s.Added),
		fmt.Sprintf("%d removed", s.Removed),
		fmt.Sprintf("%d modified", s.Modified),
	}
	return "Summary: " + strings.Join(parts, ", ")
}
