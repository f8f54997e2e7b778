package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/differ"
	"github.com/lex00/wetwire-eks-go/internal/schema"
	"github.com/lex00/wetwire-eks-go/internal/validation"
)

var errValidationFailed = errors.New("validation failed")

// newValidateCmd creates the "validate" subcommand.
func newValidateCmd(g *globalOptions) *cobra.Command {
	var (
		outputFormat string
		ignoreRules  []string
		offline      bool
		strict       bool
		network      networkFlags
	)

	cmd := &cobra.Command{
		Use:   "validate [template]",
		Short: "Check a template with schema rules and cfn-lint",
		Long: `Validate checks a CloudFormation template against the built-in EC2 schemas
and runs cfn-lint over it. Without an argument the template is built from
the current configuration first.

Examples:
    wetwire-eks validate --base-cidr 10.0
    wetwire-eks validate template.json --format json
    wetwire-eks validate template.yaml --ignore W3005
    wetwire-eks validate --base-cidr 10.0 --offline --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tmpl *wetwire.Template
				err  error
			)
			if len(args) == 1 {
				tmpl, err = differ.LoadTemplate(args[0])
				if errors.Is(err, os.ErrNotExist) && !offline {
					tmpl, err = nil, nil
				}
			} else {
				tmpl, err = builtTemplate(cmd, g, &network)
			}
			if err != nil {
				return err
			}

			result := wetwire.ValidateResult{Success: true}
			if tmpl != nil {
				result.Resources = len(tmpl.Resources)
				checked, err := schema.ValidateTemplate(tmpl, schema.Options{Strict: strict})
				if err != nil {
					return err
				}
				for _, e := range checked.Errors {
					result.Errors = append(result.Errors, "schema: "+e.String())
				}
				for _, w := range checked.Warnings {
					result.Warnings = append(result.Warnings, "schema: "+w.String())
				}
			}

			if !offline {
				opts := validation.Options{IgnoreRules: ignoreRules}
				var linted *validation.Result
				if len(args) == 1 {
					linted, err = validation.LintFile(args[0], opts)
				} else {
					linted, err = validation.LintTemplate(tmpl, opts)
				}
				if err != nil {
					return fmt.Errorf("validation failed: %w", err)
				}
				result.Errors = append(result.Errors, linted.Errors...)
				result.Warnings = append(result.Warnings, linted.Warnings...)
				result.Informational = append(result.Informational, linted.Informational...)
			}

			result.Success = len(result.Errors) == 0
			return outputValidateResult(cmd, result, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringSliceVar(&ignoreRules, "ignore", nil, "Rule IDs to ignore, e.g. W3005")
	cmd.Flags().BoolVar(&offline, "offline", false, "Only run the built-in schema checks, skip cfn-lint")
	cmd.Flags().BoolVar(&strict, "strict", false, "Warn about properties the schema does not know")
	network.register(cmd)

	return cmd
}

func outputValidateResult(cmd *cobra.Command, result wetwire.ValidateResult, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		if result.Success {
			fmt.Fprintf(out, "Validation passed: %d resources OK\n", result.Resources)
			for _, warnMsg := range result.Warnings {
				fmt.Fprintf(out, "  WARNING: %s\n", warnMsg)
			}
			return nil
		}

		fmt.Fprintln(out, "Validation FAILED:")
		for _, errMsg := range result.Errors {
			fmt.Fprintf(out, "  ERROR: %s\n", errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Fprintf(out, "  WARNING: %s\n", warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		return errValidationFailed
	}
	return nil
}
