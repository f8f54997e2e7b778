// Package validation lints rendered CloudFormation templates with cfn-lint-go.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/template"
)

// Result contains the outcome of a lint run.
type Result struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r Result) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// Options configures a lint run.
type Options struct {
	// IgnoreRules drops matches whose rule ID is listed, e.g. "W3005".
	IgnoreRules []string
}

// LintFile runs cfn-lint-go on a template file. Missing files and linter
// failures are reported as errors in the Result.
func LintFile(path string, opts Options) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return &Result{Errors: []string{fmt.Sprintf("Template file not found: %s", path)}}, nil
	}

	matches, err := lint.New(lint.Options{}).LintFile(path)
	if err != nil {
		return &Result{Errors: []string{fmt.Sprintf("Linter error: %v", err)}}, nil
	}

	result := &Result{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}
	for _, match := range matches {
		if slices.Contains(opts.IgnoreRules, match.Rule.ID) {
			continue
		}
		formatted := formatMatch(match)
		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	// warnings are acceptable
	result.Passed = len(result.Errors) == 0
	return result, nil
}

// LintTemplate writes t to a temporary YAML file and lints it.
func LintTemplate(t *wetwire.Template, opts Options) (*Result, error) {
	data, err := template.ToYAML(t)
	if err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}

	dir, err := os.MkdirTemp("", "wetwire-eks-validate-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}
	return LintFile(path, opts)
}

func formatMatch(match lint.Match) string {
	if len(match.Location.Path) == 0 {
		return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
	}
	parts := make([]string, len(match.Location.Path))
	for i, p := range match.Location.Path {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, strings.Join(parts, "/"))
}
