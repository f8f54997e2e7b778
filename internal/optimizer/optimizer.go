// Package optimizer reviews a network topology for security, cost and
// reliability improvements.
package optimizer

import (
	"fmt"
	"sort"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/topology"
)

// Categories, in report order.
const (
	CategorySecurity    = "security"
	CategoryCost        = "cost"
	CategoryPerformance = "performance"
	CategoryReliability = "reliability"
)

// Categories lists every category accepted by Options.Category besides "all".
var Categories = []string{CategorySecurity, CategoryCost, CategoryPerformance, CategoryReliability}

// Options configures the optimizer.
type Options struct {
	// Category filters suggestions: "all" (or empty), "security", "cost",
	// "performance" or "reliability".
	Category string
}

// Result contains optimization suggestions.
type Result struct {
	Suggestions []wetwire.OptimizeSuggestion
	Summary     wetwire.OptimizeSummary
}

// Rule checks one resource kind in the context of the whole topology.
type Rule struct {
	ID       string
	Kind     topology.Kind
	Category string
	Check    func(topo topology.Topology, res topology.Resource) *wetwire.OptimizeSuggestion
}

// ValidCategory reports whether category is accepted by Optimize.
func ValidCategory(category string) bool {
	if category == "" || category == "all" {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Optimize applies every rule to the resources of topo. Suggestions are
// sorted by resource, then rule.
func Optimize(topo topology.Topology, opts Options) (*Result, error) {
	if !ValidCategory(opts.Category) {
		return nil, fmt.Errorf("invalid category: %s", opts.Category)
	}

	result := &Result{}
	for _, res := range topo.Resources() {
		for _, rule := range rules {
			if rule.Kind != res.Kind || !matches(opts.Category, rule.Category) {
				continue
			}
			if s := rule.Check(topo, res); s != nil {
				s.Rule = rule.ID
				s.Category = rule.Category
				s.Resource = res.LogicalID
				result.Suggestions = append(result.Suggestions, *s)
			}
		}
	}

	sort.SliceStable(result.Suggestions, func(i, j int) bool {
		a, b := result.Suggestions[i], result.Suggestions[j]
		if a.Resource != b.Resource {
			return a.Resource < b.Resource
		}
		return a.Rule < b.Rule
	})
	result.Summary = calculateSummary(result.Suggestions)
	return result, nil
}

func matches(filter, category string) bool {
	return filter == "" || filter == "all" || filter == category
}

// calculateSummary tallies suggestions by category.
func calculateSummary(suggestions []wetwire.OptimizeSuggestion) wetwire.OptimizeSummary {
	summary := wetwire.OptimizeSummary{}
	for _, s := range suggestions {
		switch s.Category {
		case CategorySecurity:
			summary.Security++
		case CategoryCost:
			summary.Cost++
		case CategoryPerformance:
			summary.Performance++
		case CategoryReliability:
			summary.Reliability++
		}
		summary.Total++
	}
	return summary
}
