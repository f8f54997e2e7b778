// Package differ provides semantic comparison of CloudFormation templates.
//
// It compares template files only. Comparing against deployed stacks is
// left to CloudFormation change sets.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-eks-go"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons.
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    wetwire.TemplateDiff
	Summary wetwire.DiffSummary
}

// Compare compares two CloudFormation templates and returns differences.
// Both templates are normalized through JSON first, so a template built in
// memory compares equal to the same template read back from disk.
func Compare(before, after *wetwire.Template, opts Options) (*Result, error) {
	res1, err := canonical(before)
	if err != nil {
		return nil, err
	}
	res2, err := canonical(after)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	// Find added resources
	for name, def := range res2 {
		if _, ok := res1[name]; !ok {
			result.Diff.Added = append(result.Diff.Added, wetwire.DiffEntry{Resource: name, Type: def.Type})
		}
	}
	// Find removed and modified resources
	for name, def1 := range res1 {
		def2, ok := res2[name]
		if !ok {
			result.Diff.Removed = append(result.Diff.Removed, wetwire.DiffEntry{Resource: name, Type: def1.Type})
			continue
		}
		if changes := compareResources(def1, def2, opts); len(changes) > 0 {
			result.Diff.Modified = append(result.Diff.Modified, wetwire.DiffEntry{
				Resource: name,
				Type:     def1.Type,
				Changes:  changes,
			})
		}
	}

	// Sort entries for consistent output
	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	// Calculate summary
	result.Summary = wetwire.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified
	return result, nil
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}
	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}
	return Compare(t1, t2, opts)
}

// LoadTemplate loads a JSON or YAML CloudFormation template from a file.
func LoadTemplate(path string) (*wetwire.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t wetwire.Template
	if err := json.Unmarshal(data, &t); err != nil {
		t = wetwire.Template{}
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}
	return &t, nil
}

type resource struct {
	Type       string         `json:"Type"`
	Properties map[string]any `json:"Properties"`
	DependsOn  []string       `json:"DependsOn"`
}

func canonical(t *wetwire.Template) (map[string]resource, error) {
	if t == nil {
		return map[string]resource{}, nil
	}
	data, err := json.Marshal(t.Resources)
	if err != nil {
		return nil, fmt.Errorf("normalizing template: %w", err)
	}
	out := make(map[string]resource)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("normalizing template: %w", err)
	}
	return out, nil
}

func compareResources(def1, def2 resource, opts Options) []string {
	var changes []string
	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}
	changes = append(changes, compareProperties("", def1.Properties, def2.Properties, opts)...)

	deps1, deps2 := append([]string(nil), def1.DependsOn...), append([]string(nil), def2.DependsOn...)
	sort.Strings(deps1)
	sort.Strings(deps2)
	if !reflect.DeepEqual(deps1, deps2) && (len(deps1) > 0 || len(deps2) > 0) {
		changes = append(changes, "DependsOn changed")
	}
	return changes
}

// compareProperties walks nested maps and reports dotted property paths.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) []string {
	var changes []string
	path := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	// Find added/modified properties
	for key, val2 := range props2 {
		val1, ok := props1[key]
		if !ok {
			changes = append(changes, path(key)+" added")
			continue
		}
		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 {
			changes = append(changes, compareProperties(path(key), m1, m2, opts)...)
			continue
		}
		if !deepEqual(val1, val2, opts) {
			changes = append(changes, path(key)+" modified")
		}
	}
	// Find removed properties
	for key := range props1 {
		if _, ok := props2[key]; !ok {
			changes = append(changes, path(key)+" removed")
		}
	}

	sort.Strings(changes)
	return changes
}

func deepEqual(a, b any, opts Options) bool {
	if opts.IgnoreOrder {
		a = unordered(a)
		b = unordered(b)
	}
	return reflect.DeepEqual(a, b)
}

// unordered sorts every slice by the JSON encoding of its elements.
func unordered(v any) any {
	switch val := v.(type) {
	case []any:
		type keyed struct {
			key  string
			elem any
		}
		items := make([]keyed, len(val))
		for i, elem := range val {
			elem = unordered(elem)
			data, _ := json.Marshal(elem)
			items[i] = keyed{key: string(data), elem: elem}
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item.elem
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = unordered(elem)
		}
		return out
	default:
		return v
	}
}

func sortEntries(entries []wetwire.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
