// Package template renders a network topology as a CloudFormation template.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/serialize"
	"github.com/lex00/wetwire-eks-go/internal/topology"
)

// Description is the default template description.
const Description = "Amazon EKS - VPC"

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

// Resource is a typed CloudFormation resource.
type Resource interface {
	ResourceType() string
}

// Builder constructs CloudFormation templates from a topology.
type Builder struct {
	topo        topology.Topology
	description string
	resources   map[string]Resource
	deps        map[string][]string
}

// NewBuilder creates a template builder for topo.
func NewBuilder(topo topology.Topology) *Builder {
	b := &Builder{
		topo:        topo,
		description: Description,
		resources:   Resources(topo),
		deps:        make(map[string][]string),
	}
	for _, e := range topo.Edges() {
		b.deps[e.From] = append(b.deps[e.From], e.To)
	}
	return b
}

// SetDescription overrides the template description.
func (b *Builder) SetDescription(desc string) {
	b.description = desc
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*wetwire.Template, error) {
	order, err := b.Order()
	if err != nil {
		return nil, err
	}

	t := &wetwire.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]wetwire.ResourceDef, len(order)),
		Outputs:                  make(map[string]wetwire.Output, len(b.topo.Outputs)),
	}

	for _, name := range order {
		res := b.resources[name]
		props, err := serialize.Resource(res)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}
		t.Resources[name] = wetwire.ResourceDef{
			Type:       res.ResourceType(),
			Properties: props,
			DependsOn:  b.topo.DependsOn(name),
		}
	}

	for _, out := range b.topo.Outputs {
		value, err := serialize.Value(outputValue(out))
		if err != nil {
			return nil, fmt.Errorf("serializing output %s: %w", out.Name, err)
		}
		t.Outputs[out.Name] = wetwire.Output{Value: value}
	}

	return t, nil
}

// Order returns the logical IDs in dependency order.
func (b *Builder) Order() ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)
	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}
	for name := range b.resources {
		for _, dep := range b.deps[name] {
			if _, ok := b.resources[dep]; !ok {
				return nil, fmt.Errorf("%s refers to unknown resource %s", name, dep)
			}
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, next := range graph[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.resources) {
		return nil, b.detectCycle()
	}
	return result, nil
}

func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)

	var cycle []string
	var visit func(node string) bool
	visit = func(node string) bool {
		visited[node] = true
		onPath[node] = true
		for _, dep := range b.deps[node] {
			if !visited[dep] {
				if visit(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if onPath[dep] {
				cycle = []string{node, dep}
				return true
			}
		}
		onPath[node] = false
		return false
	}

	names := make([]string, 0, len(b.resources))
	for name := range b.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !visited[name] && visit(name) {
			break
		}
	}

	if len(cycle) > 0 {
		return errors.New("circular dependency detected: " + strings.Join(cycle, " → "))
	}
	return errors.New("circular dependency detected")
}

func outputValue(out topology.Output) any {
	if !out.Joined {
		return intrinsics.Ref{LogicalName: out.Refs[0]}
	}
	values := make([]any, 0, len(out.Refs))
	for _, id := range out.Refs {
		values = append(values, intrinsics.Ref{LogicalName: id})
	}
	return intrinsics.Join{Delimiter: ",", Values: values}
}

// ToJSON serializes the template to JSON.
func ToJSON(t *wetwire.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *wetwire.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
