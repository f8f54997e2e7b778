// Package schema checks rendered resources against the CloudFormation
// schemas of the EC2 types the network uses, without network access.
package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	wetwire "github.com/lex00/wetwire-eks-go"
)

// Options configures schema validation.
type Options struct {
	// Strict reports properties the schema does not know as warnings.
	Strict bool
}

// Result contains schema validation results.
type Result struct {
	Valid    bool
	Errors   []wetwire.SchemaError
	Warnings []wetwire.SchemaError
}

// ResourceSchema lists the properties of one resource type.
type ResourceSchema struct {
	Required   []string
	Properties map[string]PropertySchema
}

// PropertySchema describes one property.
type PropertySchema struct {
	Type          string
	AllowedValues []string
}

// Property types understood by matchesType.
const (
	TypeString  = "String"
	TypeBoolean = "Boolean"
	TypeList    = "List"
)

var tagsProperty = PropertySchema{Type: TypeList}

var resourceSchemas = map[string]ResourceSchema{
	"AWS::EC2::VPC": {
		Properties: map[string]PropertySchema{
			"CidrBlock":          {Type: TypeString},
			"EnableDnsHostnames": {Type: TypeBoolean},
			"EnableDnsSupport":   {Type: TypeBoolean},
			"InstanceTenancy":    {Type: TypeString, AllowedValues: []string{"default", "dedicated", "host"}},
			"Tags":               tagsProperty,
		},
	},
	"AWS::EC2::Subnet": {
		Required: []string{"VpcId"},
		Properties: map[string]PropertySchema{
			"AvailabilityZone":    {Type: TypeString},
			"CidrBlock":           {Type: TypeString},
			"MapPublicIpOnLaunch": {Type: TypeBoolean},
			"VpcId":               {Type: TypeString},
			"Tags":                tagsProperty,
		},
	},
	"AWS::EC2::SubnetRouteTableAssociation": {
		Required: []string{"RouteTableId", "SubnetId"},
		Properties: map[string]PropertySchema{
			"RouteTableId": {Type: TypeString},
			"SubnetId":     {Type: TypeString},
		},
	},
	"AWS::EC2::RouteTable": {
		Required: []string{"VpcId"},
		Properties: map[string]PropertySchema{
			"VpcId": {Type: TypeString},
			"Tags":  tagsProperty,
		},
	},
	"AWS::EC2::Route": {
		Required: []string{"RouteTableId"},
		Properties: map[string]PropertySchema{
			"DestinationCidrBlock": {Type: TypeString},
			"GatewayId":            {Type: TypeString},
			"NatGatewayId":         {Type: TypeString},
			"RouteTableId":         {Type: TypeString},
		},
	},
	"AWS::EC2::InternetGateway": {
		Properties: map[string]PropertySchema{
			"Tags": tagsProperty,
		},
	},
	"AWS::EC2::VPCGatewayAttachment": {
		Required: []string{"VpcId"},
		Properties: map[string]PropertySchema{
			"InternetGatewayId": {Type: TypeString},
			"VpcId":             {Type: TypeString},
			"VpnGatewayId":      {Type: TypeString},
		},
	},
	"AWS::EC2::EIP": {
		Properties: map[string]PropertySchema{
			"Domain": {Type: TypeString, AllowedValues: []string{"vpc", "standard"}},
			"Tags":   tagsProperty,
		},
	},
	"AWS::EC2::NatGateway": {
		Properties: map[string]PropertySchema{
			"AllocationId":     {Type: TypeString},
			"ConnectivityType": {Type: TypeString, AllowedValues: []string{"public", "private"}},
			"SubnetId":         {Type: TypeString},
			"Tags":             tagsProperty,
		},
	},
	"AWS::EC2::SecurityGroup": {
		Required: []string{"GroupDescription"},
		Properties: map[string]PropertySchema{
			"GroupDescription": {Type: TypeString},
			"GroupName":        {Type: TypeString},
			"VpcId":            {Type: TypeString},
			"Tags":             tagsProperty,
		},
	},
}

// Known reports whether a schema exists for resourceType.
func Known(resourceType string) bool {
	_, ok := resourceSchemas[resourceType]
	return ok
}

// ValidateTemplate checks every resource of t. Findings are ordered by
// resource name.
func ValidateTemplate(t *wetwire.Template, opts Options) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("schema: nil template")
	}

	names := make([]string, 0, len(t.Resources))
	for name := range t.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &Result{}
	for _, name := range names {
		errs, warns := validateResource(name, t.Resources[name], opts)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)
	}
	result.Valid = len(result.Errors) == 0
	return result, nil
}

func validateResource(name string, res wetwire.ResourceDef, opts Options) (errs, warns []wetwire.SchemaError) {
	if !validResourceType(res.Type) {
		return []wetwire.SchemaError{{
			Resource: name,
			Property: "Type",
			Message:  fmt.Sprintf("invalid resource type format: %s", res.Type),
		}}, nil
	}

	schema, ok := resourceSchemas[res.Type]
	if !ok {
		return nil, []wetwire.SchemaError{{
			Resource: name,
			Property: "Type",
			Message:  fmt.Sprintf("unknown resource type: %s (schema not available for validation)", res.Type),
		}}
	}

	for _, required := range schema.Required {
		if _, ok := res.Properties[required]; !ok {
			errs = append(errs, wetwire.SchemaError{
				Resource: name,
				Property: required,
				Message:  fmt.Sprintf("missing required property: %s", required),
			})
		}
	}

	props := make([]string, 0, len(res.Properties))
	for prop := range res.Properties {
		props = append(props, prop)
	}
	sort.Strings(props)

	for _, prop := range props {
		ps, ok := schema.Properties[prop]
		if !ok {
			if opts.Strict {
				warns = append(warns, wetwire.SchemaError{
					Resource: name,
					Property: prop,
					Message:  fmt.Sprintf("unknown property: %s", prop),
				})
			}
			continue
		}
		errs = append(errs, validateProperty(name, prop, res.Properties[prop], ps)...)
	}
	return errs, warns
}

// validResourceType accepts AWS::Service::Resource and Custom::* names.
func validResourceType(resourceType string) bool {
	if strings.HasPrefix(resourceType, "Custom::") {
		return true
	}
	parts := strings.Split(resourceType, "::")
	return len(parts) == 3 && parts[0] == "AWS" && parts[1] != "" && parts[2] != ""
}

func validateProperty(resource, property string, value any, ps PropertySchema) []wetwire.SchemaError {
	if isIntrinsic(value) {
		return nil
	}
	if !matchesType(value, ps.Type) {
		return []wetwire.SchemaError{{
			Resource: resource,
			Property: property,
			Message:  fmt.Sprintf("expected type %s, got %T", ps.Type, value),
		}}
	}
	if s, ok := value.(string); ok && len(ps.AllowedValues) > 0 && !slices.Contains(ps.AllowedValues, s) {
		return []wetwire.SchemaError{{
			Resource: resource,
			Property: property,
			Message:  fmt.Sprintf("value %q not in allowed values: %v", s, ps.AllowedValues),
		}}
	}
	return nil
}

// isIntrinsic reports whether value is a single key Ref or Fn:: object.
func isIntrinsic(value any) bool {
	m, ok := value.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	for key := range m {
		return key == "Ref" || strings.HasPrefix(key, "Fn::")
	}
	return false
}

func matchesType(value any, want string) bool {
	switch want {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeList:
		_, ok := value.([]any)
		return ok
	default:
		return true
	}
}
