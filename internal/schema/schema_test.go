package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/template"
	"github.com/lex00/wetwire-eks-go/internal/topology"
)

func TestValidateTemplate_BuiltNetwork(t *testing.T) {
	for _, private := range []bool{true, false} {
		topo, err := topology.Build(topology.Options{Namespace: "demo", BaseCIDR: "10.0", CreatePrivateSubnets: private})
		require.NoError(t, err)
		tmpl, err := template.NewBuilder(topo).Build()
		require.NoError(t, err)

		result, err := ValidateTemplate(tmpl, Options{Strict: true})
		require.NoError(t, err)
		assert.True(t, result.Valid, "errors: %v", result.Errors)
		assert.Empty(t, result.Warnings)
	}
}

func TestValidateTemplate_Findings(t *testing.T) {
	tmpl := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Sg": {
			Type:       "AWS::EC2::SecurityGroup",
			Properties: map[string]any{"VpcId": map[string]any{"Ref": "Vpc"}},
		},
		"Eip": {
			Type:       "AWS::EC2::EIP",
			Properties: map[string]any{"Domain": "classic"},
		},
		"Vpc": {
			Type:       "AWS::EC2::VPC",
			Properties: map[string]any{"EnableDnsSupport": "yes", "Color": "blue"},
		},
		"Bad":    {Type: "EC2::VPC"},
		"Bucket": {Type: "AWS::S3::Bucket"},
	}}

	result, err := ValidateTemplate(tmpl, Options{Strict: true})
	require.NoError(t, err)
	assert.False(t, result.Valid)

	var errs []string
	for _, e := range result.Errors {
		errs = append(errs, e.String())
	}
	assert.Equal(t, []string{
		"Bad.Type: invalid resource type format: EC2::VPC",
		`Eip.Domain: value "classic" not in allowed values: [vpc standard]`,
		"Sg.GroupDescription: missing required property: GroupDescription",
		"Vpc.EnableDnsSupport: expected type Boolean, got string",
	}, errs)

	var warns []string
	for _, w := range result.Warnings {
		warns = append(warns, w.String())
	}
	assert.Equal(t, []string{
		"Bucket.Type: unknown resource type: AWS::S3::Bucket (schema not available for validation)",
		"Vpc.Color: unknown property: Color",
	}, warns)
}

func TestValidateTemplate_NonStrictIgnoresUnknownProperties(t *testing.T) {
	tmpl := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Vpc": {Type: "AWS::EC2::VPC", Properties: map[string]any{"Color": "blue"}},
	}}

	result, err := ValidateTemplate(tmpl, Options{})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestValidateTemplate_Nil(t *testing.T) {
	_, err := ValidateTemplate(nil, Options{})
	assert.Error(t, err)
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("AWS::EC2::NatGateway"))
	assert.False(t, Known("AWS::EKS::Cluster"))
}

func TestIsIntrinsic(t *testing.T) {
	assert.True(t, isIntrinsic(map[string]any{"Ref": "Vpc"}))
	assert.True(t, isIntrinsic(map[string]any{"Fn::GetAtt": []any{"Eip", "AllocationId"}}))
	assert.False(t, isIntrinsic(map[string]any{"Key": "Name", "Value": "x"}))
	assert.False(t, isIntrinsic("Vpc"))
}
