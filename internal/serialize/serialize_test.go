package serialize

import (
	"testing"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/wetwire-eks-go/resources/ec2"
)

type testTag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

type testResource struct {
	Name     string            `json:"Name,omitempty"`
	Enabled  bool              `json:"Enabled,omitempty"`
	Explicit *bool             `json:"Explicit,omitempty"`
	Count    int               `json:"Count,omitempty"`
	Tags     []testTag         `json:"Tags,omitempty"`
	Labels   map[string]string `json:"Labels,omitempty"`
	Target   any               `json:"Target,omitempty"`
	Skipped  string            `json:"-"`
	hidden   string
}

func TestResource_OmitsZeroValues(t *testing.T) {
	props, err := Resource(testResource{Skipped: "x", hidden: "y"})
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestResource_Scalars(t *testing.T) {
	off := false
	props, err := Resource(&testResource{Name: "a", Enabled: true, Explicit: &off, Count: 3})
	require.NoError(t, err)

	assert.Equal(t, "a", props["Name"])
	assert.Equal(t, true, props["Enabled"])
	assert.Equal(t, false, props["Explicit"])
	assert.Equal(t, int64(3), props["Count"])
}

func TestResource_Collections(t *testing.T) {
	props, err := Resource(testResource{
		Tags:   []testTag{{Key: "Network", Value: "Public"}},
		Labels: map[string]string{"tier": "public"},
	})
	require.NoError(t, err)

	tags := props["Tags"].([]any)
	require.Len(t, tags, 1)
	assert.Equal(t, map[string]any{"Key": "Network", "Value": "Public"}, tags[0])
	assert.Equal(t, map[string]any{"tier": "public"}, props["Labels"])
}

func TestResource_Intrinsics(t *testing.T) {
	props, err := Resource(testResource{Target: intrinsics.Ref{LogicalName: "DemoEksVpc"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Ref": "DemoEksVpc"}, props["Target"])

	props, err = Resource(testResource{Target: intrinsics.GetAtt{LogicalName: "DemoEksNatEIP", Attribute: "AllocationId"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"DemoEksNatEIP", "AllocationId"}}, props["Target"])
}

func TestResource_Subnet(t *testing.T) {
	off := false
	props, err := Resource(ec2.Subnet{
		CidrBlock:           "10.0.40.0/24",
		VpcId:               intrinsics.Ref{LogicalName: "DemoEksVpc"},
		MapPublicIpOnLaunch: &off,
	})
	require.NoError(t, err)

	assert.Equal(t, "10.0.40.0/24", props["CidrBlock"])
	assert.Equal(t, false, props["MapPublicIpOnLaunch"])
	assert.NotContains(t, props, "Tags")
}

func TestResource_NotStruct(t *testing.T) {
	_, err := Resource("nope")
	assert.Error(t, err)
}

func TestValue_Join(t *testing.T) {
	v, err := Value(intrinsics.Join{Delimiter: ",", Values: []any{
		intrinsics.Ref{LogicalName: "A"},
		intrinsics.Ref{LogicalName: "B"},
	}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"Fn::Join": []any{",", []any{map[string]any{"Ref": "A"}, map[string]any{"Ref": "B"}}},
	}, v)
}
