package ack

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/lex00/wetwire-eks-go/internal/topology"
	ec2v1alpha1 "github.com/lex00/wetwire-eks-go/resources/k8s/ec2/v1alpha1"
)

func testTopology(t *testing.T, private bool) topology.Topology {
	t.Helper()
	topo, err := topology.Build(topology.Options{Namespace: "demo", BaseCIDR: "10.0", CreatePrivateSubnets: private})
	require.NoError(t, err)
	return topo
}

func TestName(t *testing.T) {
	tests := map[string]string{
		"demoEksVpc":                  "demo-eks-vpc",
		"demoEksNatEIP":               "demo-eks-nat-eip",
		"demoEksPublicSubnet1":        "demo-eks-public-subnet-1",
		"demoEksVPCGatewayAttachment": "demo-eks-vpc-gateway-attachment",
		"Eks":                         "eks",
	}
	for in, want := range tests {
		assert.Equal(t, want, Name(in), in)
	}
}

func TestRender_Kinds(t *testing.T) {
	objects, err := Render(testTopology(t, true), Options{Namespace: "infra", Region: "us-west-2"})
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, obj := range objects {
		switch o := obj.(type) {
		case *ec2v1alpha1.VPC:
			counts[o.Kind]++
		case *ec2v1alpha1.Subnet:
			counts[o.Kind]++
		case *ec2v1alpha1.RouteTable:
			counts[o.Kind]++
		case *ec2v1alpha1.InternetGateway:
			counts[o.Kind]++
		case *ec2v1alpha1.ElasticIPAddress:
			counts[o.Kind]++
		case *ec2v1alpha1.NATGateway:
			counts[o.Kind]++
		case *ec2v1alpha1.SecurityGroup:
			counts[o.Kind]++
		default:
			t.Fatalf("unexpected object %T", obj)
		}
	}

	assert.Equal(t, map[string]int{
		"VPC":              1,
		"Subnet":           4,
		"RouteTable":       2,
		"InternetGateway":  1,
		"ElasticIPAddress": 1,
		"NATGateway":       1,
		"SecurityGroup":    1,
	}, counts)
}

func TestRender_Subnet(t *testing.T) {
	objects, err := Render(testTopology(t, true), Options{Namespace: "infra", AvailabilityZones: []string{"eu-west-1b", "eu-west-1c"}})
	require.NoError(t, err)

	var subnets []*ec2v1alpha1.Subnet
	for _, obj := range objects {
		if s, ok := obj.(*ec2v1alpha1.Subnet); ok {
			subnets = append(subnets, s)
		}
	}
	require.Len(t, subnets, 4)

	first := subnets[0]
	assert.Equal(t, "demo-eks-public-subnet-1", first.Name)
	assert.Equal(t, "infra", first.Namespace)
	assert.Equal(t, "ec2.services.k8s.aws/v1alpha1", first.APIVersion)
	assert.Equal(t, "eu-west-1b", *first.Spec.AvailabilityZone)
	assert.True(t, *first.Spec.MapPublicIPOnLaunch)
	assert.Equal(t, "demo-eks-vpc", *first.Spec.VPCRef.From.Name)
	assert.Equal(t, "demo-eks-public-route-table", *first.Spec.RouteTableRefs[0].From.Name)

	last := subnets[3]
	assert.Equal(t, "eu-west-1c", *last.Spec.AvailabilityZone)
	assert.False(t, *last.Spec.MapPublicIPOnLaunch)
	assert.Equal(t, "demo-eks-private-route-table", *last.Spec.RouteTableRefs[0].From.Name)
}

func TestRender_Routes(t *testing.T) {
	objects, err := Render(testTopology(t, true), Options{Region: "us-east-1"})
	require.NoError(t, err)

	routes := make(map[string]*ec2v1alpha1.CreateRouteInput)
	for _, obj := range objects {
		if rt, ok := obj.(*ec2v1alpha1.RouteTable); ok {
			require.Len(t, rt.Spec.Routes, 1)
			routes[rt.Name] = rt.Spec.Routes[0]
		}
	}

	public := routes["demo-eks-public-route-table"]
	require.NotNil(t, public)
	assert.Equal(t, "demo-eks-internet-gateway", *public.GatewayRef.From.Name)
	assert.Nil(t, public.NATGatewayRef)

	private := routes["demo-eks-private-route-table"]
	require.NotNil(t, private)
	assert.Equal(t, "demo-eks-nat-gateway", *private.NATGatewayRef.From.Name)
	assert.Equal(t, "0.0.0.0/0", *private.DestinationCIDRBlock)
}

func TestRender_NoZones(t *testing.T) {
	_, err := Render(testTopology(t, false), Options{})
	assert.True(t, errors.Is(err, ErrNoZones))
}

func TestToYAML(t *testing.T) {
	objects, err := Render(testTopology(t, false), Options{Namespace: "infra", Region: "us-east-1"})
	require.NoError(t, err)

	data, err := ToYAML(objects)
	require.NoError(t, err)

	docs := strings.Split(string(data), "---\n")
	assert.Len(t, docs, len(objects))

	var vpc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(docs[0]), &vpc))
	assert.Equal(t, "VPC", vpc["kind"])
	assert.NotContains(t, vpc, "status")

	spec := vpc["spec"].(map[string]any)
	assert.Equal(t, []any{"10.0.0.0/16"}, spec["cidrBlocks"])
	assert.Contains(t, string(data), "availabilityZone: us-east-1b")
}
