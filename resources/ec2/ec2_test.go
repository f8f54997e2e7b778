package ec2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		res  interface{ ResourceType() string }
		want string
	}{
		{VPC{}, "AWS::EC2::VPC"},
		{Subnet{}, "AWS::EC2::Subnet"},
		{InternetGateway{}, "AWS::EC2::InternetGateway"},
		{VPCGatewayAttachment{}, "AWS::EC2::VPCGatewayAttachment"},
		{RouteTable{}, "AWS::EC2::RouteTable"},
		{Route{}, "AWS::EC2::Route"},
		{SubnetRouteTableAssociation{}, "AWS::EC2::SubnetRouteTableAssociation"},
		{EIP{}, "AWS::EC2::EIP"},
		{NatGateway{}, "AWS::EC2::NatGateway"},
		{SecurityGroup{}, "AWS::EC2::SecurityGroup"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.ResourceType())
		})
	}
}
