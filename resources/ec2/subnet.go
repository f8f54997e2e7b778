package ec2

// Subnet represents AWS::EC2::Subnet.
//
// MapPublicIpOnLaunch is a pointer so an explicit false survives
// serialization.
type Subnet struct {
	AvailabilityZone    any   `json:"AvailabilityZone,omitempty"`
	CidrBlock           any   `json:"CidrBlock,omitempty"`
	MapPublicIpOnLaunch *bool `json:"MapPublicIpOnLaunch,omitempty"`
	VpcId               any   `json:"VpcId,omitempty"`
	Tags                []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Subnet) ResourceType() string {
	return "AWS::EC2::Subnet"
}

// SubnetRouteTableAssociation represents AWS::EC2::SubnetRouteTableAssociation.
type SubnetRouteTableAssociation struct {
	RouteTableId any `json:"RouteTableId,omitempty"`
	SubnetId     any `json:"SubnetId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SubnetRouteTableAssociation) ResourceType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}
