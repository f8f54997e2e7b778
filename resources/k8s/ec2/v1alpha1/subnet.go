package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Subnet represents an ACK EC2 Subnet resource.
// +kubebuilder:object:root=true
type Subnet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   SubnetSpec `json:"spec,omitempty"`
	Status *Status    `json:"status,omitempty"`
}

// SubnetSpec defines the desired state of a Subnet.
type SubnetSpec struct {
	AvailabilityZone    *string `json:"availabilityZone,omitempty"`
	CIDRBlock           *string `json:"cidrBlock,omitempty"`
	MapPublicIPOnLaunch *bool   `json:"mapPublicIPOnLaunch,omitempty"`

	VPCID  *string                      `json:"vpcID,omitempty"`
	VPCRef *AWSResourceReferenceWrapper `json:"vpcRef,omitempty"`

	// RouteTableRefs associates the subnet with route tables.
	RouteTableRefs []*AWSResourceReferenceWrapper `json:"routeTableRefs,omitempty"`

	Tags []*Tag `json:"tags,omitempty"`
}

// RouteTable represents an ACK EC2 RouteTable resource.
// +kubebuilder:object:root=true
type RouteTable struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   RouteTableSpec `json:"spec,omitempty"`
	Status *Status        `json:"status,omitempty"`
}

// RouteTableSpec defines the desired state of a RouteTable.
type RouteTableSpec struct {
	Routes []*CreateRouteInput          `json:"routes,omitempty"`
	VPCRef *AWSResourceReferenceWrapper `json:"vpcRef,omitempty"`
	Tags   []*Tag                       `json:"tags,omitempty"`
}

// CreateRouteInput is one route of a RouteTable.
type CreateRouteInput struct {
	DestinationCIDRBlock *string                      `json:"destinationCIDRBlock,omitempty"`
	GatewayRef           *AWSResourceReferenceWrapper `json:"gatewayRef,omitempty"`
	NATGatewayRef        *AWSResourceReferenceWrapper `json:"natGatewayRef,omitempty"`
}
