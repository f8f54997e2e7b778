package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// GroupVersion is the API version of every ACK EC2 resource.
const GroupVersion = "ec2.services.k8s.aws/v1alpha1"

// Kinds.
const (
	KindVPC              = "VPC"
	KindSubnet           = "Subnet"
	KindRouteTable       = "RouteTable"
	KindInternetGateway  = "InternetGateway"
	KindElasticIPAddress = "ElasticIPAddress"
	KindNATGateway       = "NATGateway"
	KindSecurityGroup    = "SecurityGroup"
)

// TypeMetaFor returns the TypeMeta of an ACK EC2 kind.
func TypeMetaFor(kind string) metav1.TypeMeta {
	return metav1.TypeMeta{APIVersion: GroupVersion, Kind: kind}
}

// Tag represents an AWS tag.
type Tag struct {
	Key   *string `json:"key,omitempty"`
	Value *string `json:"value,omitempty"`
}

// AWSResourceReferenceWrapper wraps an AWS resource reference.
type AWSResourceReferenceWrapper struct {
	From *AWSResourceReference `json:"from,omitempty"`
}

// AWSResourceReference references another ACK resource by name.
type AWSResourceReference struct {
	Name      *string `json:"name,omitempty"`
	Namespace *string `json:"namespace,omitempty"`
}

// RefTo references the ACK resource called name.
func RefTo(name string) *AWSResourceReferenceWrapper {
	return &AWSResourceReferenceWrapper{From: &AWSResourceReference{Name: String(name)}}
}

// ACKResourceMetadata contains ACK-specific metadata.
type ACKResourceMetadata struct {
	ARN            *string `json:"arn,omitempty"`
	OwnerAccountID *string `json:"ownerAccountID,omitempty"`
	Region         *string `json:"region,omitempty"`
}

// Condition represents a condition reported by the controller.
type Condition struct {
	Type               *string      `json:"type,omitempty"`
	Status             *string      `json:"status,omitempty"`
	LastTransitionTime *metav1.Time `json:"lastTransitionTime,omitempty"`
	Message            *string      `json:"message,omitempty"`
	Reason             *string      `json:"reason,omitempty"`
}

// Status is the observed state shared by the kinds. It is only populated
// by the controller and left nil in rendered manifests.
type Status struct {
	ACKResourceMetadata *ACKResourceMetadata `json:"ackResourceMetadata,omitempty"`
	Conditions          []*Condition         `json:"conditions,omitempty"`
	ID                  *string              `json:"id,omitempty"`
	State               *string              `json:"state,omitempty"`
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
