package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SecurityGroup represents an ACK EC2 SecurityGroup resource.
// +kubebuilder:object:root=true
type SecurityGroup struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   SecurityGroupSpec `json:"spec,omitempty"`
	Status *Status           `json:"status,omitempty"`
}

// SecurityGroupSpec defines the desired state of a SecurityGroup.
type SecurityGroupSpec struct {
	// Description is required by EC2 and cannot change after creation.
	Description *string `json:"description,omitempty"`

	// Name is the group name in EC2, distinct from the object name.
	Name *string `json:"name,omitempty"`

	VPCID  *string                      `json:"vpcID,omitempty"`
	VPCRef *AWSResourceReferenceWrapper `json:"vpcRef,omitempty"`

	IngressRules []*IPPermission `json:"ingressRules,omitempty"`
	EgressRules  []*IPPermission `json:"egressRules,omitempty"`

	Tags []*Tag `json:"tags,omitempty"`
}

// IPPermission describes a security group rule.
type IPPermission struct {
	FromPort   *int64     `json:"fromPort,omitempty"`
	ToPort     *int64     `json:"toPort,omitempty"`
	IPProtocol *string    `json:"ipProtocol,omitempty"`
	IPRanges   []*IPRange `json:"ipRanges,omitempty"`
}

// IPRange is an IPv4 range in a rule.
type IPRange struct {
	CIDRIP      *string `json:"cidrIP,omitempty"`
	Description *string `json:"description,omitempty"`
}
