package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ElasticIPAddress represents an ACK EC2 ElasticIPAddress resource.
// +kubebuilder:object:root=true
type ElasticIPAddress struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ElasticIPAddressSpec `json:"spec,omitempty"`
	Status *Status              `json:"status,omitempty"`
}

// ElasticIPAddressSpec defines the desired state of an ElasticIPAddress.
type ElasticIPAddressSpec struct {
	PublicIPv4Pool *string `json:"publicIPv4Pool,omitempty"`
	Tags           []*Tag  `json:"tags,omitempty"`
}

// NATGateway represents an ACK EC2 NATGateway resource.
// +kubebuilder:object:root=true
type NATGateway struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   NATGatewaySpec `json:"spec,omitempty"`
	Status *Status        `json:"status,omitempty"`
}

// NATGatewaySpec defines the desired state of a NATGateway.
type NATGatewaySpec struct {
	AllocationRef    *AWSResourceReferenceWrapper `json:"allocationRef,omitempty"`
	ConnectivityType *string                      `json:"connectivityType,omitempty"`
	SubnetRef        *AWSResourceReferenceWrapper `json:"subnetRef,omitempty"`
	Tags             []*Tag                       `json:"tags,omitempty"`
}
