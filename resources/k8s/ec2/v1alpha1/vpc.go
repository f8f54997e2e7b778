package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// VPC represents an ACK EC2 VPC resource.
// +kubebuilder:object:root=true
type VPC struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   VPCSpec `json:"spec,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// VPCSpec defines the desired state of a VPC.
type VPCSpec struct {
	CIDRBlocks         []*string `json:"cidrBlocks,omitempty"`
	EnableDNSHostnames *bool     `json:"enableDNSHostnames,omitempty"`
	EnableDNSSupport   *bool     `json:"enableDNSSupport,omitempty"`
	InstanceTenancy    *string   `json:"instanceTenancy,omitempty"`
	Tags               []*Tag    `json:"tags,omitempty"`
}

// InternetGateway represents an ACK EC2 InternetGateway resource. Setting
// VPCRef attaches the gateway to the VPC.
// +kubebuilder:object:root=true
type InternetGateway struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   InternetGatewaySpec `json:"spec,omitempty"`
	Status *Status             `json:"status,omitempty"`
}

// InternetGatewaySpec defines the desired state of an InternetGateway.
type InternetGatewaySpec struct {
	VPC    *string                      `json:"vpc,omitempty"`
	VPCRef *AWSResourceReferenceWrapper `json:"vpcRef,omitempty"`
	Tags   []*Tag                       `json:"tags,omitempty"`
}
