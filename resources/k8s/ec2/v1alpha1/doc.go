// Package v1alpha1 contains the ACK EC2 resource types used to manage the
// EKS network through AWS Controllers for Kubernetes.
//
// Only the Spec fields the network needs are modelled. Cross references use
// the *Ref fields so the controller resolves IDs at reconcile time:
//
//	subnet := v1alpha1.Subnet{
//		TypeMeta:   v1alpha1.TypeMetaFor(v1alpha1.KindSubnet),
//		ObjectMeta: metav1.ObjectMeta{Name: "demo-eks-public-subnet-1"},
//		Spec: v1alpha1.SubnetSpec{
//			CIDRBlock: v1alpha1.String("10.0.24.0/24"),
//			VPCRef:    v1alpha1.RefTo("demo-eks-vpc"),
//		},
//	}
package v1alpha1
