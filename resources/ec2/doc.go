// Package ec2 provides typed CloudFormation resources for the AWS::EC2
// types used by the EKS network topology.
//
// Properties that may hold an intrinsic function (Ref, Fn::GetAtt,
// Fn::Select) are typed as any. Every resource reports its CloudFormation
// type through ResourceType.
package ec2
