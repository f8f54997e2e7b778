package template

import (
	"encoding/json"

	"github.com/lex00/cloudformation-schema-go/intrinsics"

	"github.com/lex00/wetwire-eks-go/internal/topology"
	"github.com/lex00/wetwire-eks-go/resources/ec2"
)

// Resources maps every described resource to its typed CloudFormation
// counterpart, keyed by logical ID.
func Resources(t topology.Topology) map[string]Resource {
	vpc := ref(t.Network.LogicalID)
	out := map[string]Resource{
		t.Network.LogicalID: ec2.VPC{
			CidrBlock:          t.Network.CIDR,
			EnableDnsSupport:   t.Network.EnableDNSSupport,
			EnableDnsHostnames: t.Network.EnableDNSNames,
			Tags:               tags(t.Network.Tags),
		},
	}

	for _, rt := range t.RouteTables {
		out[rt.LogicalID] = ec2.RouteTable{VpcId: vpc, Tags: tags(rt.Tags)}
		for _, r := range rt.Routes {
			route := ec2.Route{
				DestinationCidrBlock: r.Destination,
				RouteTableId:         ref(rt.LogicalID),
			}
			switch r.Target.Kind {
			case topology.TargetInternetGateway:
				route.GatewayId = ref(r.Target.LogicalID)
			case topology.TargetNATGateway:
				route.NatGatewayId = ref(r.Target.LogicalID)
			}
			out[r.LogicalID] = route
		}
	}

	for _, s := range t.Subnets {
		public := s.MapPublicIPOnLaunch()
		out[s.LogicalID] = ec2.Subnet{
			AvailabilityZone:    intrinsics.Select{Index: s.Zone, List: regionAZs{}},
			CidrBlock:           s.CIDR,
			MapPublicIpOnLaunch: &public,
			VpcId:               vpc,
			Tags:                tags(s.Tags),
		}
		out[s.AssociationID] = ec2.SubnetRouteTableAssociation{
			RouteTableId: ref(s.RouteTableID),
			SubnetId:     ref(s.LogicalID),
		}
	}

	igw := t.Gateways.Internet
	out[igw.LogicalID] = ec2.InternetGateway{Tags: tags(igw.Tags)}
	out[igw.AttachmentID] = ec2.VPCGatewayAttachment{
		InternetGatewayId: ref(igw.LogicalID),
		VpcId:             vpc,
	}

	if nat := t.Gateways.NAT; nat != nil {
		out[nat.ElasticIPID] = ec2.EIP{Domain: "vpc"}
		out[nat.LogicalID] = ec2.NatGateway{
			AllocationId: intrinsics.GetAtt{LogicalName: nat.ElasticIPID, Attribute: "AllocationId"},
			SubnetId:     ref(nat.SubnetID),
		}
	}

	out[t.SecurityGroup.LogicalID] = ec2.SecurityGroup{
		GroupDescription: t.SecurityGroup.Description,
		VpcId:            vpc,
	}
	return out
}

func ref(id string) intrinsics.Ref {
	return intrinsics.Ref{LogicalName: id}
}

func tags(in []topology.Tag) []any {
	out := make([]any, 0, len(in))
	for _, tag := range in {
		out = append(out, intrinsics.Tag{Key: tag.Key, Value: tag.Value})
	}
	return out
}

// regionAZs renders {"Fn::GetAZs": {"Ref": "AWS::Region"}}.
// intrinsics.GetAZs only takes a literal region name.
type regionAZs struct{}

func (regionAZs) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"Fn::GetAZs": intrinsics.Ref{LogicalName: "AWS::Region"},
	})
}
