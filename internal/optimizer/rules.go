package optimizer

import (
	"fmt"
	"net/netip"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/topology"
)

var rules = []Rule{
	{
		ID:       "OPT-VPC-001",
		Kind:     topology.KindVPC,
		Category: CategorySecurity,
		Check: func(topo topology.Topology, res topology.Resource) *wetwire.OptimizeSuggestion {
			return &wetwire.OptimizeSuggestion{
				Severity:    "low",
				Title:       "Consider enabling VPC flow logs",
				Description: "The VPC has no flow log, so rejected and accepted traffic is not recorded.",
				Suggestion:  "Add an AWS::EC2::FlowLog for the VPC delivering to CloudWatch Logs or S3.",
			}
		},
	},
	{
		ID:       "OPT-NET-001",
		Kind:     topology.KindVPC,
		Category: CategorySecurity,
		Check: func(topo topology.Topology, res topology.Resource) *wetwire.OptimizeSuggestion {
			if len(topo.PrivateSubnets()) > 0 {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "high",
				Title:       "Worker nodes will run in public subnets",
				Description: "Only public subnets exist and they assign public IPs on launch, so every node is reachable from the internet.",
				Suggestion:  "Set CreatePrivateSubnets to true and place node groups in the private subnets.",
			}
		},
	},
	{
		ID:       "OPT-NAT-001",
		Kind:     topology.KindNATGateway,
		Category: CategoryReliability,
		Check: func(topo topology.Topology, res topology.Resource) *wetwire.OptimizeSuggestion {
			zones := map[int]bool{}
			for _, s := range topo.PrivateSubnets() {
				zones[s.Zone] = true
			}
			if len(zones) < 2 {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "medium",
				Title:       "Single NAT gateway serves every zone",
				Description: fmt.Sprintf("Private subnets in %d zones share one NAT gateway; losing its zone cuts egress for all of them.", len(zones)),
				Suggestion:  "Create one NAT gateway per zone and give each private subnet its own route table.",
			}
		},
	},
	{
		ID:       "OPT-NAT-002",
		Kind:     topology.KindNATGateway,
		Category: CategoryCost,
		Check: func(topo topology.Topology, res topology.Resource) *wetwire.OptimizeSuggestion {
			return &wetwire.OptimizeSuggestion{
				Severity:    "low",
				Title:       "Consider gateway endpoints for S3 and DynamoDB",
				Description: "Traffic from private subnets to S3 and DynamoDB is billed per GB through the NAT gateway.",
				Suggestion:  "Add AWS::EC2::VPCEndpoint gateway endpoints for S3 and DynamoDB on the private route table.",
			}
		},
	},
	{
		ID:       "OPT-SUB-001",
		Kind:     topology.KindSubnet,
		Category: CategoryPerformance,
		Check: func(topo topology.Topology, res topology.Resource) *wetwire.OptimizeSuggestion {
			for _, s := range topo.Subnets {
				if s.LogicalID != res.LogicalID || s.Visibility != topology.Private {
					continue
				}
				if p, err := netip.ParsePrefix(s.CIDR); err == nil && p.Bits() > 22 {
					return &wetwire.OptimizeSuggestion{
						Severity:    "medium",
						Title:       "Private subnet is small for pod networking",
						Description: fmt.Sprintf("%s leaves few addresses; the VPC CNI assigns one IP per pod.", s.CIDR),
						Suggestion:  "Use /22 or larger private subnets, or add a secondary CIDR for pods.",
					}
				}
			}
			return nil
		},
	},
}
