package topology

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
)

// Options configures Build.
type Options struct {
	// Namespace prefixes every logical ID. Dashes are dropped.
	Namespace string
	// BaseCIDR holds the first two octets of the VPC block, e.g. "10.0".
	BaseCIDR string
	// CreatePrivateSubnets adds private subnets behind a NAT gateway.
	CreatePrivateSubnets bool
	// PublicSubnetCIDRs overrides the default <base>.24.0/24 and <base>.32.0/24.
	// Subnet i lands in zone i of the region, so longer lists spread over
	// more zones and the region must have that many.
	PublicSubnetCIDRs []string
	// PrivateSubnetCIDRs overrides the default <base>.40.0/24 and <base>.48.0/24.
	PrivateSubnetCIDRs []string
}

// ControlPlaneSecurityGroupDescription is the description of the security group.
const ControlPlaneSecurityGroupDescription = "Cluster communication with worker nodes"

// Output names.
const (
	OutputVPCID          = "VPCID"
	OutputPrivateSubnets = "PrivateSubnets"
	OutputPublicSubnets  = "PublicSubnets"
	OutputControlPlaneSG = "ClusterControlPlaneSecurityGroup"
	OutputNATEIP         = "NATEIP"
)

const (
	internalELBRoleTag       = "kubernetes.io/role/internal-elb"
	clusterTagPrefix         = "kubernetes.io/cluster/"
	sharedClusterTagValue    = "shared"
	publicSubnetThirdOctets  = "24,32"
	privateSubnetThirdOctets = "40,48"
)

var baseNamePattern = regexp.MustCompile(`^[A-Za-z0-9]*$`)

// BaseName derives the logical ID prefix from a namespace.
func BaseName(namespace string) string {
	return strings.ReplaceAll(namespace, "-", "") + "Eks"
}

// Build validates opts and describes the network. No resource is described
// unless every input is valid.
func Build(opts Options) (Topology, error) {
	base := BaseName(opts.Namespace)
	if !baseNamePattern.MatchString(base) {
		return Topology{}, fmt.Errorf("%w: %q must only contain letters, digits and dashes", ErrInvalidNamespace, opts.Namespace)
	}

	vpc, err := vpcPrefix(opts.BaseCIDR)
	if err != nil {
		return Topology{}, err
	}

	publicCIDRs := opts.PublicSubnetCIDRs
	if len(publicCIDRs) == 0 {
		publicCIDRs = defaultCIDRs(opts.BaseCIDR, publicSubnetThirdOctets)
	}
	var privateCIDRs []string
	if opts.CreatePrivateSubnets {
		privateCIDRs = opts.PrivateSubnetCIDRs
		if len(privateCIDRs) == 0 {
			privateCIDRs = defaultCIDRs(opts.BaseCIDR, privateSubnetThirdOctets)
		}
	}
	if err := checkSubnets(vpc, append(append([]string(nil), publicCIDRs...), privateCIDRs...)); err != nil {
		return Topology{}, err
	}

	t := Topology{
		BaseName: base,
		Network: Network{
			LogicalID:        base + "Vpc",
			CIDR:             vpc.String(),
			EnableDNSSupport: true,
			EnableDNSNames:   true,
			Tags:             []Tag{{Key: "Name", Value: base}},
		},
		SecurityGroup: SecurityGroup{
			LogicalID:   base + "ControlPlaneSecurityGroup",
			Description: ControlPlaneSecurityGroupDescription,
		},
	}

	t.Gateways.Internet = InternetGateway{
		LogicalID:    base + "InternetGateway",
		AttachmentID: base + "VPCGatewayAttachment",
		Tags: []Tag{
			{Key: "Name", Value: base},
			{Key: "Network", Value: Public.Title()},
		},
	}

	publicTable := routeTable(base, Public)
	publicTable.Routes = []Route{{
		LogicalID:   base + "InternetGatewayRoute",
		Destination: AnyIPv4,
		Target:      Target{Kind: TargetInternetGateway, LogicalID: t.Gateways.Internet.LogicalID},
	}}
	t.RouteTables = append(t.RouteTables, publicTable)
	t.Subnets = append(t.Subnets, subnets(base, Public, publicCIDRs, publicTable.LogicalID)...)

	if len(privateCIDRs) > 0 {
		nat := &NATGateway{
			LogicalID:   base + "NatGateway",
			ElasticIPID: base + "NatEIP",
			SubnetID:    t.Subnets[0].LogicalID,
			DependsOn:   t.Gateways.Internet.AttachmentID,
		}
		t.Gateways.NAT = nat

		privateTable := routeTable(base, Private)
		privateTable.Routes = []Route{{
			LogicalID:   base + "NatGatewayRoute",
			Destination: AnyIPv4,
			Target:      Target{Kind: TargetNATGateway, LogicalID: nat.LogicalID},
		}}
		t.RouteTables = append(t.RouteTables, privateTable)
		t.Subnets = append(t.Subnets, subnets(base, Private, privateCIDRs, privateTable.LogicalID)...)
	}

	t.Outputs = outputs(t)
	return t, nil
}

func vpcPrefix(base string) (netip.Prefix, error) {
	if strings.Count(base, ".") != 1 {
		return netip.Prefix{}, fmt.Errorf("%w: base %q must be the first two octets, e.g. 10.0", ErrInvalidCIDR, base)
	}
	p, err := netip.ParsePrefix(base + ".0.0/16")
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: base %q: %v", ErrInvalidCIDR, base, err)
	}
	return p, nil
}

func defaultCIDRs(base, thirdOctets string) []string {
	var out []string
	for _, octet := range strings.Split(thirdOctets, ",") {
		out = append(out, fmt.Sprintf("%s.%s.0/24", base, octet))
	}
	return out
}

// Subnet prefix lengths EC2 accepts.
const (
	minSubnetBits = 16
	maxSubnetBits = 28
)

// checkSubnets requires every block to be IPv4, /16 to /28, inside the VPC
// and disjoint.
func checkSubnets(vpc netip.Prefix, cidrs []string) error {
	parsed := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidCIDR, c, err)
		}
		if !p.Addr().Is4() {
			return fmt.Errorf("%w: %q is not an IPv4 block", ErrInvalidCIDR, c)
		}
		if p.Bits() < minSubnetBits || p.Bits() > maxSubnetBits {
			return fmt.Errorf("%w: %q must be between /%d and /%d", ErrInvalidCIDR, c, minSubnetBits, maxSubnetBits)
		}
		if p.Bits() < vpc.Bits() || !vpc.Contains(p.Addr()) {
			return fmt.Errorf("%w: %q is outside the VPC block %s", ErrInvalidCIDR, c, vpc)
		}
		if p.Masked() != p {
			return fmt.Errorf("%w: %q has host bits set", ErrInvalidCIDR, c)
		}
		for _, prev := range parsed {
			if prev.Overlaps(p) {
				return fmt.Errorf("%w: %q overlaps %s", ErrInvalidCIDR, c, prev)
			}
		}
		parsed = append(parsed, p)
	}
	return nil
}

func routeTable(base string, v Visibility) RouteTable {
	internalELB := "1"
	if v == Public {
		internalELB = "0"
	}
	return RouteTable{
		LogicalID:  base + v.Title() + "RouteTable",
		Visibility: v,
		Tags: []Tag{
			{Key: "Name", Value: fmt.Sprintf("%s %s Subnets", base, v.Title())},
			{Key: "Network", Value: v.Title()},
			{Key: internalELBRoleTag, Value: internalELB},
		},
	}
}

func subnets(base string, v Visibility, cidrs []string, routeTableID string) []Subnet {
	out := make([]Subnet, 0, len(cidrs))
	for i, cidr := range cidrs {
		zone := i + 1
		out = append(out, Subnet{
			LogicalID:     fmt.Sprintf("%s%sSubnet%d", base, v.Title(), zone),
			AssociationID: fmt.Sprintf("%s%sSubnetZone%dRouteTableAssociation", base, v.Title(), zone),
			CIDR:          cidr,
			Zone:          i,
			Visibility:    v,
			RouteTableID:  routeTableID,
			Tags: []Tag{
				{Key: "Name", Value: fmt.Sprintf("%s %s Subnet Zone %d", base, v.Title(), zone)},
				{Key: "Network", Value: v.Title()},
				{Key: clusterTagPrefix + base, Value: sharedClusterTagValue},
			},
		})
	}
	return out
}

func outputs(t Topology) []Output {
	ids := func(subnets []Subnet) []string {
		out := make([]string, 0, len(subnets))
		for _, s := range subnets {
			out = append(out, s.LogicalID)
		}
		return out
	}

	out := []Output{
		{Name: OutputVPCID, Refs: []string{t.Network.LogicalID}},
		{Name: OutputPrivateSubnets, Refs: ids(t.PrivateSubnets()), Joined: true},
		{Name: OutputPublicSubnets, Refs: ids(t.PublicSubnets()), Joined: true},
		{Name: OutputControlPlaneSG, Refs: []string{t.SecurityGroup.LogicalID}},
	}
	if t.Gateways.NAT != nil {
		out = append(out, Output{Name: OutputNATEIP, Refs: []string{t.Gateways.NAT.ElasticIPID}})
	}
	return out
}
