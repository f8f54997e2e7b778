package topology

// Kind identifies the type of a described resource independently of any
// renderer.
type Kind string

const (
	KindVPC                   Kind = "VPC"
	KindSubnet                Kind = "Subnet"
	KindRouteTableAssociation Kind = "SubnetRouteTableAssociation"
	KindRouteTable            Kind = "RouteTable"
	KindRoute                 Kind = "Route"
	KindInternetGateway       Kind = "InternetGateway"
	KindGatewayAttachment     Kind = "VPCGatewayAttachment"
	KindElasticIP             Kind = "EIP"
	KindNATGateway            Kind = "NatGateway"
	KindSecurityGroup         Kind = "SecurityGroup"
)

// Tier groups resources for display.
type Tier string

const (
	TierNetwork  Tier = "network"
	TierPublic   Tier = "public"
	TierPrivate  Tier = "private"
	TierGateways Tier = "gateways"
)

// Resource is a flattened view of one described resource.
type Resource struct {
	LogicalID string
	Kind      Kind
	Tier      Tier
}

// EdgeKind is how one resource refers to another.
type EdgeKind string

const (
	EdgeRef       EdgeKind = "Ref"
	EdgeGetAtt    EdgeKind = "GetAtt"
	EdgeDependsOn EdgeKind = "DependsOn"
)

// Edge records that From depends on To.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Resources lists every described resource in declaration order.
func (t Topology) Resources() []Resource {
	out := []Resource{{LogicalID: t.Network.LogicalID, Kind: KindVPC, Tier: TierNetwork}}

	for _, rt := range t.RouteTables {
		tier := tierOf(rt.Visibility)
		out = append(out, Resource{LogicalID: rt.LogicalID, Kind: KindRouteTable, Tier: tier})
		for _, s := range t.Subnets {
			if s.RouteTableID != rt.LogicalID {
				continue
			}
			out = append(out,
				Resource{LogicalID: s.LogicalID, Kind: KindSubnet, Tier: tier},
				Resource{LogicalID: s.AssociationID, Kind: KindRouteTableAssociation, Tier: tier},
			)
		}
		for _, r := range rt.Routes {
			out = append(out, Resource{LogicalID: r.LogicalID, Kind: KindRoute, Tier: tier})
		}
	}

	igw := t.Gateways.Internet
	out = append(out,
		Resource{LogicalID: igw.LogicalID, Kind: KindInternetGateway, Tier: TierGateways},
		Resource{LogicalID: igw.AttachmentID, Kind: KindGatewayAttachment, Tier: TierGateways},
	)
	if nat := t.Gateways.NAT; nat != nil {
		out = append(out,
			Resource{LogicalID: nat.ElasticIPID, Kind: KindElasticIP, Tier: TierGateways},
			Resource{LogicalID: nat.LogicalID, Kind: KindNATGateway, Tier: TierGateways},
		)
	}

	out = append(out, Resource{LogicalID: t.SecurityGroup.LogicalID, Kind: KindSecurityGroup, Tier: TierNetwork})
	return out
}

// Edges lists every reference between described resources.
func (t Topology) Edges() []Edge {
	vpc := t.Network.LogicalID
	var out []Edge
	ref := func(from, to string) {
		out = append(out, Edge{From: from, To: to, Kind: EdgeRef})
	}

	for _, rt := range t.RouteTables {
		ref(rt.LogicalID, vpc)
		for _, r := range rt.Routes {
			ref(r.LogicalID, rt.LogicalID)
			ref(r.LogicalID, r.Target.LogicalID)
		}
	}
	for _, s := range t.Subnets {
		ref(s.LogicalID, vpc)
		ref(s.AssociationID, s.LogicalID)
		ref(s.AssociationID, s.RouteTableID)
	}

	igw := t.Gateways.Internet
	ref(igw.AttachmentID, vpc)
	ref(igw.AttachmentID, igw.LogicalID)

	if nat := t.Gateways.NAT; nat != nil {
		out = append(out,
			Edge{From: nat.ElasticIPID, To: nat.DependsOn, Kind: EdgeDependsOn},
			Edge{From: nat.LogicalID, To: nat.ElasticIPID, Kind: EdgeGetAtt},
			Edge{From: nat.LogicalID, To: nat.SubnetID, Kind: EdgeRef},
			Edge{From: nat.LogicalID, To: nat.DependsOn, Kind: EdgeDependsOn},
		)
	}

	ref(t.SecurityGroup.LogicalID, vpc)
	return out
}

// DependsOn returns the explicit DependsOn targets of a resource.
func (t Topology) DependsOn(logicalID string) []string {
	var out []string
	for _, e := range t.Edges() {
		if e.From == logicalID && e.Kind == EdgeDependsOn {
			out = append(out, e.To)
		}
	}
	return out
}

func tierOf(v Visibility) Tier {
	if v == Public {
		return TierPublic
	}
	return TierPrivate
}
