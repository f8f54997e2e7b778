// Package topology describes the network foundation of an EKS control plane.
//
// Build turns a handful of options into an immutable Topology value: one
// VPC, public (and optionally private) subnets spread over availability
// zones, a route table per visibility class, an internet gateway, an
// optional NAT gateway, and the control plane security group. Renderers in
// other packages turn the description into CloudFormation, ACK manifests or
// a dependency graph.
package topology

// Visibility classifies a subnet or route table.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// Title returns "Public" or "Private", the form used in logical IDs and tags.
func (v Visibility) Title() string {
	if v == Public {
		return "Public"
	}
	return "Private"
}

// AnyIPv4 is the destination of every default route.
const AnyIPv4 = "0.0.0.0/0"

// Tag is a key/value pair attached to a resource.
type Tag struct {
	Key   string
	Value string
}

// Topology is the full description produced by Build.
type Topology struct {
	// BaseName prefixes every logical ID, e.g. "stagingEks".
	BaseName      string
	Network       Network
	Subnets       []Subnet
	RouteTables   []RouteTable
	Gateways      Gateways
	SecurityGroup SecurityGroup
	Outputs       []Output
}

// Network is the VPC.
type Network struct {
	LogicalID        string
	CIDR             string
	EnableDNSSupport bool
	EnableDNSNames   bool
	Tags             []Tag
}

// Subnet is one subnet together with its route table association.
type Subnet struct {
	LogicalID     string
	AssociationID string
	CIDR          string
	// Zone indexes into the region's availability zones.
	Zone         int
	Visibility   Visibility
	RouteTableID string
	Tags         []Tag
}

// MapPublicIPOnLaunch reports whether instances get a public address.
func (s Subnet) MapPublicIPOnLaunch() bool {
	return s.Visibility == Public
}

// RouteTable is shared by every subnet of one visibility class.
type RouteTable struct {
	LogicalID  string
	Visibility Visibility
	Tags       []Tag
	Routes     []Route
}

// TargetKind is what a route forwards to.
type TargetKind string

const (
	TargetInternetGateway TargetKind = "internet-gateway"
	TargetNATGateway      TargetKind = "nat-gateway"
)

// Route is a single route table entry.
type Route struct {
	LogicalID   string
	Destination string
	Target      Target
}

// Target names the gateway a route forwards to.
type Target struct {
	Kind      TargetKind
	LogicalID string
}

// Gateways groups the internet and NAT gateways.
type Gateways struct {
	Internet InternetGateway
	// NAT is nil when no private subnets are requested.
	NAT *NATGateway
}

// InternetGateway is the gateway and its VPC attachment.
type InternetGateway struct {
	LogicalID    string
	AttachmentID string
	Tags         []Tag
}

// NATGateway is placed in a public subnet behind an elastic IP.
type NATGateway struct {
	LogicalID   string
	ElasticIPID string
	SubnetID    string
	// DependsOn is the gateway attachment both the EIP and the NAT wait for.
	DependsOn string
}

// SecurityGroup is the control plane security group. It carries no rules.
type SecurityGroup struct {
	LogicalID   string
	Description string
}

// Output is a named stack output. A single ref is emitted as a Ref, and
// a joined output as a comma separated Fn::Join over its refs.
type Output struct {
	Name   string
	Refs   []string
	Joined bool
}

// PublicSubnets returns the public subnets in zone order.
func (t Topology) PublicSubnets() []Subnet {
	return t.subnets(Public)
}

// PrivateSubnets returns the private subnets in zone order.
func (t Topology) PrivateSubnets() []Subnet {
	return t.subnets(Private)
}

func (t Topology) subnets(v Visibility) []Subnet {
	var out []Subnet
	for _, s := range t.Subnets {
		if s.Visibility == v {
			out = append(out, s)
		}
	}
	return out
}

// RouteTable returns the route table of a visibility class.
func (t Topology) RouteTable(v Visibility) (RouteTable, bool) {
	for _, rt := range t.RouteTables {
		if rt.Visibility == v {
			return rt, true
		}
	}
	return RouteTable{}, false
}

// Output returns the named output.
func (t Topology) Output(name string) (Output, bool) {
	for _, o := range t.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}
