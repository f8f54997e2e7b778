// Package ack renders a network topology as AWS Controllers for Kubernetes
// EC2 manifests.
package ack

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/lex00/wetwire-eks-go/internal/topology"
	ec2v1alpha1 "github.com/lex00/wetwire-eks-go/resources/k8s/ec2/v1alpha1"
)

// ErrNoZones is returned when subnet zones cannot be resolved.
var ErrNoZones = errors.New("ack: availability zones are required")

// Labels set on every rendered object.
const (
	LabelManagedBy = "app.kubernetes.io/managed-by"
	LabelPartOf    = "app.kubernetes.io/part-of"
	managedBy      = "wetwire-eks"
)

// Options configures Render.
type Options struct {
	// Namespace is the Kubernetes namespace of every object.
	Namespace string
	// AvailabilityZones lists zone names in index order. When empty, zones
	// are derived from Region as <region>a, <region>b and so on.
	AvailabilityZones []string
	Region            string
}

// Render converts topo into ACK objects in dependency order.
func Render(topo topology.Topology, opts Options) ([]any, error) {
	r := renderer{topo: topo, opts: opts}
	return r.render()
}

// ToYAML encodes objects as a multi-document YAML stream.
func ToYAML(objects []any) ([]byte, error) {
	var buf bytes.Buffer
	for i, obj := range objects {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("ack: encoding object %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// Name converts a logical ID to a DNS-1123 object name, e.g.
// "demoEksNatEIP" to "demo-eks-nat-eip".
func Name(logicalID string) string {
	runes := []rune(logicalID)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && boundary(runes, i) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func boundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsUpper(cur):
		if unicode.IsLower(prev) || unicode.IsDigit(prev) {
			return true
		}
		// last capital of an acronym starting a new word: "VPCGateway"
		return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
	case unicode.IsDigit(cur):
		return unicode.IsLetter(prev)
	}
	return false
}

type renderer struct {
	topo topology.Topology
	opts Options
}

func (r renderer) meta(logicalID string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      Name(logicalID),
		Namespace: r.opts.Namespace,
		Labels: map[string]string{
			LabelManagedBy: managedBy,
			LabelPartOf:    Name(r.topo.BaseName),
		},
	}
}

func (r renderer) zone(index int) (string, error) {
	if index < len(r.opts.AvailabilityZones) {
		return r.opts.AvailabilityZones[index], nil
	}
	if len(r.opts.AvailabilityZones) == 0 && r.opts.Region != "" && index < 26 {
		return r.opts.Region + string(rune('a'+index)), nil
	}
	return "", fmt.Errorf("%w: no zone for index %d", ErrNoZones, index)
}

func (r renderer) render() ([]any, error) {
	t := r.topo
	vpcRef := ec2v1alpha1.RefTo(Name(t.Network.LogicalID))

	objects := []any{&ec2v1alpha1.VPC{
		TypeMeta:   ec2v1alpha1.TypeMetaFor(ec2v1alpha1.KindVPC),
		ObjectMeta: r.meta(t.Network.LogicalID),
		Spec: ec2v1alpha1.VPCSpec{
			CIDRBlocks:         []*string{ec2v1alpha1.String(t.Network.CIDR)},
			EnableDNSSupport:   ec2v1alpha1.Bool(t.Network.EnableDNSSupport),
			EnableDNSHostnames: ec2v1alpha1.Bool(t.Network.EnableDNSNames),
			Tags:               tags(t.Network.Tags),
		},
	}}

	igw := t.Gateways.Internet
	objects = append(objects, &ec2v1alpha1.InternetGateway{
		TypeMeta:   ec2v1alpha1.TypeMetaFor(ec2v1alpha1.KindInternetGateway),
		ObjectMeta: r.meta(igw.LogicalID),
		Spec: ec2v1alpha1.InternetGatewaySpec{
			VPCRef: vpcRef,
			Tags:   tags(igw.Tags),
		},
	})

	if nat := t.Gateways.NAT; nat != nil {
		objects = append(objects,
			&ec2v1alpha1.ElasticIPAddress{
				TypeMeta:   ec2v1alpha1.TypeMetaFor(ec2v1alpha1.KindElasticIPAddress),
				ObjectMeta: r.meta(nat.ElasticIPID),
			},
			&ec2v1alpha1.NATGateway{
				TypeMeta:   ec2v1alpha1.TypeMetaFor(ec2v1alpha1.KindNATGateway),
				ObjectMeta: r.meta(nat.LogicalID),
				Spec: ec2v1alpha1.NATGatewaySpec{
					AllocationRef: ec2v1alpha1.RefTo(Name(nat.ElasticIPID)),
					SubnetRef:     ec2v1alpha1.RefTo(Name(nat.SubnetID)),
				},
			},
		)
	}

	for _, rt := range t.RouteTables {
		spec := ec2v1alpha1.RouteTableSpec{VPCRef: vpcRef, Tags: tags(rt.Tags)}
		for _, route := range rt.Routes {
			in := &ec2v1alpha1.CreateRouteInput{DestinationCIDRBlock: ec2v1alpha1.String(route.Destination)}
			switch route.Target.Kind {
			case topology.TargetInternetGateway:
				in.GatewayRef = ec2v1alpha1.RefTo(Name(route.Target.LogicalID))
			case topology.TargetNATGateway:
				in.NATGatewayRef = ec2v1alpha1.RefTo(Name(route.Target.LogicalID))
			}
			spec.Routes = append(spec.Routes, in)
		}
		objects = append(objects, &ec2v1alpha1.RouteTable{
			TypeMeta:   ec2v1alpha1.TypeMetaFor(ec2v1alpha1.KindRouteTable),
			ObjectMeta: r.meta(rt.LogicalID),
			Spec:       spec,
		})
	}

	for _, s := range t.Subnets {
		zone, err := r.zone(s.Zone)
		if err != nil {
			return nil, fmt.Errorf("subnet %s: %w", s.LogicalID, err)
		}
		objects = append(objects, &ec2v1alpha1.Subnet{
			TypeMeta:   ec2v1alpha1.TypeMetaFor(ec2v1alpha1.KindSubnet),
			ObjectMeta: r.meta(s.LogicalID),
			Spec: ec2v1alpha1.SubnetSpec{
				AvailabilityZone:    ec2v1alpha1.String(zone),
				CIDRBlock:           ec2v1alpha1.String(s.CIDR),
				MapPublicIPOnLaunch: ec2v1alpha1.Bool(s.MapPublicIPOnLaunch()),
				VPCRef:              vpcRef,
				RouteTableRefs:      []*ec2v1alpha1.AWSResourceReferenceWrapper{ec2v1alpha1.RefTo(Name(s.RouteTableID))},
				Tags:                tags(s.Tags),
			},
		})
	}

	sg := t.SecurityGroup
	objects = append(objects, &ec2v1alpha1.SecurityGroup{
		TypeMeta:   ec2v1alpha1.TypeMetaFor(ec2v1alpha1.KindSecurityGroup),
		ObjectMeta: r.meta(sg.LogicalID),
		Spec: ec2v1alpha1.SecurityGroupSpec{
			Description: ec2v1alpha1.String(sg.Description),
			Name:        ec2v1alpha1.String(sg.LogicalID),
			VPCRef:      vpcRef,
		},
	})

	return objects, nil
}

func tags(in []topology.Tag) []*ec2v1alpha1.Tag {
	out := make([]*ec2v1alpha1.Tag, 0, len(in))
	for _, t := range in {
		out = append(out, &ec2v1alpha1.Tag{Key: ec2v1alpha1.String(t.Key), Value: ec2v1alpha1.String(t.Value)})
	}
	return out
}
