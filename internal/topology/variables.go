package topology

import (
	"fmt"
	"strings"
)

// Variable names accepted by FromVariables. Lookups ignore case, since
// config loaders commonly lower-case map keys.
const (
	VarBaseCIDR             = "BaseCidr"
	VarCreatePrivateSubnets = "CreatePrivateSubnets"
	VarPublicSubnetCIDRs    = "PublicSubnetCidrs"
	VarPrivateSubnetCIDRs   = "PrivateSubnetCidrs"
)

const cidrListWant = "a list of cidrs, e.g. ['1.2.3.0/24']"

// FromVariables converts a free-form variables map into Options.
//
// BaseCidr is required and must be a string. CreatePrivateSubnets may be a
// bool or a string and defaults to true; only "true" enables it when given
// as a string. The subnet CIDR variables must be lists of strings.
func FromVariables(namespace string, vars map[string]any) (Options, error) {
	opts := Options{
		Namespace:            namespace,
		CreatePrivateSubnets: true,
	}

	raw, ok := lookup(vars, VarBaseCIDR)
	if !ok {
		return Options{}, fmt.Errorf("%w: %s", ErrMissingVariable, VarBaseCIDR)
	}
	base, ok := raw.(string)
	if !ok {
		return Options{}, &ArgumentTypeError{Variable: VarBaseCIDR, Want: "a string", Value: raw}
	}
	opts.BaseCIDR = base

	if raw, ok := lookup(vars, VarCreatePrivateSubnets); ok {
		switch v := raw.(type) {
		case bool:
			opts.CreatePrivateSubnets = v
		case string:
			opts.CreatePrivateSubnets = strings.EqualFold(strings.TrimSpace(v), "true")
		default:
			return Options{}, &ArgumentTypeError{Variable: VarCreatePrivateSubnets, Want: `"true" or "false"`, Value: raw}
		}
	}

	var err error
	if raw, ok := lookup(vars, VarPublicSubnetCIDRs); ok {
		if opts.PublicSubnetCIDRs, err = cidrList(VarPublicSubnetCIDRs, raw); err != nil {
			return Options{}, err
		}
	}
	if raw, ok := lookup(vars, VarPrivateSubnetCIDRs); ok {
		if opts.PrivateSubnetCIDRs, err = cidrList(VarPrivateSubnetCIDRs, raw); err != nil {
			return Options{}, err
		}
	}

	return opts, nil
}

func lookup(vars map[string]any, name string) (any, bool) {
	if v, ok := vars[name]; ok {
		return v, true
	}
	for k, v := range vars {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func cidrList(name string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &ArgumentTypeError{Variable: name, Want: cidrListWant, Value: raw}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &ArgumentTypeError{Variable: name, Want: cidrListWant, Value: raw}
	}
}
