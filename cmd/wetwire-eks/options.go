package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-eks-go"
	"github.com/lex00/wetwire-eks-go/internal/config"
	"github.com/lex00/wetwire-eks-go/internal/logging"
	"github.com/lex00/wetwire-eks-go/internal/template"
	"github.com/lex00/wetwire-eks-go/internal/topology"
)

// globalOptions holds the persistent root flags.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
}

// load reads the config and builds a stderr logger, letting the log flags
// override the file.
func (g *globalOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	return cfg, logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format), nil
}

// networkFlags overrides the topology variables of the config.
type networkFlags struct {
	namespace            string
	baseCIDR             string
	createPrivateSubnets bool
}

func (n *networkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&n.namespace, "namespace", "", "Namespace prefixing every logical ID")
	cmd.Flags().StringVar(&n.baseCIDR, "base-cidr", "", `First two octets of the VPC block, e.g. "10.0"`)
	cmd.Flags().BoolVar(&n.createPrivateSubnets, "create-private-subnets", true, "Add private subnets behind a NAT gateway")
}

// apply merges changed flags into cfg.
func (n *networkFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cfg.Network == nil {
		cfg.Network = map[string]any{}
	}
	if cmd.Flags().Changed("namespace") {
		cfg.Namespace = n.namespace
	}
	if cmd.Flags().Changed("base-cidr") {
		setVariable(cfg.Network, topology.VarBaseCIDR, n.baseCIDR)
	}
	if cmd.Flags().Changed("create-private-subnets") {
		setVariable(cfg.Network, topology.VarCreatePrivateSubnets, n.createPrivateSubnets)
	}
}

// setVariable replaces name in vars regardless of the case it was loaded with.
func setVariable(vars map[string]any, name string, value any) {
	for k := range vars {
		if strings.EqualFold(k, name) {
			delete(vars, k)
		}
	}
	vars[name] = value
}

// buildTopology loads the config, applies flag overrides and builds the topology.
func buildTopology(cmd *cobra.Command, g *globalOptions, n *networkFlags) (topology.Topology, *config.Config, *slog.Logger, error) {
	cfg, logger, err := g.load()
	if err != nil {
		return topology.Topology{}, nil, nil, err
	}
	n.apply(cmd, cfg)

	opts, err := cfg.TopologyOptions()
	if err != nil {
		return topology.Topology{}, nil, nil, err
	}
	topo, err := topology.Build(opts)
	if err != nil {
		return topology.Topology{}, nil, nil, err
	}
	logger.Debug("topology built",
		"base", topo.BaseName,
		"subnets", len(topo.Subnets),
		"nat", topo.Gateways.NAT != nil)
	return topo, cfg, logger, nil
}

// writeOutput writes data to outputFile, or to the command's stdout.
func writeOutput(cmd *cobra.Command, data []byte, outputFile string) error {
	if outputFile == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}

// renderTemplate serializes a template as json or yaml.
func renderTemplate(topo topology.Topology, format string) ([]byte, []string, error) {
	builder := template.NewBuilder(topo)
	tmpl, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}
	order, err := builder.Order()
	if err != nil {
		return nil, nil, err
	}

	var data []byte
	switch format {
	case "json":
		data, err = template.ToJSON(tmpl)
	case "yaml":
		data, err = template.ToYAML(tmpl)
	default:
		return nil, nil, fmt.Errorf("unknown format: %s", format)
	}
	return data, order, err
}

// builtTemplate builds the CloudFormation template for the current config.
func builtTemplate(cmd *cobra.Command, g *globalOptions, n *networkFlags) (*wetwire.Template, error) {
	topo, _, _, err := buildTopology(cmd, g, n)
	if err != nil {
		return nil, err
	}
	return template.NewBuilder(topo).Build()
}
