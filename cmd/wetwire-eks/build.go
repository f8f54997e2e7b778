package main

import (
	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-eks-go/internal/ack"
	"github.com/lex00/wetwire-eks-go/internal/config"
	"github.com/lex00/wetwire-eks-go/internal/topology"
)

type ackFlags struct {
	namespace string
	region    string
	zones     []string
}

func (a *ackFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.namespace, "k8s-namespace", "", "Kubernetes namespace of the ACK objects")
	cmd.Flags().StringVar(&a.region, "region", "", "Region used to derive availability zones (default: ack.region)")
	cmd.Flags().StringSliceVar(&a.zones, "zones", nil, "Availability zones in subnet order, e.g. us-east-1a,us-east-1b")
}

// withConfig fills unset flags from the ack section of cfg.
func (a ackFlags) withConfig(cfg *config.Config) ackFlags {
	if a.namespace == "" {
		a.namespace = cfg.ACK.Namespace
	}
	if a.region == "" {
		a.region = cfg.ACK.Region
	}
	if len(a.zones) == 0 {
		a.zones = cfg.ACK.Zones
	}
	return a
}

func newBuildCmd(g *globalOptions) *cobra.Command {
	var (
		outputFormat string
		outputFile   string
		network      networkFlags
		ackOpts      ackFlags
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the EKS network template",
		Long: `Build describes the EKS network and renders it.

Examples:
    wetwire-eks build --base-cidr 10.0
    wetwire-eks build --base-cidr 10.0 -o template.json
    wetwire-eks build --config wetwire-eks.yaml --format yaml
    wetwire-eks build --base-cidr 10.0 --create-private-subnets=false
    wetwire-eks build --base-cidr 10.0 --format ack --region us-east-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, cfg, logger, err := buildTopology(cmd, g, &network)
			if err != nil {
				return err
			}
			data, resources, err := render(topo, outputFormat, ackOpts.withConfig(cfg))
			if err != nil {
				return err
			}
			logger.Info("build complete", "format", outputFormat, "resources", len(resources))
			return writeOutput(cmd, data, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json, yaml or ack")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	network.register(cmd)
	ackOpts.register(cmd)

	return cmd
}

// render produces the build output and the logical IDs it contains.
func render(topo topology.Topology, format string, a ackFlags) ([]byte, []string, error) {
	if format != "ack" {
		return renderTemplate(topo, format)
	}

	objects, err := ack.Render(topo, ack.Options{
		Namespace:         a.namespace,
		AvailabilityZones: a.zones,
		Region:            a.region,
	})
	if err != nil {
		return nil, nil, err
	}
	data, err := ack.ToYAML(objects)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(topo.Resources()))
	for _, r := range topo.Resources() {
		ids = append(ids, r.LogicalID)
	}
	return data, ids, nil
}
