// Command wetwire-eks generates the network foundation of an EKS cluster
// and records uploaded image metadata in DynamoDB.
//
// Usage:
//
//	wetwire-eks build --base-cidr 10.0        Generate CloudFormation template
//	wetwire-eks build --format ack            Generate ACK ec2 manifests
//	wetwire-eks graph -f mermaid              Show resource dependencies
//	wetwire-eks validate                      Run cfn-lint on the template
//	wetwire-eks images list                   List recorded images
//	wetwire-eks version                       Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "wetwire-eks",
		Short: "Generate the network foundation of an EKS cluster",
		Long: `wetwire-eks describes the VPC, subnets, gateways and routing an EKS
control plane needs, and renders it as CloudFormation, ACK manifests or a
dependency graph.

Settings come from an optional YAML file and WETWIRE_EKS_* variables:

    namespace: demo
    network:
      BaseCidr: "10.0"
      CreatePrivateSubnets: true

Then generate CloudFormation JSON:

    wetwire-eks build --config wetwire-eks.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		newBuildCmd(g),
		newGraphCmd(g),
		newValidateCmd(g),
		newDiffCmd(g),
		newWatchCmd(g),
		newImagesCmd(g),
		newOptimizeCmd(g),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wetwire-eks %s\n", getVersion())
		},
	}
}
