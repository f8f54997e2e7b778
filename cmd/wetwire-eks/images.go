package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-eks-go/internal/images"
)

func newImagesCmd(g *globalOptions) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Record and list uploaded image metadata",
		Long: `Images manages the DynamoDB table holding image metadata.

Examples:
    wetwire-eks images ensure-table
    wetwire-eks images add --name cat.png --upload-url https://... --storage-url s3://bucket/cat.png
    wetwire-eks images list --format json

Point the client at DynamoDB Local with images.endpoint in the config file
or WETWIRE_EKS_IMAGES_ENDPOINT=http://localhost:8000.`,
	}

	cmd.PersistentFlags().StringVar(&table, "table", "", "Table name (default: images.table)")

	cmd.AddCommand(
		newImagesEnsureTableCmd(g, &table),
		newImagesAddCmd(g, &table),
		newImagesListCmd(g, &table),
	)
	return cmd
}

// openStore builds a Store from the config and the --table flag.
func openStore(cmd *cobra.Command, g *globalOptions, table string) (*images.Store, error) {
	cfg, logger, err := g.load()
	if err != nil {
		return nil, err
	}
	if table == "" {
		table = cfg.Images.Table
	}

	client, err := images.NewClient(cmd.Context(), images.ClientOptions{
		Region:    cfg.Images.Region,
		Endpoint:  cfg.Images.Endpoint,
		AccessKey: cfg.Images.AccessKey,
		SecretKey: cfg.Images.SecretKey,
	})
	if err != nil {
		return nil, err
	}

	opts := []images.Option{
		images.WithLogger(logger),
		images.WithBillingMode(cfg.Images.BillingMode),
	}
	if cfg.Images.WaitForActive > 0 {
		opts = append(opts, images.WithWaitForActive(cfg.Images.WaitForActive))
	}
	return images.NewStore(client, table, opts...), nil
}

func newImagesEnsureTableCmd(g *globalOptions, table *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-table",
		Short: "Create the images table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, g, *table)
			if err != nil {
				return err
			}
			created, err := store.EnsureTable(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created table %s\n", store.Table())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Table %s already exists\n", store.Table())
			}
			return nil
		},
	}
}

func newImagesAddCmd(g *globalOptions, table *string) *cobra.Command {
	var id, name, uploadURL, storageURL string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record one image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = uuid.NewString()
			}
			store, err := openStore(cmd, g, *table)
			if err != nil {
				return err
			}
			img, err := store.AddImage(cmd.Context(), id, name, uploadURL, storageURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded image %s at %s\n", img.ID, img.CreatedAt)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Image ID (default: random UUID)")
	cmd.Flags().StringVar(&name, "name", "", "Image name")
	cmd.Flags().StringVar(&uploadURL, "upload-url", "", "URL the image was uploaded to")
	cmd.Flags().StringVar(&storageURL, "storage-url", "", "Object storage URL, e.g. s3://bucket/key")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newImagesListCmd(g *globalOptions, table *string) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every recorded image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, g, *table)
			if err != nil {
				return err
			}
			list, err := store.ListImages(cmd.Context())
			if err != nil {
				return err
			}
			return outputImages(cmd, list, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format: table or json")
	return cmd
}

func outputImages(cmd *cobra.Command, list []images.Image, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		if list == nil {
			list = []images.Image{}
		}
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil

	case "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTORAGE URL\tCREATED")
		for _, img := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", img.ID, img.Name, img.StorageURL, img.CreatedAt)
		}
		return w.Flush()

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
