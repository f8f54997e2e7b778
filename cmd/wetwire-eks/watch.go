package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for rebuilding on config changes.
func newWatchCmd(g *globalOptions) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the template when the config file changes",
		Long: `Watch monitors the config file and rebuilds on every change.

The watch command:
- Watches the directory of --config, so editors that replace the file work
- Debounces rapid changes to avoid excessive rebuilds
- Keeps running when a rebuild fails

Examples:
    wetwire-eks watch --config wetwire-eks.yaml -o template.json
    wetwire-eks watch --config wetwire-eks.yaml --format ack -o vpc.yaml
    wetwire-eks watch --config wetwire-eks.yaml --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.configFile == "" {
				return errors.New("watch requires --config")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, g, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", "json", "Output format: json, yaml or ack")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	opts.network.register(cmd)
	opts.ack.register(cmd)

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
	network      networkFlags
	ack          ackFlags
}

// runWatch rebuilds once, then on every change to the config file until
// ctx is done.
func runWatch(ctx context.Context, cmd *cobra.Command, g *globalOptions, opts watchOptions) error {
	configPath, err := filepath.Abs(g.configFile)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir := filepath.Dir(configPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	_, logger, err := g.load()
	if err != nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	logger.Info("watching", "config", configPath)

	rebuildAndReport(cmd, g, opts, logger)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigEvent(event, configPath) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			logger.Info("change detected, rebuilding", "config", configPath)
			rebuildAndReport(cmd, g, opts, logger)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-ctx.Done():
			logger.Info("stopping watch")
			return nil
		}
	}
}

// isConfigEvent reports whether event writes, creates or replaces path.
func isConfigEvent(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func rebuildAndReport(cmd *cobra.Command, g *globalOptions, opts watchOptions, logger *slog.Logger) {
	n, err := rebuild(cmd, g, opts)
	if err != nil {
		logger.Error("build failed", "error", err)
		return
	}
	if opts.outputFile == "" {
		return
	}
	logger.Info("build successful", "output", opts.outputFile, "resources", n)
}

// rebuild renders the current config and writes it out, returning the
// number of resources.
func rebuild(cmd *cobra.Command, g *globalOptions, opts watchOptions) (int, error) {
	topo, cfg, _, err := buildTopology(cmd, g, &opts.network)
	if err != nil {
		return 0, err
	}
	data, resources, err := render(topo, opts.outputFormat, opts.ack.withConfig(cfg))
	if err != nil {
		return 0, err
	}
	if err := writeOutput(cmd, data, opts.outputFile); err != nil {
		return 0, fmt.Errorf("failed to write output: %w", err)
	}
	return len(resources), nil
}
