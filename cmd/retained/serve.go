package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/retained/internal/config"
	"github.com/vango-dev/retained/internal/demo"
	"github.com/vango-dev/retained/pkg/live"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo app over websockets",
		Long: `Start the live server with the demo app mounted at /live.

Configuration is read from --config, or from retained.json or
retained.yaml in the working directory when present.

Examples:
  retained serve
  retained serve --port=8080
  retained serve --config=deploy/retained.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a retained.json or retained.yaml file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

// loadConfig reads path, or the working directory's config file, or falls
// back to the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if config.Exists(".") {
		return config.Load(".")
	}
	return config.New(), nil
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.Log.Logger(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := live.NewServer(cfg, demo.Root, live.WithLogger(logger))

	success(cmd, "Serving the demo on ws://%s/live", cfg.Addr())
	if cfg.Metrics.Enabled {
		info(cmd, "metrics: http://%s%s", cfg.Addr(), cfg.Metrics.Path)
	}
	if p := cfg.Path(); p != "" {
		info(cmd, "config:  %s", p)
	}
	return srv.ListenAndServe(ctx)
}
