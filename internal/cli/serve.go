package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cvpchart/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart API over HTTP",
		Long: `Serve the chart API over HTTP.

Endpoints:
  GET  /healthz             liveness probe
  GET  /version             build information
  POST /v1/calculate        metrics and warnings for an input
  POST /v1/layout           treemap layout JSON
  POST /v1/render/{format}  svg, png, pdf, json or xlsx

Configuration is read from the environment, optionally loaded from a .env
file first:
  ` + server.EnvAddr + `       listen address (default ` + server.DefaultAddr + `)
  ` + server.EnvCacheDir + `  directory for an on-disk artifact cache
  ` + server.EnvRedisURL + `  Redis URL for a shared artifact cache

Without either, rendered artifacts are cached in memory.`,
		Example: `  cvpchart serve
  cvpchart serve --addr 127.0.0.1:9000
  CVPCHART_CACHE_DIR=/var/cache/cvpchart cvpchart serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(envFile); err != nil {
				return err
			}
			cfg, err := server.ConfigFromEnv(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			cfg.Logger = c.Logger

			return server.New(cfg).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address (overrides "+server.EnvAddr+")")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading configuration")

	return cmd
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
