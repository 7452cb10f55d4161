package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pokkur/layr/bootstrap"
	"github.com/pokkur/layr/config"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the registry server",
	Long: `Start the layrd registry server.

The server will:
  - Load configuration from layrd.yaml (or --config)
  - Or load configuration from LAYRD_* environment variables
  - Build a registry from the definition documents
  - Answer wire queries against the registry's exposed surface

Environment variables (for Docker deployments):
  LAYRD_REGISTRY_DEFINITIONS - Definition file or directory (required)
  LAYRD_REGISTRY_WATCH       - Rebuild when definition files change
  LAYRD_SERVER_PORT          - Server port (default: 8080)
  LAYRD_AUTH_TOKEN_HASH      - Bcrypt hash of the accepted bearer token
  LAYRD_LOG_LEVEL            - Log level: debug, info, warn, error

Examples:
  layrd serve
  layrd serve --config /etc/layrd/config.yaml
  layrd serve --hot-reload=false

  # Docker (env vars only):
  LAYRD_REGISTRY_DEFINITIONS=/etc/layrd/definitions layrd serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	hasEnvConfig := config.HasEnvConfig()

	// No configuration at all
	if !hasConfigFile && !hasEnvConfig {
		fmt.Println("No configuration found.")
		fmt.Println()
		fmt.Printf("Option 1: Create %s with registry.definitions set\n", cfgFile)
		fmt.Println("Option 2: Set LAYRD_REGISTRY_DEFINITIONS environment variable")
		fmt.Println()
		fmt.Println("Example (env vars):")
		fmt.Println("  LAYRD_REGISTRY_DEFINITIONS=./definitions layrd serve")
		return nil
	}

	opts := bootstrap.Options{Version: version}

	// Create application
	var app *bootstrap.App
	var err error

	if hasConfigFile && hotReload {
		// Hot reload only works with a config file
		app, err = bootstrap.NewWithHotReload(cfgFile, opts)
	} else {
		// Load config (file with env overrides, or env-only)
		cfg, loadErr := config.LoadWithFallback(cfgFile)
		if loadErr != nil {
			return fmt.Errorf("error loading config: %w", loadErr)
		}

		if !hasConfigFile {
			fmt.Println("Running with environment variables (no config file)")
		}

		app, err = bootstrap.NewWithOptions(cfg, opts)
	}

	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
