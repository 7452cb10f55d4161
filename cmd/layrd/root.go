package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "layrd",
	Short: "Component registry server with a versioned wire protocol",
	Long: `Layrd serves the exposed surface of a component registry over HTTP.

Component classes are declared in YAML definition documents. The server
builds a registry from them and answers versioned wire queries such as
registry introspection.

Quick start:
  layrd serve       # Start the registry server
  layrd validate    # Validate config and definitions

Deployment:
  layrd hash-token  # Hash a bearer token for auth.token_hash
  layrd version     # Print version information`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "layrd.yaml", "config file path")
}
