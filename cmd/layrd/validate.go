package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pokkur/layr/config"
	"github.com/pokkur/layr/definition"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and definitions before deployment",
	Long: `Validate the layrd configuration file and the definition documents
it points to.

Checks:
  - YAML syntax is valid
  - Required fields are present
  - Definition documents parse and build a registry

Examples:
  layrd validate
  layrd validate --config /etc/layrd/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Printf("Validating %s...\n\n", cfgFile)

	// Check file exists
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Printf("  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Printf("  %s Config file exists\n", checkMark)

	// Load and validate config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("  %s Config syntax valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Printf("  %s Config syntax valid\n", checkMark)

	// Show config summary
	fmt.Printf("  %s Definitions: %s\n", checkMark, cfg.Registry.Definitions)
	fmt.Printf("  %s Listen: %s:%d\n", checkMark, cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  %s Auth enabled: %v\n", checkMark, cfg.Auth.Enabled)

	// Build the registry the same way serve does
	holder, err := definition.NewHolder(cfg.Registry.Definitions, zerolog.Nop())
	if err != nil {
		fmt.Printf("  %s Definitions build\n", crossMark)
		return fmt.Errorf("definitions error: %w", err)
	}
	defer holder.Stop()

	reg := holder.Get()
	names := reg.ComponentNames()
	fmt.Printf("  %s Registry %q builds: %d components\n", checkMark, reg.Name(), len(names))
	for _, name := range names {
		fmt.Printf("      - %s\n", name)
	}

	fmt.Println()
	fmt.Println("Configuration is valid.")
	return nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
