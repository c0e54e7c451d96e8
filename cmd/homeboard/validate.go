package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/homeboard"
	"github.com/jpalmerr/homeboard/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a HomeBoard configuration file without starting the server.

This command parses the YAML, expands environment variables, validates all
fields and checks that the resulting options build a dashboard. It's useful
for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  homeboard validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	hb, err := homeboard.New(opts...)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	backend := cfg.Backend.URL
	if backend == "" {
		backend = "(none)"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Port:      %d\n", hb.Port())
	fmt.Printf("  Backend:   %s\n", backend)
	fmt.Printf("  Resources: %s\n", cfg.Resources.Source)
	fmt.Printf("  Tasks:\n")
	for _, name := range hb.Tasks() {
		fmt.Printf("    %-10s every %s\n", name, hb.Interval(name))
	}
	if cfg.MQTT.Broker != "" {
		fmt.Printf("  MQTT:      %s\n", cfg.MQTT.Broker)
	}
	if len(cfg.HiddenElements) > 0 {
		fmt.Printf("  Hidden:    %s\n", strings.Join(cfg.HiddenElements, ", "))
	}

	return nil
}
