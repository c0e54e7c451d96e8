// Package main is the entry point for the homeboard CLI.
//
// HomeBoard can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	homeboard serve -c config.yaml    # Start the dashboard
//	homeboard validate -c config.yaml # Validate configuration
//	homeboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "homeboard",
	Short: "A home dashboard for music, weather, calendar and more",
	Long: `HomeBoard is a single-page home dashboard.

It polls a backend for music playback, weather, calendar events, system
resources and followed live streams, and shows them next to a clock. The
page updates live over Server-Sent Events.

Quick start:
  1. Create a config file (homeboard.yaml)
  2. Run: homeboard serve -c homeboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  backend:
    url: http://localhost:8000
  tasks:
    weather:
      interval: 10m`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this homeboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("homeboard %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
