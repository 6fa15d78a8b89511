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
	Use:   "showroom",
	Short: "Product catalog server with visitor analytics",
	Long: `Showroom is a self-hosted product catalog server.

It serves the public catalog, records anonymous visitor sessions and
product engagement, and exposes a JSON admin API with aggregated
analytics.

Quick start:
  showroom init      # Create the database and the first admin account
  showroom serve     # Start the catalog server

Management:
  showroom stats     # Print visitor analytics to the terminal
  showroom validate  # Validate configuration`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "showroom.yaml", "config file path")
}
