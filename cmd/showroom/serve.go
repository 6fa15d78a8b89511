package main

import (
	"fmt"
	"os"

	"github.com/artpar/showroom/bootstrap"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog server",
	Long: `Start the Showroom catalog server.

The server will:
  - Load configuration from showroom.yaml (or --config)
  - Or load configuration from SHOWROOM_* environment variables
  - Open the database and apply pending migrations
  - Serve the public catalog with visitor tracking
  - Serve the JSON admin API

Environment variables (for Docker deployments):
  SHOWROOM_SERVER_PORT       - Server port (default: 8080)
  SHOWROOM_DATABASE_DSN      - Database path (default: showroom.db)
  SHOWROOM_SITE_BASE_URL     - Public base URL used in QR codes
  SHOWROOM_TRACKING_ENABLED  - Set to false to disable visitor tracking
  SHOWROOM_LOG_LEVEL         - Log level: debug, info, warn, error

Examples:
  showroom serve
  showroom serve --config /etc/showroom/config.yaml

  # Docker (env vars only):
  SHOWROOM_SITE_BASE_URL=https://shop.example showroom serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err != nil {
		fmt.Println("No config file found, using SHOWROOM_* environment variables")
	}

	app, err := bootstrap.New(cfgFile)
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
