package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/topiclens/topiclens/bootstrap"
	"github.com/topiclens/topiclens/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the TopicLens API server.

Configuration comes from topiclens.yaml (or --config) with environment
overrides; without a config file the server runs entirely from the
environment. Missing provider credentials are not an error: the
affected endpoints answer with demo data instead.

Environment variables:
  GEMINI_API_KEY              - Gemini API key (demo mode without it)
  YT_API_KEY                  - YouTube Data API key (demo mode without it)
  DISCORD_WEBHOOK_URL         - webhook for activity notifications
  TOPICLENS_SERVER_PORT       - listen port (default: 8080)
  TOPICLENS_LOG_LEVEL         - debug, info, warn, error

Examples:
  topiclens serve
  topiclens serve --config /etc/topiclens/config.yaml
  GEMINI_API_KEY=... YT_API_KEY=... topiclens serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// A local .env is a convenience for development; silence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if _, statErr := os.Stat(cfgFile); statErr != nil {
		fmt.Println("Running with environment variables (no config file)")
	}

	a, err := bootstrap.New(cfg)
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}
	return a.Run()
}
