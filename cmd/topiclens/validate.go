package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/topiclens/topiclens/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("%s is valid\n", cfgFile)
		fmt.Printf("  listen:        %s\n", cfg.Server.Addr())
		fmt.Printf("  gemini key:    %s\n", configured(cfg.Providers.Gemini.APIKey))
		fmt.Printf("  youtube key:   %s\n", configured(cfg.Providers.YouTube.APIKey))
		fmt.Printf("  notifications: %s\n", configured(cfg.Notify.WebhookURL))
		return nil
	},
}

func configured(v string) string {
	if v == "" {
		return "not configured (demo mode)"
	}
	return "configured"
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
