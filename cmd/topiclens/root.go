package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "topiclens",
	Short: "Topic research backend: prompt generation, AI curation, video search",
	Long: `TopicLens is a topic-research backend.

For any learning topic it renders a structured research prompt, asks an
AI provider for a curated resource list, and searches YouTube for the
best educational videos with quality scoring and analytics. Provider
usage is capped by daily quotas; request activity can be mirrored to a
Discord webhook.

Quick start:
  topiclens serve   # start the API server`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "topiclens.yaml", "config file path")
}
