package main

import (
	"fmt"

	"github.com/spf13/cobra"

	httpadapter "github.com/topiclens/topiclens/adapters/http"
)

var (
	// Set via ldflags at build time.
	commit    = "none"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("topiclens %s\n", httpadapter.Version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
