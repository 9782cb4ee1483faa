package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/career-companion/backend/internal/model/reply"
)

var catalogPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Talk to the career companion from the terminal",
	Long: `A terminal client for the career companion chat assistant.

Quick Start:
  companion chat                           # Start an interactive session
  companion classify "what should I build" # Show the intent for a message
  companion prompts                        # List suggested starter prompts`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", os.Getenv("REPLY_CATALOG_FILE"), "YAML reply catalog overriding the built-in responses")
}

func loadCatalog() (reply.Catalog, error) {
	return reply.LoadOrSeed(catalogPath)
}
