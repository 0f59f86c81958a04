package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crategraph/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "crategraph",
	Short: "Extract a queryable API graph from a Rust crate's rustdoc JSON",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(graphsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the config, exiting on failure. Commands call it lazily
// so config problems only surface for commands that need one.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
