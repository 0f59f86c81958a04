package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crategraph/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve API graph extraction and queries over MCP (stdio)",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	server, err := mcp.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create MCP server: %v", err)
	}
	defer server.Close()

	if err := server.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
