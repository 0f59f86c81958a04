package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crategraph/internal/config"
	"github.com/jcdickinson/crategraph/internal/db"
)

var indexCmd = &cobra.Command{
	Use:   "index <Cargo.toml>",
	Short: "Extract a crate's API graph and store it for querying",
	Args:  cobra.ExactArgs(1),
	Run:   runIndex,
}

func runIndex(cmd *cobra.Command, args []string) {
	a, pkg, err := extractAPI(cmd.Context(), args[0])
	if err != nil {
		log.Fatalf("extract failed: %v", err)
	}

	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := database.SaveAPI(pkg, a); err != nil {
		log.Fatalf("failed to store graph: %v", err)
	}

	fmt.Printf("%s: stored %d paths, %d items, %d external crates\n",
		pkg, len(a.Paths), len(a.Items), len(a.Crates))
}

var pathsCmd = &cobra.Command{
	Use:   "paths <package>",
	Short: "List the stored paths of an indexed crate",
	Example: `  crategraph paths mycrate
  crategraph paths --kind function mycrate`,
	Args: cobra.ExactArgs(1),
	Run:  runPaths,
}

var pathsKind string

func init() {
	pathsCmd.Flags().StringVar(&pathsKind, "kind", "", "filter to a single path kind")
}

func runPaths(cmd *cobra.Command, args []string) {
	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	paths, err := database.ListPaths(args[0], pathsKind)
	if errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("no stored graph for %s (run `crategraph index` first)", args[0])
	}
	if err != nil {
		log.Fatalf("failed to list paths: %v", err)
	}

	for _, p := range paths {
		marker := ""
		if p.HasItem {
			marker = " *"
		}
		fmt.Printf("  %s (%s)%s\n", p.Name, p.Kind, marker)
	}
}

var graphsCmd = &cobra.Command{
	Use:   "graphs",
	Short: "List stored API graphs",
	Run:   runGraphs,
}

func runGraphs(cmd *cobra.Command, args []string) {
	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	graphs, err := database.ListGraphs()
	if err != nil {
		log.Fatalf("failed to list graphs: %v", err)
	}

	if len(graphs) == 0 {
		fmt.Println("no graphs stored")
		return
	}
	for _, g := range graphs {
		fmt.Printf("  %s: %d paths, %d items (resolved %s)\n",
			g.Package, g.Paths, g.Items, g.ResolvedAt.Format("2006-01-02 15:04"))
	}
}
