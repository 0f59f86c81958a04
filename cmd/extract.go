package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crategraph/internal/api"
	"github.com/jcdickinson/crategraph/internal/rustdoc"
)

var extractCmd = &cobra.Command{
	Use:   "extract <Cargo.toml>",
	Short: "Build the API graph for a local crate",
	Long:  `Run cargo-doc against a manifest, resolve the rustdoc JSON dump into an API graph, and print it.`,
	Example: `  crategraph extract ./Cargo.toml
  crategraph extract --deps --json ./mycrate/Cargo.toml`,
	Args: cobra.ExactArgs(1),
	Run:  runExtract,
}

var (
	extractDeps      bool
	extractTargetDir string
	extractJSON      bool
)

func init() {
	extractCmd.Flags().BoolVar(&extractDeps, "deps", false, "document dependencies as well")
	extractCmd.Flags().StringVar(&extractTargetDir, "target-dir", "", "override the dump staging directory")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the full graph as JSON")
}

func runExtract(cmd *cobra.Command, args []string) {
	a, pkg, err := extractAPI(cmd.Context(), args[0])
	if err != nil {
		log.Fatalf("extract failed: %v", err)
	}

	if extractJSON {
		out, _ := json.MarshalIndent(a, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Printf("%s: %d paths, %d items, %d external crates\n",
		pkg, len(a.Paths), len(a.Items), len(a.Crates))
	printTree(a, a.Root, 0)
}

// extractAPI dumps and resolves the graph for a manifest, merging flags
// over the config file.
func extractAPI(ctx context.Context, manifestPath string) (*api.API, string, error) {
	cfg := loadConfig()

	pkg, err := rustdoc.PackageName(manifestPath)
	if err != nil {
		return nil, "", err
	}

	dumper := rustdoc.Dumper{
		Deps:      cfg.Rustdoc.Deps || extractDeps,
		TargetDir: string(cfg.Rustdoc.TargetDir),
	}
	if extractTargetDir != "" {
		dumper.TargetDir = extractTargetDir
	}

	crate, err := dumper.Load(ctx, manifestPath)
	if err != nil {
		return nil, "", err
	}

	a, err := api.Resolve(crate)
	if err != nil {
		return nil, "", err
	}
	return a, pkg, nil
}

// printTree writes an indented path tree to stdout. Import aliases are
// printed without descending so shared subtrees appear once.
func printTree(a *api.API, id api.PathID, depth int) {
	path := a.Path(id)

	marker := ""
	if path.Item != nil {
		marker = " *"
	}
	fmt.Fprintf(os.Stdout, "%s%s (%s)%s\n", strings.Repeat("  ", depth), path.Name, path.Kind, marker)

	if path.Kind == api.KindImport && depth > 0 {
		return
	}
	for _, child := range path.Children {
		printTree(a, child, depth+1)
	}
}
