package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jcdickinson/crategraph/internal/api"
	"github.com/jcdickinson/crategraph/internal/rustdoc"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <crate>[@version] ...",
	Short: "Build API graphs for published crates from docs.rs",
	Long:  `Download rustdoc JSON from docs.rs, resolve each crate into an API graph, and print summaries. Version defaults to "latest".`,
	Example: `  crategraph fetch serde
  crategraph fetch serde@1.0 tokio@1.0`,
	Args: cobra.MinimumNArgs(1),
	Run:  runFetch,
}

var fetchNoCache bool

func init() {
	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "ignore the local rustdoc JSON cache")
}

func runFetch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(cmd.Context())

	for _, arg := range args {
		name, version, _ := strings.Cut(arg, "@")
		if version == "" {
			version = "latest"
		}

		g.Go(func() error {
			crate, err := fetchCrate(ctx, cfg.Fetch.UserAgent, name, version)
			if err != nil {
				return err
			}

			// Resolution itself stays single-threaded; only independent
			// crates run in parallel.
			a, err := api.Resolve(crate)
			if err != nil {
				return fmt.Errorf("resolving %s@%s: %w", name, version, err)
			}

			mu.Lock()
			defer mu.Unlock()
			fmt.Printf("%s@%s: %d paths, %d items, %d external crates\n",
				name, version, len(a.Paths), len(a.Items), len(a.Crates))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
}

func fetchCrate(ctx context.Context, userAgent, name, version string) (*rustdoc.Crate, error) {
	if !fetchNoCache && rustdoc.HasCache(name, version) {
		return rustdoc.LoadCache(name, version)
	}

	data, err := rustdoc.Fetch(ctx, name, version, userAgent)
	if err != nil {
		return nil, err
	}
	if err := rustdoc.SaveCache(data, name, version); err != nil {
		log.Printf("warning: caching %s@%s: %v", name, version, err)
	}

	crate, err := rustdoc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s@%s: %w", name, version, err)
	}
	return crate, nil
}
