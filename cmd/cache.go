package cmd

import (
	"fmt"

	"github.com/msalah0e/relgraph/internal/cache"
	"github.com/msalah0e/relgraph/internal/source"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/spf13/cobra"
)

func cacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline copy of remote data sources",
		Long: `List cached data sources. Remote sources are cached when [data] cache_remote
is true, and the cached copy is used when a later fetch fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := cache.Default().Entries()
			if err != nil {
				return err
			}
			ui.Banner("cache")
			if len(entries) == 0 {
				fmt.Printf("  %s\n", ui.Subtle.Sprint("Nothing cached"))
			} else {
				rows := make([][]string, len(entries))
				for i, e := range entries {
					rows[i] = []string{e.Name, fmt.Sprintf("%d B", e.Size), e.ModTime.Format("2006-01-02 15:04")}
				}
				ui.Table([]string{"Source", "Size", "Fetched"}, rows)
			}
			fmt.Printf("\n  Cache: %s\n", cache.Dir())
			return nil
		},
	}

	cmd.AddCommand(
		cacheFetchCmd(a),
		cacheClearCmd(),
		cacheBundleCmd(),
	)
	return cmd
}

func cacheFetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [url...]",
		Short: "Download remote sources into the cache",
		Long:  "Download remote data sources for later offline use (default: the configured source)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.location()}
			}
			l := a.loader()
			l.Cache = cache.Default()

			ui.Banner("fetching")
			failed := 0
			for _, loc := range args {
				if !source.IsRemote(loc) {
					ui.Warn.Printf("  %s %s is a local file, skipped\n", ui.WarnIcon(), loc)
					continue
				}
				fmt.Printf("  Caching %s... ", ui.Brand.Sprint(loc))
				res := l.Load(cmd.Context(), loc)
				if !res.Loaded() {
					ui.Bad.Printf("failed: %v\n", res.Err)
					failed++
					continue
				}
				ui.Good.Printf("done (%d people)\n", len(res.Records))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sources failed", failed, len(args))
			}
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached source",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cache.Default().Clear(); err != nil {
				return err
			}
			ui.Good.Printf("  %s Cleared %s\n", ui.StatusIcon(true), cache.Dir())
			return nil
		},
	}
}

func cacheBundleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bundle <output.tar.gz>",
		Short: "Create a portable bundle of cached sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[0]
			ui.Banner("bundling")
			if err := cache.Default().Bundle(output); err != nil {
				return fmt.Errorf("bundle: %w", err)
			}
			ui.Good.Printf("  %s Bundle created: %s\n", ui.StatusIcon(true), output)
			return nil
		},
	}
}
