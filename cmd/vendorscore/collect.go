// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vendorscore/internal/collect"
	"github.com/pdiddy/vendorscore/internal/robots"
	"github.com/pdiddy/vendorscore/internal/store"
	"github.com/pdiddy/vendorscore/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect [site-url]",
	Short: "Crawl a company site and cache its public pages",
	Long: `Collect fetches the homepage, discovers a handful of informative links
(about, services, contact, ...), and fetches each one behind the site's
robots.txt policy. Page bodies land in the SQLite cache; repeat runs
reuse cached pages instead of refetching.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringSlice("extra", nil, "additional page URLs to fetch")
	collectCmd.Flags().Duration("delay", 0, "pause before each discovery fetch (default 500ms)")
	collectCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 15s)")
	collectCmd.Flags().Int("max-discovered", 0, "maximum homepage links to follow (default 8)")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one site URL")
	}
	siteURL := collect.NormalizeSiteURL(args[0])

	cfg := collectorConfig()
	if d, _ := cmd.Flags().GetDuration("delay"); d > 0 {
		cfg.FetchDelay = d
	}
	if d, _ := cmd.Flags().GetDuration("timeout"); d > 0 {
		cfg.Timeout = d
	}
	if n, _ := cmd.Flags().GetInt("max-discovered"); n > 0 {
		cfg.MaxDiscovered = n
	}

	cache, err := store.New(dbPath(cmd))
	if err != nil {
		return err
	}
	defer cache.Close()

	collector := newCollector(cache, cfg)
	extra, _ := cmd.Flags().GetStringSlice("extra")

	pages := collector.Collect(context.Background(), siteURL, extra, os.Stdout)
	if len(pages) == 0 {
		return fmt.Errorf("no pages collected from %s", siteURL)
	}

	for _, p := range pages {
		fmt.Printf("%-60s  %7d bytes\n", p.URL, len(p.Content))
	}
	fmt.Printf("%d page(s) collected\n", len(pages))
	return nil
}

// newCollector wires the robots gate and page cache into a collector.
func newCollector(cache collect.PageCache, cfg types.CollectorConfig) *collect.Collector {
	agent := cfg.UserAgent
	if agent == "" {
		agent = types.DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = types.DefaultTimeout
	}
	gate := &robots.Gate{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: agent,
	}
	return collect.New(cache, gate, cfg)
}
