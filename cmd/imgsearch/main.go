package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v2"

	"github.com/altinukshini/imgsearch-tui/internal/config"
	"github.com/altinukshini/imgsearch-tui/internal/history"
	"github.com/altinukshini/imgsearch-tui/internal/model"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	app := &cli.App{
		Name:    "imgsearch",
		Usage:   "Search stock photos and collect reference images from the terminal",
		Version: version,
		Flags:   globalFlags(),
		Action:  TUIAction,
		Commands: []*cli.Command{
			{
				Name:   "tui",
				Usage:  "Start the interactive browser (default)",
				Action: TUIAction,
			},
			{
				Name:      "search",
				Usage:     "Run one search and print the results",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1, Usage: "Result page to fetch"},
					&cli.IntFlag{Name: "save", Usage: "Store the n-th result (1-based) in the reference library"},
				},
				Action: SearchAction,
			},
			{
				Name:  "refs",
				Usage: "Manage the reference library",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List stored references",
						Action: RefsListAction,
					},
					{
						Name:  "prune",
						Usage: "Delete references matching a filter",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "query", Usage: "Only references found with this query"},
							&cli.StringFlag{Name: "author", Usage: "Only references whose author contains this text"},
							&cli.StringFlag{Name: "format", Usage: "Only references of this image format (jpg, png, webp...)"},
							&cli.DurationFlag{Name: "older-than", Usage: "Only references stored longer ago than this"},
							&cli.StringFlag{Name: "larger-than", Usage: "Only references larger than this size (e.g. 2MB)"},
							&cli.BoolFlag{Name: "dry-run", Usage: "Show what would be deleted"},
						},
						Action: RefsPruneAction,
					},
					{
						Name:  "clear",
						Usage: "Delete every reference",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "force", Usage: "Required to actually delete"},
						},
						Action: RefsClearAction,
					},
				},
			},
			{
				Name:  "history",
				Usage: "Manage recent queries",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List recent queries",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum number of queries"},
						},
						Action: HistoryListAction,
					},
					{
						Name:      "rm",
						Usage:     "Forget one query",
						ArgsUsage: "<query>",
						Action:    HistoryRemoveAction,
					},
					{
						Name:   "clear",
						Usage:  "Forget every query",
						Action: HistoryClearAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func globalFlags() []cli.Flag {
	def := config.Default()
	return []cli.Flag{
		&cli.StringFlag{Name: "search-base", Value: def.SearchBase, EnvVars: []string{"IMGSEARCH_SEARCH_BASE"}, Usage: "Search API base URL"},
		&cli.StringFlag{Name: "access-key", EnvVars: []string{"IMGSEARCH_ACCESS_KEY"}, Usage: "API access key, sent as Client-ID"},
		&cli.DurationFlag{Name: "timeout", Value: def.Timeout, EnvVars: []string{"IMGSEARCH_TIMEOUT"}, Usage: "Per-request timeout"},
		&cli.IntFlag{Name: "per-page", EnvVars: []string{"IMGSEARCH_PER_PAGE"}, Usage: fmt.Sprintf("Images per page (%d..%d), overrides saved properties", model.MinPerPage, model.MaxPerPage)},
		&cli.IntFlag{Name: "quality", EnvVars: []string{"IMGSEARCH_QUALITY"}, Usage: "Thumbnail quality (0..100), overrides saved properties"},
		&cli.IntFlag{Name: "icon-size", EnvVars: []string{"IMGSEARCH_ICON_SIZE"}, Usage: "Thumbnail size in pixels (80..500), overrides saved properties"},
		&cli.IntFlag{Name: "concurrency", EnvVars: []string{"IMGSEARCH_CONCURRENCY"}, Usage: "Max parallel thumbnail fetches (0 = one per result)"},
		&cli.StringFlag{Name: "config-dir", EnvVars: []string{"IMGSEARCH_CONFIG_DIR"}, Usage: "Directory for settings.yaml"},
		&cli.StringFlag{Name: "cache-dir", EnvVars: []string{"IMGSEARCH_CACHE_DIR"}, Usage: "Directory for logs, history and caches"},
		&cli.BoolFlag{Name: "no-thumb-cache", EnvVars: []string{"IMGSEARCH_NO_THUMB_CACHE"}, Usage: "Disable the on-disk thumbnail cache"},
		&cli.IntFlag{Name: "refs-max-mb", Value: def.ReferencesMaxMB, EnvVars: []string{"IMGSEARCH_REFS_MAX_MB"}, Usage: "Reference library size cap in MB"},
		&cli.DurationFlag{Name: "refs-ttl", Value: def.ReferencesTTL, EnvVars: []string{"IMGSEARCH_REFS_TTL"}, Usage: "Reference library entry lifetime"},
		&cli.IntFlag{Name: "history-size", Value: history.DefaultLimit, EnvVars: []string{"IMGSEARCH_HISTORY_SIZE"}, Usage: "Number of past queries to keep"},
		&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"IMGSEARCH_LOG_LEVEL"}, Usage: "debug, info, warn or error"},
		&cli.BoolFlag{Name: "debug-http", EnvVars: []string{"IMGSEARCH_DEBUG_HTTP"}, Usage: "Dump HTTP traffic into the log file"},
		&cli.DurationFlag{Name: "search-cache-ttl", Value: def.SearchCacheTTL, Hidden: true, Usage: "Lifetime of cached search pages"},
		&cli.DurationFlag{Name: "thumb-cache-ttl", Value: def.ThumbnailTTL, Hidden: true, Usage: "Lifetime of cached thumbnails"},
	}
}
