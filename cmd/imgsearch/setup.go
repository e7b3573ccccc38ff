package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/altinukshini/imgsearch-tui/internal/api"
	"github.com/altinukshini/imgsearch-tui/internal/cache"
	"github.com/altinukshini/imgsearch-tui/internal/config"
	"github.com/altinukshini/imgsearch-tui/internal/history"
	"github.com/altinukshini/imgsearch-tui/internal/logging"
	"github.com/altinukshini/imgsearch-tui/internal/settings"
)

// env holds what every command needs: the resolved config, the log file and
// the persisted properties.
type env struct {
	cfg      config.Config
	logger   *slog.Logger
	logFile  *os.File
	settings *settings.Store
	debug    bool
}

// loadEnv builds the config from defaults, saved properties and flags, in
// that order, and opens the log file.
func loadEnv(c *cli.Context) (*env, error) {
	cfg := config.Default()
	cfg.SearchBase = c.String("search-base")
	cfg.AccessKey = c.String("access-key")
	cfg.Timeout = c.Duration("timeout")
	cfg.MaxConcurrent = c.Int("concurrency")
	cfg.ConfigDir = c.String("config-dir")
	cfg.CacheDir = c.String("cache-dir")
	cfg.ThumbnailCache = !c.Bool("no-thumb-cache")
	cfg.ThumbnailTTL = c.Duration("thumb-cache-ttl")
	cfg.SearchCacheTTL = c.Duration("search-cache-ttl")
	cfg.ReferencesMaxMB = c.Int("refs-max-mb")
	cfg.ReferencesTTL = c.Duration("refs-ttl")
	if err := cfg.ResolveDirs(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, err
	}
	logger, logFile, err := logging.OpenFile(cfg.LogPath(), level)
	if err != nil {
		return nil, err
	}

	store, err := settings.Open(cfg.SettingsPath())
	if err != nil {
		logFile.Close()
		return nil, err
	}
	store.Apply(&cfg)

	if c.IsSet("per-page") {
		cfg.PerPage = c.Int("per-page")
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("icon-size") {
		cfg.IconSize = c.Int("icon-size")
	}
	if err := cfg.Validate(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting", "version", version, "search_base", cfg.SearchBase, "cache_dir", cfg.CacheDir)
	return &env{
		cfg:      cfg,
		logger:   logger,
		logFile:  logFile,
		settings: store,
		debug:    c.Bool("debug-http"),
	}, nil
}

func (e *env) Close() {
	e.logFile.Close()
}

func (e *env) client() (*api.Client, error) {
	var httpLog io.Writer
	if e.debug {
		httpLog = e.logFile
	}
	return api.NewClient(e.cfg,
		api.HTTPOptions{Log: httpLog, Verbose: e.debug},
		api.WithLogger(e.logger),
		api.WithPageCache(e.cfg.SearchCacheTTL),
	)
}

func (e *env) references() (*cache.ReferenceCache, error) {
	return cache.NewReferenceCache(e.cfg.ReferencesDir, e.cfg.ReferencesMaxMB, e.cfg.ReferencesTTL)
}

func (e *env) history(c *cli.Context) (*history.History, error) {
	return history.Open(e.cfg.HistoryPath(), c.Int("history-size"))
}
