package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/altinukshini/imgsearch-tui/internal/model"
)

const (
	AppName = "imgsearch-tui"

	DefaultSearchBase = "https://joshapiproxy.fly.dev/api/unsplash"
	DefaultTimeout    = 10 * time.Second

	MinIconSize     = 80
	MaxIconSize     = 500
	DefaultIconSize = 200

	MinQuality     = 0
	MaxQuality     = 100
	DefaultQuality = 80

	// PageOffset is how many page buttons are shown on each side of the
	// current page.
	PageOffset = 2
)

type Config struct {
	SearchBase string
	AccessKey  string
	Timeout    time.Duration

	PerPage  int
	Quality  int
	IconSize int

	// MaxConcurrent bounds in-flight thumbnail fetches per search; 0 means
	// one goroutine per result.
	MaxConcurrent int

	ConfigDir      string
	CacheDir       string
	ThumbnailCache bool
	ThumbnailTTL   time.Duration
	SearchCacheTTL time.Duration

	ReferencesDir   string
	ReferencesMaxMB int
	ReferencesTTL   time.Duration
}

func Default() Config {
	return Config{
		SearchBase:      DefaultSearchBase,
		Timeout:         DefaultTimeout,
		PerPage:         model.DefaultPerPage,
		Quality:         DefaultQuality,
		IconSize:        DefaultIconSize,
		ThumbnailCache:  true,
		ThumbnailTTL:    24 * time.Hour,
		SearchCacheTTL:  10 * time.Minute,
		ReferencesMaxMB: 500,
		ReferencesTTL:   30 * 24 * time.Hour,
	}
}

func (c Config) Validate() error {
	u, err := url.Parse(c.SearchBase)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("search base %q is not an absolute URL", c.SearchBase)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.PerPage < model.MinPerPage || c.PerPage > model.MaxPerPage {
		return fmt.Errorf("images per page must be in [%d, %d]", model.MinPerPage, model.MaxPerPage)
	}
	if c.Quality < MinQuality || c.Quality > MaxQuality {
		return fmt.Errorf("quality must be in [%d, %d]", MinQuality, MaxQuality)
	}
	if c.IconSize < MinIconSize || c.IconSize > MaxIconSize {
		return fmt.Errorf("icon size must be in [%d, %d]", MinIconSize, MaxIconSize)
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("max concurrent fetches cannot be negative")
	}
	if c.ReferencesMaxMB < 1 {
		return fmt.Errorf("reference library size cap must be at least 1 MB")
	}
	if c.ReferencesTTL <= 0 {
		return fmt.Errorf("reference lifetime must be positive")
	}
	return nil
}

// ResolveDirs fills empty directory fields from the user's config and cache
// directories.
func (c *Config) ResolveDirs() error {
	if c.ConfigDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		c.ConfigDir = filepath.Join(base, AppName)
	}
	if c.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("resolve cache dir: %w", err)
		}
		c.CacheDir = filepath.Join(base, AppName)
	}
	if c.ReferencesDir == "" {
		c.ReferencesDir = filepath.Join(c.CacheDir, "references")
	}
	return nil
}

func (c Config) SettingsPath() string { return filepath.Join(c.ConfigDir, "settings.yaml") }
func (c Config) LogPath() string      { return filepath.Join(c.CacheDir, "imgsearch.log") }
func (c Config) HistoryPath() string  { return filepath.Join(c.CacheDir, "history.db") }

// SearchHost is the hostname of SearchBase, used to scope credentials.
func (c Config) SearchHost() string {
	u, err := url.Parse(c.SearchBase)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ThumbnailParams is the image-processing parameter set shared by every
// thumbnail fetch of a search.
type ThumbnailParams struct {
	Height  int
	Width   int
	Quality int
	Fit     string
	Crop    string
}

func (c Config) ThumbnailParams() ThumbnailParams {
	return ThumbnailParams{
		Height:  c.IconSize,
		Width:   c.IconSize,
		Quality: c.Quality,
		Fit:     "crop",
		Crop:    "faces,focalpoint",
	}
}

func (p ThumbnailParams) Values() url.Values {
	v := url.Values{}
	if p.Height > 0 {
		v.Set("h", strconv.Itoa(p.Height))
	}
	if p.Width > 0 {
		v.Set("w", strconv.Itoa(p.Width))
	}
	v.Set("q", strconv.Itoa(p.Quality))
	if p.Fit != "" {
		v.Set("fit", p.Fit)
	}
	if p.Crop != "" {
		v.Set("crop", p.Crop)
	}
	return v
}
