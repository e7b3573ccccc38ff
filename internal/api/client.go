package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/apibillme/cache"
	ghAPI "github.com/cli/go-gh/v2/pkg/api"

	"github.com/altinukshini/imgsearch-tui/internal/config"
)

const (
	userAgent = "imgsearch-tui"

	// maxImageBytes caps a single image download.
	maxImageBytes = 64 << 20

	pageCacheSize = 64
)

// anonymousHost never matches a request host, so go-gh attaches no
// credentials when no access key is configured.
const anonymousHost = "anonymous.invalid"

type Client struct {
	api     *http.Client
	images  *http.Client
	baseURL string
	timeout time.Duration
	logger  *slog.Logger

	pages   cache.Cache
	pagesOn bool

	mu   sync.Mutex
	rate RateLimit
}

type RateLimit struct {
	Remaining int
	Limit     int
	Reset     int64
}

type Option func(*Client)

// WithHTTPClient replaces both the API and the image transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.api = hc
		c.images = hc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithPageCache keeps successful search pages in memory for ttl.
func WithPageCache(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.pages = cache.New(pageCacheSize, cache.WithTTL(ttl))
			c.pagesOn = true
		}
	}
}

// HTTPOptions controls construction of the go-gh transports.
type HTTPOptions struct {
	// Log receives one line per request, or full dumps when Verbose is set.
	Log     io.Writer
	Verbose bool
}

func NewClient(cfg config.Config, httpOpts HTTPOptions, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(cfg.SearchBase, "/"),
		timeout: cfg.Timeout,
		logger:  slog.New(slog.DiscardHandler),
	}

	apiHTTP, err := newHTTPClient(cfg, httpOpts, 0)
	if err != nil {
		return nil, fmt.Errorf("create api http client: %w", err)
	}
	c.api = apiHTTP

	// Search, registration and full downloads must reach the server every
	// time; only thumbnails go through the response cache.
	var ttl time.Duration
	if cfg.ThumbnailCache {
		ttl = cfg.ThumbnailTTL
	}
	imageHTTP, err := newHTTPClient(cfg, httpOpts, ttl)
	if err != nil {
		return nil, fmt.Errorf("create image http client: %w", err)
	}
	c.images = imageHTTP

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newHTTPClient(cfg config.Config, o HTTPOptions, cacheTTL time.Duration) (*http.Client, error) {
	host, token := anonymousHost, "anonymous"
	headers := map[string]string{
		"Accept-Version": "v1",
		"User-Agent":     userAgent,
	}
	if cfg.AccessKey != "" {
		host, token = cfg.SearchHost(), cfg.AccessKey
		headers["Authorization"] = "Client-ID " + cfg.AccessKey
	}

	opts := ghAPI.ClientOptions{
		Host:               host,
		AuthToken:          token,
		Headers:            headers,
		SkipDefaultHeaders: true,
		Timeout:            cfg.Timeout,
		Transport:          http.DefaultTransport.(*http.Transport).Clone(),
		LogIgnoreEnv:       true,
		Log:                o.Log,
		LogVerboseHTTP:     o.Verbose,
	}
	if cacheTTL > 0 {
		opts.EnableCache = true
		opts.CacheTTL = cacheTTL
		if cfg.CacheDir != "" {
			opts.CacheDir = filepath.Join(cfg.CacheDir, "http")
		}
	}
	return ghAPI.NewHTTPClient(opts)
}

// RateLimit returns the most recent rate-limit headers seen on a search.
func (c *Client) RateLimit() RateLimit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *Client) recordRateLimit(resp *http.Response) {
	rl := ParseRateLimit(resp)
	if rl.Limit == 0 {
		return
	}
	c.mu.Lock()
	c.rate = rl
	c.mu.Unlock()
}

func (c *Client) get(ctx context.Context, hc *http.Client, rawURL string, params url.Values) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return hc.Do(req)
}

func ParseRateLimit(resp *http.Response) RateLimit {
	rl := RateLimit{}
	if resp == nil {
		return rl
	}
	rl.Remaining, _ = strconv.Atoi(resp.Header.Get("X-Ratelimit-Remaining"))
	rl.Limit, _ = strconv.Atoi(resp.Header.Get("X-Ratelimit-Limit"))
	rl.Reset, _ = strconv.ParseInt(resp.Header.Get("X-Ratelimit-Reset"), 10, 64)
	return rl
}
