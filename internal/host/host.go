// Package host is the boundary to whatever receives the chosen reference
// images.
package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/cli/go-gh/v2/pkg/browser"

	"github.com/altinukshini/imgsearch-tui/internal/cache"
	"github.com/altinukshini/imgsearch-tui/internal/imageinfo"
	"github.com/altinukshini/imgsearch-tui/internal/model"
)

// ReferralSource tags author links opened from this app.
const ReferralSource = "imgsearch_tui"

// Reference is a full-resolution image ready to hand over.
type Reference struct {
	Image model.ImageResult
	Bytes []byte
	Query string
}

type Host interface {
	// PasteReference hands the image over and returns where it ended up.
	PasteReference(ctx context.Context, ref Reference) (string, error)
	OpenURL(url string) error
}

type Browser interface {
	Browse(url string) error
}

// LibraryHost stores references in the on-disk library and puts the stored
// path on the clipboard.
type LibraryHost struct {
	refs    *cache.ReferenceCache
	browser Browser
	clip    func(string) error
	logger  *slog.Logger
}

type Option func(*LibraryHost)

func WithBrowser(b Browser) Option {
	return func(h *LibraryHost) { h.browser = b }
}

func WithClipboard(write func(string) error) Option {
	return func(h *LibraryHost) { h.clip = write }
}

func NewLibraryHost(refs *cache.ReferenceCache, logger *slog.Logger, opts ...Option) *LibraryHost {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &LibraryHost{
		refs:    refs,
		browser: browser.New("", io.Discard, io.Discard),
		clip:    clipboard.WriteAll,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *LibraryHost) PasteReference(ctx context.Context, ref Reference) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := imageinfo.Detect(ref.Bytes)
	if err != nil {
		return "", fmt.Errorf("paste reference %s: %w", ref.Image.ID, err)
	}

	width, height := info.Width, info.Height
	if width == 0 {
		width, height = ref.Image.Width, ref.Image.Height
	}
	path, err := h.refs.Store(cache.RefMeta{
		ImageID:     ref.Image.ID,
		Description: ref.Image.Description,
		Author:      ref.Image.Author,
		AuthorURL:   ref.Image.ReferralURL(ReferralSource),
		PhotoURL:    ref.Image.HTMLURL,
		SourceURL:   ref.Image.FullURL,
		Query:       ref.Query,
		Format:      info.Format,
		Width:       width,
		Height:      height,
	}, ref.Bytes)
	if err != nil {
		return "", fmt.Errorf("paste reference %s: %w", ref.Image.ID, err)
	}

	if err := h.refs.Evict(ref.Image.ID); err != nil {
		h.logger.Warn("reference eviction failed", "error", err)
	}
	if err := h.clip(path); err != nil {
		// No clipboard on headless systems; the path is still returned.
		h.logger.Warn("clipboard unavailable", "error", err)
	}
	h.logger.Info("reference stored", "image", ref.Image.ID, "path", path, "format", info.Format)
	return path, nil
}

func (h *LibraryHost) OpenURL(url string) error {
	if url == "" {
		return fmt.Errorf("no link to open")
	}
	if err := h.browser.Browse(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
