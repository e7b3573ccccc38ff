package host

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/imgsearch-tui/internal/cache"
	"github.com/altinukshini/imgsearch-tui/internal/model"
)

type fakeBrowser struct {
	opened []string
	err    error
}

func (b *fakeBrowser) Browse(url string) error {
	b.opened = append(b.opened, url)
	return b.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 6))))
	return buf.Bytes()
}

func newHost(t *testing.T, opts ...Option) (*LibraryHost, *cache.ReferenceCache) {
	t.Helper()
	refs, err := cache.NewReferenceCache(filepath.Join(t.TempDir(), "refs"), 10, time.Hour)
	require.NoError(t, err)
	return NewLibraryHost(refs, nil, opts...), refs
}

var photo = model.ImageResult{
	ID:        "abc",
	FullURL:   "https://images.example/full/abc",
	Author:    "Dorothea",
	AuthorURL: "https://unsplash.com/@dorothea",
	HTMLURL:   "https://unsplash.com/photos/abc",
}

func TestPasteReferenceStoresAndCopies(t *testing.T) {
	var copied string
	h, refs := newHost(t, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	path, err := h.PasteReference(context.Background(), Reference{Image: photo, Bytes: pngBytes(t), Query: "portrait"})
	require.NoError(t, err)
	assert.Equal(t, path, copied)
	assert.Equal(t, ".png", filepath.Ext(path))
	_, err = os.Stat(path)
	require.NoError(t, err)

	meta, err := refs.ReadMeta("abc")
	require.NoError(t, err)
	assert.Equal(t, 8, meta.Width)
	assert.Equal(t, 6, meta.Height)
	assert.Equal(t, "portrait", meta.Query)
	assert.Equal(t, "https://unsplash.com/@dorothea?utm_medium=referral&utm_source=imgsearch_tui", meta.AuthorURL)
}

func TestPasteReferenceOverLibraryCapFails(t *testing.T) {
	refs, err := cache.NewReferenceCache(filepath.Join(t.TempDir(), "refs"), 1, time.Hour)
	require.NoError(t, err)
	copied := false
	h := NewLibraryHost(refs, nil, WithClipboard(func(string) error {
		copied = true
		return nil
	}))

	data := append(pngBytes(t), make([]byte, 2*1024*1024)...)
	path, err := h.PasteReference(context.Background(), Reference{Image: photo, Bytes: data})
	require.ErrorIs(t, err, cache.ErrTooLarge)
	assert.Empty(t, path)
	assert.False(t, refs.Has("abc"))
	assert.False(t, copied)
}

func TestPasteReferenceSurvivesEvictionOfOlderEntries(t *testing.T) {
	refs, err := cache.NewReferenceCache(filepath.Join(t.TempDir(), "refs"), 1, time.Hour)
	require.NoError(t, err)
	_, err = refs.Store(cache.RefMeta{ImageID: "earlier"}, make([]byte, 700*1024))
	require.NoError(t, err)
	h := NewLibraryHost(refs, nil, WithClipboard(func(string) error { return nil }))

	data := append(pngBytes(t), make([]byte, 700*1024)...)
	path, err := h.PasteReference(context.Background(), Reference{Image: photo, Bytes: data})
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.True(t, refs.Has("abc"))
	assert.False(t, refs.Has("earlier"))
}

func TestPasteReferenceToleratesMissingClipboard(t *testing.T) {
	h, _ := newHost(t, WithClipboard(func(string) error { return errors.New("no display") }))
	path, err := h.PasteReference(context.Background(), Reference{Image: photo, Bytes: pngBytes(t)})
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}

func TestPasteReferenceRejectsNonImage(t *testing.T) {
	h, refs := newHost(t, WithClipboard(func(string) error { return nil }))
	_, err := h.PasteReference(context.Background(), Reference{Image: photo, Bytes: []byte("<html>")})
	require.Error(t, err)
	assert.False(t, refs.Has("abc"))
}

func TestPasteReferenceHonoursCancellation(t *testing.T) {
	h, _ := newHost(t, WithClipboard(func(string) error { return nil }))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.PasteReference(ctx, Reference{Image: photo, Bytes: pngBytes(t)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenURL(t *testing.T) {
	b := &fakeBrowser{}
	h, _ := newHost(t, WithBrowser(b))

	require.NoError(t, h.OpenURL(photo.HTMLURL))
	assert.Equal(t, []string{photo.HTMLURL}, b.opened)
	assert.Error(t, h.OpenURL(""))

	b.err = errors.New("no browser")
	assert.Error(t, h.OpenURL(photo.HTMLURL))
}
