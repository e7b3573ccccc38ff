package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/imgsearch-tui/internal/config"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope", "settings.yaml"))
	require.NoError(t, err)
	_, ok := s.Get(KeyQuality)
	assert.False(t, ok)
	assert.Equal(t, 42, s.Int(KeyQuality, 42))
}

func TestSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.yaml")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetInt(KeyQuality, 55))
	require.NoError(t, s.Set(KeyIconSize, "300"))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 55, reopened.Int(KeyQuality, 0))
	assert.Equal(t, 300, reopened.Int(KeyIconSize, 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), section+":")
}

func TestApplyClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("imgsearch:\n  IconSize: \"9000\"\n  ImagesPerPage: \"2\"\n  Quality: junk\n"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	cfg := config.Default()
	s.Apply(&cfg)
	assert.Equal(t, config.MaxIconSize, cfg.IconSize)
	assert.Equal(t, 5, cfg.PerPage)
	assert.Equal(t, config.DefaultQuality, cfg.Quality)
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTripsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := Open(path)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.IconSize = 120
	cfg.PerPage = 12
	cfg.Quality = 60
	require.NoError(t, s.Save(cfg))

	reopened, err := Open(path)
	require.NoError(t, err)
	got := config.Default()
	reopened.Apply(&got)
	assert.Equal(t, 120, got.IconSize)
	assert.Equal(t, 12, got.PerPage)
	assert.Equal(t, 60, got.Quality)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("imgsearch: [unterminated"), 0o644))
	_, err := Open(path)
	assert.Error(t, err)
}
