// Package settings persists the user-adjustable properties between runs.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/altinukshini/imgsearch-tui/internal/config"
	"github.com/altinukshini/imgsearch-tui/internal/model"
)

const (
	KeyIconSize      = "IconSize"
	KeyImagesPerPage = "ImagesPerPage"
	KeyQuality       = "Quality"
)

const section = "imgsearch"

type document struct {
	Values map[string]string `yaml:"imgsearch"`
}

// Store is a string key/value store backed by a YAML file. Every Set is
// written through.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	for k, v := range doc.Values {
		s.values[k] = v
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Int returns the value for key, or def when it is unset or not a number.
func (s *Store) Int(key string, def int) int {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

func (s *Store) SetInt(key string, value int) error {
	return s.Set(key, strconv.Itoa(value))
}

func (s *Store) save() error {
	data, err := yaml.Marshal(document{Values: s.values})
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Apply overlays persisted properties onto cfg. Out-of-range values are
// clamped.
func (s *Store) Apply(cfg *config.Config) {
	cfg.IconSize = clamp(s.Int(KeyIconSize, cfg.IconSize), config.MinIconSize, config.MaxIconSize)
	cfg.PerPage = clamp(s.Int(KeyImagesPerPage, cfg.PerPage), model.MinPerPage, model.MaxPerPage)
	cfg.Quality = clamp(s.Int(KeyQuality, cfg.Quality), config.MinQuality, config.MaxQuality)
}

// Save persists the properties held in cfg.
func (s *Store) Save(cfg config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[KeyIconSize] = strconv.Itoa(cfg.IconSize)
	s.values[KeyImagesPerPage] = strconv.Itoa(cfg.PerPage)
	s.values[KeyQuality] = strconv.Itoa(cfg.Quality)
	return s.save()
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
