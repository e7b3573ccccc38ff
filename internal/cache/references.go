package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrTooLarge is returned for an image that alone exceeds the size cap.
var ErrTooLarge = errors.New("image exceeds the reference library size cap")

type ReferenceCache struct {
	dir     string
	maxSize int64         // max total library size in bytes
	ttl     time.Duration // entry TTL
}

// RefMeta stores attribution and shape of a stored reference image.
type RefMeta struct {
	ImageID     string    `json:"image_id"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	AuthorURL   string    `json:"author_url,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	SourceURL   string    `json:"source_url"`
	Query       string    `json:"query,omitempty"`
	Format      string    `json:"format"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	StoredAt    time.Time `json:"stored_at"`
}

// RefEntry represents a single stored reference with computed fields.
type RefEntry struct {
	RefMeta
	LastAccessed time.Time
	Size         int64
	Path         string
	ImagePath    string
}

const (
	entryPrefix = "ref-"
	metaFile    = "meta.json"
	imageStem   = "image"
)

func NewReferenceCache(dir string, maxSizeMB int, ttl time.Duration) (*ReferenceCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reference dir: %w", err)
	}
	return &ReferenceCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
	}, nil
}

func (rc *ReferenceCache) Dir() string { return rc.dir }

func (rc *ReferenceCache) entryDir(imageID string) string {
	return filepath.Join(rc.dir, entryPrefix+safeID(imageID))
}

// safeID keeps IDs usable as a single path element.
func safeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func (rc *ReferenceCache) Has(imageID string) bool {
	info, err := os.Stat(rc.entryDir(imageID))
	if err != nil {
		return false
	}
	return info.IsDir() && time.Since(info.ModTime()) < rc.ttl
}

// Store writes the image bytes and their metadata, replacing any previous
// entry for the same image. Returns the image file path.
func (rc *ReferenceCache) Store(meta RefMeta, data []byte) (string, error) {
	if meta.ImageID == "" {
		return "", fmt.Errorf("store reference: image id is required")
	}
	if int64(len(data)) > rc.maxSize {
		return "", fmt.Errorf("store reference %s (%d bytes): %w", meta.ImageID, len(data), ErrTooLarge)
	}
	if meta.Format == "" {
		meta.Format = "jpg"
	}
	if meta.StoredAt.IsZero() {
		meta.StoredAt = time.Now()
	}

	dir := rc.entryDir(meta.ImageID)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("replace reference: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reference entry: %w", err)
	}

	path := filepath.Join(dir, imageStem+"."+meta.Format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write reference image: %w", err)
	}
	if err := rc.writeMeta(dir, meta); err != nil {
		return "", err
	}
	return path, nil
}

// ImagePath returns the stored image file for imageID.
func (rc *ReferenceCache) ImagePath(imageID string) (string, error) {
	dir := rc.entryDir(imageID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read reference entry: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), imageStem+".") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("reference %s has no image", imageID)
}

// Evict removes expired entries, then the oldest ones while the library is
// over its size cap. Entries for the keep IDs are never removed.
func (rc *ReferenceCache) Evict(keep ...string) error {
	kept := make(map[string]bool, len(keep))
	for _, id := range keep {
		kept[rc.entryDir(id)] = true
	}

	type entry struct {
		path    string
		modTime time.Time
		size    int64
	}

	dirs, err := os.ReadDir(rc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var entries []entry
	var totalSize int64
	for _, d := range dirs {
		if !d.IsDir() || !strings.HasPrefix(d.Name(), entryPrefix) {
			continue
		}
		path := filepath.Join(rc.dir, d.Name())
		e := entry{path: path, modTime: dirLastAccessed(path), size: dirSize(path)}
		totalSize += e.size
		if kept[path] {
			continue
		}
		entries = append(entries, e)
	}

	now := time.Now()
	remaining := entries[:0]
	for _, e := range entries {
		if now.Sub(e.modTime) > rc.ttl {
			os.RemoveAll(e.path)
			totalSize -= e.size
		} else {
			remaining = append(remaining, e)
		}
	}
	entries = remaining

	if totalSize > rc.maxSize {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].modTime.Before(entries[j].modTime)
		})
		for _, e := range entries {
			if totalSize <= rc.maxSize {
				break
			}
			os.RemoveAll(e.path)
			totalSize -= e.size
		}
	}
	return nil
}

func (rc *ReferenceCache) writeMeta(dir string, meta RefMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, metaFile), data, 0o644)
}

// ReadMeta reads meta.json from a reference entry.
func (rc *ReferenceCache) ReadMeta(imageID string) (*RefMeta, error) {
	data, err := os.ReadFile(filepath.Join(rc.entryDir(imageID), metaFile))
	if err != nil {
		return nil, err
	}
	var meta RefMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListEntries scans the library and returns all entries, newest first.
func (rc *ReferenceCache) ListEntries() ([]RefEntry, error) {
	dirs, err := os.ReadDir(rc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var result []RefEntry
	for _, d := range dirs {
		if !d.IsDir() || !strings.HasPrefix(d.Name(), entryPrefix) {
			continue
		}
		id := strings.TrimPrefix(d.Name(), entryPrefix)
		dirPath := filepath.Join(rc.dir, d.Name())

		entry := RefEntry{Path: dirPath}
		if meta, err := rc.ReadMeta(id); err == nil {
			entry.RefMeta = *meta
		} else {
			entry.ImageID = id
		}
		if p, err := rc.ImagePath(id); err == nil {
			entry.ImagePath = p
		}
		entry.Size = dirSize(dirPath)
		entry.LastAccessed = dirLastAccessed(dirPath)
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StoredAt.After(result[j].StoredAt)
	})
	return result, nil
}

// DeleteEntry removes a single reference.
func (rc *ReferenceCache) DeleteEntry(imageID string) error {
	return os.RemoveAll(rc.entryDir(imageID))
}

// DeleteAll removes every reference.
func (rc *ReferenceCache) DeleteAll() error {
	dirs, err := os.ReadDir(rc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, d := range dirs {
		if d.IsDir() && strings.HasPrefix(d.Name(), entryPrefix) {
			os.RemoveAll(filepath.Join(rc.dir, d.Name()))
		}
	}
	return nil
}

// TotalSize returns total library size in bytes.
func (rc *ReferenceCache) TotalSize() (int64, error) {
	var total int64
	err := filepath.Walk(rc.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	return total, nil
}

func dirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func dirLastAccessed(path string) time.Time {
	var latest time.Time
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	return latest
}
