package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/altinukshini/imgsearch-tui/internal/cache"
)

type PruneFilter struct {
	Query      string
	Author     string
	Format     string
	OlderThan  time.Duration
	LargerThan int64 // bytes
}

func (f PruneFilter) Empty() bool {
	return f == PruneFilter{}
}

func FilterRefs(entries []cache.RefEntry, filter PruneFilter) []cache.RefEntry {
	var matched []cache.RefEntry
	now := time.Now()

	for _, e := range entries {
		if filter.Query != "" && !strings.EqualFold(e.Query, filter.Query) {
			continue
		}
		if filter.Author != "" && !strings.Contains(strings.ToLower(e.Author), strings.ToLower(filter.Author)) {
			continue
		}
		if filter.Format != "" && !strings.EqualFold(e.Format, strings.TrimPrefix(filter.Format, ".")) {
			continue
		}
		if filter.OlderThan > 0 && now.Sub(e.StoredAt) < filter.OlderThan {
			continue
		}
		if filter.LargerThan > 0 && e.Size <= filter.LargerThan {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

type Deleter interface {
	DeleteEntry(imageID string) error
}

type BulkDeleteResult struct {
	Completed int
	Failed    int
	Freed     int64
	Errors    []error
}

func BulkDeleteRefs(ctx context.Context, refs Deleter, entries []cache.RefEntry, onProgress func(completed, total int)) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{}
	total := len(entries)

	for i, e := range entries {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		err := refs.DeleteEntry(e.ImageID)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("reference %s: %w", e.ImageID, err))
		} else {
			result.Completed++
			result.Freed += e.Size
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	return result, nil
}
