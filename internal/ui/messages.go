package ui

import (
	"github.com/altinukshini/imgsearch-tui/internal/cache"
	"github.com/altinukshini/imgsearch-tui/internal/ops"
	"github.com/altinukshini/imgsearch-tui/internal/worker"
)

// Worker stream messages
type EventMsg struct {
	Event  worker.Event
	Stream <-chan worker.Event
}

// StreamClosedMsg arrives once the invocation's stream is drained.
type StreamClosedMsg struct {
	ID uint64
}

type HistoryLoadedMsg struct {
	Queries []string
	Err     error
}

// Reference library messages
type RefsLoadedMsg struct {
	Entries   []cache.RefEntry
	TotalSize int64
	Err       error
}

type RefPastedMsg struct {
	ImageID string
	Path    string
	Err     error
}

type RefsDeletedMsg struct {
	Result *ops.BulkDeleteResult
	Err    error
}

// Action result messages
type ActionResultMsg struct {
	Action  string
	Success bool
	Err     error
}

type StatusMsg struct {
	Text string
}
