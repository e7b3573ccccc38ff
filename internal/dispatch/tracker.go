// Package dispatch tracks the lifecycle of the one invocation the
// interactive surface is currently waiting on.
package dispatch

import (
	"errors"
	"sync"

	"github.com/altinukshini/imgsearch-tui/internal/worker"
)

var ErrBusy = errors.New("an invocation is already running")

type State int

const (
	Idle State = iota
	Querying
	ResultsStreaming
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Querying:
		return "querying"
	case ResultsStreaming:
		return "streaming"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Tracker follows Idle -> Querying -> ResultsStreaming -> Finished for the
// current invocation. Events belonging to any other invocation are stale.
type Tracker struct {
	mu      sync.Mutex
	state   State
	current uint64
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker) Current() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Busy reports whether inputs that start a new invocation must stay
// disabled.
func (t *Tracker) Busy() bool {
	s := t.State()
	return s == Querying || s == ResultsStreaming
}

// Begin makes id the current invocation.
func (t *Tracker) Begin(id uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Querying || t.state == ResultsStreaming {
		return ErrBusy
	}
	t.current = id
	t.state = Querying
	return nil
}

// Observe advances the state for ev and reports whether ev belongs to the
// current invocation and should be applied.
func (t *Tracker) Observe(ev worker.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ev.InvocationID() != t.current || t.state == Idle || t.state == Finished {
		return false
	}
	switch ev.(type) {
	case worker.Queried, worker.ImageLoaded, worker.FullImageLoaded:
		t.state = ResultsStreaming
	case worker.Finished:
		t.state = Finished
	}
	return true
}

// Finish completes invocation id. Only the first call for the current
// invocation returns true.
func (t *Tracker) Finish(id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id != t.current || t.state == Idle || t.state == Finished {
		return false
	}
	t.state = Finished
	return true
}
