package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/altinukshini/imgsearch-tui/internal/model"
)

// Event is anything a worker reports to the interactive surface. Every event
// carries the ID of the invocation that produced it so stale ones can be
// told apart.
type Event interface {
	InvocationID() uint64
}

// Queried fires once when the search step succeeded.
type Queried struct {
	ID         uint64
	Page       int
	TotalPages int
}

// ImageLoaded delivers one thumbnail.
type ImageLoaded struct {
	ID               uint64
	Bytes            []byte
	FullURL          string
	DownloadLocation string
	Image            model.ImageResult
}

// FullImageLoaded delivers the full-resolution bytes of a download.
type FullImageLoaded struct {
	ID      uint64
	Bytes   []byte
	Session model.DownloadSession
}

type ErrorClass int

const (
	ClassServerError ErrorClass = iota + 1
	ClassRateLimited
	ClassPartialFetch
	ClassRegistration
)

func (c ErrorClass) String() string {
	switch c {
	case ClassServerError:
		return "server error"
	case ClassRateLimited:
		return "rate limited"
	case ClassPartialFetch:
		return "partial fetch failure"
	case ClassRegistration:
		return "registration failure"
	default:
		return "unknown"
	}
}

// Failed is a recoverable error to show inline. It never ends the flow by
// itself.
type Failed struct {
	ID      uint64
	Class   ErrorClass
	Message string
	Err     error
}

// Finished is emitted exactly once per invocation, last.
type Finished struct {
	ID uint64
}

func (e Queried) InvocationID() uint64         { return e.ID }
func (e ImageLoaded) InvocationID() uint64     { return e.ID }
func (e FullImageLoaded) InvocationID() uint64 { return e.ID }
func (e Failed) InvocationID() uint64          { return e.ID }
func (e Finished) InvocationID() uint64        { return e.ID }

// PartialFetchFailure reports how many thumbnails of an otherwise successful
// search could not be loaded.
type PartialFetchFailure struct {
	Failed int
	Total  int
}

func (e *PartialFetchFailure) Error() string {
	return fmt.Sprintf("%d of %d thumbnails failed", e.Failed, e.Total)
}

var invocations atomic.Uint64

func nextInvocation() uint64 {
	return invocations.Add(1)
}

// start runs fn on its own goroutine and streams what it emits. The channel
// is closed after fn returns. Once ctx is done, undelivered events are
// dropped so an abandoned invocation cannot block forever.
func start(ctx context.Context, buf int, fn func(context.Context, func(Event))) <-chan Event {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan Event, buf)
	go func() {
		defer close(ch)
		fn(ctx, func(ev Event) {
			select {
			case ch <- ev:
			case <-ctx.Done():
			}
		})
	}()
	return ch
}
