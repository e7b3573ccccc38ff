package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed network call.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindRateLimited
	KindServerError
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport failure"
	case KindRateLimited:
		return "rate limited"
	case KindServerError:
		return "server error"
	case KindStatus:
		return "unexpected status"
	default:
		return "unknown"
	}
}

var (
	ErrRateLimited = errors.New("too many requests")
	ErrServerError = errors.New("server error")
	ErrTransport   = errors.New("transport failure")
)

// Error is returned by every Client call that did not produce a usable
// response.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Kind, e.Status)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrServerError:
		return e.Kind == KindServerError
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

func statusError(op string, status int) *Error {
	switch {
	case status == 429:
		return &Error{Kind: KindRateLimited, Op: op, Status: status}
	case status >= 500:
		return &Error{Kind: KindServerError, Op: op, Status: status}
	default:
		return &Error{Kind: KindStatus, Op: op, Status: status}
	}
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// KindOf reports the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}
