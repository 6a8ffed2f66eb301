package discogs

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Kind classifies a catalog failure so callers can decide between retrying,
// backing off and reporting.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindUnavailable     Kind = "upstream_unavailable"
	KindRateLimited     Kind = "upstream_rate_limited"
	KindUpstream        Kind = "upstream_error"
	KindNotFound        Kind = "not_found"
	KindParse           Kind = "parse_error"
)

// Sentinels usable with errors.Is against any *Error of the matching kind.
var (
	ErrInvalidArgument = errors.New("discogs: invalid argument")
	ErrUnavailable     = errors.New("discogs: upstream unavailable")
	ErrRateLimited     = errors.New("discogs: upstream rate limited")
	ErrUpstream        = errors.New("discogs: upstream error")
	ErrNotFound        = errors.New("discogs: not found")
	ErrParse           = errors.New("discogs: malformed payload")
)

// Error is the typed failure returned by every client and builder operation.
type Error struct {
	Kind       Kind
	Op         string
	Status     int
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := "discogs: " + e.Op
	if e.Status != 0 {
		msg += " (status " + strconv.Itoa(e.Status) + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

func sentinelFor(k Kind) error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindUnavailable:
		return ErrUnavailable
	case KindRateLimited:
		return ErrRateLimited
	case KindUpstream:
		return ErrUpstream
	case KindNotFound:
		return ErrNotFound
	case KindParse:
		return ErrParse
	}
	return nil
}

// KindOf reports the kind carried by err, or "" when err is not a catalog error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Retryable reports whether a caller may retry err after backing off.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindUnavailable, KindRateLimited:
		return true
	}
	return false
}

func invalidArgument(op, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

func parseError(op string, err error) *Error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}
