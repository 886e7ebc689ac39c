package figma

import (
	"context"
	"errors"
	"fmt"
)

// SkipReason classifies why a file had to be skipped during a remote scan.
// Handling is uniform (skip and continue) but the reason must survive into
// logs and the scan summary.
type SkipReason string

const (
	ReasonNotFound    SkipReason = "not_found"
	ReasonForbidden   SkipReason = "forbidden"
	ReasonRateLimited SkipReason = "rate_limited"
	ReasonMalformed   SkipReason = "malformed"
	ReasonTimeout     SkipReason = "timeout"
	ReasonUnavailable SkipReason = "unavailable"
)

// NotFoundError indicates the requested file or project does not exist.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("figma: %s not found", e.Key)
}

// ForbiddenError indicates the token lacks access to the requested resource.
type ForbiddenError struct {
	Key string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("figma: access to %s forbidden", e.Key)
}

// RateLimitedError indicates the upstream API rejected the request with 429.
type RateLimitedError struct {
	Key string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("figma: rate limited fetching %s", e.Key)
}

// MalformedError indicates the response body could not be used: empty,
// oversized, invalid JSON, or missing the document tree.
type MalformedError struct {
	Key   string
	Cause error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("figma: malformed response for %s: %v", e.Key, e.Cause)
}

func (e *MalformedError) Unwrap() error { return e.Cause }

// UnavailableError indicates a transport failure or an unexpected status.
type UnavailableError struct {
	Key   string
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("figma: %s unavailable: %v", e.Key, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// ClassifySkip maps a per-file error onto its skip reason.
func ClassifySkip(err error) SkipReason {
	var nf *NotFoundError
	var fb *ForbiddenError
	var rl *RateLimitedError
	var mf *MalformedError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &nf):
		return ReasonNotFound
	case errors.As(err, &fb):
		return ReasonForbidden
	case errors.As(err, &rl):
		return ReasonRateLimited
	case errors.As(err, &mf):
		return ReasonMalformed
	default:
		return ReasonUnavailable
	}
}
