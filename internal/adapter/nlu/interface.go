// Package nlu provides an abstraction for the language-understanding backend.
package nlu

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// Backend defines the interface for language-understanding completions. The
// backend receives a fixed system instruction plus the user turn and returns
// the raw assistant text, which the caller validates against the expected
// intent JSON shape.
type Backend interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Ensure Client implements Backend interface.
var _ Backend = (*Client)(nil)

// IsUnavailable reports whether err means the backend could not be reached at
// all (timeout or transport failure), as opposed to the backend answering
// with a hard error. Unreachable backends fall to the heuristic tier;
// answered errors fall to the error tier.
func IsUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
