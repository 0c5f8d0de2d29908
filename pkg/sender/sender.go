package sender

import (
	"context"
	"errors"
	"net/http"
)

// Sender transmits one encoded batch. hits is the number of lines in body.
// Implementations must not retry; the caller drops the batch on error.
type Sender interface {
	Send(ctx context.Context, body []byte, hits int) error
}

// HTTPClient abstracts HTTP request execution for testing and custom transports.
// The standard *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	// ErrTransport wraps failures to build or complete the request.
	ErrTransport = errors.New("sender: transport error")

	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("sender: unexpected status")
)
