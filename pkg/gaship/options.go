package gaship

import (
	"net/http"
	"time"

	"github.com/bft-labs/gaship/pkg/log"
	"github.com/bft-labs/gaship/pkg/measurement"
	"github.com/bft-labs/gaship/pkg/sender"
)

const (
	// DefaultBatchLimit is the maximum number of hits per batch request.
	DefaultBatchLimit = 20

	// DefaultHTTPTimeout applies to the HTTP client built when none is given.
	DefaultHTTPTimeout = 15 * time.Second

	// DefaultCloseTimeout bounds the final flush performed by Close.
	DefaultCloseTimeout = 30 * time.Second
)

// DropHandler receives the hits of a chunk whose request failed, after the
// flush that dropped them has released the tracker.
type DropHandler func(hits []measurement.Hit, err error)

// Metrics receives tracker instrumentation. See internal/metrics for the
// Prometheus implementation used by the CLI.
type Metrics interface {
	// HitEnqueued is called for every appended hit with its kind
	// (event, pageview, purchase or refund).
	HitEnqueued(kind string)

	// BatchSent is called once per chunk request. err is nil on success.
	BatchSent(hits int, took time.Duration, err error)

	// BufferDepth reports the buffer length after it changes.
	BufferDepth(n int)
}

// Option configures optional behavior of a Tracker.
type Option func(*options)

type options struct {
	batchLimit   int
	baseURI      string
	userAgent    string
	httpClient   sender.HTTPClient
	httpTimeout  time.Duration
	sender       sender.Sender
	logger       log.Logger
	metrics      Metrics
	onDrop       DropHandler
	closeTimeout time.Duration
}

func defaultOptions() options {
	return options{
		batchLimit:   DefaultBatchLimit,
		baseURI:      sender.DefaultBaseURI,
		httpTimeout:  DefaultHTTPTimeout,
		logger:       log.NewNoopLogger(),
		metrics:      noopMetrics{},
		closeTimeout: DefaultCloseTimeout,
	}
}

// httpSender builds the default transport from the HTTP options.
func (o options) httpSender() sender.Sender {
	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: o.httpTimeout}
	}
	return sender.NewHTTPSender(client, o.baseURI, o.userAgent, o.logger)
}

// WithBatchLimit sets the maximum number of hits per request.
func WithBatchLimit(n int) Option {
	return func(o *options) {
		o.batchLimit = n
	}
}

// WithBaseURI overrides the collection host. The batch path is appended.
func WithBaseURI(uri string) Option {
	return func(o *options) {
		o.baseURI = uri
	}
}

// WithUserAgent sets the User-Agent header of batch requests.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithHTTPClient sets the HTTP client used by the default sender.
// *http.Client satisfies sender.HTTPClient.
func WithHTTPClient(client sender.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithHTTPTimeout sets the timeout of the HTTP client built when
// WithHTTPClient is not used.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) {
		o.httpTimeout = d
	}
}

// WithSender replaces the HTTP transport entirely. The HTTP options are
// ignored when a sender is set.
func WithSender(s sender.Sender) Option {
	return func(o *options) {
		o.sender = s
	}
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the instrumentation sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithDropHandler registers a handler for hits lost to failed requests.
func WithDropHandler(h DropHandler) Option {
	return func(o *options) {
		o.onDrop = h
	}
}

// WithCloseTimeout bounds the final flush performed by Close.
func WithCloseTimeout(d time.Duration) Option {
	return func(o *options) {
		o.closeTimeout = d
	}
}

type noopMetrics struct{}

func (noopMetrics) HitEnqueued(string)                  {}
func (noopMetrics) BatchSent(int, time.Duration, error) {}
func (noopMetrics) BufferDepth(int)                     {}
