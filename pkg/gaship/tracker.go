package gaship

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/gaship/internal/buffer"
	"github.com/bft-labs/gaship/pkg/log"
	"github.com/bft-labs/gaship/pkg/measurement"
	"github.com/bft-labs/gaship/pkg/sender"
)

// Tracker buffers hits for one analytics property and flushes them in
// batches. Use New to create one.
type Tracker struct {
	property     measurement.Property
	batchLimit   int
	sender       sender.Sender
	logger       log.Logger
	metrics      Metrics
	onDrop       DropHandler
	closeTimeout time.Duration

	mu     sync.Mutex
	buf    *buffer.Buffer
	closed bool
}

// droppedChunk is handed to the DropHandler once the lock is released.
type droppedChunk struct {
	hits []measurement.Hit
	err  error
}

// New creates a Tracker for the given tracking id.
func New(trackingID string, opts ...Option) (*Tracker, error) {
	if trackingID == "" {
		return nil, ErrMissingTrackingID
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.batchLimit < 1 {
		return nil, ErrInvalidBatchLimit
	}

	s := o.sender
	if s == nil {
		s = o.httpSender()
	}

	t := &Tracker{
		property:     measurement.Property{TrackingID: trackingID},
		batchLimit:   o.batchLimit,
		sender:       s,
		logger:       o.logger,
		metrics:      o.metrics,
		onDrop:       o.onDrop,
		closeTimeout: o.closeTimeout,
		buf:          buffer.New(),
	}

	t.logger.Debug("tracker created",
		log.String("tid", trackingID),
		log.Int("batch_limit", t.batchLimit))
	return t, nil
}

// TrackingID returns the property the tracker reports to.
func (t *Tracker) TrackingID() string {
	return t.property.TrackingID
}

// BatchLimit returns the maximum number of hits per request.
func (t *Tracker) BatchLimit() int {
	return t.batchLimit
}

// Event buffers an event hit.
func (t *Tracker) Event(clientID, category, action string, opts ...measurement.EventOption) {
	t.Enqueue(measurement.NewEvent(t.property, clientID, category, action, opts...))
}

// Pageview buffers a pageview hit.
func (t *Tracker) Pageview(clientID, host, page, title string) {
	t.Enqueue(measurement.NewPageview(t.property, clientID, host, page, title))
}

// Purchase buffers an ecommerce purchase hit.
func (t *Tracker) Purchase(clientID string, tx measurement.Transaction, products []measurement.Product) {
	t.Enqueue(measurement.NewPurchase(t.property, clientID, tx, products))
}

// Refund buffers an ecommerce refund hit.
func (t *Tracker) Refund(clientID, transactionID string, items []measurement.RefundItem) {
	t.Enqueue(measurement.NewRefund(t.property, clientID, transactionID, items))
}

// Enqueue buffers a prebuilt hit as is. Hits enqueued after Close are discarded.
func (t *Tracker) Enqueue(h measurement.Hit) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		t.logger.Warn("tracker closed, hit discarded", log.String("kind", h.Kind()))
		return
	}
	t.buf.Append(h)
	t.metrics.HitEnqueued(h.Kind())
	t.metrics.BufferDepth(t.buf.Len())
}

// Pending returns the number of buffered hits.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Len()
}

// Flush drains the buffer in chunks of at most BatchLimit hits, one request
// per chunk, oldest first. The buffer is empty when Flush returns, whatever
// the chunk outcomes. Cancelling ctx fails the remaining requests; their
// hits are dropped like any other failed chunk.
func (t *Tracker) Flush(ctx context.Context) FlushResult {
	t.mu.Lock()
	res, dropped := t.drain(ctx)
	t.mu.Unlock()

	t.dispatchDrops(dropped)
	return res
}

// Close flushes whatever is still buffered and marks the tracker closed.
// Delivery errors are logged, never returned: Close always returns nil so
// it can be deferred or used as an io.Closer. Calling Close twice is a no-op.
func (t *Tracker) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), t.closeTimeout)
	res, dropped := t.drain(ctx)
	cancel()
	t.mu.Unlock()

	t.dispatchDrops(dropped)
	if !res.OK() {
		t.logger.Error("final flush incomplete",
			log.String("tid", t.property.TrackingID),
			log.Int("failed_chunks", res.Failures()),
			log.Int("dropped_hits", res.DroppedHits()),
			log.Err(res.Err()))
	}
	return nil
}

// drain runs the flush loop. Callers must hold t.mu.
func (t *Tracker) drain(ctx context.Context) (FlushResult, []droppedChunk) {
	var (
		res     FlushResult
		dropped []droppedChunk
	)
	if t.buf.Empty() {
		return res, nil
	}

	start := time.Now()
	total := t.buf.Len()

	for !t.buf.Empty() {
		chunk := t.buf.Peek(t.batchLimit)
		n := len(chunk)

		sendStart := time.Now()
		err := t.sender.Send(ctx, measurement.EncodeBatch(chunk), n)
		t.metrics.BatchSent(n, time.Since(sendStart), err)

		idx := len(res.Chunks)
		res.Chunks = append(res.Chunks, Chunk{Index: idx, Hits: n, Err: err})

		if err != nil {
			t.logger.Warn("batch dropped",
				log.Int("chunk", idx),
				log.Int("hits", n),
				log.Err(err))
			if t.onDrop != nil {
				hits := make([]measurement.Hit, n)
				copy(hits, chunk)
				dropped = append(dropped, droppedChunk{hits: hits, err: err})
			}
		}

		t.buf.Drop(n)
	}
	t.metrics.BufferDepth(0)

	t.logger.Info("flush complete",
		log.String("tid", t.property.TrackingID),
		log.Int("hits", total),
		log.Int("chunks", len(res.Chunks)),
		log.Int("failed_chunks", res.Failures()),
		log.Duration("took", time.Since(start)))
	return res, dropped
}

func (t *Tracker) dispatchDrops(dropped []droppedChunk) {
	for _, d := range dropped {
		t.onDrop(d.hits, d.err)
	}
}
