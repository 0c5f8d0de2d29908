package gaship

import (
	"errors"
	"fmt"
)

// Chunk is the outcome of one batch request.
type Chunk struct {
	// Index is the position of the chunk within its flush, from 0.
	Index int

	// Hits is the number of hits the chunk carried.
	Hits int

	// Err is nil when the request succeeded.
	Err error
}

// FlushResult lists the chunk outcomes of one flush, in send order.
// An empty result means the buffer was empty and nothing was sent.
type FlushResult struct {
	Chunks []Chunk
}

// Successes returns the number of chunks delivered.
func (r FlushResult) Successes() int {
	n := 0
	for _, c := range r.Chunks {
		if c.Err == nil {
			n++
		}
	}
	return n
}

// Failures returns the number of chunks dropped.
func (r FlushResult) Failures() int {
	return len(r.Chunks) - r.Successes()
}

// OK reports whether every chunk was delivered.
func (r FlushResult) OK() bool {
	return r.Failures() == 0
}

// Hits returns the number of hits drained from the buffer.
func (r FlushResult) Hits() int {
	n := 0
	for _, c := range r.Chunks {
		n += c.Hits
	}
	return n
}

// DroppedHits returns the number of hits in failed chunks.
func (r FlushResult) DroppedHits() int {
	n := 0
	for _, c := range r.Chunks {
		if c.Err != nil {
			n += c.Hits
		}
	}
	return n
}

// Err joins the errors of the failed chunks, or returns nil.
func (r FlushResult) Err() error {
	var errs []error
	for _, c := range r.Chunks {
		if c.Err != nil {
			errs = append(errs, fmt.Errorf("chunk %d (%d hits): %w", c.Index, c.Hits, c.Err))
		}
	}
	return errors.Join(errs...)
}
