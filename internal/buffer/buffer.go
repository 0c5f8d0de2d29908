// Package buffer holds hits waiting to be flushed.
package buffer

import "github.com/bft-labs/gaship/pkg/measurement"

// Buffer is an ordered FIFO of hits. Insertion order is submission order.
// It is not safe for concurrent use; the owning tracker serializes access.
type Buffer struct {
	hits []measurement.Hit
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{hits: make([]measurement.Hit, 0)}
}

// Append adds a hit to the back of the buffer.
func (b *Buffer) Append(h measurement.Hit) {
	b.hits = append(b.hits, h)
}

// Len returns the number of buffered hits.
func (b *Buffer) Len() int {
	return len(b.hits)
}

// Empty returns true if no hits are buffered.
func (b *Buffer) Empty() bool {
	return len(b.hits) == 0
}

// Peek returns up to n hits from the front without removing them.
// The returned slice must not be retained past the next Drop.
func (b *Buffer) Peek(n int) []measurement.Hit {
	if n > len(b.hits) {
		n = len(b.hits)
	}
	return b.hits[:n]
}

// Drop removes up to n hits from the front.
func (b *Buffer) Drop(n int) {
	if n >= len(b.hits) {
		b.Reset()
		return
	}
	// Clear dropped slots so their field slices can be collected.
	for i := 0; i < n; i++ {
		b.hits[i] = measurement.Hit{}
	}
	b.hits = b.hits[n:]
}

// Reset discards every buffered hit.
func (b *Buffer) Reset() {
	for i := range b.hits {
		b.hits[i] = measurement.Hit{}
	}
	b.hits = b.hits[:0]
}
