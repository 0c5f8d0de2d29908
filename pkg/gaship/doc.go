// Package gaship buffers Measurement Protocol hits in memory and flushes
// them as batched POST requests.
//
// # Basic Usage
//
//	tracker, err := gaship.New("UA-XXXX-Y")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracker.Close()
//
//	tracker.Pageview(clientID, "example.com", "/pricing", "Pricing")
//	tracker.Event(clientID, "signup", "submit", measurement.WithLabel("footer"))
//
//	res := tracker.Flush(ctx)
//	if !res.OK() {
//	    log.Printf("%d of %d batches failed", res.Failures(), len(res.Chunks))
//	}
//
// # Flushing
//
// [Tracker.Flush] drains the buffer front to back in chunks of at most the
// batch limit (20 by default), one synchronous request per chunk. A chunk
// leaves the buffer once its request has completed, successful or not.
// Failed chunks are not retried: delivery is at most once. Register a
// [DropHandler] with [WithDropHandler] to observe or requeue dropped hits.
//
// [Tracker.Close] performs a final best-effort flush and never reports
// a delivery error; defer it right after [New].
//
// # Concurrency
//
// A Tracker is safe for concurrent use. Tracking calls block while a flush
// is in progress.
package gaship
