package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bft-labs/gaship/internal/ingest"
	"github.com/bft-labs/gaship/pkg/gaship"
	"github.com/bft-labs/gaship/pkg/log"
)

// flusher is the part of *gaship.Tracker the send command drives.
type flusher interface {
	ingest.Tracker
	Flush(ctx context.Context) gaship.FlushResult
}

// runSend ingests every input, flushes once and reports undelivered chunks
// as an error. "-" or no inputs reads stdin.
func runSend(ctx context.Context, t flusher, inputs []string, stdin io.Reader, logger log.Logger) error {
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	total := 0
	for _, in := range inputs {
		n, err := ingestInput(in, t, stdin)
		total += n
		if err != nil {
			return fmt.Errorf("%s: %w", displayName(in), err)
		}
	}
	logger.Info("records ingested", log.Int("records", total), log.Int("inputs", len(inputs)))

	res := t.Flush(ctx)
	logger.Info("send finished",
		log.Int("chunks", len(res.Chunks)),
		log.Int("delivered", res.Successes()),
		log.Int("dropped_hits", res.DroppedHits()))
	return res.Err()
}

func ingestInput(in string, t ingest.Tracker, stdin io.Reader) (int, error) {
	if in == "-" {
		return ingest.Read(stdin, t)
	}
	f, err := os.Open(in)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ingest.Read(f, t)
}

func displayName(in string) string {
	if in == "-" {
		return "stdin"
	}
	return in
}
