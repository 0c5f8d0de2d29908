// Package spool feeds a tracker from JSON-lines files dropped into a directory.
//
// Files ending in .jsonl are ingested once they stop changing for the
// debounce delay, then renamed to .jsonl.done (or .jsonl.failed when a line
// cannot be decoded). Producers should write under another name and rename
// into place so a half-written file is never picked up.
package spool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/gaship/internal/ingest"
	"github.com/bft-labs/gaship/pkg/gaship"
	"github.com/bft-labs/gaship/pkg/log"
)

const (
	spoolSuffix  = ".jsonl"
	doneSuffix   = ".done"
	failedSuffix = ".failed"

	// DefaultDebounce is how long a file must stay quiet before ingestion.
	DefaultDebounce = 200 * time.Millisecond

	finalFlushTimeout = 30 * time.Second
)

// Target is what the watcher feeds: *gaship.Tracker satisfies it.
type Target interface {
	ingest.Tracker
	Flush(ctx context.Context) gaship.FlushResult
}

// Config configures a Watcher.
type Config struct {
	Dir           string
	FlushInterval time.Duration
	Debounce      time.Duration
}

// Watcher ingests spool files and flushes the target periodically.
type Watcher struct {
	cfg    Config
	target Target
	logger log.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	ready  chan string
}

// New creates a watcher. A zero Debounce selects DefaultDebounce.
func New(cfg Config, target Target, logger log.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		cfg:    cfg,
		target: target,
		logger: logger,
		timers: make(map[string]*time.Timer),
		ready:  make(chan string, 64),
	}
}

// Run watches the spool directory until ctx is cancelled, then flushes
// whatever is still buffered.
func (w *Watcher) Run(ctx context.Context) error {
	if w.cfg.FlushInterval <= 0 {
		return fmt.Errorf("spool: flush interval must be positive")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("spool: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("spool: watch %s: %w", w.cfg.Dir, err)
	}
	w.logger.Info("watching spool directory",
		log.String("dir", w.cfg.Dir),
		log.Duration("flush_interval", w.cfg.FlushInterval))

	if err := w.ingestPending(); err != nil {
		w.logger.Error("scan spool directory", log.Err(err))
	}

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			w.finalFlush()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSpoolFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounce(ctx, event.Name)

		case path := <-w.ready:
			w.ingestFile(path)

		case <-ticker.C:
			w.flush(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("spool watcher error", log.Err(err))
		}
	}
}

// ingestPending picks up files that were spooled before Run started.
func (w *Watcher) ingestPending() error {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isSpoolFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		w.ingestFile(filepath.Join(w.cfg.Dir, name))
	}
	return nil
}

func (w *Watcher) debounce(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// ingestFile replays one spool file into the target and renames it.
func (w *Watcher) ingestFile(path string) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		// Already renamed by an earlier event for the same file.
		return
	}
	if err != nil {
		w.logger.Error("open spool file", log.String("file", path), log.Err(err))
		return
	}

	n, readErr := ingest.Read(f, w.target)
	f.Close()

	suffix := doneSuffix
	if readErr != nil {
		suffix = failedSuffix
		w.logger.Error("spool file rejected",
			log.String("file", path),
			log.Int("records", n),
			log.Err(readErr))
	} else {
		w.logger.Debug("spool file ingested", log.String("file", path), log.Int("records", n))
	}

	if err := os.Rename(path, path+suffix); err != nil {
		w.logger.Error("rename spool file", log.String("file", path), log.Err(err))
	}
}

func (w *Watcher) flush(ctx context.Context) {
	res := w.target.Flush(ctx)
	if !res.OK() {
		w.logger.Warn("periodic flush lost hits",
			log.Int("failed_chunks", res.Failures()),
			log.Int("dropped_hits", res.DroppedHits()))
	}
}

func (w *Watcher) finalFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
	defer cancel()
	w.flush(ctx)
}

func isSpoolFile(name string) bool {
	return strings.HasSuffix(filepath.Base(name), spoolSuffix)
}
