package ordering

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WriterConfig holds configuration for the order writer.
type WriterConfig struct {
	// DebounceWindow is the quiet period after the last reorder event for a
	// context before its order is sent.
	DebounceWindow time.Duration
	// MaxRetries is how many times a failed save is retried before the error
	// sink fires.
	MaxRetries int
	// RetryBackoffBase and RetryBackoffMax bound the exponential backoff
	// between attempts.
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		DebounceWindow:   500 * time.Millisecond,
		MaxRetries:       2,
		RetryBackoffBase: 250 * time.Millisecond,
		RetryBackoffMax:  5 * time.Second,
	}
}

// entry is the per-context debounce state. At most one save per context is
// ever in flight; a reorder arriving mid-flight replaces the pending payload
// and is sent only after the in-flight call settles.
type entry struct {
	timer    *time.Timer
	pending  *Payload
	inFlight bool
}

// Writer serializes reorder operations to a remote store. Scheduling is
// fire-and-forget from the caller's perspective.
type Writer struct {
	config WriterConfig
	save   SaveFunc
	sink   ErrorSink
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool

	stopCh chan struct{}
	wg     sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats
}

// Stats counts writer outcomes.
type Stats struct {
	SavedCount  uint64
	RetryCount  uint64
	FailedCount uint64
}

// NewWriter creates a new order writer. sink may be nil when the caller has
// no terminal-failure handling; logger defaults to slog.Default().
func NewWriter(save SaveFunc, sink ErrorSink, config WriterConfig, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceWindow <= 0 {
		config.DebounceWindow = DefaultWriterConfig().DebounceWindow
	}
	return &Writer{
		config:  config,
		save:    save,
		sink:    sink,
		logger:  logger,
		entries: make(map[string]*entry),
		stopCh:  make(chan struct{}),
	}
}

// Schedule records the latest full order for a context and (re)starts its
// debounce timer. Last write wins: intermediate orders inside the window are
// never sent.
func (w *Writer) Schedule(contextKey string, payload Payload) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	e := w.entries[contextKey]
	if e == nil {
		e = &entry{}
		w.entries[contextKey] = e
	}
	e.pending = &payload

	if e.inFlight {
		// Picked up after the in-flight save settles.
		return
	}
	w.armTimerLocked(contextKey, e)
}

// Cancel discards any pending order for a context, e.g. when the user
// navigates away or the list becomes empty. An in-flight save is allowed to
// settle.
func (w *Writer) Cancel(contextKey string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := w.entries[contextKey]
	if e == nil {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = nil
	if !e.inFlight {
		delete(w.entries, contextKey)
	}
}

// Flush sends the pending order for a context immediately instead of waiting
// out the debounce window.
func (w *Writer) Flush(contextKey string) {
	w.mu.Lock()
	e := w.entries[contextKey]
	if e != nil && e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	w.mu.Unlock()
	w.fire(contextKey)
}

// Close stops all pending timers and waits for in-flight saves to settle.
// Pending, unsent orders are dropped.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	for key, e := range w.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.pending = nil
		if !e.inFlight {
			delete(w.entries, key)
		}
	}
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Debug("order writer closed")
}

// GetStats returns current writer statistics.
func (w *Writer) GetStats() Stats {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	return w.stats
}

func (w *Writer) armTimerLocked(contextKey string, e *entry) {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(w.config.DebounceWindow, func() {
		w.fire(contextKey)
	})
}

// fire promotes the pending payload to in-flight and sends it. No-op when
// nothing is pending or a save for the context is already in flight.
func (w *Writer) fire(contextKey string) {
	w.mu.Lock()
	e := w.entries[contextKey]
	if e == nil || e.pending == nil || e.inFlight {
		w.mu.Unlock()
		return
	}
	payload := *e.pending
	e.pending = nil
	e.timer = nil
	e.inFlight = true
	w.wg.Add(1)
	w.mu.Unlock()

	w.send(contextKey, payload)

	w.mu.Lock()
	e.inFlight = false
	if e.pending != nil && !w.closed {
		// A reorder arrived mid-flight: give it a fresh debounce window.
		w.armTimerLocked(contextKey, e)
	} else if e.pending == nil {
		delete(w.entries, contextKey)
	}
	w.mu.Unlock()
	w.wg.Done()
}

// send runs the save with retries. Attempt k waits base*2^(k-1) first, capped
// at the configured maximum.
func (w *Writer) send(contextKey string, payload Payload) {
	var lastErr error
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			w.recordRetry()
			if !w.sleep(w.retryBackoff(attempt)) {
				return
			}
		}

		result, err := w.save(context.Background(), payload)
		if err == nil {
			w.recordSaved()
			w.logger.Debug("order saved",
				"context", contextKey,
				"updated_count", result.UpdatedCount,
				"attempts", attempt+1,
			)
			return
		}
		lastErr = err
		w.logger.Warn("order save failed",
			"context", contextKey,
			"attempt", attempt+1,
			"error", err,
		)
	}

	w.recordFailed()
	w.logger.Error("order save exhausted retries",
		"context", contextKey,
		"max_retries", w.config.MaxRetries,
		"error", lastErr,
	)
	if w.sink != nil {
		w.sink(contextKey, lastErr)
	}
}

func (w *Writer) retryBackoff(attempt int) time.Duration {
	base := w.config.RetryBackoffBase
	if base <= 0 {
		base = DefaultWriterConfig().RetryBackoffBase
	}
	max := w.config.RetryBackoffMax
	if max <= 0 {
		max = DefaultWriterConfig().RetryBackoffMax
	}
	if attempt < 1 {
		attempt = 1
	}

	backoff := base * time.Duration(1<<uint(attempt-1))
	if backoff > max {
		return max
	}
	return backoff
}

// sleep waits for d unless the writer is closing.
func (w *Writer) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-w.stopCh:
		return false
	}
}

func (w *Writer) recordSaved() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.SavedCount++
}

func (w *Writer) recordRetry() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.RetryCount++
}

func (w *Writer) recordFailed() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedCount++
}
