package ordering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWriterConfig() WriterConfig {
	return WriterConfig{
		DebounceWindow:   20 * time.Millisecond,
		MaxRetries:       2,
		RetryBackoffBase: time.Millisecond,
		RetryBackoffMax:  5 * time.Millisecond,
	}
}

// recordingSave captures every payload handed to the transport and fails the
// first failN calls.
type recordingSave struct {
	mu       sync.Mutex
	payloads []Payload
	failN    int
	calls    int
	release  chan struct{}
}

func (r *recordingSave) fn(_ context.Context, payload Payload) (SaveResult, error) {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.payloads = append(r.payloads, payload)
	if r.calls <= r.failN {
		return SaveResult{}, errors.New("store unavailable")
	}
	return SaveResult{UpdatedCount: len(payload.Updates)}, nil
}

func (r *recordingSave) saved() []Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Payload(nil), r.payloads...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func newIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestWriter_DebounceCoalesces(t *testing.T) {
	save := &recordingSave{}
	w := NewWriter(save.fn, nil, testWriterConfig(), nil)
	defer w.Close()

	ids := newIDs(3)
	var last Payload
	for i := 0; i < 5; i++ {
		last = NewPayload("inbox", ids)
		last.Updates[0].SortOrder = i // distinguish the five orders
		w.Schedule("inbox", last)
	}

	waitFor(t, func() bool { return w.GetStats().SavedCount == 1 })

	saved := save.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, last, saved[0])
	assert.Equal(t, uint64(0), w.GetStats().RetryCount)
}

func TestWriter_IndependentContexts(t *testing.T) {
	save := &recordingSave{}
	w := NewWriter(save.fn, nil, testWriterConfig(), nil)
	defer w.Close()

	w.Schedule("inbox", NewPayload("inbox", newIDs(2)))
	w.Schedule("project:alpha", NewPayload("project:alpha", newIDs(2)))

	waitFor(t, func() bool { return w.GetStats().SavedCount == 2 })

	contexts := map[string]bool{}
	for _, p := range save.saved() {
		contexts[p.Context] = true
	}
	assert.True(t, contexts["inbox"])
	assert.True(t, contexts["project:alpha"])
}

func TestWriter_RetriesThenSucceeds(t *testing.T) {
	save := &recordingSave{failN: 2}
	var sinkCalls int
	var sinkMu sync.Mutex
	sink := func(string, error) {
		sinkMu.Lock()
		sinkCalls++
		sinkMu.Unlock()
	}

	w := NewWriter(save.fn, sink, testWriterConfig(), nil)
	defer w.Close()

	w.Schedule("inbox", NewPayload("inbox", newIDs(1)))

	waitFor(t, func() bool { return w.GetStats().SavedCount == 1 })

	stats := w.GetStats()
	assert.Equal(t, uint64(2), stats.RetryCount)
	assert.Equal(t, uint64(0), stats.FailedCount)

	sinkMu.Lock()
	defer sinkMu.Unlock()
	assert.Zero(t, sinkCalls, "sink must not fire when a retry succeeds")
}

func TestWriter_ExhaustedRetriesReachSink(t *testing.T) {
	save := &recordingSave{failN: 100}

	type sinkCall struct {
		context string
		err     error
	}
	sinkCh := make(chan sinkCall, 1)
	sink := func(contextKey string, err error) {
		sinkCh <- sinkCall{contextKey, err}
	}

	w := NewWriter(save.fn, sink, testWriterConfig(), nil)
	defer w.Close()

	w.Schedule("inbox", NewPayload("inbox", newIDs(1)))

	select {
	case call := <-sinkCh:
		assert.Equal(t, "inbox", call.context)
		assert.Error(t, call.err)
	case <-time.After(2 * time.Second):
		t.Fatal("sink never invoked")
	}

	stats := w.GetStats()
	assert.Equal(t, uint64(1), stats.FailedCount)
	assert.Equal(t, uint64(2), stats.RetryCount) // MaxRetries=2: 3 attempts
	assert.Equal(t, uint64(0), stats.SavedCount)
}

func TestWriter_Cancel(t *testing.T) {
	save := &recordingSave{}
	w := NewWriter(save.fn, nil, testWriterConfig(), nil)
	defer w.Close()

	w.Schedule("inbox", NewPayload("inbox", newIDs(2)))
	w.Cancel("inbox")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, save.saved())
	assert.Equal(t, uint64(0), w.GetStats().SavedCount)
}

func TestWriter_Flush(t *testing.T) {
	save := &recordingSave{}
	cfg := testWriterConfig()
	cfg.DebounceWindow = 10 * time.Second // flush must not wait this out
	w := NewWriter(save.fn, nil, cfg, nil)
	defer w.Close()

	w.Schedule("inbox", NewPayload("inbox", newIDs(2)))
	w.Flush("inbox")

	assert.Equal(t, uint64(1), w.GetStats().SavedCount)
	require.Len(t, save.saved(), 1)
}

func TestWriter_ScheduleDuringFlight(t *testing.T) {
	release := make(chan struct{})
	save := &recordingSave{release: release}
	w := NewWriter(save.fn, nil, testWriterConfig(), nil)
	defer w.Close()

	first := NewPayload("inbox", newIDs(2))
	w.Schedule("inbox", first)

	// Wait until the first save is blocked inside the transport, then queue a
	// replacement. It must go out as a second save after the first settles,
	// with its own debounce window.
	waitFor(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		e := w.entries["inbox"]
		return e != nil && e.inFlight
	})

	second := NewPayload("inbox", newIDs(3))
	w.Schedule("inbox", second)
	close(release)

	waitFor(t, func() bool { return w.GetStats().SavedCount == 2 })

	saved := save.saved()
	require.Len(t, saved, 2)
	assert.Equal(t, first, saved[0])
	assert.Equal(t, second, saved[1])
}

func TestWriter_CloseIsIdempotentAndStopsScheduling(t *testing.T) {
	save := &recordingSave{}
	w := NewWriter(save.fn, nil, testWriterConfig(), nil)

	w.Close()
	w.Close()

	w.Schedule("inbox", NewPayload("inbox", newIDs(1)))
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, save.saved())
}

func TestWriter_RetryBackoff(t *testing.T) {
	cfg := WriterConfig{
		DebounceWindow:   time.Millisecond,
		MaxRetries:       5,
		RetryBackoffBase: 100 * time.Millisecond,
		RetryBackoffMax:  300 * time.Millisecond,
	}
	w := NewWriter(func(context.Context, Payload) (SaveResult, error) {
		return SaveResult{}, nil
	}, nil, cfg, nil)
	defer w.Close()

	assert.Equal(t, 100*time.Millisecond, w.retryBackoff(1))
	assert.Equal(t, 200*time.Millisecond, w.retryBackoff(2))
	assert.Equal(t, 300*time.Millisecond, w.retryBackoff(3), "capped at max")
	assert.Equal(t, 300*time.Millisecond, w.retryBackoff(4))
}

func TestNewPayload(t *testing.T) {
	ids := newIDs(3)
	p := NewPayload("today", ids)

	assert.Equal(t, "today", p.Context)
	require.Len(t, p.Updates, 3)
	for i, u := range p.Updates {
		assert.Equal(t, ids[i], u.TaskID)
		assert.Equal(t, i, u.SortOrder)
	}
}
