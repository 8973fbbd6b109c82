// Package download fetches remote media into the cache.
package download

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCanceled is the error of a task stopped with Cancel.
var ErrCanceled = errors.New("download canceled")

// Request describes one download into a cache file.
type Request struct {
	URL         string
	Dest        string            // cache file path
	Extension   string            // resolved file extension
	Identity    string            // identity of the queue item being fetched
	Options     map[string]string // per-item options, sent as request headers
	BitrateKbps int               // hint, 0 if unknown
	Duration    time.Duration     // hint, 0 if unknown
}

// ExpectedSize estimates the download size from the bitrate and duration
// hints. Returns 0 when either is unknown.
func (r Request) ExpectedSize() int64 {
	if r.BitrateKbps <= 0 || r.Duration <= 0 {
		return 0
	}
	return int64(float64(r.BitrateKbps) * 1000 / 8 * r.Duration.Seconds())
}

// Downloader starts and cancels downloads.
type Downloader interface {
	// Start begins fetching in the background and returns its handle.
	Start(req Request) (*Task, error)
	// Cancel stops a task. It does not wait for the transfer to unwind, but
	// no write happens after it returns.
	Cancel(t *Task)
}

// Task is the handle of a running or finished download.
type Task struct {
	ID       string
	Identity string
	Dest     string
	URL      string

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	err      error
	finished bool
	written  int64
	expected int64
	signal   chan struct{} // closed and replaced on every progress update
}

// NewTask creates the handle for req. Downloader implementations call it
// from Start and report progress with Guard and Finish.
func NewTask(req Request) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{
		ID:       uuid.NewString(),
		Identity: req.Identity,
		Dest:     req.Dest,
		URL:      req.URL,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		expected: req.ExpectedSize(),
		signal:   make(chan struct{}),
	}
}

// Context is canceled when the task is canceled.
func (t *Task) Context() context.Context {
	return t.ctx
}

// Done is closed when the task finishes, successfully or not.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the terminal error, nil while running or after success.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Finished reports whether the task has reached a terminal state.
func (t *Task) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// Failed reports whether the task ended with an error, including
// cancellation.
func (t *Task) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished && t.err != nil
}

// Written returns the highest byte offset written so far.
func (t *Task) Written() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}

// Expected returns the expected total size, 0 if unknown.
func (t *Task) Expected() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expected
}

// SetExpected records the total size once the server announces it.
func (t *Task) SetExpected(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > 0 {
		t.expected = n
	}
}

// Cancel stops the task. Safe to call more than once and after completion.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancel()
	t.finishLocked(ErrCanceled)
}

// Guard runs write while holding the task lock, unless the task is already
// canceled or finished. It reports whether write ran. Downloaders route every
// cache write through Guard so that nothing lands after Cancel returns.
func (t *Task) Guard(write func() (int64, error)) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished || t.ctx.Err() != nil {
		return false, nil
	}
	end, err := write()
	if err != nil {
		return true, err
	}
	if end > t.written {
		t.written = end
	}
	t.notifyLocked()
	return true, nil
}

// Finish marks the task terminal with err (nil for success). Only the first
// call has an effect.
func (t *Task) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finishLocked(err)
}

func (t *Task) finishLocked(err error) {
	if t.finished {
		return
	}
	t.finished = true
	t.err = err
	t.cancel()
	close(t.done)
	t.notifyLocked()
}

func (t *Task) notifyLocked() {
	close(t.signal)
	t.signal = make(chan struct{})
}

// progress returns a channel closed on the next progress update.
func (t *Task) progress() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.signal
}
