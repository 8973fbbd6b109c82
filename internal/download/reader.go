package download

import (
	"context"
	"errors"
	"io"

	"github.com/llehouerou/streamq/internal/cache"
)

// Reader reads a cache file while a task is still writing it. Reads past the
// bytes written so far block until the task writes more or finishes.
type Reader struct {
	ctx    context.Context
	store  *cache.Store
	task   *Task
	path   string
	offset int64
}

// NewReader returns a reader over t's destination. A nil task reads the file
// as it is on disk.
func NewReader(ctx context.Context, store *cache.Store, t *Task, path string) *Reader {
	return &Reader{ctx: ctx, store: store, task: t, path: path}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		// Take the progress channel before reading so a write landing in
		// between is not missed.
		var progress <-chan struct{}
		if r.task != nil {
			progress = r.task.progress()
		}

		if data := r.store.Read(r.path, r.offset, len(p)); data != nil {
			n := copy(p, data)
			r.offset += int64(n)
			return n, nil
		}

		if r.task == nil {
			return 0, io.EOF
		}
		if r.task.Finished() {
			// One last look: the final chunk may have landed with Finish.
			if data := r.store.Read(r.path, r.offset, len(p)); data != nil {
				n := copy(p, data)
				r.offset += int64(n)
				return n, nil
			}
			if err := r.task.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}

		select {
		case <-progress:
		case <-r.ctx.Done():
			return 0, r.ctx.Err()
		}
	}
}

// Seek implements io.Seeker. SeekEnd is relative to the expected size when
// known, else to the bytes currently on disk.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = r.offset
	case io.SeekEnd:
		base = r.store.Size(r.path)
		if r.task != nil {
			base = max(base, r.task.Expected())
		}
	default:
		return 0, errors.New("download: invalid whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("download: negative position")
	}
	r.offset = pos
	return pos, nil
}

// Verify Reader implements io.ReadSeeker at compile time.
var _ io.ReadSeeker = (*Reader)(nil)
