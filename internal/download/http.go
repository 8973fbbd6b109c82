package download

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/llehouerou/streamq/internal/cache"
	"github.com/llehouerou/streamq/internal/errmsg"
)

const (
	defaultChunkSize = 64 << 10
	defaultUserAgent = "streamq"
)

// HTTP downloads over plain HTTP(S) into a cache store, resuming from the
// bytes already on disk.
type HTTP struct {
	client    *http.Client
	store     *cache.Store
	log       zerolog.Logger
	chunkSize int
	userAgent string
}

// Option configures an HTTP downloader.
type Option func(*HTTP)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(d *HTTP) { d.client = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *HTTP) { d.log = l }
}

// WithChunkSize sets the size of each cache write.
func WithChunkSize(n int) Option {
	return func(d *HTTP) {
		if n > 0 {
			d.chunkSize = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *HTTP) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// WithTimeout sets an overall timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(d *HTTP) {
		if timeout > 0 {
			d.client = &http.Client{Timeout: timeout}
		}
	}
}

// NewHTTP creates an HTTP downloader writing into store.
func NewHTTP(store *cache.Store, opts ...Option) *HTTP {
	d := &HTTP{
		client:    http.DefaultClient,
		store:     store,
		log:       zerolog.Nop(),
		chunkSize: defaultChunkSize,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Verify HTTP implements Downloader at compile time.
var _ Downloader = (*HTTP)(nil)

// Start begins the download in a new goroutine.
func (d *HTTP) Start(req Request) (*Task, error) {
	var err error
	switch {
	case req.URL == "":
		err = errors.New("download: empty url")
	case req.Dest == "":
		err = errors.New("download: empty destination")
	}
	if err != nil {
		d.log.Warn().Err(err).Str("identity", req.Identity).Msg(errmsg.FormatWith(errmsg.OpDownloadStart, req.Identity, err))
		return nil, err
	}
	t := NewTask(req)
	go d.run(t, req)
	return t, nil
}

// Cancel stops t.
func (d *HTTP) Cancel(t *Task) {
	if t == nil {
		return
	}
	t.Cancel()
	d.log.Debug().Str("task", t.ID).Str("identity", t.Identity).Msg("download canceled")
}

func (d *HTTP) run(t *Task, req Request) {
	log := d.log.With().Str("task", t.ID).Str("identity", t.Identity).Logger()
	start := time.Now()

	err := d.fetch(t, req)
	if t.Context().Err() != nil {
		// Canceled: the task is already finished with ErrCanceled.
		return
	}
	t.Finish(err)
	if err != nil {
		log.Warn().Err(err).Str("url", req.URL).Msg(errmsg.Format(errmsg.OpDownloadFetch, err))
		return
	}
	written := t.Written()
	log.Info().
		Str("size", humanize.IBytes(uint64(written))). //nolint:gosec // written is never negative
		Dur("elapsed", time.Since(start)).
		Msg("download complete")
}

func (d *HTTP) fetch(t *Task, req Request) error {
	offset := d.store.Size(req.Dest)

	hr, err := http.NewRequestWithContext(t.Context(), http.MethodGet, req.URL, nil)
	if err != nil {
		return err
	}
	hr.Header.Set("User-Agent", d.userAgent)
	for k, v := range req.Options {
		hr.Header.Set(k, v)
	}
	if offset > 0 {
		hr.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-")
	}

	resp, err := d.client.Do(hr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	total := int64(-1)
	switch resp.StatusCode {
	case http.StatusPartialContent:
		if resp.ContentLength >= 0 {
			total = offset + resp.ContentLength
		}
	case http.StatusOK:
		// Server ignored the range; rewrite from the start.
		offset = 0
		total = resp.ContentLength
	case http.StatusRequestedRangeNotSatisfiable:
		if offset > 0 {
			// Cached file already holds the whole body.
			t.SetExpected(offset)
			_, err := t.Guard(func() (int64, error) { return offset, nil })
			return err
		}
		return fmt.Errorf("download: unexpected status %s", resp.Status)
	default:
		return fmt.Errorf("download: unexpected status %s", resp.Status)
	}

	t.SetExpected(total)
	if offset > 0 {
		// Bytes already on disk count as written for readers and progress.
		if _, err := t.Guard(func() (int64, error) { return offset, nil }); err != nil {
			return err
		}
	}

	d.log.Debug().
		Str("task", t.ID).
		Str("from", humanize.IBytes(uint64(offset))). //nolint:gosec // offset is never negative
		Int64("expected", t.Expected()).
		Msg("download started")

	end, err := d.copy(t, req.Dest, resp.Body, offset)
	if err != nil {
		return err
	}
	if total >= 0 && end < total {
		return fmt.Errorf("download: short body: got %d of %d bytes", end, total)
	}
	return nil
}

// copy streams body into dest starting at offset and returns the end offset.
func (d *HTTP) copy(t *Task, dest string, body io.Reader, offset int64) (int64, error) {
	buf := make([]byte, d.chunkSize)
	for {
		n, rerr := io.ReadFull(body, buf)
		if n > 0 {
			chunk := buf[:n]
			at := offset
			ran, err := t.Guard(func() (int64, error) {
				if err := d.store.Write(dest, chunk, at); err != nil {
					d.log.Error().Err(err).Str("task", t.ID).Int64("offset", at).
						Msg(errmsg.FormatWith(errmsg.OpCacheWrite, dest, err))
					return 0, err
				}
				return at + int64(len(chunk)), nil
			})
			if err != nil {
				return offset, err
			}
			if !ran {
				return offset, ErrCanceled
			}
			offset += int64(n)
		}
		switch {
		case rerr == nil:
		case errors.Is(rerr, io.EOF), errors.Is(rerr, io.ErrUnexpectedEOF):
			return offset, nil
		default:
			return offset, rerr
		}
	}
}
