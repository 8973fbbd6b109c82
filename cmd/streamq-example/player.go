package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/llehouerou/streamq/internal/cache"
	"github.com/llehouerou/streamq/internal/download"
	"github.com/llehouerou/streamq/internal/playback"
	"github.com/llehouerou/streamq/internal/playlist"
	"github.com/llehouerou/streamq/internal/prefetch"
)

// drainPlayer "plays" an item by reading all of its bytes. Prefetched items
// are read from the cache while their download is still running.
type drainPlayer struct {
	store  *cache.Store
	client *http.Client
	log    zerolog.Logger
	svc    playback.Service

	mu      sync.Mutex
	item    *playlist.Item
	handoff *prefetch.Handoff
	cancel  context.CancelFunc
	started time.Time
}

func newDrainPlayer(store *cache.Store, log zerolog.Logger) *drainPlayer {
	return &drainPlayer{store: store, client: http.DefaultClient, log: log}
}

// attach sets the service that receives state and end-of-track reports.
func (p *drainPlayer) attach(svc playback.Service) {
	p.svc = svc
}

func (p *drainPlayer) Load(item *playlist.Item, h *prefetch.Handoff) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.item = item
	p.handoff = h
	p.startLocked()
	return nil
}

func (p *drainPlayer) Replay() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.item == nil {
		return errors.New("nothing loaded")
	}
	p.startLocked()
	return nil
}

func (p *drainPlayer) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.item = nil
	p.handoff = nil
	if p.svc != nil {
		go p.svc.PlayerStateChanged(playback.StateStopped)
	}
}

func (p *drainPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.item == nil {
		return 0
	}
	return time.Since(p.started)
}

func (p *drainPlayer) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *drainPlayer) startLocked() {
	p.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.started = time.Now()
	go p.play(ctx, p.item, p.handoff)
}

// play runs outside the player lock and reports back to the service.
func (p *drainPlayer) play(ctx context.Context, item *playlist.Item, h *prefetch.Handoff) {
	p.svc.PlayerStateChanged(playback.StatePlaying)

	n, err := p.drain(ctx, item, h)
	if ctx.Err() != nil || errors.Is(err, download.ErrCanceled) {
		// Replaced or stopped: the service has moved on.
		return
	}
	if err != nil {
		p.log.Warn().Err(err).Str("source", item.Source).Msg("playback failed")
	} else {
		p.log.Debug().
			Str("source", item.Source).
			Str("size", humanize.IBytes(uint64(n))). //nolint:gosec // n is never negative
			Bool("cached", h != nil).
			Msg("track finished")
	}
	p.svc.TrackFinished()
}

func (p *drainPlayer) drain(ctx context.Context, item *playlist.Item, h *prefetch.Handoff) (int64, error) {
	r, err := p.open(ctx, item, h)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return io.Copy(io.Discard, r)
}

func (p *drainPlayer) open(ctx context.Context, item *playlist.Item, h *prefetch.Handoff) (io.ReadCloser, error) {
	if h != nil {
		return io.NopCloser(download.NewReader(ctx, p.store, h.Task, h.Path)), nil
	}
	if !item.IsStream() {
		return os.Open(item.Source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.Source, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range item.AssetOptions {
		req.Header.Set(k, v)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
