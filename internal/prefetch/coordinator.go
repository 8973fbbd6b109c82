// Package prefetch downloads the track that will play next into the cache
// while the current one plays, and hands the download over to playback when
// the queue reaches it.
//
// A Coordinator tracks at most one target at a time. It is not safe for
// concurrent use: callers serialize it together with the queue it watches.
package prefetch

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/streamq/internal/cache"
	"github.com/llehouerou/streamq/internal/download"
	"github.com/llehouerou/streamq/internal/errmsg"
	"github.com/llehouerou/streamq/internal/playlist"
)

// Queue is the view of the playback queue the coordinator needs.
type Queue interface {
	Current() *playlist.Item
	Lookahead(mode playlist.RepeatMode) *playlist.Item
	IsEmpty() bool
}

// PathResolver maps a source to its cache file.
type PathResolver interface {
	ResolvePath(locator, identity, ext string) string
}

// Target is the single tracked speculative download.
type Target struct {
	Identity string
	Path     string
	Task     *download.Task
}

// Handoff is a prefetched download given to playback in place of a fresh
// network open. The task may still be running.
type Handoff struct {
	Identity string
	Path     string
	Task     *download.Task
}

// Coordinator decides what to prefetch and owns the target slot.
type Coordinator struct {
	queue      Queue
	store      PathResolver
	downloader download.Downloader
	repeatMode func() playlist.RepeatMode
	log        zerolog.Logger

	enabled bool
	active  bool
	playing bool
	target  *Target
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithRepeatMode sets the source of the current repeat mode, used for the
// wrap-around lookahead. Defaults to RepeatOff.
func WithRepeatMode(fn func() playlist.RepeatMode) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.repeatMode = fn
		}
	}
}

// WithEnabled sets the initial enabled state.
func WithEnabled(enabled bool) Option {
	return func(c *Coordinator) { c.enabled = enabled }
}

// New creates a coordinator watching queue. It starts disabled unless
// WithEnabled says otherwise.
func New(queue Queue, store PathResolver, d download.Downloader, opts ...Option) *Coordinator {
	c := &Coordinator{
		queue:      queue,
		store:      store,
		downloader: d,
		repeatMode: func() playlist.RepeatMode { return playlist.RepeatOff },
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger replaces the logger.
func (c *Coordinator) SetLogger(l zerolog.Logger) {
	c.log = l
}

// Enabled reports whether prefetching is on.
func (c *Coordinator) Enabled() bool {
	return c.enabled
}

// SetEnabled turns prefetching on or off. Turning it on while playback is
// active evaluates immediately. Turning it off cancels the target.
func (c *Coordinator) SetEnabled(enabled bool) {
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if !enabled {
		c.Reset()
		return
	}
	if c.active {
		c.Evaluate()
	}
}

// SetPlaybackState records whether playback is active (playing or paused)
// and whether it is playing. Every transition into playing evaluates when
// enabled. Pausing keeps the target.
func (c *Coordinator) SetPlaybackState(active, playing bool) {
	wasPlaying := c.playing
	c.active = active || playing
	c.playing = playing
	if playing && !wasPlaying && c.enabled {
		c.Evaluate()
	}
}

// Target returns the current target, nil if none.
func (c *Coordinator) Target() *Target {
	return c.target
}

// Reset cancels the in-flight download and clears the target.
func (c *Coordinator) Reset() {
	if c.target == nil {
		return
	}
	c.cancel(c.target, "reset")
	c.target = nil
}

// CurrentItemChanged reacts to the queue cursor landing on a new item. When
// the item is the target it returns the hand-off and clears the target. It
// then evaluates the next candidate if playback is active.
func (c *Coordinator) CurrentItemChanged() *Handoff {
	if c.queue.IsEmpty() {
		c.Reset()
		return nil
	}

	var h *Handoff
	if cur := c.queue.Current(); cur != nil && c.target != nil && cur.Identity() == c.target.Identity {
		t := c.target
		c.target = nil
		if t.Task.Failed() {
			failedHandoffs.Inc()
			c.log.Debug().
				Str("identity", t.Identity).
				Err(t.Task.Err()).
				Msg(errmsg.FormatWith(errmsg.OpPrefetchHandoff, t.Identity, t.Task.Err()))
		} else {
			handoffs.Inc()
			c.log.Debug().Str("identity", t.Identity).Str("path", t.Path).Msg("prefetch handed off")
			h = &Handoff{Identity: t.Identity, Path: t.Path, Task: t.Task}
		}
	}

	if c.enabled && c.active {
		c.Evaluate()
	}
	return h
}

// Evaluate starts a download for the lookahead candidate unless it is
// already the target. It does nothing while disabled.
func (c *Coordinator) Evaluate() {
	if !c.enabled {
		return
	}
	next := c.queue.Lookahead(c.repeatMode())
	if next == nil || !next.IsStream() {
		return
	}
	id := next.Identity()
	if c.target != nil && c.target.Identity == id {
		return
	}
	if cur := c.queue.Current(); cur != nil && cur.Identity() == id {
		// Single-item wrap: the candidate is already playing.
		return
	}

	if c.target != nil {
		c.cancel(c.target, "superseded")
		c.target = nil
	}

	ext := cache.ResolveExtension(next.Source, next.FileType)
	path := c.store.ResolvePath(next.Source, next.TrackID, ext)
	task, err := c.downloader.Start(download.Request{
		URL:         next.Source,
		Dest:        path,
		Extension:   ext,
		Identity:    id,
		Options:     next.AssetOptions,
		BitrateKbps: next.BitrateKbps,
		Duration:    next.Duration,
	})
	if err != nil {
		startErrors.Inc()
		c.log.Warn().Err(err).Str("identity", id).Msg(errmsg.FormatWith(errmsg.OpPrefetchStart, id, err))
		return
	}

	started.Inc()
	c.target = &Target{Identity: id, Path: path, Task: task}
	c.log.Debug().Str("identity", id).Str("task", task.ID).Str("path", path).Msg("prefetch started")
}

func (c *Coordinator) cancel(t *Target, reason string) {
	if t.Task == nil {
		return
	}
	c.downloader.Cancel(t.Task)
	cancelled.WithLabelValues(reason).Inc()
	c.log.Debug().Str("identity", t.Identity).Str("reason", reason).Msg("prefetch canceled")
}
