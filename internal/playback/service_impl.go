// internal/playback/service_impl.go
package playback

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/streamq/internal/download"
	"github.com/llehouerou/streamq/internal/errmsg"
	"github.com/llehouerou/streamq/internal/playlist"
	"github.com/llehouerou/streamq/internal/prefetch"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	player     Player
	queue      *playlist.Queue
	prefetch   *prefetch.Coordinator
	downloader download.Downloader
	log        zerolog.Logger

	// loaded is the handed-off task the player reads from, nil if none.
	loaded *download.Task

	state     State
	repeat    playlist.RepeatMode
	lastItem  *playlist.Item
	lastIndex int

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// Option configures the service.
type Option func(*serviceImpl)

// WithLogger sets the logger of the service and its prefetch coordinator.
func WithLogger(l zerolog.Logger) Option {
	return func(s *serviceImpl) { s.log = l }
}

// WithRepeatMode sets the initial repeat mode.
func WithRepeatMode(mode playlist.RepeatMode) Option {
	return func(s *serviceImpl) { s.repeat = mode }
}

// WithPrefetch sets whether the next track is prefetched. Default on.
func WithPrefetch(enabled bool) Option {
	return func(s *serviceImpl) { s.prefetch.SetEnabled(enabled) }
}

// New creates a playback service driving p. Upcoming stream items are
// prefetched through d into files resolved by store.
func New(p Player, store prefetch.PathResolver, d download.Downloader, opts ...Option) Service {
	s := &serviceImpl{
		player:     p,
		queue:      playlist.NewQueue(),
		downloader: d,
		log:        zerolog.Nop(),
		lastIndex:  -1,
		done:       make(chan struct{}),
	}
	s.prefetch = prefetch.New(s.queue, store, d,
		prefetch.WithEnabled(true),
		prefetch.WithRepeatMode(func() playlist.RepeatMode { return s.repeat }),
	)
	for _, opt := range opts {
		opt(s)
	}
	s.prefetch.SetLogger(s.log.With().Str("component", "prefetch").Logger())
	s.queue.SetDelegate(queueEvents{s})
	return s
}

// Load replaces the queue with item.
func (s *serviceImpl) Load(item *playlist.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.ReplaceCurrent(item)
}

// Add appends items. The first item added to an empty queue becomes current.
func (s *serviceImpl) Add(items ...*playlist.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Add(items...)
}

// Insert inserts items before index.
func (s *serviceImpl) Insert(index int, items ...*playlist.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queueErr(errmsg.OpQueueInsert, s.queue.Insert(index, items...))
}

// Remove removes the item at index.
func (s *serviceImpl) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queueErr(errmsg.OpQueueRemove, s.queue.RemoveItem(index))
}

// Move moves the item at from to to.
func (s *serviceImpl) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queueErr(errmsg.OpQueueMove, s.queue.MoveItem(from, to))
}

// RemoveUpcoming removes every item after the current one.
func (s *serviceImpl) RemoveUpcoming() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.RemoveUpcomingItems()
}

// RemovePrevious removes every item before the current one.
func (s *serviceImpl) RemovePrevious() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.RemovePreviousItems()
}

// Clear empties the queue and unloads the player.
func (s *serviceImpl) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasActive := s.state.IsActive()
	s.queue.Clear()
	if wasActive {
		s.emitEnd(PlaybackEnd{Reason: EndCleared})
	}
}

// JumpTo makes the item at index current.
func (s *serviceImpl) JumpTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Jump(index)
}

// Next moves to the next item, wrapping in RepeatQueue.
func (s *serviceImpl) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.IsEmpty() {
		return ErrEmptyQueue
	}
	s.queue.Next(s.repeat == playlist.RepeatQueue)
	return nil
}

// Previous moves to the previous item, wrapping in RepeatQueue.
func (s *serviceImpl) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.IsEmpty() {
		return ErrEmptyQueue
	}
	s.queue.Previous(s.repeat == playlist.RepeatQueue)
	return nil
}

// Current returns the current item, or nil if none.
func (s *serviceImpl) Current() *playlist.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Current()
}

// CurrentIndex returns the current queue index (-1 if none).
func (s *serviceImpl) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

// Items returns a copy of the queue.
func (s *serviceImpl) Items() []*playlist.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Items()
}

// PreviousItems returns the items before the current one.
func (s *serviceImpl) PreviousItems() []*playlist.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.PreviousItems()
}

// NextItems returns the items after the current one.
func (s *serviceImpl) NextItems() []*playlist.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.NextItems()
}

// Len returns the number of queued items.
func (s *serviceImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// IsEmpty reports whether the queue is empty.
func (s *serviceImpl) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.IsEmpty()
}

// State returns the last state reported by the player.
func (s *serviceImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position returns the current playback position.
func (s *serviceImpl) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Position()
}

// RepeatMode returns the current repeat mode.
func (s *serviceImpl) RepeatMode() playlist.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repeat
}

// SetRepeatMode sets the repeat mode.
func (s *serviceImpl) SetRepeatMode(mode playlist.RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repeat == mode {
		return
	}
	s.repeat = mode
	s.emitMode()
}

// PrefetchEnabled reports whether the next track is prefetched.
func (s *serviceImpl) PrefetchEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefetch.Enabled()
}

// SetPrefetchEnabled turns prefetching on or off.
func (s *serviceImpl) SetPrefetchEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prefetch.Enabled() == enabled {
		return
	}
	s.prefetch.SetEnabled(enabled)
	s.emitMode()
}

// PlayerStateChanged records a state reported by the player.
func (s *serviceImpl) PlayerStateChanged(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStateLocked(state)
}

// TrackFinished advances after the loaded item played to the end.
func (s *serviceImpl) TrackFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.IsEmpty() {
		return
	}

	switch {
	case s.repeat == playlist.RepeatTrack,
		s.repeat == playlist.RepeatQueue && s.queue.Len() == 1:
		s.replayLocked()
	case s.repeat == playlist.RepeatQueue:
		s.queue.Next(true)
	case s.queue.HasNext():
		s.queue.Next(false)
	default:
		s.setStateLocked(StateEnded)
		s.emitEnd(PlaybackEnd{Reason: EndQueueFinished})
	}
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close cancels any prefetch and shuts down the service.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.releaseLoadedLocked()
	s.prefetch.Reset()
	close(s.done)
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return nil
}

func (s *serviceImpl) setStateLocked(state State) {
	if s.state == state {
		return
	}
	prev := s.state
	s.state = state
	s.emitState(StateChange{Previous: prev, Current: state})
	s.prefetch.SetPlaybackState(state.IsActive(), state == StatePlaying)
}

// queueErr logs a rejected queue edit and returns err.
func (s *serviceImpl) queueErr(op errmsg.Op, err error) error {
	if err != nil {
		s.log.Debug().Err(err).Msg(errmsg.Format(op, err))
	}
	return err
}

func (s *serviceImpl) releaseLoadedLocked() {
	if s.loaded == nil {
		return
	}
	if !s.loaded.Finished() {
		s.downloader.Cancel(s.loaded)
	}
	s.loaded = nil
}

func (s *serviceImpl) replayLocked() {
	if err := s.player.Replay(); err != nil {
		s.reportLocked(errmsg.OpPlaybackReplay, s.queue.Current(), err)
	}
}

func (s *serviceImpl) reportLocked(op errmsg.Op, item *playlist.Item, err error) {
	var source string
	if item != nil {
		source = item.Source
	}
	s.log.Warn().Err(err).Str("source", source).Msg(errmsg.Format(op, err))
	s.emitError(ErrorEvent{Operation: op, Source: source, Err: err})
}

// Queue notifications. They run inside the queue operation that caused
// them, with s.mu held.

func (s *serviceImpl) onCurrentItemChanged() {
	item := s.queue.Current()
	index := s.queue.CurrentIndex()
	position := s.player.Position()

	// The old hand-off must stop before the coordinator can start another
	// task on the same path.
	s.releaseLoadedLocked()
	handoff := s.prefetch.CurrentItemChanged()

	if item == nil {
		s.player.Clear()
	} else if err := s.player.Load(item, handoff); err != nil {
		s.reportLocked(errmsg.OpPlaybackStart, item, err)
		if handoff != nil {
			s.downloader.Cancel(handoff.Task)
		}
	} else if handoff != nil {
		s.loaded = handoff.Task
	}

	s.emitTrack(TrackChange{
		Item:             item,
		Index:            index,
		Previous:         s.lastItem,
		PreviousIndex:    s.lastIndex,
		PreviousPosition: position,
		Handoff:          handoff,
	})
	s.lastItem = item
	s.lastIndex = index
}

func (s *serviceImpl) onSkippedToSameCurrentItem() {
	if s.state.IsActive() {
		s.replayLocked()
	}
}

func (s *serviceImpl) onReceivedFirstItem() {
	if err := s.queue.Jump(0); err != nil {
		s.log.Error().Err(err).Msg(errmsg.Format(errmsg.OpQueueJump, err))
	}
}

// queueEvents forwards queue notifications to the service.
type queueEvents struct {
	s *serviceImpl
}

func (e queueEvents) CurrentItemChanged()       { e.s.onCurrentItemChanged() }
func (e queueEvents) SkippedToSameCurrentItem() { e.s.onSkippedToSameCurrentItem() }
func (e queueEvents) ReceivedFirstItem()        { e.s.onReceivedFirstItem() }

func (s *serviceImpl) emitState(e StateChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(e)
	}
}

func (s *serviceImpl) emitTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *serviceImpl) emitMode() {
	e := ModeChange{RepeatMode: s.repeat, Prefetch: s.prefetch.Enabled()}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(e)
	}
}

func (s *serviceImpl) emitEnd(e PlaybackEnd) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendEnd(e)
	}
}

func (s *serviceImpl) emitError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
