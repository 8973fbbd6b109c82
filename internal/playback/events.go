package playback

import (
	"time"

	"github.com/llehouerou/streamq/internal/errmsg"
	"github.com/llehouerou/streamq/internal/playlist"
	"github.com/llehouerou/streamq/internal/prefetch"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted whenever the queue's current item changes identity.
//
// Emitted by:
//   - Load/JumpTo/Next/Previous: when the cursor lands on a different item
//   - Remove/Clear: when the current item goes away
//   - TrackFinished: when a track ends and the queue advances
//
// NOT emitted by:
//   - Move: the cursor follows the moved item, so the current item is unchanged
//   - Next/Previous on a single-item queue: the player replays instead
//
// Index and PreviousIndex are -1 when there is no item. Handoff is set when
// a prefetched download of Item is available.
type TrackChange struct {
	Item             *playlist.Item
	Index            int
	Previous         *playlist.Item
	PreviousIndex    int
	PreviousPosition time.Duration
	Handoff          *prefetch.Handoff
}

// ModeChange is emitted when the repeat mode or prefetching changes.
type ModeChange struct {
	RepeatMode playlist.RepeatMode
	Prefetch   bool
}

// PlaybackEnd is emitted when playback stops on its own.
type PlaybackEnd struct {
	Reason EndReason
}

// ErrorEvent is emitted when the player rejects an operation.
type ErrorEvent struct {
	Operation errmsg.Op
	Source    string // item source if applicable
	Err       error
}
