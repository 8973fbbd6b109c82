package playback

import (
	"time"

	"github.com/llehouerou/streamq/internal/playlist"
	"github.com/llehouerou/streamq/internal/prefetch"
)

// Player is the audio output driven by the service. Implementations report
// their state back through Service.PlayerStateChanged and the end of a track
// through Service.TrackFinished, from any goroutine.
type Player interface {
	// Load starts item. When h is non-nil the player should read the
	// prefetched cache file (see download.NewReader) instead of opening the
	// network source.
	Load(item *playlist.Item, h *prefetch.Handoff) error
	// Replay restarts the loaded item from the beginning.
	Replay() error
	// Clear unloads the current item.
	Clear()
	// Position returns the position in the loaded item.
	Position() time.Duration
}
