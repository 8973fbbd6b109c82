// internal/playback/state.go
package playback

// State represents the playback state reported by the player.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
	StateEnded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// EndReason tells why playback stopped on its own.
type EndReason int

const (
	// EndQueueFinished means the last item finished with repeat off.
	EndQueueFinished EndReason = iota
	// EndCleared means the queue was cleared.
	EndCleared
)

// String returns the reason name.
func (r EndReason) String() string {
	switch r {
	case EndQueueFinished:
		return "QueueFinished"
	case EndCleared:
		return "Cleared"
	default:
		return "Unknown"
	}
}
