package playback

import (
	"errors"
	"time"

	"github.com/llehouerou/streamq/internal/playlist"
)

// ErrEmptyQueue is returned by navigation on an empty queue.
var ErrEmptyQueue = errors.New("queue is empty")

// Service defines the playback service contract.
//
// All methods are serialized: queue notifications, prefetch decisions and
// player calls run one at a time on the caller's goroutine.
type Service interface {
	// Queue manipulation
	Load(item *playlist.Item)
	Add(items ...*playlist.Item)
	Insert(index int, items ...*playlist.Item) error
	Remove(index int) error
	Move(from, to int) error
	RemoveUpcoming()
	RemovePrevious()
	Clear()

	// Queue navigation
	JumpTo(index int) error
	Next() error
	Previous() error

	// Queue queries
	Current() *playlist.Item
	CurrentIndex() int
	Items() []*playlist.Item
	PreviousItems() []*playlist.Item
	NextItems() []*playlist.Item
	Len() int
	IsEmpty() bool

	// State queries
	State() State
	Position() time.Duration

	// Mode control
	RepeatMode() playlist.RepeatMode
	SetRepeatMode(mode playlist.RepeatMode)
	PrefetchEnabled() bool
	SetPrefetchEnabled(enabled bool)

	// Player feedback
	PlayerStateChanged(state State)
	TrackFinished()

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
