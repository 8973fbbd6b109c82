package playlist

import (
	"errors"
	"fmt"
)

// ErrInvalidIndex is returned by queue mutations that reference an index
// outside the current bounds.
var ErrInvalidIndex = errors.New("invalid queue index")

func invalidIndex(index, length int) error {
	return fmt.Errorf("%w: %d (len %d)", ErrInvalidIndex, index, length)
}

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatTrack
	RepeatQueue
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatTrack:
		return "Track"
	case RepeatQueue:
		return "Queue"
	default:
		return "Unknown"
	}
}

// Delegate receives cursor notifications. Methods are called synchronously
// once the mutation that caused them has completed, so implementations may
// call back into the queue.
type Delegate interface {
	// CurrentItemChanged fires when the resolved current item differs from
	// the one before the operation, including to or from no item. Jump
	// always fires it.
	CurrentItemChanged()
	// SkippedToSameCurrentItem fires instead of CurrentItemChanged when a
	// wrapping Next/Previous lands on the only item of the queue.
	SkippedToSameCurrentItem()
	// ReceivedFirstItem fires after items are added to an empty queue.
	ReceivedFirstItem()
}

// Queue wraps a Playlist with a cursor.
// It is not safe for concurrent use; callers serialize access.
type Queue struct {
	playlist     *Playlist
	currentIndex int // -1 if nothing current
	delegate     Delegate
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
	}
}

// SetDelegate installs the notification receiver. nil disables notifications.
func (q *Queue) SetDelegate(d Delegate) {
	q.delegate = d
}

// Current returns the current item, or nil if none.
func (q *Queue) Current() *Item {
	return q.playlist.Item(q.currentIndex)
}

// CurrentIndex returns the index of the current item (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// Items returns all items in the queue.
func (q *Queue) Items() []*Item {
	return q.playlist.Items()
}

// Item returns the item at index, or nil if out of bounds.
func (q *Queue) Item(index int) *Item {
	return q.playlist.Item(index)
}

// PreviousItems returns the items before the cursor.
func (q *Queue) PreviousItems() []*Item {
	return q.playlist.Slice(0, q.currentIndex)
}

// NextItems returns the items after the cursor.
func (q *Queue) NextItems() []*Item {
	return q.playlist.Slice(q.currentIndex+1, q.playlist.Len())
}

// Len returns the number of items in the queue.
func (q *Queue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no items.
func (q *Queue) IsEmpty() bool {
	return q.playlist.Len() == 0
}

// HasNext returns true if there's an item after the current one.
func (q *Queue) HasNext() bool {
	return q.currentIndex < q.playlist.Len()-1
}

// Lookahead returns the item that plays after the current one: the first
// upcoming item, or the first item of the queue when repeating the whole
// queue. Returns nil if there is none.
func (q *Queue) Lookahead(mode RepeatMode) *Item {
	if next := q.playlist.Item(q.currentIndex + 1); next != nil {
		return next
	}
	if mode == RepeatQueue {
		return q.playlist.Item(0)
	}
	return nil
}

// ReplaceCurrent clears the queue and makes item its only, current entry.
func (q *Queue) ReplaceCurrent(item *Item) {
	if item == nil {
		return
	}
	prev := q.Current()
	q.playlist.Clear()
	q.playlist.Add(item)
	q.currentIndex = 0
	q.notifyIfChanged(prev)
}

// Add appends items without moving the cursor.
func (q *Queue) Add(items ...*Item) {
	if len(items) == 0 {
		return
	}
	wasEmpty := q.IsEmpty()
	q.playlist.Add(items...)
	if wasEmpty {
		q.fireReceivedFirstItem()
	}
}

// Insert inserts items before index (index == Len appends). The cursor keeps
// pointing at the same item.
func (q *Queue) Insert(index int, items ...*Item) error {
	if index < 0 || index > q.playlist.Len() {
		return invalidIndex(index, q.playlist.Len())
	}
	if len(items) == 0 {
		return nil
	}
	wasEmpty := q.IsEmpty()
	q.playlist.Insert(index, items...)
	if q.currentIndex >= 0 && index <= q.currentIndex {
		q.currentIndex += len(items)
	}
	if wasEmpty {
		q.fireReceivedFirstItem()
	}
	return nil
}

// RemoveItem removes the item at index.
// Removing the current item leaves the cursor on the item that shifted into
// its slot, or on the new last item when the removed one was last.
func (q *Queue) RemoveItem(index int) error {
	prev := q.Current()
	if !q.playlist.Remove(index) {
		return invalidIndex(index, q.playlist.Len())
	}

	// Adjust current index after removal
	if q.currentIndex > index {
		q.currentIndex--
	} else if q.currentIndex == index {
		// If we're past the end, clamp
		if q.currentIndex >= q.playlist.Len() {
			q.currentIndex = q.playlist.Len() - 1
		}
	}

	q.notifyIfChanged(prev)
	return nil
}

// MoveItem moves the item at fromIndex to toIndex. The cursor follows the
// item it pointed at, so no notification fires.
func (q *Queue) MoveItem(fromIndex, toIndex int) error {
	n := q.playlist.Len()
	if fromIndex < 0 || fromIndex >= n {
		return invalidIndex(fromIndex, n)
	}
	if toIndex < 0 || toIndex >= n {
		return invalidIndex(toIndex, n)
	}
	q.playlist.Move(fromIndex, toIndex)

	cur := q.currentIndex
	switch {
	case cur < 0:
	case fromIndex == cur:
		q.currentIndex = toIndex
	case fromIndex < cur && toIndex >= cur:
		q.currentIndex--
	case fromIndex > cur && toIndex <= cur:
		q.currentIndex++
	}
	return nil
}

// Next moves the cursor forward. At the end it wraps to 0 when wrap is set.
// Returns false if the cursor did not move.
func (q *Queue) Next(wrap bool) bool {
	return q.step(1, wrap)
}

// Previous moves the cursor backward. At the start it wraps to the last
// index when wrap is set. Returns false if the cursor did not move.
func (q *Queue) Previous(wrap bool) bool {
	return q.step(-1, wrap)
}

func (q *Queue) step(direction int, wrap bool) bool {
	n := q.playlist.Len()
	if n == 0 {
		return false
	}

	if n == 1 && q.currentIndex == 0 {
		if wrap && q.delegate != nil {
			q.delegate.SkippedToSameCurrentItem()
		}
		return false
	}

	target := q.currentIndex + direction
	if q.currentIndex < 0 {
		// Nothing current yet
		switch {
		case direction > 0:
			target = 0
		case wrap:
			target = n - 1
		default:
			return false
		}
	}
	if target < 0 || target >= n {
		if !wrap {
			return false
		}
		target = (target + n) % n
	}

	prev := q.Current()
	q.currentIndex = target
	q.notifyIfChanged(prev)
	return true
}

// Jump sets the cursor to index. It always notifies, even when index is
// already current, so callers can force a reload.
func (q *Queue) Jump(index int) error {
	if index < 0 || index >= q.playlist.Len() {
		return invalidIndex(index, q.playlist.Len())
	}
	q.currentIndex = index
	q.fireCurrentItemChanged()
	return nil
}

// RemoveUpcomingItems drops every item after the cursor.
func (q *Queue) RemoveUpcomingItems() {
	q.playlist.Truncate(q.currentIndex + 1)
}

// RemovePreviousItems drops every item before the cursor.
func (q *Queue) RemovePreviousItems() {
	if q.currentIndex <= 0 {
		return
	}
	q.playlist.DropFront(q.currentIndex)
	q.currentIndex = 0
}

// Clear removes all items and resets the cursor.
func (q *Queue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
	q.fireCurrentItemChanged()
}

func (q *Queue) notifyIfChanged(prev *Item) {
	if q.Current() != prev {
		q.fireCurrentItemChanged()
	}
}

func (q *Queue) fireCurrentItemChanged() {
	if q.delegate != nil {
		q.delegate.CurrentItemChanged()
	}
}

func (q *Queue) fireReceivedFirstItem() {
	if q.delegate != nil {
		q.delegate.ReceivedFirstItem()
	}
}
