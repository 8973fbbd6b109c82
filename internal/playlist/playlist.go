package playlist

// Playlist holds an ordered collection of items.
type Playlist struct {
	items []*Item
}

// NewPlaylist creates a new empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{
		items: make([]*Item, 0),
	}
}

// Add appends items to the playlist.
func (p *Playlist) Add(items ...*Item) {
	p.items = append(p.items, items...)
}

// Insert inserts items before index. index may equal Len() to append.
// Returns false if index is out of bounds.
func (p *Playlist) Insert(index int, items ...*Item) bool {
	if index < 0 || index > len(p.items) {
		return false
	}
	if len(items) == 0 {
		return true
	}
	result := make([]*Item, 0, len(p.items)+len(items))
	result = append(result, p.items[:index]...)
	result = append(result, items...)
	result = append(result, p.items[index:]...)
	p.items = result
	return true
}

// Remove removes the item at the given index.
// Returns false if index is out of bounds.
func (p *Playlist) Remove(index int) bool {
	if index < 0 || index >= len(p.items) {
		return false
	}
	last := len(p.items) - 1
	copy(p.items[index:], p.items[index+1:])
	p.items[last] = nil
	p.items = p.items[:last]
	return true
}

// Truncate keeps the first n items.
func (p *Playlist) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(p.items) {
		return
	}
	clear(p.items[n:])
	p.items = p.items[:n]
}

// DropFront removes the first n items.
func (p *Playlist) DropFront(n int) {
	if n <= 0 {
		return
	}
	if n >= len(p.items) {
		p.Clear()
		return
	}
	kept := copy(p.items, p.items[n:])
	clear(p.items[kept:])
	p.items = p.items[:kept]
}

// Clear removes all items from the playlist.
func (p *Playlist) Clear() {
	clear(p.items)
	p.items = p.items[:0]
}

// Items returns a copy of the item list. The items themselves are shared.
func (p *Playlist) Items() []*Item {
	result := make([]*Item, len(p.items))
	copy(result, p.items)
	return result
}

// Slice returns a copy of items[from:to].
func (p *Playlist) Slice(from, to int) []*Item {
	from = max(from, 0)
	to = min(to, len(p.items))
	if from >= to {
		return []*Item{}
	}
	result := make([]*Item, to-from)
	copy(result, p.items[from:to])
	return result
}

// Item returns the item at the given index, or nil if out of bounds.
func (p *Playlist) Item(index int) *Item {
	if index < 0 || index >= len(p.items) {
		return nil
	}
	return p.items[index]
}

// Len returns the number of items.
func (p *Playlist) Len() int {
	return len(p.items)
}

// Move moves the item at fromIndex to toIndex.
// Returns false if either index is out of bounds.
func (p *Playlist) Move(fromIndex, toIndex int) bool {
	if fromIndex < 0 || fromIndex >= len(p.items) {
		return false
	}
	if toIndex < 0 || toIndex >= len(p.items) {
		return false
	}
	if fromIndex == toIndex {
		return true
	}

	item := p.items[fromIndex]
	// Remove from old position
	p.items = append(p.items[:fromIndex], p.items[fromIndex+1:]...)
	// Insert at new position
	p.items = append(p.items[:toIndex], append([]*Item{item}, p.items[toIndex:]...)...)
	return true
}
