//nolint:goconst // test file with repeated string literals
package playlist

import "testing"

func item(src string) *Item {
	return &Item{Source: src, Kind: SourceStream}
}

func sources(items []*Item) []string {
	result := make([]string, len(items))
	for i, it := range items {
		result[i] = it.Source
	}
	return result
}

func equalSources(t *testing.T, got []*Item, want ...string) {
	t.Helper()
	gotSrc := sources(got)
	if len(gotSrc) != len(want) {
		t.Fatalf("items = %v, want %v", gotSrc, want)
	}
	for i := range want {
		if gotSrc[i] != want[i] {
			t.Fatalf("items = %v, want %v", gotSrc, want)
		}
	}
}

func TestNewPlaylist(t *testing.T) {
	p := NewPlaylist()

	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
	if p.Items() == nil {
		t.Error("Items() should return empty slice, not nil")
	}
}

func TestPlaylist_Add(t *testing.T) {
	p := NewPlaylist()

	p.Add(item("a"), item("b"))

	equalSources(t, p.Items(), "a", "b")
}

func TestPlaylist_Add_Empty(t *testing.T) {
	p := NewPlaylist()

	p.Add() // Add nothing

	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
}

func TestPlaylist_Insert(t *testing.T) {
	tests := []struct {
		name  string
		index int
		ok    bool
		want  []string
	}{
		{"front", 0, true, []string{"x", "y", "a", "b", "c"}},
		{"middle", 1, true, []string{"a", "x", "y", "b", "c"}},
		{"end", 3, true, []string{"a", "b", "c", "x", "y"}},
		{"negative", -1, false, []string{"a", "b", "c"}},
		{"past end", 4, false, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlaylist()
			p.Add(item("a"), item("b"), item("c"))

			ok := p.Insert(tt.index, item("x"), item("y"))

			if ok != tt.ok {
				t.Errorf("Insert(%d) = %v, want %v", tt.index, ok, tt.ok)
			}
			equalSources(t, p.Items(), tt.want...)
		})
	}
}

func TestPlaylist_Remove(t *testing.T) {
	p := NewPlaylist()
	p.Add(item("a"), item("b"), item("c"))

	ok := p.Remove(1)

	if !ok {
		t.Error("Remove should return true")
	}
	equalSources(t, p.Items(), "a", "c")
}

func TestPlaylist_RemoveReleasesVacatedSlots(t *testing.T) {
	p := NewPlaylist()
	p.Add(item("a"), item("b"), item("c"), item("d"))

	p.Remove(1)
	if tail := p.items[:cap(p.items)][p.Len()]; tail != nil {
		t.Errorf("slot after Remove = %v, want nil", tail)
	}

	p.DropFront(2)
	equalSources(t, p.Items(), "d")
	for i, it := range p.items[p.Len():3] {
		if it != nil {
			t.Errorf("slot %d after DropFront = %v, want nil", p.Len()+i, it)
		}
	}
}

func TestPlaylist_Remove_OutOfBounds(t *testing.T) {
	p := NewPlaylist()
	p.Add(item("a"))

	if p.Remove(-1) {
		t.Error("Remove(-1) should return false")
	}
	if p.Remove(1) {
		t.Error("Remove(1) should return false")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestPlaylist_Truncate(t *testing.T) {
	p := NewPlaylist()
	p.Add(item("a"), item("b"), item("c"))

	p.Truncate(5)
	equalSources(t, p.Items(), "a", "b", "c")

	p.Truncate(1)
	equalSources(t, p.Items(), "a")

	p.Truncate(-3)
	equalSources(t, p.Items())
}

func TestPlaylist_DropFront(t *testing.T) {
	p := NewPlaylist()
	p.Add(item("a"), item("b"), item("c"))

	p.DropFront(2)
	equalSources(t, p.Items(), "c")

	p.DropFront(10)
	equalSources(t, p.Items())
}

func TestPlaylist_Slice(t *testing.T) {
	p := NewPlaylist()
	p.Add(item("a"), item("b"), item("c"))

	equalSources(t, p.Slice(0, 2), "a", "b")
	equalSources(t, p.Slice(-1, 1), "a")
	equalSources(t, p.Slice(2, 9), "c")
	equalSources(t, p.Slice(3, 3))
}

func TestPlaylist_Items_ReturnsCopy(t *testing.T) {
	p := NewPlaylist()
	p.Add(item("a"))

	items := p.Items()
	items[0] = item("modified")

	if p.Item(0).Source != "a" {
		t.Error("modifying returned slice should not affect playlist")
	}
}

func TestPlaylist_Item(t *testing.T) {
	p := NewPlaylist()
	p.Add(item("a"))

	if got := p.Item(0); got == nil || got.Source != "a" {
		t.Errorf("Item(0) = %v, want a", got)
	}
	if p.Item(1) != nil {
		t.Error("Item(1) should be nil")
	}
	if p.Item(-1) != nil {
		t.Error("Item(-1) should be nil")
	}
}

func TestPlaylist_Move(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		ok   bool
		want []string
	}{
		{"forward", 0, 2, true, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, true, []string{"a", "d", "b", "c"}},
		{"same", 1, 1, true, []string{"a", "b", "c", "d"}},
		{"bad from", 4, 0, false, []string{"a", "b", "c", "d"}},
		{"bad to", 0, -1, false, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlaylist()
			p.Add(item("a"), item("b"), item("c"), item("d"))

			ok := p.Move(tt.from, tt.to)

			if ok != tt.ok {
				t.Errorf("Move(%d, %d) = %v, want %v", tt.from, tt.to, ok, tt.ok)
			}
			equalSources(t, p.Items(), tt.want...)
		})
	}
}

func TestItem_Identity(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{"track id wins", Item{Source: "https://x/a.mp3", TrackID: "t-1"}, "t-1"},
		{"source verbatim", Item{Source: "https://x/a.mp3?token=1"}, "https://x/a.mp3?token=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Identity(); got != tt.want {
				t.Errorf("Identity() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceKind_String(t *testing.T) {
	tests := []struct {
		kind SourceKind
		want string
	}{
		{SourceStream, "stream"},
		{SourceFile, "file"},
		{SourceKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
