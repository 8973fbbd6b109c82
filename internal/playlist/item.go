package playlist

import "time"

// SourceKind tells whether an item streams from the network or plays a
// local file.
type SourceKind int

const (
	SourceStream SourceKind = iota
	SourceFile
)

// String returns the source kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceStream:
		return "stream"
	case SourceFile:
		return "file"
	default:
		return "unknown"
	}
}

// Item is a playable entry in the queue.
type Item struct {
	Source string // URL for streams, file path for local files
	Kind   SourceKind
	Artist string
	Title  string
	Album  string

	// Artwork loads cover art on demand. The queue never calls it.
	Artwork func() ([]byte, error)

	TrackID      string            // explicit identity, overrides Source when set
	FileType     string            // extension hint for the cache file ("flac", "mp3")
	BitrateKbps  int               // 0 if unknown
	Duration     time.Duration     // 0 if unknown
	AssetOptions map[string]string // passed through to the downloader
}

// Identity returns the key used to match prefetched downloads against queue
// items: the explicit track ID when present, otherwise the raw source.
func (it *Item) Identity() string {
	if it.TrackID != "" {
		return it.TrackID
	}
	return it.Source
}

// IsStream reports whether the item is fetched over the network.
func (it *Item) IsStream() bool {
	return it.Kind == SourceStream
}
