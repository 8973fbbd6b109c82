package main

import (
	"testing"

	"github.com/llehouerou/streamq/internal/playlist"
)

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		input   string
		want    playlist.RepeatMode
		wantErr bool
	}{
		{"", playlist.RepeatOff, false},
		{"off", playlist.RepeatOff, false},
		{"Track", playlist.RepeatTrack, false},
		{"queue", playlist.RepeatQueue, false},
		{"shuffle", playlist.RepeatOff, true},
	}
	for _, tt := range tests {
		got, err := parseRepeatMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRepeatMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseRepeatMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewItem(t *testing.T) {
	tests := []struct {
		src  string
		kind playlist.SourceKind
	}{
		{"https://example.com/a.mp3", playlist.SourceStream},
		{"http://example.com/b.flac", playlist.SourceStream},
		{"/music/c.flac", playlist.SourceFile},
	}
	for _, tt := range tests {
		item := newItem(tt.src)
		if item.Kind != tt.kind {
			t.Errorf("newItem(%q).Kind = %v, want %v", tt.src, item.Kind, tt.kind)
		}
		if item.Identity() != tt.src {
			t.Errorf("newItem(%q).Identity() = %q", tt.src, item.Identity())
		}
	}
}
