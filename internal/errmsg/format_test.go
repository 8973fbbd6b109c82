//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpQueueInsert,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpQueueInsert,
			err:      errors.New("invalid index"),
			expected: "Failed to insert into queue: invalid index",
		},
		{
			name:     "cache operation",
			op:       OpCacheOpen,
			err:      errors.New("permission denied"),
			expected: "Failed to open cache: permission denied",
		},
		{
			name:     "download operation",
			op:       OpDownloadFetch,
			err:      errors.New("network error"),
			expected: "Failed to download track: network error",
		},
		{
			name:     "prefetch operation",
			op:       OpPrefetchStart,
			err:      errors.New("empty url"),
			expected: "Failed to start prefetch: empty url",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpCacheWrite,
			context:  "song.mp3",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpCacheWrite,
			context:  "song.mp3",
			err:      errors.New("permission denied"),
			expected: "Failed to write cache file 'song.mp3': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpCacheWrite,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to write cache file: permission denied",
		},
		{
			name:     "download with identity context",
			op:       OpDownloadFetch,
			context:  "track-42",
			err:      errors.New("unexpected status 404"),
			expected: "Failed to download track 'track-42': unexpected status 404",
		},
		{
			name:     "config with path context",
			op:       OpConfigLoad,
			context:  "/home/user/.config/streamq/config.toml",
			err:      errors.New("parse error"),
			expected: "Failed to load config '/home/user/.config/streamq/config.toml': parse error",
		},
		{
			name:     "prefetch with identity context",
			op:       OpPrefetchStart,
			context:  "track-7",
			err:      errors.New("empty destination"),
			expected: "Failed to start prefetch 'track-7': empty destination",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpQueueInsert, OpQueueRemove, OpQueueMove, OpQueueJump,
		OpCacheOpen, OpCacheWrite,
		OpDownloadStart, OpDownloadFetch,
		OpPrefetchStart, OpPrefetchHandoff,
		OpPlaybackStart, OpPlaybackReplay,
		OpConfigLoad,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			result := Format(op, testErr)
			if result == "" {
				t.Error("Format should return non-empty string for non-nil error")
			}

			// Verify the format includes the operation
			expected := "Failed to " + string(op) + ": test error"
			if result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
