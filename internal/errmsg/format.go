// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Queue operations
	OpQueueInsert Op = "insert into queue"
	OpQueueRemove Op = "remove from queue"
	OpQueueMove   Op = "move queue item"
	OpQueueJump   Op = "jump to queue item"

	// Cache operations
	OpCacheOpen  Op = "open cache"
	OpCacheWrite Op = "write cache file"

	// Download operations
	OpDownloadStart Op = "start download"
	OpDownloadFetch Op = "download track"

	// Prefetch operations
	OpPrefetchStart   Op = "start prefetch"
	OpPrefetchHandoff Op = "hand off prefetch"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackReplay Op = "replay track"

	// Configuration
	OpConfigLoad Op = "load config"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
