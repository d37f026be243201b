// Package dedup tracks already-processed provider message ids so a
// redelivered webhook call cannot trigger a second reply or CRM sync.
package dedup

import "context"

// Deduplicator records message ids for the dedup window.
type Deduplicator interface {
	// ShouldProcess returns false when a live record exists for the id,
	// otherwise records it and returns true. Empty ids are always
	// processed: there is nothing to key the record on.
	ShouldProcess(ctx context.Context, messageID string) bool
}
