package repository

import "context"

// DedupRepository remembers processed event IDs so transport redelivery does
// not double-count merges. MarkProcessed returns true the first time an ID is
// seen; Forget releases an ID whose processing failed so the redelivered copy
// is not dropped as a duplicate. Best-effort: callers fall back to
// at-least-once semantics when the backing store is unavailable.
type DedupRepository interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}
