package memory

import (
	"context"
	"sync"

	"github.com/shoppulse/pipeline/repository"
)

type dedupRepository struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDedupRepository returns an in-memory DedupRepository. Entries never
// expire, which is fine for tests and short-lived simulator runs.
func NewDedupRepository() repository.DedupRepository {
	return &dedupRepository{seen: make(map[string]struct{})}
}

func (r *dedupRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[eventID]; ok {
		return false, nil
	}
	r.seen[eventID] = struct{}{}
	return true, nil
}

func (r *dedupRepository) Forget(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.seen, eventID)
	return nil
}
