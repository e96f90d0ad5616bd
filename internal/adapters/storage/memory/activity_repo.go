package memory

import (
	"context"
	"sync"

	"pawsera/internal/domain/activity"
)

// activityRepo es append-only: un slice alcanza.
type activityRepo struct {
	mu      sync.RWMutex
	entries []activity.Entry
}

func NewActivityRepo() activity.Repository {
	return &activityRepo{}
}

func (r *activityRepo) Append(ctx context.Context, e activity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]activity.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activity.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
