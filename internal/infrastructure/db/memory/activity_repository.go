package memory

import (
	"context"
	"sync"

	"github.com/authgate/authgate/internal/core/domain"
)

type ActivityRepository struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Insert(_ context.Context, event *domain.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// Events returns a snapshot of the recorded trail.
func (r *ActivityRepository) Events() []domain.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityEvent, len(r.events))
	copy(out, r.events)
	return out
}
