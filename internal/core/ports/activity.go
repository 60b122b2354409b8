package ports

import (
	"context"

	"github.com/authgate/authgate/internal/core/domain"
)

// ActivityRepository appends entries to the authentication audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
}

// ActivityService persists a single audit event.
type ActivityService interface {
	Process(ctx context.Context, event domain.ActivityEvent) error
}
