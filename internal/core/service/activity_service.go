package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService that appends to repo.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *activityService) Process(ctx context.Context, event domain.ActivityEvent) error {
	if event.Type == "" || event.Username == "" {
		return fmt.Errorf("process activity: %w: missing type or username", domain.ErrInvalidInput)
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("process activity: %w", err)
	}

	s.log.Debug().
		Str("type", string(event.Type)).
		Str("username", event.Username).
		Bool("success", event.Success).
		Msg("activity recorded")
	return nil
}
