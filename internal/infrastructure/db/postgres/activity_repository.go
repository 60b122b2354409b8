package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/authgate/authgate/internal/core/domain"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, event *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	const query = `
		INSERT INTO auth_activity (type, username, success, reason, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query,
		string(event.Type), event.Username, event.Success, event.Reason, event.OccurredAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
