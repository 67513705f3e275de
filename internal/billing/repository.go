package billing

import (
	"context"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub001/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Processed(ctx context.Context, provider, eventID string) (bool, error) {
	seen, err := db.Exists(ctx, r.db, `
		SELECT EXISTS(SELECT 1 FROM webhook_events WHERE provider = $1 AND event_id = $2)`,
		provider, eventID)
	if err != nil {
		return false, fmt.Errorf("check webhook event: %w", err)
	}
	return seen, nil
}

func (r *repository) MarkProcessed(ctx context.Context, provider, eventID, eventType string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO webhook_events (provider, event_id, event_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider, event_id) DO NOTHING`, provider, eventID, eventType)
	if err != nil {
		return fmt.Errorf("record webhook event: %w", err)
	}
	return nil
}
