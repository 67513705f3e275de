package billing

import "context"

// Repository is the ledger of provider events already applied.
type Repository interface {
	Processed(ctx context.Context, provider, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, provider, eventID, eventType string) error
}
