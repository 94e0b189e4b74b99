package paymentlog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the append-only payment log.
type Repository interface {
	// Insert appends an entry. Fails with ErrDuplicateTransaction when an
	// entry for the same transaction id already exists.
	Insert(ctx context.Context, e *Entry) error

	// GetByTransactionID retrieves the entry for a processor transaction id.
	// Returns (nil, nil) when no entry exists.
	GetByTransactionID(ctx context.Context, transactionID string) (*Entry, error)

	// ListByOrder retrieves all entries recorded for an order, oldest first
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Entry, error)
}
