package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for order persistence
type Repository interface {
	// Create creates a new order
	Create(ctx context.Context, o *Order) error

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListByUser lists a buyer's orders, newest first
	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	// List lists orders with filters (admin surface)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)

	// Transition conditionally moves an order from one status to another in a
	// single statement, recording the processor transaction id when given.
	// Fails with ErrInvalidStateTransition if the order is no longer in the
	// expected status, ErrOrderNotFound if it does not exist.
	Transition(ctx context.Context, id uuid.UUID, from, to Status, transactionID *string) error

	// SetFulfillment writes the assigned link and activation code
	SetFulfillment(ctx context.Context, id uuid.UUID, link, code string) error
}

// ListFilter defines filters for listing orders
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}
