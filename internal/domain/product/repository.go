package product

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines read access to the product catalog.
type Repository interface {
	// GetByID retrieves a product regardless of its active flag
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetActive retrieves a product that is available for purchase.
	// Fails with ErrProductNotFound for missing or inactive products.
	GetActive(ctx context.Context, id uuid.UUID) (*Product, error)

	// ListActive lists products available on the storefront
	ListActive(ctx context.Context) ([]*Product, error)
}
