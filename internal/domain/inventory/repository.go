package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines access to the activation-code pool.
type Repository interface {
	// Claim atomically marks one unused code of the product as used by the
	// given order and returns it. The update is a single conditional write:
	// it succeeds only if the chosen row is still unused at write time, so two
	// concurrent claims can never take the same code. Selection among unused
	// rows is arbitrary. Fails with ErrOutOfStock when no unused code remains.
	Claim(ctx context.Context, productID, orderID uuid.UUID) (*ActivationCode, error)

	// CountUnused reports how many codes remain for a product. Advisory only,
	// never a reservation.
	CountUnused(ctx context.Context, productID uuid.UUID) (int, error)

	// AddCodes bulk-inserts new unused codes for a product
	AddCodes(ctx context.Context, productID uuid.UUID, codes []string) (int, error)
}
