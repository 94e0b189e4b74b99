package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/inventory"
	"github.com/haimle/botshop/internal/domain/product"
)

// InventoryService manages the activation-code pool (admin surface) and the
// advisory stock check.
type InventoryService struct {
	products product.Repository
	codes    inventory.Repository
	logger   zerolog.Logger
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(products product.Repository, codes inventory.Repository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{products: products, codes: codes, logger: logger}
}

// Stock reports code availability for a product.
type Stock struct {
	Available bool
	// UnusedCodes is only meaningful for MULTIPLE-mode products.
	UnusedCodes int
}

// CheckStock reports availability. SINGLE mode is always available; MULTIPLE
// mode is available while unused codes remain. Advisory only.
func (s *InventoryService) CheckStock(ctx context.Context, productID uuid.UUID) (*Stock, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.CodeMode == product.CodeModeSingle {
		return &Stock{Available: true}, nil
	}
	n, err := s.codes.CountUnused(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &Stock{Available: n > 0, UnusedCodes: n}, nil
}

// AddCodes bulk-loads activation codes into a MULTIPLE-mode product's pool.
func (s *InventoryService) AddCodes(ctx context.Context, productID uuid.UUID, codes []string) (int, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p.CodeMode != product.CodeModeMultiple {
		return 0, domainErrors.NewDomainError(
			"single_mode_product",
			"SINGLE-mode products do not carry a code pool",
			domainErrors.ErrProductMisconfigured,
		)
	}

	n, err := s.codes.AddCodes(ctx, productID, codes)
	if err != nil {
		return 0, err
	}
	s.logger.Info().
		Str("product_id", productID.String()).
		Int("count", n).
		Msg("activation codes added")
	return n, nil
}
