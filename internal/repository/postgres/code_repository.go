package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/inventory"
)

// CodeRepository implements inventory.Repository using PostgreSQL.
type CodeRepository struct {
	pool *pgxpool.Pool
}

// NewCodeRepository creates a new CodeRepository.
func NewCodeRepository(pool *pgxpool.Pool) *CodeRepository {
	return &CodeRepository{pool: pool}
}

func (r *CodeRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Claim marks one unused code as used by the order, in a single conditional
// statement. SKIP LOCKED makes concurrent claims pick different rows instead
// of queueing on the same one; the outer is_used guard rejects a row flipped
// between subquery and update. Zero rows affected means the pool is exhausted
// (or every remaining row lost a race), which surfaces as ErrOutOfStock with
// no partial mutation.
func (r *CodeRepository) Claim(ctx context.Context, productID, orderID uuid.UUID) (*inventory.ActivationCode, error) {
	c := &inventory.ActivationCode{}
	err := r.db(ctx).QueryRow(ctx,
		`UPDATE activation_codes
		 SET is_used = TRUE, used_by_order_id = $2
		 WHERE id = (
		   SELECT id FROM activation_codes
		   WHERE product_id = $1 AND is_used = FALSE
		   LIMIT 1
		   FOR UPDATE SKIP LOCKED
		 ) AND is_used = FALSE
		 RETURNING id, product_id, code, is_used, used_by_order_id, created_at`,
		productID, orderID,
	).Scan(&c.ID, &c.ProductID, &c.Code, &c.IsUsed, &c.UsedByOrderID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOutOfStock
		}
		return nil, fmt.Errorf("claim activation code: %w", err)
	}
	return c, nil
}

// CountUnused reports remaining codes for a product.
func (r *CodeRepository) CountUnused(ctx context.Context, productID uuid.UUID) (int, error) {
	var n int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM activation_codes WHERE product_id = $1 AND is_used = FALSE`,
		productID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unused codes: %w", err)
	}
	return n, nil
}

// AddCodes bulk-inserts unused codes for a product.
func (r *CodeRepository) AddCodes(ctx context.Context, productID uuid.UUID, codes []string) (int, error) {
	inserted := 0
	for _, code := range codes {
		_, err := r.db(ctx).Exec(ctx,
			`INSERT INTO activation_codes (id, product_id, code, is_used, created_at)
			 VALUES ($1, $2, $3, FALSE, NOW())`,
			uuid.New(), productID, code,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert activation code: %w", err)
		}
		inserted++
	}
	return inserted, nil
}
