package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/product"
)

// ProductRepository implements product.Repository using PostgreSQL.
// The fulfillment core only reads products; catalog writes live elsewhere.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

const productColumns = `id, name, description, price, chatbot_link, code_mode,
	single_code, image_url, is_active, created_at, updated_at`

// GetByID retrieves a product by ID regardless of its active flag.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return r.scanProduct(r.db(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// GetActive retrieves a product available for purchase.
func (r *ProductRepository) GetActive(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return r.scanProduct(r.db(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active = TRUE`, id))
}

// ListActive lists products available on the storefront.
func (r *ProductRepository) ListActive(ctx context.Context) ([]*product.Product, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_active = TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) scanProduct(s scanner) (*product.Product, error) {
	p := &product.Product{}
	var (
		priceStr string
		mode     string
	)
	err := s.Scan(
		&p.ID, &p.Name, &p.Description, &priceStr, &p.ChatbotLink, &mode,
		&p.SingleCode, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	cents, err := numericStringToCents(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	p.PriceCents = cents
	p.CodeMode = product.CodeMode(mode)
	return p, nil
}
