// Package cache decorates repositories with a Redis read-through layer.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/haimle/botshop/internal/domain/product"
)

const (
	productKeyPrefix = "product:"
	activeListKey    = "products:active"
)

// ProductRepository wraps a product.Repository with a Redis read-through
// cache. The catalog changes rarely and is read on every storefront page and
// every fulfillment, so a short TTL takes most of that load off Postgres.
// Cache failures degrade to the inner repository, never to an error.
type ProductRepository struct {
	inner  product.Repository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewProductRepository creates a caching decorator around inner.
func NewProductRepository(inner product.Repository, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *ProductRepository {
	return &ProductRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if p, ok := r.getCached(ctx, productKeyPrefix+id.String()); ok {
		return p, nil
	}

	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.setCached(ctx, productKeyPrefix+id.String(), p)
	return p, nil
}

func (r *ProductRepository) GetActive(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	// Active lookups share the GetByID cache entry; the activity check stays
	// local so a deactivated product drops out after at most one TTL.
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return r.inner.GetActive(ctx, id)
	}
	return p, nil
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]*product.Product, error) {
	raw, err := r.client.Get(ctx, activeListKey).Bytes()
	if err == nil {
		var products []*product.Product
		if unmarshalErr := json.Unmarshal(raw, &products); unmarshalErr == nil {
			return products, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn().Err(err).Msg("product cache read failed")
	}

	products, err := r.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(products); err == nil {
		if err := r.client.Set(ctx, activeListKey, raw, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Msg("product cache write failed")
		}
	}
	return products, nil
}

func (r *ProductRepository) getCached(ctx context.Context, key string) (*product.Product, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Str("key", key).Msg("product cache read failed")
		}
		return nil, false
	}

	var p product.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (r *ProductRepository) setCached(ctx context.Context, key string, p *product.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("product cache write failed")
	}
}
