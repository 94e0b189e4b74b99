package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/paymentlog"
)

// PaymentLogRepository implements paymentlog.Repository using PostgreSQL.
// The table carries a unique index on transaction_id; inserting inside the
// same transaction as the order mutation is what makes webhook processing
// exactly-once under at-least-once delivery.
type PaymentLogRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentLogRepository creates a new PaymentLogRepository.
func NewPaymentLogRepository(pool *pgxpool.Pool) *PaymentLogRepository {
	return &PaymentLogRepository{pool: pool}
}

func (r *PaymentLogRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Insert appends an entry.
func (r *PaymentLogRepository) Insert(ctx context.Context, e *paymentlog.Entry) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO payment_logs (id, order_id, transaction_id, payload, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.OrderID, e.TransactionID, e.Payload, string(e.Status), e.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrDuplicateTransaction
		}
		return fmt.Errorf("insert payment log: %w", err)
	}
	return nil
}

// GetByTransactionID retrieves the entry for a transaction id, or (nil, nil).
func (r *PaymentLogRepository) GetByTransactionID(ctx context.Context, transactionID string) (*paymentlog.Entry, error) {
	e, err := r.scanEntry(r.db(ctx).QueryRow(ctx,
		`SELECT id, order_id, transaction_id, payload, status, created_at
		 FROM payment_logs WHERE transaction_id = $1`, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// ListByOrder retrieves all entries for an order, oldest first.
func (r *PaymentLogRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*paymentlog.Entry, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, order_id, transaction_id, payload, status, created_at
		 FROM payment_logs WHERE order_id = $1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payment logs: %w", err)
	}
	defer rows.Close()

	var entries []*paymentlog.Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PaymentLogRepository) scanEntry(s scanner) (*paymentlog.Entry, error) {
	e := &paymentlog.Entry{}
	var status string
	err := s.Scan(&e.ID, &e.OrderID, &e.TransactionID, &e.Payload, &status, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan payment log: %w", err)
	}
	e.Status = paymentlog.Status(status)
	return e, nil
}
