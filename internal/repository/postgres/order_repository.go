package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/order"
)

// OrderRepository implements order.Repository using PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const orderColumns = `id, user_id, product_id, amount, status, chatbot_link,
	activation_code, sepay_transaction_id, created_at, updated_at`

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO orders
		 (id, user_id, product_id, amount, status, chatbot_link, activation_code,
		  sepay_transaction_id, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.UserID, o.ProductID, centsToNumericString(o.AmountCents), string(o.Status),
		o.ChatbotLink, o.ActivationCode, o.TransactionID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.scanOrder(r.db(ctx).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

// ListByUser lists a buyer's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

// List lists orders with optional filters.
func (r *OrderRepository) List(ctx context.Context, f order.ListFilter) ([]*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	argIdx := 1

	if f.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*f.Status))
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

// Transition conditionally moves an order between statuses in one statement.
// The WHERE guard on the current status is what makes duplicate webhook
// processing safe: a delivery that lost the race affects zero rows.
func (r *OrderRepository) Transition(ctx context.Context, id uuid.UUID, from, to order.Status, transactionID *string) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE orders
		 SET status = $3,
		     sepay_transaction_id = COALESCE($4, sepay_transaction_id),
		     updated_at = NOW()
		 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), transactionID,
	)
	if err != nil {
		return fmt.Errorf("transition order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing order from a lost status race.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domainErrors.NewDomainError(
			"order_status_conflict",
			fmt.Sprintf("order %s is not %s", id, from),
			domainErrors.ErrInvalidStateTransition,
		)
	}
	return nil
}

// SetFulfillment writes the assigned link and activation code onto the order.
func (r *OrderRepository) SetFulfillment(ctx context.Context, id uuid.UUID, link, code string) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE orders SET chatbot_link = $2, activation_code = $3, updated_at = NOW() WHERE id = $1`,
		id, link, code,
	)
	if err != nil {
		return fmt.Errorf("set fulfillment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) collectOrders(rows pgx.Rows) ([]*order.Order, error) {
	var orders []*order.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) scanOrder(s scanner) (*order.Order, error) {
	o := &order.Order{}
	var (
		amountStr string
		status    string
	)
	err := s.Scan(
		&o.ID, &o.UserID, &o.ProductID, &amountStr, &status,
		&o.ChatbotLink, &o.ActivationCode, &o.TransactionID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	cents, err := numericStringToCents(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	o.AmountCents = cents
	o.Status = order.Status(status)
	return o, nil
}
