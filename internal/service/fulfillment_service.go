package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/inventory"
	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/domain/paymentlog"
	"github.com/haimle/botshop/internal/domain/product"
	"github.com/haimle/botshop/internal/infrastructure/observability"
	"github.com/haimle/botshop/pkg/sepay"
)

// amountToleranceCents absorbs currency rounding between the processor's
// reported amount and the recorded order amount.
const amountToleranceCents = 1

// FulfillmentService reconciles payment webhooks against orders and assigns
// activation codes. It is the only writer of order status and code usage.
type FulfillmentService struct {
	orders    order.Repository
	products  product.Repository
	codes     inventory.Repository
	logs      paymentlog.Repository
	txManager TransactionManager
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// NewFulfillmentService creates a new FulfillmentService.
func NewFulfillmentService(
	orders order.Repository,
	products product.Repository,
	codes inventory.Repository,
	logs paymentlog.Repository,
	txManager TransactionManager,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		orders:    orders,
		products:  products,
		codes:     codes,
		logs:      logs,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
	}
}

// WebhookResult reports how a verified webhook delivery was handled.
type WebhookResult struct {
	// Outcome is one of "success", "payment_failed", "duplicate".
	Outcome string
	Order   *order.Order
}

// ProcessWebhook runs the reconciliation state machine for one verified
// webhook delivery. The caller has already checked the signature against the
// raw body; raw is kept for the audit trail.
//
// A nil error means the delivery was handled, including duplicates and
// processor-reported payment failures. An error is returned only for payload
// problems (malformed content, unknown order, amount mismatch) or for a code
// assignment failure after a confirmed payment, which is the one outcome that
// should make the processor retry.
func (s *FulfillmentService) ProcessWebhook(ctx context.Context, raw []byte, payload sepay.WebhookPayload) (*WebhookResult, error) {
	ref, ok := sepay.ExtractOrderID(payload.Content)
	if !ok {
		s.logger.Warn().Str("content", payload.Content).Msg("webhook content carries no order reference")
		return nil, domainErrors.ErrMalformedContent
	}
	orderID, err := uuid.Parse(ref)
	if err != nil {
		s.logger.Warn().Str("content", payload.Content).Msg("webhook order reference is not a valid id")
		return nil, domainErrors.ErrMalformedContent
	}

	// Idempotency gate: an existing log entry means this transaction's effects
	// are already final. The processor delivers at-least-once.
	existing, err := s.logs.GetByTransactionID(ctx, payload.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	if existing != nil {
		s.logger.Info().
			Str("transaction_id", payload.TransactionID).
			Msg("transaction already processed")
		return &WebhookResult{Outcome: "duplicate"}, nil
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// A settled order accepts no further webhooks, whatever the transaction
	// id. Without this guard a re-notification of a PAID order would claim a
	// pool code before the status guard rejects the transition.
	if o.IsTerminal() {
		s.logger.Info().
			Str("order_id", o.ID.String()).
			Str("transaction_id", payload.TransactionID).
			Str("order_status", string(o.Status)).
			Msg("webhook for settled order ignored")
		return &WebhookResult{Outcome: "duplicate"}, nil
	}

	reported := unitsToCents(payload.Amount)
	if delta := reported - o.AmountCents; delta > amountToleranceCents || delta < -amountToleranceCents {
		s.logger.Error().
			Str("order_id", o.ID.String()).
			Float64("reported", payload.Amount).
			Int64("expected_cents", o.AmountCents).
			Msg("webhook amount mismatch")

		// Logged for manual review; the order stays PENDING on purpose.
		entry := paymentlog.NewEntry(&o.ID, payload.TransactionID, raw, paymentlog.StatusAmountMismatch)
		if err := s.logs.Insert(ctx, entry); err != nil {
			return nil, fmt.Errorf("log amount mismatch: %w", err)
		}
		return nil, domainErrors.ErrAmountMismatch
	}

	if !sepay.IsSuccessful(payload.Status) {
		return s.recordPaymentFailure(ctx, o, raw, payload.TransactionID)
	}
	return s.fulfill(ctx, o, raw, payload.TransactionID)
}

// recordPaymentFailure handles a processor-reported failure. The webhook
// itself was handled correctly, so the caller gets a nil error.
func (s *FulfillmentService) recordPaymentFailure(ctx context.Context, o *order.Order, raw []byte, transactionID string) (*WebhookResult, error) {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orders.Transition(txCtx, o.ID, order.StatusPending, order.StatusFailed, nil); err != nil {
			return err
		}
		return s.logs.Insert(txCtx, paymentlog.NewEntry(&o.ID, transactionID, raw, paymentlog.StatusPaymentFailed))
	})
	if err != nil {
		return nil, err
	}

	o.Status = order.StatusFailed
	s.logger.Info().
		Str("order_id", o.ID.String()).
		Str("transaction_id", transactionID).
		Msg("processor reported payment failure")
	return &WebhookResult{Outcome: "payment_failed", Order: o}, nil
}

// fulfill claims an activation code and flips the order to PAID. The claim
// runs outside the order transaction: if the order update fails afterwards,
// the code stays consumed. That leak is accepted and audited via the
// CODE_ASSIGNMENT_FAILED entry rather than compensated, because a release
// would race against concurrent claims on the same pool.
func (s *FulfillmentService) fulfill(ctx context.Context, o *order.Order, raw []byte, transactionID string) (*WebhookResult, error) {
	link, code, assignErr := s.assignCode(ctx, o.ID, o.ProductID)
	if assignErr == nil {
		assignErr = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.orders.Transition(txCtx, o.ID, order.StatusPending, order.StatusPaid, &transactionID); err != nil {
				return err
			}
			if err := s.orders.SetFulfillment(txCtx, o.ID, link, code); err != nil {
				return err
			}
			return s.logs.Insert(txCtx, paymentlog.NewEntry(&o.ID, transactionID, raw, paymentlog.StatusSuccess))
		})
	}

	if assignErr != nil {
		s.logger.Error().Err(assignErr).
			Str("order_id", o.ID.String()).
			Str("transaction_id", transactionID).
			Msg("code assignment failed after confirmed payment")

		failErr := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.orders.Transition(txCtx, o.ID, order.StatusPending, order.StatusFailed, nil); err != nil {
				return err
			}
			return s.logs.Insert(txCtx, paymentlog.NewEntry(&o.ID, transactionID, raw, paymentlog.StatusCodeAssignmentFailed))
		})
		if failErr != nil {
			s.logger.Error().Err(failErr).Str("order_id", o.ID.String()).Msg("failed to record fulfillment failure")
		}
		return nil, domainErrors.NewDomainError("code_assignment_failed", "could not fulfill paid order", domainErrors.ErrCodeAssignment)
	}

	o.Status = order.StatusPaid
	o.TransactionID = &transactionID
	o.Fulfill(link, code)
	s.logger.Info().
		Str("order_id", o.ID.String()).
		Str("transaction_id", transactionID).
		Msg("payment processed, order fulfilled")
	return &WebhookResult{Outcome: "success", Order: o}, nil
}

// assignCode resolves the access link and activation code for a paid order.
// SINGLE mode reuses the product's fixed code; MULTIPLE mode claims one code
// from the pool with an atomic conditional write.
func (s *FulfillmentService) assignCode(ctx context.Context, orderID, productID uuid.UUID) (link, code string, err error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", "", err
	}

	if p.CodeMode == product.CodeModeSingle {
		shared, ok := p.SharedCode()
		if !ok {
			return "", "", domainErrors.NewDomainError(
				"product_misconfigured",
				"SINGLE-mode product has no shared code",
				domainErrors.ErrProductMisconfigured,
			)
		}
		s.metrics.CodesAssignedTotal.WithLabelValues(string(product.CodeModeSingle)).Inc()
		return p.ChatbotLink, shared, nil
	}

	claimed, err := s.codes.Claim(ctx, productID, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrOutOfStock) {
			s.metrics.CodePoolExhausted.Inc()
		}
		return "", "", err
	}
	s.metrics.CodesAssignedTotal.WithLabelValues(string(product.CodeModeMultiple)).Inc()
	return p.ChatbotLink, claimed.Code, nil
}

// centsToUnits converts an int64 cents amount to currency units.
func centsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

// unitsToCents converts a currency-unit amount to cents, rounding half away
// from zero.
func unitsToCents(units float64) int64 {
	return int64(math.Round(units * 100))
}
